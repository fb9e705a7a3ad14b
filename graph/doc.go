// Package graph provides an in-memory RDF graph with interned nodes and
// indexed pattern lookup.
//
// A Graph owns every node it hands out. Nodes are small identity handles into
// a per-graph arena, so equality is a comparison of (graph, id) and never a
// comparison of values. Two blank nodes from different graphs are never equal,
// even when they carry the same label.
//
// Nodes are created through the Graph:
//
//	g := graph.New(graph.WithBaseURI("http://example.org/"))
//	g.Namespaces().AddNamespace("ex", "http://example.org/namespace/")
//
//	s, _ := g.CreateURINode("http://www.dotnetrdf.org")
//	p, _ := g.CreateQNameNode("ex:says")
//	o := g.CreateLiteralNode("Hello World")
//
//	if _, err := g.Assert(graph.NewTriple(s, p, o)); err != nil {
//	    // handle error
//	}
//
// The Create* methods intern: asking twice for the same value returns the same
// node. The Get* methods only look up and never add a node to the graph.
//
// Pattern queries take a zero Node as a wildcard:
//
//	for t := range g.Match(s.Node, p.Node, graph.Node{}) {
//	    fmt.Println(t)
//	}
//
// Triple positions are typed: NewTriple accepts a Subject (URINode or
// BlankNode), a URINode predicate and any Object, so a literal can never be
// used as a subject or predicate.
//
// A Graph is safe for concurrent use. Queries copy their matches under a read
// lock before yielding them, so the caller may assert or retract while ranging
// over a result.
package graph
