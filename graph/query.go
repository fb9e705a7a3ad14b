package graph

import (
	"iter"
	"slices"
)

// pattern converts query nodes into an index pattern. It reports false when a
// bound node belongs to another graph, in which case nothing can match.
func (g *Graph) pattern(s, p, o Node) (tripleKey, bool) {
	for _, n := range [3]Node{s, p, o} {
		if !n.IsZero() && n.g != g {
			return tripleKey{}, false
		}
	}
	return tripleKey{s.id, p.id, o.id}, true
}

// collect copies the triples matching pattern while holding the read lock.
func (g *Graph) collect(pattern tripleKey) []Triple {
	g.mu.RLock()
	defer g.mu.RUnlock()
	g.nodesMu.RLock()
	defer g.nodesMu.RUnlock()
	out := make([]Triple, 0, g.index.count(pattern))
	for k := range g.index.match(pattern) {
		out = append(out, g.tripleFromKey(k))
	}
	return out
}

// tripleFromKey rebuilds a triple. The caller holds nodesMu.
func (g *Graph) tripleFromKey(k tripleKey) Triple {
	return Triple{
		s: g.node(k.s, g.nodes.kind(k.s)),
		p: g.node(k.p, NodeURI),
		o: g.node(k.o, g.nodes.kind(k.o)),
	}
}

// Match yields the triples matching the pattern (s, p, o). A zero Node in a
// position matches anything. The order is unspecified.
//
// Matches are copied before the first one is yielded, so the graph may be
// changed while ranging over the result.
func (g *Graph) Match(s, p, o Node) iter.Seq[Triple] {
	pattern, ok := g.pattern(s, p, o)
	if !ok {
		return func(func(Triple) bool) {}
	}
	return slices.Values(g.collect(pattern))
}

// Count returns the number of triples matching the pattern (s, p, o).
func (g *Graph) Count(s, p, o Node) int {
	pattern, ok := g.pattern(s, p, o)
	if !ok {
		return 0
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.index.count(pattern)
}

// Triples yields every triple in the graph, in no particular order.
func (g *Graph) Triples() iter.Seq[Triple] {
	return slices.Values(g.collect(tripleKey{}))
}

// TriplesWithSubject yields the triples whose subject is s.
func (g *Graph) TriplesWithSubject(s Node) iter.Seq[Triple] {
	return g.matchBound(s, Node{}, Node{}, s)
}

// TriplesWithPredicate yields the triples whose predicate is p.
func (g *Graph) TriplesWithPredicate(p Node) iter.Seq[Triple] {
	return g.matchBound(Node{}, p, Node{}, p)
}

// TriplesWithObject yields the triples whose object is o.
func (g *Graph) TriplesWithObject(o Node) iter.Seq[Triple] {
	return g.matchBound(Node{}, Node{}, o, o)
}

// TriplesWithSubjectPredicate yields the triples with subject s and
// predicate p.
func (g *Graph) TriplesWithSubjectPredicate(s, p Node) iter.Seq[Triple] {
	return g.matchBound(s, p, Node{}, s, p)
}

// TriplesWithPredicateObject yields the triples with predicate p and object o.
func (g *Graph) TriplesWithPredicateObject(p, o Node) iter.Seq[Triple] {
	return g.matchBound(Node{}, p, o, p, o)
}

// matchBound is Match for helpers whose required nodes must not widen to
// wildcards: a zero required node matches nothing.
func (g *Graph) matchBound(s, p, o Node, required ...Node) iter.Seq[Triple] {
	for _, n := range required {
		if n.IsZero() {
			return func(func(Triple) bool) {}
		}
	}
	return g.Match(s, p, o)
}

// TriplesInvolving yields the triples in which n appears in any position.
// Each triple is yielded once.
func (g *Graph) TriplesInvolving(n Node) iter.Seq[Triple] {
	if n.IsZero() || n.g != g {
		return func(func(Triple) bool) {}
	}
	g.mu.RLock()
	g.nodesMu.RLock()
	seen := make(map[tripleKey]struct{})
	var out []Triple
	for _, pattern := range [3]tripleKey{{s: n.id}, {p: n.id}, {o: n.id}} {
		for k := range g.index.match(pattern) {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, g.tripleFromKey(k))
		}
	}
	g.nodesMu.RUnlock()
	g.mu.RUnlock()
	return slices.Values(out)
}

// Nodes yields every node used by at least one triple.
func (g *Graph) Nodes() iter.Seq[Node] {
	return slices.Values(g.usedNodes(0))
}

// URINodes yields every URI node used by at least one triple.
func (g *Graph) URINodes() iter.Seq[URINode] {
	return func(yield func(URINode) bool) {
		for _, n := range g.usedNodes(NodeURI) {
			if !yield(URINode{n}) {
				return
			}
		}
	}
}

// BlankNodes yields every blank node used by at least one triple.
func (g *Graph) BlankNodes() iter.Seq[BlankNode] {
	return func(yield func(BlankNode) bool) {
		for _, n := range g.usedNodes(NodeBlank) {
			if !yield(BlankNode{n}) {
				return
			}
		}
	}
}

// LiteralNodes yields every literal node used by at least one triple.
func (g *Graph) LiteralNodes() iter.Seq[LiteralNode] {
	return func(yield func(LiteralNode) bool) {
		for _, n := range g.usedNodes(NodeLiteral) {
			if !yield(LiteralNode{n}) {
				return
			}
		}
	}
}

// usedNodes collects the nodes referenced by triples, filtered by kind unless
// kind is zero.
func (g *Graph) usedNodes(kind NodeKind) []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	g.nodesMu.RLock()
	defer g.nodesMu.RUnlock()
	var out []Node
	for id := range g.index.nodes() {
		k := g.nodes.kind(id)
		if kind != 0 && k != kind {
			continue
		}
		out = append(out, g.node(id, k))
	}
	return out
}
