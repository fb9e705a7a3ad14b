package graph

import "testing"

// buildChain asserts a -knows-> b -knows-> c over blank nodes named by labels.
func buildChain(t *testing.T, labels [3]string, closed bool) *Graph {
	t.Helper()
	g := New()
	knows := mustURI(t, g, FOAFNamespace+"knows")
	name := mustURI(t, g, FOAFNamespace+"name")
	var nodes [3]BlankNode
	for i, label := range labels {
		nodes[i] = g.CreateNamedBlankNode(label)
		mustAssert(t, g, NewTriple(nodes[i], name, g.CreateLiteralNode("person")))
	}
	mustAssert(t, g, NewTriple(nodes[0], knows, nodes[1]))
	mustAssert(t, g, NewTriple(nodes[1], knows, nodes[2]))
	if closed {
		mustAssert(t, g, NewTriple(nodes[2], knows, nodes[0]))
	}
	return g
}

func TestEqualIsomorphicBlankLabels(t *testing.T) {
	a := buildChain(t, [3]string{"a", "b", "c"}, false)
	b := buildChain(t, [3]string{"z", "y", "x"}, false)
	if !a.Equal(b) || !b.Equal(a) {
		t.Fatalf("expected graphs differing only in blank labels to be equal")
	}
	if !a.Equal(a) {
		t.Fatalf("expected a graph to equal itself")
	}
}

func TestEqualDetectsStructure(t *testing.T) {
	open := buildChain(t, [3]string{"a", "b", "c"}, false)
	closed := buildChain(t, [3]string{"a", "b", "c"}, true)
	if open.Equal(closed) {
		t.Fatalf("expected graphs of different size to differ")
	}

	// Same size, same colour histogram at the start, different shape.
	g1, g2 := New(), New()
	p1 := mustURI(t, g1, "http://example.org/p")
	p2 := mustURI(t, g2, "http://example.org/p")
	x1, y1, z1 := g1.CreateBlankNode(), g1.CreateBlankNode(), g1.CreateBlankNode()
	mustAssert(t, g1, NewTriple(x1, p1, y1))
	mustAssert(t, g1, NewTriple(y1, p1, z1))
	x2, y2, z2 := g2.CreateBlankNode(), g2.CreateBlankNode(), g2.CreateBlankNode()
	mustAssert(t, g2, NewTriple(x2, p2, y2))
	mustAssert(t, g2, NewTriple(x2, p2, z2))
	if g1.Equal(g2) {
		t.Fatalf("expected a path and a fan-out to differ")
	}
}

func TestEqualGroundTriples(t *testing.T) {
	a, b := New(), New()
	for _, g := range []*Graph{a, b} {
		s := mustURI(t, g, "http://example.org/s")
		p := mustURI(t, g, "http://example.org/p")
		mustAssert(t, g, NewTriple(s, p, g.CreateLangLiteralNode("hi", "en")))
	}
	if !a.Equal(b) {
		t.Fatalf("expected equal ground graphs")
	}
	s := mustURI(t, b, "http://example.org/s")
	p := mustURI(t, b, "http://example.org/p")
	mustAssert(t, b, NewTriple(s, p, b.CreateLiteralNode("hi")))
	mustAssert(t, a, NewTriple(mustURI(t, a, "http://example.org/s"), mustURI(t, a, "http://example.org/p"), a.CreateLiteralNode("bye")))
	if a.Equal(b) {
		t.Fatalf("expected graphs with different literals to differ")
	}
	if a.Equal(nil) {
		t.Fatalf("expected a graph never to equal nil")
	}
}

func TestEqualSymmetricCycles(t *testing.T) {
	// Two 2-cycles against one 4-cycle: refinement alone cannot tell them
	// apart, the matcher must.
	build := func(edges [][2]int) *Graph {
		g := New()
		p := mustURI(t, g, "http://example.org/p")
		nodes := make([]BlankNode, 4)
		for i := range nodes {
			nodes[i] = g.CreateBlankNode()
		}
		for _, e := range edges {
			mustAssert(t, g, NewTriple(nodes[e[0]], p, nodes[e[1]]))
		}
		return g
	}
	twoCycles := build([][2]int{{0, 1}, {1, 0}, {2, 3}, {3, 2}})
	fourCycle := build([][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}})
	otherTwoCycles := build([][2]int{{0, 2}, {2, 0}, {1, 3}, {3, 1}})
	if twoCycles.Equal(fourCycle) {
		t.Fatalf("expected two 2-cycles and one 4-cycle to differ")
	}
	if !twoCycles.Equal(otherTwoCycles) {
		t.Fatalf("expected relabelled 2-cycles to be equal")
	}
}

func TestMergeIntoEmptyIsEqual(t *testing.T) {
	src := buildChain(t, [3]string{"a", "b", "c"}, true)
	dst := New()
	if _, err := dst.Merge(src, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dst.Equal(src) {
		t.Fatalf("expected a merged copy to be isomorphic to its source")
	}
}
