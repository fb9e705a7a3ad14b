package graph

import (
	"fmt"
	"testing"
)

func TestIndexInsertRemove(t *testing.T) {
	ix := newIndex()
	k := tripleKey{1, 2, 3}
	if !ix.insert(k) || ix.insert(k) {
		t.Fatalf("expected set semantics on insert")
	}
	if ix.len() != 1 {
		t.Fatalf("expected 1 triple, got %d", ix.len())
	}
	if ix.remove(tripleKey{1, 2, 4}) {
		t.Fatalf("expected remove of absent triple to report false")
	}
	if !ix.remove(k) || ix.remove(k) {
		t.Fatalf("expected remove to succeed once")
	}
	if len(ix.bySubject) != 0 || len(ix.bySubjectPredicate) != 0 || len(ix.bySubjectObject) != 0 {
		t.Fatalf("expected empty secondary indexes after removal")
	}
}

func TestIndexMatchShapes(t *testing.T) {
	ix := newIndex()
	keys := []tripleKey{
		{1, 10, 100},
		{1, 10, 101},
		{1, 11, 100},
		{2, 10, 100},
		{2, 11, 102},
	}
	for _, k := range keys {
		ix.insert(k)
	}
	tests := []struct {
		pattern tripleKey
		want    int
	}{
		{tripleKey{}, 5},
		{tripleKey{s: 1}, 3},
		{tripleKey{p: 10}, 3},
		{tripleKey{o: 100}, 3},
		{tripleKey{s: 1, p: 10}, 2},
		{tripleKey{p: 10, o: 100}, 2},
		{tripleKey{s: 2, o: 102}, 1},
		{tripleKey{1, 10, 100}, 1},
		{tripleKey{1, 10, 102}, 0},
		{tripleKey{s: 3}, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.pattern), func(t *testing.T) {
			got := 0
			for k := range ix.match(tt.pattern) {
				if (tt.pattern.s != 0 && k.s != tt.pattern.s) ||
					(tt.pattern.p != 0 && k.p != tt.pattern.p) ||
					(tt.pattern.o != 0 && k.o != tt.pattern.o) {
					t.Fatalf("match %v yielded non-matching %v", tt.pattern, k)
				}
				got++
			}
			if got != tt.want {
				t.Fatalf("match %v: got %d, want %d", tt.pattern, got, tt.want)
			}
			if c := ix.count(tt.pattern); c != tt.want {
				t.Fatalf("count %v: got %d, want %d", tt.pattern, c, tt.want)
			}
		})
	}
}

func TestIndexMatchStopsEarly(t *testing.T) {
	ix := newIndex()
	for i := NodeID(1); i <= 10; i++ {
		ix.insert(tripleKey{i, 1, 1})
	}
	n := 0
	for range ix.match(tripleKey{p: 1}) {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Fatalf("expected early stop after 3, got %d", n)
	}
}

func TestGraphRoundTrip(t *testing.T) {
	g := New()
	p := mustURI(t, g, "http://example.org/p")
	q := mustURI(t, g, "http://example.org/q")
	for i := 0; i < 5; i++ {
		s := mustURI(t, g, fmt.Sprintf("http://example.org/s%d", i))
		mustAssert(t, g, NewTriple(s, p, g.CreateLiteralNode(fmt.Sprint(i))))
		mustAssert(t, g, NewTriple(s, q, g.CreateBlankNode()))
	}

	all := map[Triple]bool{}
	for tr := range g.Triples() {
		all[tr] = true
	}
	if len(all) != g.Len() {
		t.Fatalf("Triples yielded %d, Len is %d", len(all), g.Len())
	}
	wild := collectTriples(g.Match(Node{}, Node{}, Node{}))
	if len(wild) != len(all) {
		t.Fatalf("wildcard match yielded %d, want %d", len(wild), len(all))
	}
	for tr := range all {
		found := false
		for m := range g.Match(tr.Subject(), tr.Predicate().Node, Node{}) {
			if m == tr {
				found = true
			}
		}
		if !found {
			t.Fatalf("subject+predicate query missed %s", tr)
		}
	}
}

func TestGraphSelectionHelpers(t *testing.T) {
	g := New()
	g.Namespaces().AddNamespace("ex", "http://example.org/")
	g.Namespaces().AddNamespace("rdf", RDFNamespace)
	mk := func(q string) URINode {
		n, err := g.CreateQNameNode(q)
		if err != nil {
			t.Fatalf("CreateQNameNode(%q): %v", q, err)
		}
		return n
	}
	alice, bob, sel := mk("ex:alice"), mk("ex:bob"), mk("ex:select")
	rdfType, person, knows := mk("rdf:type"), mk("ex:Person"), mk("ex:knows")
	mustAssert(t, g, NewTriple(alice, rdfType, person))
	mustAssert(t, g, NewTriple(bob, rdfType, person))
	mustAssert(t, g, NewTriple(alice, knows, bob))
	mustAssert(t, g, NewTriple(sel, knows, alice))

	if n := len(collectTriples(g.TriplesWithPredicateObject(rdfType.Node, person.Node))); n != 2 {
		t.Fatalf("expected 2 persons, got %d", n)
	}
	if n := len(collectTriples(g.TriplesWithSubject(alice.Node))); n != 2 {
		t.Fatalf("expected 2 triples about alice, got %d", n)
	}
	if n := len(collectTriples(g.TriplesWithObject(person.Node))); n != 2 {
		t.Fatalf("expected 2 triples with object Person, got %d", n)
	}
	if n := len(collectTriples(g.TriplesWithPredicate(knows.Node))); n != 2 {
		t.Fatalf("expected 2 knows triples, got %d", n)
	}
	if n := len(collectTriples(g.TriplesWithSubjectPredicate(alice.Node, knows.Node))); n != 1 {
		t.Fatalf("expected 1 triple, got %d", n)
	}
	if n := len(collectTriples(g.TriplesInvolving(alice.Node))); n != 3 {
		t.Fatalf("expected 3 triples involving alice, got %d", n)
	}
	if n := len(collectTriples(g.TriplesWithSubject(Node{}))); n != 0 {
		t.Fatalf("a zero required node must match nothing, got %d", n)
	}
	if n := g.Count(Node{}, rdfType.Node, Node{}); n != 2 {
		t.Fatalf("expected count 2, got %d", n)
	}

	uris := 0
	for range g.URINodes() {
		uris++
	}
	if uris != 6 {
		t.Fatalf("expected 6 URI nodes in use, got %d", uris)
	}
}

func TestMatchForeignNodeYieldsNothing(t *testing.T) {
	a, b := New(), New()
	s := mustURI(t, a, "http://example.org/s")
	p := mustURI(t, a, "http://example.org/p")
	mustAssert(t, a, NewTriple(s, p, a.CreateLiteralNode("o")))
	foreign := mustURI(t, b, "http://example.org/s")
	if n := len(collectTriples(a.Match(foreign.Node, Node{}, Node{}))); n != 0 {
		t.Fatalf("expected no matches for a foreign node, got %d", n)
	}
}

func TestMutationWhileRanging(t *testing.T) {
	g := New()
	p := mustURI(t, g, "http://example.org/p")
	for i := 0; i < 10; i++ {
		mustAssert(t, g, NewTriple(g.CreateBlankNode(), p, g.CreateLiteralNode(fmt.Sprint(i))))
	}
	for tr := range g.TriplesWithPredicate(p.Node) {
		if _, err := g.Retract(tr); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if !g.IsEmpty() {
		t.Fatalf("expected every triple to be retracted, %d left", g.Len())
	}
}

func BenchmarkMatchSubjectPredicate(b *testing.B) {
	g := New()
	p, _ := g.CreateURINode("http://example.org/p")
	var subjects []URINode
	for i := 0; i < 1000; i++ {
		s, _ := g.CreateURINode(fmt.Sprintf("http://example.org/s%d", i))
		subjects = append(subjects, s)
		for j := 0; j < 10; j++ {
			g.Assert(NewTriple(s, p, g.CreateLiteralNode(fmt.Sprint(j))))
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for range g.Match(subjects[i%len(subjects)].Node, p.Node, Node{}) {
		}
	}
}
