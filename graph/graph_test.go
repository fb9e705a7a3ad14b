package graph

import (
	"errors"
	"sync"
	"testing"
)

func mustURI(t *testing.T, g *Graph, uri string) URINode {
	t.Helper()
	n, err := g.CreateURINode(uri)
	if err != nil {
		t.Fatalf("CreateURINode(%q): %v", uri, err)
	}
	return n
}

func mustAssert(t *testing.T, g *Graph, tr Triple) {
	t.Helper()
	if _, err := g.Assert(tr); err != nil {
		t.Fatalf("Assert(%s): %v", tr, err)
	}
}

func collectTriples(seq func(func(Triple) bool)) []Triple {
	var out []Triple
	for tr := range seq {
		out = append(out, tr)
	}
	return out
}

func TestInterningIsIdempotent(t *testing.T) {
	g := New()
	g.Namespaces().AddNamespace("ex", "http://example.org/")

	u1 := mustURI(t, g, "http://example.org/a")
	u2 := mustURI(t, g, "http://example.org/a")
	if u1 != u2 {
		t.Fatalf("expected same node for equal URIs")
	}
	q, err := g.CreateQNameNode("ex:a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != u1 {
		t.Fatalf("expected prefixed name to intern to the same node")
	}
	if u3 := mustURI(t, g, "http://example.org/b"); u3 == u1 {
		t.Fatalf("expected distinct nodes for distinct URIs")
	}

	l1 := g.CreateLangLiteralNode("hello", "en")
	l2 := g.CreateLangLiteralNode("hello", "EN")
	if l1 != l2 {
		t.Fatalf("expected language tags to compare case-insensitively")
	}
	if l1.Lang() != "en" {
		t.Fatalf("unexpected lang: %s", l1.Lang())
	}

	b1 := g.CreateNamedBlankNode("x")
	b2 := g.CreateNamedBlankNode("x")
	if b1 != b2 {
		t.Fatalf("expected named blank node reuse")
	}
	if a1, a2 := g.CreateBlankNode(), g.CreateBlankNode(); a1 == a2 {
		t.Fatalf("expected anonymous blank nodes to be distinct")
	}
}

func TestLiteralDistinctness(t *testing.T) {
	g := New()
	plain := g.CreateLiteralNode("x")
	lang := g.CreateLangLiteralNode("x", "en")
	typed, err := g.CreateTypedLiteralNode("x", XSDString)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plain == lang || plain == typed || lang == typed {
		t.Fatalf("expected pairwise distinct literals")
	}
	if plain.Datatype() != "" || typed.Datatype() != XSDString {
		t.Fatalf("unexpected datatypes: %q %q", plain.Datatype(), typed.Datatype())
	}
}

func TestInvalidLiteralShape(t *testing.T) {
	g := New()
	_, err := g.CreateLiteral("x", "en", XSDString)
	if !errors.Is(err, ErrInvalidLiteralShape) {
		t.Fatalf("expected ErrInvalidLiteralShape, got %v", err)
	}
	if Code(err) != ErrCodeInvalidLiteralShape {
		t.Fatalf("unexpected code: %s", Code(err))
	}
	if g.NodeCount() != 0 {
		t.Fatalf("failed request must not intern, got %d nodes", g.NodeCount())
	}
}

func TestUnknownPrefix(t *testing.T) {
	g := New()
	_, err := g.CreateQNameNode("zz:demo")
	if !errors.Is(err, ErrUnknownPrefix) {
		t.Fatalf("expected ErrUnknownPrefix, got %v", err)
	}
	var perr *PrefixError
	if !errors.As(err, &perr) || perr.Prefix != "zz" {
		t.Fatalf("expected PrefixError for zz, got %v", err)
	}
}

func TestRelativeURIs(t *testing.T) {
	g := New()
	if _, err := g.CreateURINode("relative/path"); !errors.Is(err, ErrInvalidURI) {
		t.Fatalf("expected ErrInvalidURI without base, got %v", err)
	}
	if _, err := g.CreateBaseURINode(); !errors.Is(err, ErrNoBaseURI) {
		t.Fatalf("expected ErrNoBaseURI, got %v", err)
	}
	if err := g.SetBaseURI("http://example.org/base/"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := mustURI(t, g, "relative/path")
	if n.URI() != "http://example.org/base/relative/path" {
		t.Fatalf("unexpected resolved URI: %s", n.URI())
	}
	base, err := g.CreateBaseURINode()
	if err != nil || base.URI() != "http://example.org/base/" {
		t.Fatalf("unexpected base node %v: %v", base, err)
	}
	if err := g.SetBaseURI("not absolute"); !errors.Is(err, ErrInvalidURI) {
		t.Fatalf("expected ErrInvalidURI for relative base, got %v", err)
	}
}

func TestInvalidURIs(t *testing.T) {
	g := New()
	for _, uri := range []string{"", "http://example.org/a b", "http://example.org/<x>"} {
		if _, err := g.CreateURINode(uri); !errors.Is(err, ErrInvalidURI) {
			t.Errorf("CreateURINode(%q): expected ErrInvalidURI, got %v", uri, err)
		}
	}
}

func TestLookupDoesNotIntern(t *testing.T) {
	g := New()
	g.Namespaces().AddNamespace("ex", "http://example.org/")
	mustURI(t, g, "http://example.org/value")
	g.CreateNamedBlankNode("myNodeID")
	g.CreateLangLiteralNode("Some Text", "en")
	before := g.NodeCount()

	if _, ok := g.GetQNameNode("ex:value"); !ok {
		t.Fatalf("expected ex:value to exist")
	}
	if _, ok := g.GetQNameNode("ex:value2"); ok {
		t.Fatalf("expected ex:value2 to be absent")
	}
	if _, ok := g.GetQNameNode("zz:value"); ok {
		t.Fatalf("expected unknown prefix to report absent")
	}
	if _, ok := g.GetBlankNode("myNodeID"); !ok {
		t.Fatalf("expected blank node to exist")
	}
	if _, ok := g.GetBlankNode("other"); ok {
		t.Fatalf("expected blank node to be absent")
	}
	if _, ok := g.GetLangLiteralNode("Some Text", "en"); !ok {
		t.Fatalf("expected literal to exist")
	}
	if _, ok := g.GetLiteralNode("Some Text"); ok {
		t.Fatalf("expected plain literal to be absent")
	}
	if _, ok := g.GetTypedLiteralNode("1", XSDInteger); ok {
		t.Fatalf("expected typed literal to be absent")
	}
	if g.NodeCount() != before {
		t.Fatalf("lookups interned nodes: %d -> %d", before, g.NodeCount())
	}
}

func TestBlankNodeScoping(t *testing.T) {
	a, b := New(), New()
	ba := a.CreateNamedBlankNode("x")
	bb := b.CreateNamedBlankNode("x")
	if ba.Node == bb.Node {
		t.Fatalf("blank nodes from different graphs must differ")
	}
	if ba.Label() != bb.Label() {
		t.Fatalf("expected same labels, got %s and %s", ba.Label(), bb.Label())
	}
	if ua, ub := mustURI(t, a, "http://example.org/s"), mustURI(t, b, "http://example.org/s"); ua == ub {
		t.Fatalf("node identities are graph-local")
	}
}

func TestSetSemantics(t *testing.T) {
	g := New()
	s := mustURI(t, g, "http://example.org/s")
	p := mustURI(t, g, "http://example.org/p")
	o := g.CreateLiteralNode("o")
	tr := NewTriple(s, p, o)

	if !g.IsEmpty() {
		t.Fatalf("expected new graph to be empty")
	}
	added, err := g.Assert(tr)
	if err != nil || !added {
		t.Fatalf("expected first assert to add: %v", err)
	}
	added, err = g.Assert(tr)
	if err != nil || added {
		t.Fatalf("expected second assert to be a no-op: %v", err)
	}
	if g.Len() != 1 {
		t.Fatalf("expected 1 triple, got %d", g.Len())
	}
	other := NewTriple(s, p, g.CreateLiteralNode("other"))
	removed, err := g.Retract(other)
	if err != nil || removed {
		t.Fatalf("expected retracting absent triple to be a no-op: %v", err)
	}
	if g.Len() != 1 {
		t.Fatalf("expected 1 triple, got %d", g.Len())
	}
	removed, err = g.Retract(tr)
	if err != nil || !removed {
		t.Fatalf("expected retract to remove: %v", err)
	}
	if !g.IsEmpty() || g.Contains(tr) {
		t.Fatalf("expected empty graph")
	}
	if _, ok := g.GetLiteralNode("o"); !ok {
		t.Fatalf("interned nodes outlive their triples")
	}
}

func TestAssertRejectsForeignAndZero(t *testing.T) {
	a, b := New(), New()
	s := mustURI(t, a, "http://example.org/s")
	p := mustURI(t, b, "http://example.org/p")
	o := a.CreateLiteralNode("o")

	if _, err := a.Assert(NewTriple(s, p, o)); !errors.Is(err, ErrForeignNode) {
		t.Fatalf("expected ErrForeignNode, got %v", err)
	}
	if _, err := a.Assert(Triple{}); !errors.Is(err, ErrInvalidTriple) {
		t.Fatalf("expected ErrInvalidTriple, got %v", err)
	}
	pa := mustURI(t, a, "http://example.org/p")
	good := NewTriple(s, pa, o)
	bad := NewTriple(s, p, o)
	if n, err := a.AssertAll(good, bad); err == nil || n != 0 {
		t.Fatalf("expected AssertAll to fail without adding, got %d, %v", n, err)
	}
	if !a.IsEmpty() {
		t.Fatalf("failed AssertAll must not mutate the graph")
	}
}

func TestTripleOfPositions(t *testing.T) {
	g := New()
	lit := g.CreateLiteralNode("x")
	uri := mustURI(t, g, "http://example.org/u")
	blank := g.CreateBlankNode()

	cases := []struct {
		name    string
		s, p, o Node
		wantErr bool
	}{
		{"uri subject", uri.Node, uri.Node, lit.Node, false},
		{"blank subject", blank.Node, uri.Node, blank.Node, false},
		{"literal subject", lit.Node, uri.Node, uri.Node, true},
		{"literal predicate", uri.Node, lit.Node, uri.Node, true},
		{"blank predicate", uri.Node, blank.Node, uri.Node, true},
		{"missing object", uri.Node, uri.Node, Node{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := TripleOf(tc.s, tc.p, tc.o)
			if (err != nil) != tc.wantErr {
				t.Fatalf("TripleOf error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidTriple) {
				t.Fatalf("expected ErrInvalidTriple, got %v", err)
			}
		})
	}
}

func TestHelloWorldScenario(t *testing.T) {
	g := New(WithBaseURI("http://example.org/"))
	g.Namespaces().AddNamespace("ex", "http://example.org/")
	dotNetRDF, err := g.CreateQNameNode("ex:dotNetRDF")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	says, err := g.CreateQNameNode("ex:says")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hello := NewTriple(dotNetRDF, says, g.CreateLiteralNode("Hello World"))
	bonjour := NewTriple(dotNetRDF, says, g.CreateLangLiteralNode("Bonjour tout le Monde", "fr"))
	mustAssert(t, g, hello)
	mustAssert(t, g, bonjour)
	mustAssert(t, g, NewTriple(dotNetRDF, mustURI(t, g, RDFType), mustURI(t, g, "http://example.org/Library")))

	got := collectTriples(g.Match(dotNetRDF.Node, says.Node, Node{}))
	if len(got) != 2 {
		t.Fatalf("expected 2 triples, got %d", len(got))
	}
	seen := map[Triple]bool{}
	for _, tr := range got {
		seen[tr] = true
	}
	if !seen[hello] || !seen[bonjour] {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestConcurrentReadersAndWriter(t *testing.T) {
	g := New()
	p := mustURI(t, g, "http://example.org/p")
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s := g.CreateBlankNode()
			if _, err := g.Assert(NewTriple(s, p, g.CreateLiteralNode("v"))); err != nil {
				t.Errorf("assert: %v", err)
				return
			}
		}
	}()
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				for tr := range g.TriplesWithPredicate(p.Node) {
					_ = tr.Object().String()
				}
			}
		}()
	}
	wg.Wait()
	if g.Len() != 200 {
		t.Fatalf("expected 200 triples, got %d", g.Len())
	}
}
