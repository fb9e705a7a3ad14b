package graph

// NodeID is the arena index of a node within its owning graph. Zero is never
// assigned.
type NodeID uint32

// Node is an identity handle for a node interned in a Graph. Nodes are
// comparable; two nodes are equal only if they come from the same graph and
// denote the same interned value.
//
// The zero Node belongs to no graph and acts as a wildcard in pattern queries.
type Node struct {
	g    *Graph
	id   NodeID
	kind NodeKind
}

// IsZero reports whether n is the zero (wildcard) node.
func (n Node) IsZero() bool { return n.g == nil }

// Kind returns the node variant.
func (n Node) Kind() NodeKind { return n.kind }

// ID returns the arena index of the node in its graph.
func (n Node) ID() NodeID { return n.id }

// Graph returns the graph that owns the node, or nil for the zero node.
func (n Node) Graph() *Graph { return n.g }

// Term returns the value-level description of the node.
func (n Node) Term() Term {
	if n.g == nil {
		return Term{}
	}
	return n.g.term(n.id)
}

// String renders the node in N-Triples syntax.
func (n Node) String() string {
	if n.g == nil {
		return "?"
	}
	return n.Term().String()
}

// AsURI returns n as a URINode when it is one.
func (n Node) AsURI() (URINode, bool) {
	if n.kind != NodeURI {
		return URINode{}, false
	}
	return URINode{n}, true
}

// AsBlank returns n as a BlankNode when it is one.
func (n Node) AsBlank() (BlankNode, bool) {
	if n.kind != NodeBlank {
		return BlankNode{}, false
	}
	return BlankNode{n}, true
}

// AsLiteral returns n as a LiteralNode when it is one.
func (n Node) AsLiteral() (LiteralNode, bool) {
	if n.kind != NodeLiteral {
		return LiteralNode{}, false
	}
	return LiteralNode{n}, true
}

// AsSubject returns n as a Subject when it may appear in subject position.
func (n Node) AsSubject() (Subject, bool) {
	switch n.kind {
	case NodeURI:
		return URINode{n}, true
	case NodeBlank:
		return BlankNode{n}, true
	default:
		return nil, false
	}
}

func (n Node) objectNode() Node { return n }

// Subject is a node allowed in subject position: a URINode or a BlankNode.
type Subject interface {
	subjectNode() Node
}

// Object is a node allowed in object position: any node.
type Object interface {
	objectNode() Node
}

// URINode is a node identified by an absolute URI.
type URINode struct{ Node }

// URI returns the node's URI.
func (u URINode) URI() string { return u.Term().Value }

func (u URINode) subjectNode() Node { return u.Node }

// BlankNode is a node with graph-local identity.
type BlankNode struct{ Node }

// Label returns the blank node identifier within its graph.
func (b BlankNode) Label() string { return b.Term().Value }

func (b BlankNode) subjectNode() Node { return b.Node }

// LiteralNode is a literal value.
type LiteralNode struct{ Node }

// Lexical returns the lexical form.
func (l LiteralNode) Lexical() string { return l.Term().Value }

// Lang returns the language tag, or "".
func (l LiteralNode) Lang() string { return l.Term().Lang }

// Datatype returns the explicit datatype URI, or "" for plain and
// language-tagged literals.
func (l LiteralNode) Datatype() string { return l.Term().Datatype }

// tripleKey identifies a triple by the node ids of its positions. Zero in a
// position means "any" when used as a pattern.
type tripleKey struct {
	s, p, o NodeID
}

// Triple is an RDF statement built from nodes of a single graph.
type Triple struct {
	s, p, o Node
}

// NewTriple builds a triple. Position types rule out literal subjects and
// non-URI predicates.
func NewTriple(s Subject, p URINode, o Object) Triple {
	var t Triple
	if s != nil {
		t.s = s.subjectNode()
	}
	t.p = p.Node
	if o != nil {
		t.o = o.objectNode()
	}
	return t
}

// TripleOf builds a triple from untyped nodes, checking each position.
func TripleOf(s, p, o Node) (Triple, error) {
	subj, ok := s.AsSubject()
	if !ok {
		return Triple{}, &PositionError{Position: "subject", Kind: s.kind}
	}
	pred, ok := p.AsURI()
	if !ok {
		return Triple{}, &PositionError{Position: "predicate", Kind: p.kind}
	}
	if o.IsZero() {
		return Triple{}, &PositionError{Position: "object"}
	}
	return NewTriple(subj, pred, o), nil
}

// Subject returns the subject node.
func (t Triple) Subject() Node { return t.s }

// Predicate returns the predicate node.
func (t Triple) Predicate() URINode { return URINode{t.p} }

// Object returns the object node.
func (t Triple) Object() Node { return t.o }

// Graph returns the graph owning the triple's nodes.
func (t Triple) Graph() *Graph { return t.s.g }

// IsZero reports whether the triple has no nodes.
func (t Triple) IsZero() bool { return t.s.IsZero() && t.p.IsZero() && t.o.IsZero() }

// Involves reports whether n appears in any position of t.
func (t Triple) Involves(n Node) bool { return t.s == n || t.p == n || t.o == n }

// String renders the triple as an N-Triples statement.
func (t Triple) String() string {
	return t.s.String() + " " + t.p.String() + " " + t.o.String() + " ."
}

func (t Triple) key() tripleKey { return tripleKey{t.s.id, t.p.id, t.o.id} }

// PositionError reports a node kind that is not allowed in a triple position.
type PositionError struct {
	Position string
	Kind     NodeKind
}

func (e *PositionError) Error() string {
	if e.Kind == 0 {
		return "graph: invalid triple: missing " + e.Position
	}
	return "graph: invalid triple: " + e.Kind.String() + " node in " + e.Position + " position"
}

func (e *PositionError) Unwrap() error { return ErrInvalidTriple }
