package graph

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Option configures a Graph.
type Option func(*options)

type options struct {
	baseURI           string
	logger            *slog.Logger
	compressCacheSize int
}

// WithBaseURI sets the base URI used to resolve relative references.
func WithBaseURI(uri string) Option {
	return func(o *options) {
		o.baseURI = uri
	}
}

// WithLogger sets the logger receiving debug records about namespace
// changes, blank node renames and merges.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCompressCacheSize bounds the namespace compress cache. Zero disables it.
func WithCompressCacheSize(size int) Option {
	return func(o *options) {
		o.compressCacheSize = size
	}
}

// Graph is an in-memory set of RDF triples together with the nodes they are
// built from.
type Graph struct {
	id     uuid.UUID
	logger *slog.Logger
	ns     *NamespaceMapper

	// nodesMu guards the node arena, the blank registry and the base URI.
	nodesMu sync.RWMutex
	nodes   *interner
	blanks  *blankRegistry
	baseURI string

	// mu guards the triple index. When both locks are held, mu is taken first.
	mu    sync.RWMutex
	index *index
}

// New returns an empty graph.
func New(opts ...Option) *Graph {
	o := options{compressCacheSize: DefaultCompressCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	g := &Graph{
		id:      uuid.New(),
		nodes:   newInterner(),
		blanks:  newBlankRegistry(),
		baseURI: o.baseURI,
		index:   newIndex(),
		ns:      NewNamespaceMapper(o.compressCacheSize),
	}
	g.logger = o.logger.With("graph", g.id.String())
	g.ns.logger = g.logger
	return g
}

// ID returns the graph's instance identifier.
func (g *Graph) ID() uuid.UUID { return g.id }

// Namespaces returns the graph's namespace mapper.
func (g *Graph) Namespaces() *NamespaceMapper { return g.ns }

// BaseURI returns the base URI, or "".
func (g *Graph) BaseURI() string {
	g.nodesMu.RLock()
	defer g.nodesMu.RUnlock()
	return g.baseURI
}

// SetBaseURI replaces the base URI. Nodes already created are unaffected.
func (g *Graph) SetBaseURI(uri string) error {
	if uri != "" && !isAbsoluteURI(uri) {
		return fmt.Errorf("%w: base %q is not absolute", ErrInvalidURI, uri)
	}
	g.nodesMu.Lock()
	defer g.nodesMu.Unlock()
	g.baseURI = uri
	return nil
}

func (g *Graph) term(id NodeID) Term {
	g.nodesMu.RLock()
	defer g.nodesMu.RUnlock()
	return g.nodes.term(id)
}

func (g *Graph) node(id NodeID, kind NodeKind) Node {
	return Node{g: g, id: id, kind: kind}
}

// Intern returns the node for t, creating it if needed. A blank term with a
// label resolves through the blank node registry; one without a label yields
// a fresh node.
func (g *Graph) Intern(t Term) (Node, error) {
	switch t.Kind {
	case NodeBlank:
		if t.Value == "" {
			return g.CreateBlankNode().Node, nil
		}
		return g.CreateNamedBlankNode(t.Value).Node, nil
	case NodeURI:
		uri, err := g.absoluteURI(t.Value)
		if err != nil {
			return Node{}, err
		}
		t.Value = uri
	}
	canon, err := t.canonical()
	if err != nil {
		return Node{}, err
	}
	g.nodesMu.Lock()
	defer g.nodesMu.Unlock()
	return g.node(g.nodes.intern(canon), canon.Kind), nil
}

// Lookup returns the node for t if it has been created. It never creates one.
func (g *Graph) Lookup(t Term) (Node, bool) {
	switch t.Kind {
	case NodeBlank:
		b, ok := g.GetBlankNode(t.Value)
		return b.Node, ok
	case NodeURI:
		uri, err := g.absoluteURI(t.Value)
		if err != nil {
			return Node{}, false
		}
		t.Value = uri
	}
	canon, err := t.canonical()
	if err != nil {
		return Node{}, false
	}
	g.nodesMu.RLock()
	defer g.nodesMu.RUnlock()
	id, ok := g.nodes.lookup(canon)
	if !ok {
		return Node{}, false
	}
	return g.node(id, canon.Kind), true
}

// absoluteURI validates uri and resolves it against the base URI when it is
// relative.
func (g *Graph) absoluteURI(uri string) (string, error) {
	if err := validateURI(uri); err != nil {
		return "", err
	}
	if isAbsoluteURI(uri) {
		return uri, nil
	}
	base := g.BaseURI()
	if base == "" {
		return "", fmt.Errorf("%w: relative URI %q and no base URI", ErrInvalidURI, uri)
	}
	return resolveURI(base, uri)
}

// CreateURINode returns the node for an absolute URI. A relative reference is
// resolved against the base URI.
func (g *Graph) CreateURINode(uri string) (URINode, error) {
	n, err := g.Intern(IRI(uri))
	if err != nil {
		return URINode{}, err
	}
	return URINode{n}, nil
}

// CreateQNameNode returns the node for a prefixed name such as "ex:demo".
func (g *Graph) CreateQNameNode(qname string) (URINode, error) {
	uri, err := g.ns.Expand(qname)
	if err != nil {
		return URINode{}, err
	}
	return g.CreateURINode(uri)
}

// CreateBaseURINode returns the node for the graph's base URI.
func (g *Graph) CreateBaseURINode() (URINode, error) {
	base := g.BaseURI()
	if base == "" {
		return URINode{}, ErrNoBaseURI
	}
	return g.CreateURINode(base)
}

// CreateLiteralNode returns the node for a plain literal.
func (g *Graph) CreateLiteralNode(lexical string) LiteralNode {
	n, _ := g.CreateLiteral(lexical, "", "")
	return n
}

// CreateLangLiteralNode returns the node for a language-tagged literal.
func (g *Graph) CreateLangLiteralNode(lexical, lang string) LiteralNode {
	n, _ := g.CreateLiteral(lexical, lang, "")
	return n
}

// CreateTypedLiteralNode returns the node for a literal with a datatype URI.
func (g *Graph) CreateTypedLiteralNode(lexical, datatype string) (LiteralNode, error) {
	return g.CreateLiteral(lexical, "", datatype)
}

// CreateLiteral returns the node for a literal. lang and datatype are
// optional and mutually exclusive.
func (g *Graph) CreateLiteral(lexical, lang, datatype string) (LiteralNode, error) {
	if datatype != "" {
		if err := validateURI(datatype); err != nil {
			return LiteralNode{}, err
		}
	}
	n, err := g.Intern(Term{Kind: NodeLiteral, Value: lexical, Lang: lang, Datatype: datatype})
	if err != nil {
		return LiteralNode{}, err
	}
	return LiteralNode{n}, nil
}

// CreateBlankNode returns a new anonymous blank node. Every call yields a
// distinct node.
func (g *Graph) CreateBlankNode() BlankNode {
	g.nodesMu.Lock()
	defer g.nodesMu.Unlock()
	label := g.blanks.nextAutoID()
	return BlankNode{g.node(g.nodes.intern(Blank(label)), NodeBlank)}
}

// CreateNamedBlankNode returns the blank node for name, creating it on first
// use. If name clashes with a generated label the node receives another
// label; later calls with the same name return that node.
func (g *Graph) CreateNamedBlankNode(name string) BlankNode {
	if name == "" {
		return g.CreateBlankNode()
	}
	g.nodesMu.Lock()
	label, renamed := g.blanks.resolveNamed(name)
	n := BlankNode{g.node(g.nodes.intern(Blank(label)), NodeBlank)}
	g.nodesMu.Unlock()
	if renamed {
		g.logger.Debug("blank node renamed", "requested", name, "label", label)
	}
	return n
}

// reserveBlankNode returns a blank node that is distinct from every existing
// one, labelled name when that label is free.
func (g *Graph) reserveBlankNode(name string) BlankNode {
	g.nodesMu.Lock()
	defer g.nodesMu.Unlock()
	label, _ := g.blanks.reserve(name)
	return BlankNode{g.node(g.nodes.intern(Blank(label)), NodeBlank)}
}

// GetURINode returns the node for uri if it exists.
func (g *Graph) GetURINode(uri string) (URINode, bool) {
	n, ok := g.Lookup(IRI(uri))
	return URINode{n}, ok
}

// GetQNameNode returns the node for a prefixed name if it exists. An
// undeclared prefix reports not found.
func (g *Graph) GetQNameNode(qname string) (URINode, bool) {
	uri, err := g.ns.Expand(qname)
	if err != nil {
		return URINode{}, false
	}
	return g.GetURINode(uri)
}

// GetBlankNode returns the blank node a name resolves to if it exists.
func (g *Graph) GetBlankNode(name string) (BlankNode, bool) {
	g.nodesMu.RLock()
	defer g.nodesMu.RUnlock()
	label, ok := g.blanks.lookup(name)
	if !ok {
		return BlankNode{}, false
	}
	id, ok := g.nodes.lookup(Blank(label))
	if !ok {
		return BlankNode{}, false
	}
	return BlankNode{g.node(id, NodeBlank)}, true
}

// GetLiteralNode returns the node for a plain literal if it exists.
func (g *Graph) GetLiteralNode(lexical string) (LiteralNode, bool) {
	n, ok := g.Lookup(Literal(lexical))
	return LiteralNode{n}, ok
}

// GetLangLiteralNode returns the node for a language-tagged literal if it
// exists.
func (g *Graph) GetLangLiteralNode(lexical, lang string) (LiteralNode, bool) {
	n, ok := g.Lookup(LangLiteral(lexical, lang))
	return LiteralNode{n}, ok
}

// GetTypedLiteralNode returns the node for a typed literal if it exists.
func (g *Graph) GetTypedLiteralNode(lexical, datatype string) (LiteralNode, bool) {
	n, ok := g.Lookup(TypedLiteral(lexical, datatype))
	return LiteralNode{n}, ok
}

// NodeCount returns the number of interned nodes, including nodes no longer
// used by any triple.
func (g *Graph) NodeCount() int {
	g.nodesMu.RLock()
	defer g.nodesMu.RUnlock()
	return g.nodes.len()
}

// check rejects triples that are incomplete or mention another graph's nodes.
func (g *Graph) check(t Triple) error {
	if t.s.IsZero() || t.p.IsZero() || t.o.IsZero() {
		return fmt.Errorf("%w: missing node in %s", ErrInvalidTriple, t)
	}
	if t.s.g != g || t.p.g != g || t.o.g != g {
		return fmt.Errorf("%w: %s", ErrForeignNode, t)
	}
	if t.s.kind == NodeLiteral || t.p.kind != NodeURI {
		return fmt.Errorf("%w: %s", ErrInvalidTriple, t)
	}
	return nil
}

// Assert adds t and reports whether it was new.
func (g *Graph) Assert(t Triple) (bool, error) {
	if err := g.check(t); err != nil {
		return false, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.index.insert(t.key()), nil
}

// AssertAll adds every triple and returns how many were new. If any triple is
// invalid nothing is added.
func (g *Graph) AssertAll(ts ...Triple) (int, error) {
	for _, t := range ts {
		if err := g.check(t); err != nil {
			return 0, err
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	added := 0
	for _, t := range ts {
		if g.index.insert(t.key()) {
			added++
		}
	}
	return added, nil
}

// Retract removes t and reports whether it was present.
func (g *Graph) Retract(t Triple) (bool, error) {
	if err := g.check(t); err != nil {
		return false, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.index.remove(t.key()), nil
}

// RetractAll removes every triple and returns how many were present. If any
// triple is invalid nothing is removed.
func (g *Graph) RetractAll(ts ...Triple) (int, error) {
	for _, t := range ts {
		if err := g.check(t); err != nil {
			return 0, err
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	removed := 0
	for _, t := range ts {
		if g.index.remove(t.key()) {
			removed++
		}
	}
	return removed, nil
}

// Clear removes every triple. Interned nodes are kept.
func (g *Graph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.index.clear()
}

// IsEmpty reports whether the graph holds no triples.
func (g *Graph) IsEmpty() bool { return g.Len() == 0 }

// Len returns the number of triples.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.index.len()
}

// Contains reports whether t is asserted in the graph.
func (g *Graph) Contains(t Triple) bool {
	if g.check(t) != nil {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.index.contains(t.key())
}
