package rdf

import (
	"errors"

	"github.com/geoknoesis/rdf-graph/graph"
)

// Statement is a parsed triple described by values.
type Statement struct {
	S, P, O graph.Term
	Line    int // 1-based source line, 0 if unknown
}

// TripleHandler receives parsed statements in push mode.
type TripleHandler interface {
	HandleTriple(Statement) error
}

// NamespaceHandler is implemented by handlers that also want the prefix
// declarations of a document.
type NamespaceHandler interface {
	HandleNamespace(prefix, uri string) error
}

// HandlerFunc adapts a function to TripleHandler.
type HandlerFunc func(Statement) error

// HandleTriple calls f.
func (f HandlerFunc) HandleTriple(s Statement) error { return f(s) }

// CountHandler counts statements and discards them.
type CountHandler struct {
	Count int64
}

// HandleTriple implements TripleHandler.
func (h *CountHandler) HandleTriple(Statement) error {
	h.Count++
	return nil
}

// GraphHandler interns each statement into a graph and asserts it.
//
// Blank node labels are scoped to the handler: a label seen twice denotes
// the same node, and no label is ever matched against a blank node the graph
// held before loading started.
type GraphHandler struct {
	g          *graph.Graph
	keepLabels bool
	blanks     map[string]graph.Node
	added      int
	seen       int
}

// NewGraphHandler returns a handler that loads statements into g.
func NewGraphHandler(g *graph.Graph, opts ...Option) *GraphHandler {
	options := buildOptions(opts)
	return &GraphHandler{
		g:          g,
		keepLabels: options.KeepBlankNodeLabels,
		blanks:     make(map[string]graph.Node),
	}
}

// Added returns the number of statements that were new to the graph.
func (h *GraphHandler) Added() int { return h.added }

// Seen returns the number of statements handled.
func (h *GraphHandler) Seen() int { return h.seen }

// HandleNamespace declares prefix unless the graph already defines it.
func (h *GraphHandler) HandleNamespace(prefix, uri string) error {
	ns := h.g.Namespaces()
	if !ns.HasNamespace(prefix) {
		ns.AddNamespace(prefix, uri)
	}
	return nil
}

// HandleTriple implements TripleHandler.
func (h *GraphHandler) HandleTriple(st Statement) error {
	terms := [3]graph.Term{st.S, st.P, st.O}
	var nodes [3]graph.Node
	for i, term := range terms {
		n, err := h.node(term)
		if err != nil {
			return err
		}
		nodes[i] = n
	}
	t, err := graph.TripleOf(nodes[0], nodes[1], nodes[2])
	if err != nil {
		var pe *graph.PositionError
		if errors.As(err, &pe) {
			sv := &StructuralViolation{Line: st.Line, Position: pe.Position, Kind: pe.Kind}
			switch pe.Position {
			case "subject":
				sv.Term = st.S
			case "predicate":
				sv.Term = st.P
			default:
				sv.Term = st.O
			}
			return sv
		}
		return err
	}
	added, err := h.g.Assert(t)
	if err != nil {
		return err
	}
	h.seen++
	if added {
		h.added++
	}
	return nil
}

func (h *GraphHandler) node(t graph.Term) (graph.Node, error) {
	if t.Kind != graph.NodeBlank {
		return h.g.Intern(t)
	}
	if n, ok := h.blanks[t.Value]; ok {
		return n, nil
	}
	var b graph.BlankNode
	if _, taken := h.g.GetBlankNode(t.Value); h.keepLabels && t.Value != "" && !taken {
		b = h.g.CreateNamedBlankNode(t.Value)
	} else {
		b = h.g.CreateBlankNode()
	}
	h.blanks[t.Value] = b.Node
	return b.Node, nil
}

// checkStatement rejects statements that no graph could hold.
func checkStatement(format string, st Statement) error {
	switch {
	case st.S.Kind == graph.NodeLiteral:
		return &StructuralViolation{Format: format, Line: st.Line, Position: "subject", Kind: st.S.Kind, Term: st.S}
	case st.P.Kind != graph.NodeURI:
		return &StructuralViolation{Format: format, Line: st.Line, Position: "predicate", Kind: st.P.Kind, Term: st.P}
	}
	return nil
}
