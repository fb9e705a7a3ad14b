package graph

// termTriple is a triple described by values, detached from any graph.
type termTriple [3]Term

// termTriples copies every triple as values.
func (g *Graph) termTriples() []termTriple {
	g.mu.RLock()
	defer g.mu.RUnlock()
	g.nodesMu.RLock()
	defer g.nodesMu.RUnlock()
	out := make([]termTriple, 0, g.index.len())
	for k := range g.index.all {
		out = append(out, termTriple{g.nodes.term(k.s), g.nodes.term(k.p), g.nodes.term(k.o)})
	}
	return out
}

// Merge adds every triple of src to g and returns the number of triples that
// were new.
//
// URI and literal nodes are re-created in g by value. Each blank node of src
// becomes a blank node of g that is distinct from every node g already had:
// a generated label when keepBlankNodeNames is false, otherwise the source
// label if g does not use it yet and a renamed label if it does. Prefixes
// declared in src and missing from g are imported.
//
// Merging a graph into itself does nothing.
func (g *Graph) Merge(src *Graph, keepBlankNodeNames bool) (int, error) {
	if src == nil || src == g {
		return 0, nil
	}
	// src is copied before g is locked, so concurrent merges in opposite
	// directions cannot deadlock.
	incoming := src.termTriples()

	blanks := make(map[string]Node)
	resolve := func(t Term) (Node, error) {
		if t.Kind != NodeBlank {
			return g.Intern(t)
		}
		if n, ok := blanks[t.Value]; ok {
			return n, nil
		}
		var b BlankNode
		if keepBlankNodeNames && !isAutoLabel(t.Value) {
			b = g.reserveBlankNode(t.Value)
		} else {
			b = g.CreateBlankNode()
		}
		blanks[t.Value] = b.Node
		return b.Node, nil
	}

	triples := make([]Triple, 0, len(incoming))
	for _, tt := range incoming {
		var nodes [3]Node
		for i, term := range tt {
			n, err := resolve(term)
			if err != nil {
				return 0, err
			}
			nodes[i] = n
		}
		t, err := TripleOf(nodes[0], nodes[1], nodes[2])
		if err != nil {
			return 0, err
		}
		triples = append(triples, t)
	}

	added, err := g.AssertAll(triples...)
	if err != nil {
		return 0, err
	}
	imported := g.ns.Import(src.ns)
	g.logger.Debug("merged graph",
		"source", src.id.String(),
		"triples", len(triples),
		"added", added,
		"blank_nodes", len(blanks),
		"prefixes", imported)
	return added, nil
}
