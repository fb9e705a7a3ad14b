package graph

// interner maps canonical terms to arena ids. The arena is append-only;
// interned nodes outlive the triples that mention them.
type interner struct {
	terms []Term // index 0 is unused
	ids   map[Term]NodeID
}

func newInterner() *interner {
	return &interner{
		terms: make([]Term, 1, 64),
		ids:   make(map[Term]NodeID, 64),
	}
}

// intern returns the id for a canonical term, allocating one if needed.
func (in *interner) intern(t Term) NodeID {
	if id, ok := in.ids[t]; ok {
		return id
	}
	id := NodeID(len(in.terms))
	in.terms = append(in.terms, t)
	in.ids[t] = id
	return id
}

// lookup returns the id for a canonical term without allocating.
func (in *interner) lookup(t Term) (NodeID, bool) {
	id, ok := in.ids[t]
	return id, ok
}

func (in *interner) term(id NodeID) Term {
	if id == 0 || int(id) >= len(in.terms) {
		return Term{}
	}
	return in.terms[id]
}

func (in *interner) kind(id NodeID) NodeKind {
	return in.term(id).Kind
}

// len returns the number of interned nodes.
func (in *interner) len() int { return len(in.terms) - 1 }
