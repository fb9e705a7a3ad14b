package graph

import "iter"

type keySet map[tripleKey]struct{}

type idPair struct {
	a, b NodeID
}

// index holds a set of triples keyed by every single position and by every
// pair of positions, so that a pattern with one or two bound positions is
// answered from one set whose size is the size of the result.
//
// index is not synchronized. A sequence returned by match must be drained
// before the index is mutated.
type index struct {
	all keySet

	bySubject   map[NodeID]keySet
	byPredicate map[NodeID]keySet
	byObject    map[NodeID]keySet

	bySubjectPredicate map[idPair]keySet
	byPredicateObject  map[idPair]keySet
	bySubjectObject    map[idPair]keySet
}

func newIndex() *index {
	return &index{
		all:                make(keySet),
		bySubject:          make(map[NodeID]keySet),
		byPredicate:        make(map[NodeID]keySet),
		byObject:           make(map[NodeID]keySet),
		bySubjectPredicate: make(map[idPair]keySet),
		byPredicateObject:  make(map[idPair]keySet),
		bySubjectObject:    make(map[idPair]keySet),
	}
}

func (ix *index) len() int { return len(ix.all) }

func (ix *index) contains(k tripleKey) bool {
	_, ok := ix.all[k]
	return ok
}

// insert adds k and reports whether it was absent.
func (ix *index) insert(k tripleKey) bool {
	if ix.contains(k) {
		return false
	}
	ix.all[k] = struct{}{}
	addTo(ix.bySubject, k.s, k)
	addTo(ix.byPredicate, k.p, k)
	addTo(ix.byObject, k.o, k)
	addTo(ix.bySubjectPredicate, idPair{k.s, k.p}, k)
	addTo(ix.byPredicateObject, idPair{k.p, k.o}, k)
	addTo(ix.bySubjectObject, idPair{k.s, k.o}, k)
	return true
}

// remove deletes k and reports whether it was present.
func (ix *index) remove(k tripleKey) bool {
	if !ix.contains(k) {
		return false
	}
	delete(ix.all, k)
	removeFrom(ix.bySubject, k.s, k)
	removeFrom(ix.byPredicate, k.p, k)
	removeFrom(ix.byObject, k.o, k)
	removeFrom(ix.bySubjectPredicate, idPair{k.s, k.p}, k)
	removeFrom(ix.byPredicateObject, idPair{k.p, k.o}, k)
	removeFrom(ix.bySubjectObject, idPair{k.s, k.o}, k)
	return true
}

func (ix *index) clear() {
	*ix = *newIndex()
}

// lookup returns the set answering pattern exactly. Zero positions are
// wildcards. The fully bound pattern is answered by the caller.
func (ix *index) lookup(pattern tripleKey) keySet {
	s, p, o := pattern.s != 0, pattern.p != 0, pattern.o != 0
	switch {
	case s && p:
		return ix.bySubjectPredicate[idPair{pattern.s, pattern.p}]
	case p && o:
		return ix.byPredicateObject[idPair{pattern.p, pattern.o}]
	case s && o:
		return ix.bySubjectObject[idPair{pattern.s, pattern.o}]
	case s:
		return ix.bySubject[pattern.s]
	case p:
		return ix.byPredicate[pattern.p]
	case o:
		return ix.byObject[pattern.o]
	default:
		return ix.all
	}
}

// match yields every triple key matching pattern.
func (ix *index) match(pattern tripleKey) iter.Seq[tripleKey] {
	return func(yield func(tripleKey) bool) {
		if pattern.s != 0 && pattern.p != 0 && pattern.o != 0 {
			if ix.contains(pattern) {
				yield(pattern)
			}
			return
		}
		for k := range ix.lookup(pattern) {
			if !yield(k) {
				return
			}
		}
	}
}

// count returns the number of triples matching pattern.
func (ix *index) count(pattern tripleKey) int {
	if pattern.s != 0 && pattern.p != 0 && pattern.o != 0 {
		if ix.contains(pattern) {
			return 1
		}
		return 0
	}
	return len(ix.lookup(pattern))
}

// nodes yields every node id used in some position, once.
func (ix *index) nodes() iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		seen := make(map[NodeID]struct{}, len(ix.bySubject)+len(ix.byObject))
		for _, m := range []map[NodeID]keySet{ix.bySubject, ix.byPredicate, ix.byObject} {
			for id := range m {
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
				if !yield(id) {
					return
				}
			}
		}
	}
}

func addTo[K comparable](m map[K]keySet, key K, k tripleKey) {
	set, ok := m[key]
	if !ok {
		set = make(keySet)
		m[key] = set
	}
	set[k] = struct{}{}
}

func removeFrom[K comparable](m map[K]keySet, key K, k tripleKey) {
	set, ok := m[key]
	if !ok {
		return
	}
	delete(set, k)
	if len(set) == 0 {
		delete(m, key)
	}
}
