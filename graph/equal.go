package graph

import (
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Equal reports whether g and other hold the same triples up to a renaming of
// blank nodes, that is whether the two graphs are isomorphic.
func (g *Graph) Equal(other *Graph) bool {
	if g == other {
		return true
	}
	if g == nil || other == nil {
		return false
	}
	a, b := g.termTriples(), other.termTriples()
	if len(a) != len(b) {
		return false
	}
	groundA, blankA := splitGround(a)
	groundB, blankB := splitGround(b)
	if len(groundA) != len(groundB) || len(blankA) != len(blankB) {
		return false
	}
	ground := make(map[termTriple]struct{}, len(groundB))
	for _, t := range groundB {
		ground[t] = struct{}{}
	}
	for _, t := range groundA {
		if _, ok := ground[t]; !ok {
			return false
		}
	}
	if len(blankA) == 0 {
		return true
	}
	return isomorphic(newBlankGraph(blankA), newBlankGraph(blankB))
}

func splitGround(ts []termTriple) (ground, withBlanks []termTriple) {
	for _, t := range ts {
		if t[0].Kind == NodeBlank || t[2].Kind == NodeBlank {
			withBlanks = append(withBlanks, t)
		} else {
			ground = append(ground, t)
		}
	}
	return ground, withBlanks
}

// blankGraph is the blank-node part of a graph prepared for matching.
type blankGraph struct {
	triples []termTriple
	set     map[termTriple]struct{}
	labels  []string
	uses    map[string][]int // label -> indexes into triples
	colour  map[string]uint64
}

func newBlankGraph(ts []termTriple) *blankGraph {
	bg := &blankGraph{
		triples: ts,
		set:     make(map[termTriple]struct{}, len(ts)),
		uses:    make(map[string][]int),
		colour:  make(map[string]uint64),
	}
	for i, t := range ts {
		bg.set[t] = struct{}{}
		for _, term := range [2]Term{t[0], t[2]} {
			if term.Kind != NodeBlank {
				continue
			}
			if _, ok := bg.uses[term.Value]; !ok {
				bg.labels = append(bg.labels, term.Value)
			}
			if n := len(bg.uses[term.Value]); n == 0 || bg.uses[term.Value][n-1] != i {
				bg.uses[term.Value] = append(bg.uses[term.Value], i)
			}
		}
	}
	sort.Strings(bg.labels)
	for _, label := range bg.labels {
		bg.colour[label] = 0
	}
	return bg
}

// refine recomputes every colour from the current colours of the node's
// neighbourhood and returns the number of distinct colours.
func (bg *blankGraph) refine() int {
	next := make(map[string]uint64, len(bg.labels))
	distinct := make(map[uint64]struct{})
	for _, label := range bg.labels {
		sigs := make([]string, 0, len(bg.uses[label]))
		for _, i := range bg.uses[label] {
			sigs = append(sigs, bg.signature(bg.triples[i], label))
		}
		sort.Strings(sigs)
		h := fnv.New64a()
		h.Write([]byte(strconv.FormatUint(bg.colour[label], 16)))
		for _, sig := range sigs {
			h.Write([]byte{'\n'})
			h.Write([]byte(sig))
		}
		next[label] = h.Sum64()
		distinct[next[label]] = struct{}{}
	}
	bg.colour = next
	return len(distinct)
}

// signature renders t from the point of view of self.
func (bg *blankGraph) signature(t termTriple, self string) string {
	parts := make([]string, 3)
	for i, term := range t {
		switch {
		case term.Kind != NodeBlank:
			parts[i] = term.String()
		case term.Value == self:
			parts[i] = "*"
		default:
			parts[i] = "_" + strconv.FormatUint(bg.colour[term.Value], 16)
		}
	}
	return strings.Join(parts, " ")
}

func (bg *blankGraph) histogram() map[uint64]int {
	h := make(map[uint64]int)
	for _, c := range bg.colour {
		h[c]++
	}
	return h
}

func sameHistogram(a, b map[uint64]int) bool {
	if len(a) != len(b) {
		return false
	}
	for c, n := range a {
		if b[c] != n {
			return false
		}
	}
	return true
}

func isomorphic(a, b *blankGraph) bool {
	if len(a.labels) != len(b.labels) {
		return false
	}
	prevA, prevB := 0, 0
	for round := 0; round <= len(a.labels); round++ {
		da, db := a.refine(), b.refine()
		if da != db || !sameHistogram(a.histogram(), b.histogram()) {
			return false
		}
		if da == prevA && db == prevB {
			break
		}
		prevA, prevB = da, db
	}
	m := &isoMatcher{
		a:       a,
		b:       b,
		mapping: make(map[string]string, len(a.labels)),
		used:    make(map[string]bool, len(b.labels)),
		classes: make(map[uint64][]string),
	}
	for _, label := range b.labels {
		m.classes[b.colour[label]] = append(m.classes[b.colour[label]], label)
	}
	m.order = append([]string(nil), a.labels...)
	sort.SliceStable(m.order, func(i, j int) bool {
		return len(m.classes[a.colour[m.order[i]]]) < len(m.classes[a.colour[m.order[j]]])
	})
	return m.search(0)
}

// isoMatcher searches for a colour-preserving bijection between blank labels.
type isoMatcher struct {
	a, b    *blankGraph
	order   []string
	mapping map[string]string
	used    map[string]bool
	classes map[uint64][]string
}

func (m *isoMatcher) search(i int) bool {
	if i == len(m.order) {
		return true
	}
	label := m.order[i]
	for _, candidate := range m.classes[m.a.colour[label]] {
		if m.used[candidate] {
			continue
		}
		m.mapping[label] = candidate
		m.used[candidate] = true
		if m.consistent(label) && m.search(i+1) {
			return true
		}
		delete(m.mapping, label)
		m.used[candidate] = false
	}
	return false
}

// consistent checks every triple of label whose blanks are all mapped.
func (m *isoMatcher) consistent(label string) bool {
	for _, i := range m.a.uses[label] {
		mapped, complete := m.mapTriple(m.a.triples[i])
		if !complete {
			continue
		}
		if _, ok := m.b.set[mapped]; !ok {
			return false
		}
	}
	return true
}

func (m *isoMatcher) mapTriple(t termTriple) (termTriple, bool) {
	for _, pos := range [2]int{0, 2} {
		if t[pos].Kind != NodeBlank {
			continue
		}
		target, ok := m.mapping[t[pos].Value]
		if !ok {
			return t, false
		}
		t[pos] = Blank(target)
	}
	return t, true
}
