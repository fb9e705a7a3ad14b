package graph

import (
	"strconv"
	"strings"
)

// autoBlankPrefix starts every generated blank node label. Generated labels
// match ^autos[0-9]+$.
const autoBlankPrefix = "autos"

type blankOrigin uint8

const (
	originAuto blankOrigin = iota + 1
	originUser
)

// blankRegistry issues blank node labels for one graph. The counter is scoped
// to the registry, so every new graph starts again at autos1.
type blankRegistry struct {
	counter uint64
	// labels holds every label handed out, with who chose it.
	labels map[string]blankOrigin
	// aliases maps a label a caller asked for to the label it received.
	aliases map[string]string
}

func newBlankRegistry() *blankRegistry {
	return &blankRegistry{
		labels:  make(map[string]blankOrigin),
		aliases: make(map[string]string),
	}
}

// nextAutoID returns a fresh generated label. Labels already claimed by
// callers are skipped.
func (r *blankRegistry) nextAutoID() string {
	for {
		r.counter++
		id := autoBlankPrefix + strconv.FormatUint(r.counter, 10)
		if _, used := r.labels[id]; used {
			continue
		}
		r.labels[id] = originAuto
		return id
	}
}

// resolveNamed returns the label for a caller-chosen name. Asking again for
// the same name returns the same label. A name that is already held by a
// different node is renamed; renamed reports whether that happened.
func (r *blankRegistry) resolveNamed(name string) (label string, renamed bool) {
	if label, ok := r.aliases[name]; ok {
		return label, false
	}
	if err := r.claim(name); err != nil {
		label = r.disambiguate(name)
		r.aliases[name] = label
		return label, true
	}
	r.aliases[name] = name
	return name, false
}

// reserve claims a label for a node that must not be confused with any
// existing one. The name is used as-is only when nothing holds it yet.
func (r *blankRegistry) reserve(name string) (label string, renamed bool) {
	_, aliased := r.aliases[name]
	if !aliased && r.claim(name) == nil {
		r.aliases[name] = name
		return name, false
	}
	label = r.disambiguate(name)
	r.aliases[label] = label
	return label, true
}

// lookup returns the label a name resolves to without claiming anything.
// Labels that were handed out resolve to themselves.
func (r *blankRegistry) lookup(name string) (string, bool) {
	if label, ok := r.aliases[name]; ok {
		return label, true
	}
	if _, ok := r.labels[name]; ok {
		return name, true
	}
	return "", false
}

// claim records name as a caller-chosen label, or fails with
// errBlankNodeConflict when the label is already held.
func (r *blankRegistry) claim(name string) error {
	if _, used := r.labels[name]; used {
		return errBlankNodeConflict
	}
	r.labels[name] = originUser
	return nil
}

// disambiguate claims the first free label of the form name_k.
func (r *blankRegistry) disambiguate(name string) string {
	base := name + "_"
	for k := 1; ; k++ {
		candidate := base + strconv.Itoa(k)
		if r.claim(candidate) == nil {
			return candidate
		}
	}
}

// isAutoLabel reports whether label matches the generated label pattern.
func isAutoLabel(label string) bool {
	digits, ok := strings.CutPrefix(label, autoBlankPrefix)
	if !ok || digits == "" {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}
