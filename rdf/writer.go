package rdf

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/geoknoesis/rdf-graph/graph"
)

// Capability is the set of optional behaviours a writer supports.
type Capability uint8

const (
	// CapPrettyPrint writers lay out output for humans.
	CapPrettyPrint Capability = 1 << iota
	// CapCompression writers abbreviate output according to a CompressionLevel.
	CapCompression
	// CapHighSpeed writers may trade output size for speed on large graphs.
	CapHighSpeed
)

// Has reports whether every capability in other is present.
func (c Capability) Has(other Capability) bool { return c&other == other }

func (c Capability) String() string {
	var names []string
	if c.Has(CapPrettyPrint) {
		names = append(names, "pretty-print")
	}
	if c.Has(CapCompression) {
		names = append(names, "compression")
	}
	if c.Has(CapHighSpeed) {
		names = append(names, "high-speed")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// CompressionLevel controls how aggressively a writer abbreviates.
type CompressionLevel int

const (
	// CompressionNone writes every URI in full.
	CompressionNone CompressionLevel = iota
	// CompressionSome abbreviates URIs with the graph's prefixes.
	CompressionSome
	// CompressionHigh also uses every syntactic shorthand the format offers.
	CompressionHigh
)

// ParseCompressionLevel accepts "none", "some" or "high".
func ParseCompressionLevel(value string) (CompressionLevel, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "none":
		return CompressionNone, nil
	case "some", "default":
		return CompressionSome, nil
	case "high":
		return CompressionHigh, nil
	default:
		return CompressionNone, fmt.Errorf("rdf: unknown compression level %q", value)
	}
}

func (l CompressionLevel) String() string {
	switch l {
	case CompressionNone:
		return "none"
	case CompressionSome:
		return "some"
	case CompressionHigh:
		return "high"
	default:
		return fmt.Sprintf("CompressionLevel(%d)", int(l))
	}
}

// WriterOptions are the optional writer settings. Writers ignore the
// settings they have no capability for.
type WriterOptions struct {
	PrettyPrint        bool
	CompressionLevel   CompressionLevel
	HighSpeedPermitted bool
}

// restrict drops the settings caps does not cover.
func (o WriterOptions) restrict(caps Capability) WriterOptions {
	if !caps.Has(CapPrettyPrint) {
		o.PrettyPrint = false
	}
	if !caps.Has(CapCompression) {
		o.CompressionLevel = CompressionNone
	}
	if !caps.Has(CapHighSpeed) {
		o.HighSpeedPermitted = false
	}
	return o
}

// GraphWriter serializes a whole graph.
type GraphWriter interface {
	// Capabilities reports the optional settings the writer honours.
	Capabilities() Capability
	// Options returns the settings in effect.
	Options() WriterOptions
	Write(ctx context.Context, w io.Writer, g *graph.Graph) error
}

// Capabilities returns the capability set of the writer for format.
func Capabilities(format Format) (Capability, error) {
	switch format {
	case FormatNTriples:
		return 0, nil
	case FormatTurtle:
		return CapPrettyPrint | CapCompression | CapHighSpeed, nil
	case FormatJSONLD:
		return CapPrettyPrint | CapCompression, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// NewWriter returns the writer for format configured with the subset of opts
// it supports.
func NewWriter(format Format, opts WriterOptions) (GraphWriter, error) {
	caps, err := Capabilities(format)
	if err != nil {
		return nil, err
	}
	opts = opts.restrict(caps)
	switch format {
	case FormatNTriples:
		return ntWriter{}, nil
	case FormatTurtle:
		return &turtleWriter{opts: opts}, nil
	default:
		return &jsonldWriter{opts: opts}, nil
	}
}

// WriteGraph writes g to w in format.
func WriteGraph(ctx context.Context, w io.Writer, g *graph.Graph, format Format, opts WriterOptions) error {
	writer, err := NewWriter(format, opts)
	if err != nil {
		return err
	}
	return writer.Write(ctx, w, g)
}

// sortedTriples snapshots g ordered by subject, predicate and object so output
// is deterministic.
func sortedTriples(g *graph.Graph) []graph.Triple {
	type keyed struct {
		t       graph.Triple
		s, p, o string
	}
	rows := make([]keyed, 0, g.Len())
	for t := range g.Triples() {
		rows = append(rows, keyed{
			t: t,
			s: renderTerm(t.Subject().Term()),
			p: renderTerm(t.Predicate().Term()),
			o: renderTerm(t.Object().Term()),
		})
	}
	slices.SortFunc(rows, func(a, b keyed) int {
		return cmp.Or(cmp.Compare(a.s, b.s), cmp.Compare(a.p, b.p), cmp.Compare(a.o, b.o))
	})
	out := make([]graph.Triple, len(rows))
	for i, r := range rows {
		out[i] = r.t
	}
	return out
}
