package rdf

import (
	"context"
	"fmt"
	"io"

	"github.com/geoknoesis/rdf-graph/graph"
)

// Parse reads r in format and streams statements to handler. An empty format
// is detected from the input.
// If ctx is nil, context.Background() is used as the default.
func Parse(ctx context.Context, r io.Reader, format Format, handler TripleHandler, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if format == "" {
		detected, reader, ok := DetectFormat(r)
		if !ok {
			return fmt.Errorf("%w: could not detect format", ErrUnsupportedFormat)
		}
		format, r = detected, reader
	}
	switch format {
	case FormatNTriples:
		return ParseNTriples(ctx, r, handler, opts...)
	case FormatJSONLD:
		return ParseJSONLD(ctx, r, handler, opts...)
	default:
		return fmt.Errorf("%w: no parser for %q", ErrUnsupportedFormat, format)
	}
}

// Load parses r into g and returns the number of new triples. Triples
// asserted before an error are kept.
func Load(ctx context.Context, g *graph.Graph, r io.Reader, format Format, opts ...Option) (int, error) {
	options := buildOptions(opts)
	handler := NewGraphHandler(g, opts...)
	err := Parse(ctx, r, format, handler, opts...)
	options.Logger.Debug("loaded triples",
		"graph", g.ID().String(),
		"format", string(format),
		"statements", handler.Seen(),
		"added", handler.Added())
	return handler.Added(), err
}

// LoadNTriples parses N-Triples from r into g.
func LoadNTriples(ctx context.Context, g *graph.Graph, r io.Reader, opts ...Option) (int, error) {
	return Load(ctx, g, r, FormatNTriples, opts...)
}

// LoadJSONLD parses a JSON-LD document from r into g. Context prefixes the
// graph does not define yet are added to its namespaces.
func LoadJSONLD(ctx context.Context, g *graph.Graph, r io.Reader, opts ...Option) (int, error) {
	return Load(ctx, g, r, FormatJSONLD, opts...)
}
