package rdf

import (
	"bufio"
	"context"
	"io"
	"regexp"

	"github.com/geoknoesis/rdf-graph/graph"
)

var (
	// highSpeedThreshold is the triple count above which a Turtle writer that
	// is permitted to do so stops grouping statements and uses only prefix
	// compression.
	highSpeedThreshold = 50000

	turtleInteger = regexp.MustCompile(`^[+-]?[0-9]+$`)
	turtleDecimal = regexp.MustCompile(`^[+-]?[0-9]*\.[0-9]+$`)
	turtleDouble  = regexp.MustCompile(`^[+-]?([0-9]+\.[0-9]*|\.?[0-9]+)[eE][+-]?[0-9]+$`)
)

type turtleWriter struct {
	opts WriterOptions
}

func (w *turtleWriter) Capabilities() Capability {
	return CapPrettyPrint | CapCompression | CapHighSpeed
}

func (w *turtleWriter) Options() WriterOptions { return w.opts }

func (w *turtleWriter) Write(ctx context.Context, out io.Writer, g *graph.Graph) error {
	triples := sortedTriples(g)
	level, pretty := w.opts.CompressionLevel, w.opts.PrettyPrint
	if w.opts.HighSpeedPermitted && len(triples) > highSpeedThreshold {
		pretty = false
		level = min(level, CompressionSome)
	}
	enc := &turtleEncoder{
		writer: bufio.NewWriter(out),
		ns:     g.Namespaces(),
		level:  level,
	}
	enc.writeHeader(g)

	var prev graph.Triple
	for i, t := range triples {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if !pretty {
			enc.write(enc.subject(t), " ", enc.predicate(t), " ", enc.object(t), " .\n")
			continue
		}
		switch {
		case i == 0:
			enc.write(enc.subject(t), "\n    ", enc.predicate(t), " ", enc.object(t))
		case t.Subject() != prev.Subject():
			enc.write(" .\n\n", enc.subject(t), "\n    ", enc.predicate(t), " ", enc.object(t))
		case t.Predicate() != prev.Predicate():
			enc.write(" ;\n    ", enc.predicate(t), " ", enc.object(t))
		default:
			enc.write(" ,\n        ", enc.object(t))
		}
		prev = t
	}
	if pretty && len(triples) > 0 {
		enc.write(" .\n")
	}
	return enc.flush()
}

// turtleEncoder renders terms with the graph's prefixes and keeps the first
// write error.
type turtleEncoder struct {
	writer *bufio.Writer
	ns     *graph.NamespaceMapper
	level  CompressionLevel
	err    error
}

func (e *turtleEncoder) write(parts ...string) {
	for _, part := range parts {
		if e.err != nil {
			return
		}
		_, e.err = e.writer.WriteString(part)
	}
}

func (e *turtleEncoder) flush() error {
	if e.err != nil {
		return e.err
	}
	return e.writer.Flush()
}

func (e *turtleEncoder) writeHeader(g *graph.Graph) {
	if base := g.BaseURI(); base != "" {
		e.write("@base ", renderIRI(base), " .\n")
	}
	if e.level == CompressionNone {
		return
	}
	prefixes := e.ns.Map()
	for _, prefix := range e.ns.Prefixes() {
		e.write("@prefix ", prefix, ": ", renderIRI(prefixes[prefix]), " .\n")
	}
	if len(prefixes) > 0 {
		e.write("\n")
	}
}

func (e *turtleEncoder) subject(t graph.Triple) string { return e.term(t.Subject().Term()) }

func (e *turtleEncoder) predicate(t graph.Triple) string {
	uri := t.Predicate().URI()
	if e.level >= CompressionHigh && uri == graph.RDFType {
		return "a"
	}
	return e.iri(uri)
}

func (e *turtleEncoder) object(t graph.Triple) string { return e.term(t.Object().Term()) }

func (e *turtleEncoder) iri(uri string) string {
	if e.level >= CompressionSome {
		if qname, ok := e.ns.Compress(uri); ok {
			return qname
		}
	}
	return renderIRI(uri)
}

func (e *turtleEncoder) term(term graph.Term) string {
	switch term.Kind {
	case graph.NodeURI:
		return e.iri(term.Value)
	case graph.NodeLiteral:
		if e.level >= CompressionHigh {
			if bare, ok := bareLiteral(term); ok {
				return bare
			}
		}
		quoted := `"` + escapeLiteral(term.Value) + `"`
		switch {
		case term.Lang != "":
			return quoted + "@" + term.Lang
		case term.Datatype != "":
			return quoted + "^^" + e.iri(term.Datatype)
		}
		return quoted
	default:
		return renderTerm(term)
	}
}

// bareLiteral returns the unquoted Turtle shorthand for numeric and boolean
// literals whose lexical form the shorthand reproduces exactly.
func bareLiteral(term graph.Term) (string, bool) {
	v := term.Value
	switch term.Datatype {
	case graph.XSDInteger:
		return v, turtleInteger.MatchString(v)
	case graph.XSDDecimal:
		return v, turtleDecimal.MatchString(v)
	case graph.XSDDouble:
		return v, turtleDouble.MatchString(v)
	case graph.XSDBoolean:
		return v, v == "true" || v == "false"
	}
	return "", false
}
