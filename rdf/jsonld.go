package rdf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	ld "github.com/piprate/json-gold/ld"

	"github.com/geoknoesis/rdf-graph/graph"
)

const jsonldDefaultGraph = "@default"

// ParseJSONLD reads one JSON-LD document from r, converts it to RDF and
// streams the default graph's triples to handler. Prefix definitions of the
// top-level context are passed to handler first when it implements
// NamespaceHandler. Named graphs are skipped.
// If ctx is nil, context.Background() is used as the default.
func ParseJSONLD(ctx context.Context, r io.Reader, handler TripleHandler, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}
	options := buildOptions(opts)
	if err := ctx.Err(); err != nil {
		return err
	}

	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		perr := &ParseError{Format: string(FormatJSONLD), Offset: -1, Err: err}
		var syntax *json.SyntaxError
		if errors.As(err, &syntax) {
			perr.Offset = int(syntax.Offset)
		}
		return perr
	}

	if nh, ok := handler.(NamespaceHandler); ok {
		prefixes := contextPrefixes(doc)
		for _, prefix := range sortedKeys(prefixes) {
			if err := nh.HandleNamespace(prefix, prefixes[prefix]); err != nil {
				return err
			}
		}
	}

	goldOpts := ld.NewJsonLdOptions(options.BaseURI)
	result, err := ld.NewJsonLdProcessor().ToRDF(doc, goldOpts)
	if err != nil {
		return &ParseError{Format: string(FormatJSONLD), Offset: -1, Err: err}
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return &ParseError{Format: string(FormatJSONLD), Offset: -1, Err: fmt.Errorf("jsonld: unexpected ToRDF result %T", result)}
	}

	for name, quads := range dataset.Graphs {
		if name != jsonldDefaultGraph && len(quads) > 0 {
			options.Logger.Debug("skipped named graph", "graph", name, "quads", len(quads))
		}
	}
	var emitted int64
	for _, quad := range dataset.Graphs[jsonldDefaultGraph] {
		if err := ctx.Err(); err != nil {
			return err
		}
		if quad == nil {
			continue
		}
		st := Statement{
			S: termFromLD(quad.Subject),
			P: termFromLD(quad.Predicate),
			O: termFromLD(quad.Object),
		}
		if err := checkStatement(string(FormatJSONLD), st); err != nil {
			return err
		}
		if options.MaxTriples > 0 && emitted >= options.MaxTriples {
			return ErrTripleLimitExceeded
		}
		if err := handler.HandleTriple(st); err != nil {
			return handlerError(string(FormatJSONLD), st.S.String()+" "+st.P.String()+" "+st.O.String()+" .", 0, err)
		}
		emitted++
	}
	return nil
}

// termFromLD converts a json-gold node. xsd:string literals become plain
// literals, since JSON-LD cannot tell the two apart.
func termFromLD(node ld.Node) graph.Term {
	switch n := node.(type) {
	case ld.IRI:
		return graph.IRI(n.Value)
	case ld.BlankNode:
		return graph.Blank(strings.TrimPrefix(n.Attribute, "_:"))
	case ld.Literal:
		switch {
		case n.Language != "":
			return graph.LangLiteral(n.Value, n.Language)
		case n.Datatype == "" || n.Datatype == graph.XSDString:
			return graph.Literal(n.Value)
		default:
			return graph.TypedLiteral(n.Value, n.Datatype)
		}
	default:
		return graph.Term{}
	}
}

// contextPrefixes collects the simple term definitions of the top-level
// context that can serve as prefixes.
func contextPrefixes(doc any) map[string]string {
	out := make(map[string]string)
	obj, ok := doc.(map[string]any)
	if !ok {
		return out
	}
	var collect func(ctx any)
	collect = func(ctx any) {
		switch v := ctx.(type) {
		case []any:
			for _, item := range v {
				collect(item)
			}
		case map[string]any:
			for term, def := range v {
				uri, ok := def.(string)
				if !ok || strings.HasPrefix(term, "@") || strings.Contains(term, ":") {
					continue
				}
				if strings.HasSuffix(uri, "/") || strings.HasSuffix(uri, "#") {
					out[term] = uri
				}
			}
		}
	}
	collect(obj["@context"])
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// jsonldWriter converts the graph through N-Quads into JSON-LD. With
// compression the output is compacted against a context built from the
// graph's prefixes.
type jsonldWriter struct {
	opts WriterOptions
}

func (w *jsonldWriter) Capabilities() Capability { return CapPrettyPrint | CapCompression }

func (w *jsonldWriter) Options() WriterOptions { return w.opts }

func (w *jsonldWriter) Write(ctx context.Context, out io.Writer, g *graph.Graph) error {
	var nquads strings.Builder
	if err := (ntWriter{}).Write(ctx, &nquads, g); err != nil {
		return err
	}

	proc := ld.NewJsonLdProcessor()
	goldOpts := ld.NewJsonLdOptions("")
	goldOpts.Format = "application/n-quads"
	goldOpts.UseNativeTypes = w.opts.CompressionLevel >= CompressionHigh
	expanded, err := proc.FromRDF(nquads.String(), goldOpts)
	if err != nil {
		return fmt.Errorf("jsonld: %w", err)
	}

	doc := expanded
	if w.opts.CompressionLevel >= CompressionSome {
		if err := ctx.Err(); err != nil {
			return err
		}
		prefixes := make(map[string]any)
		for prefix, uri := range g.Namespaces().Map() {
			if prefix != "" {
				prefixes[prefix] = uri
			}
		}
		compactOpts := ld.NewJsonLdOptions("")
		compacted, err := proc.Compact(expanded, map[string]any{"@context": prefixes}, compactOpts)
		if err != nil {
			return fmt.Errorf("jsonld: %w", err)
		}
		doc = compacted
	}

	var data []byte
	if w.opts.PrettyPrint {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = out.Write(data)
	return err
}
