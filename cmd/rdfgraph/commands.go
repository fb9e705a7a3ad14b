package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdf-graph/graph"
	"github.com/geoknoesis/rdf-graph/rdf"
)

// loadFile parses path into g. The format comes from the flag value, then
// the file extension, then the content.
func (a *app) loadFile(ctx context.Context, g *graph.Graph, path, format string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var in rdf.Format
	if format != "" {
		var ok bool
		if in, ok = rdf.ParseFormat(format); !ok {
			return 0, fmt.Errorf("%w: %q", rdf.ErrUnsupportedFormat, format)
		}
	} else if guessed, ok := rdf.FormatFromPath(path); ok && guessed.Readable() {
		in = guessed
	}
	added, err := rdf.Load(ctx, g, f, in, a.cfg.ParseOptions(a.logger)...)
	if err != nil {
		return added, fmt.Errorf("%s: %w", path, err)
	}
	a.logger.Info("loaded", "path", path, "added", added, "triples", g.Len())
	return added, nil
}

// writeGraph writes g to path, or to out when path is empty or "-".
func (a *app) writeGraph(ctx context.Context, out io.Writer, g *graph.Graph, path, format string) error {
	var (
		outFormat rdf.Format
		ok        bool
		err       error
	)
	switch {
	case format != "":
		if outFormat, ok = rdf.ParseFormat(format); !ok {
			return fmt.Errorf("%w: %q", rdf.ErrUnsupportedFormat, format)
		}
	case path != "" && path != "-":
		if outFormat, ok = rdf.FormatFromPath(path); !ok {
			outFormat, err = a.cfg.OutputFormat()
		}
	default:
		outFormat, err = a.cfg.OutputFormat()
	}
	if err != nil {
		return err
	}
	opts, err := a.cfg.WriterOptions()
	if err != nil {
		return err
	}

	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := rdf.WriteGraph(ctx, f, g, outFormat, opts); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		a.logger.Info("wrote", "path", path, "format", string(outFormat), "triples", g.Len())
		return nil
	}
	return rdf.WriteGraph(ctx, out, g, outFormat, opts)
}

func newDemoCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Build a small graph and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := buildDemoGraph(a)
			if err != nil {
				return err
			}
			for t := range g.Triples() {
				a.logger.Debug("triple", "value", t.String())
			}
			return a.writeGraph(cmd.Context(), cmd.OutOrStdout(), g, "", format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format (ntriples, turtle, jsonld)")
	return cmd
}

// buildDemoGraph returns a graph stating "Hello World" in two languages.
func buildDemoGraph(a *app) (*graph.Graph, error) {
	g, err := a.cfg.NewGraph(a.logger)
	if err != nil {
		return nil, err
	}
	g.Namespaces().AddNamespace("ex", "http://example.org/")
	dotNetRDF, err := g.CreateURINode("http://www.dotnetrdf.org")
	if err != nil {
		return nil, err
	}
	says, err := g.CreateQNameNode("ex:says")
	if err != nil {
		return nil, err
	}
	_, err = g.AssertAll(
		graph.NewTriple(dotNetRDF, says, g.CreateLiteralNode("Hello World")),
		graph.NewTriple(dotNetRDF, says, g.CreateLangLiteralNode("Bonjour tout le Monde", "fr")),
	)
	return g, err
}

func newConvertCmd(a *app) *cobra.Command {
	var from, to, output string
	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert an RDF file to another format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.cfg.NewGraph(a.logger)
			if err != nil {
				return err
			}
			if _, err := a.loadFile(cmd.Context(), g, args[0], from); err != nil {
				return err
			}
			return a.writeGraph(cmd.Context(), cmd.OutOrStdout(), g, output, to)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "input format (ntriples, jsonld)")
	cmd.Flags().StringVarP(&to, "to", "t", "", "output format (ntriples, turtle, jsonld)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newQueryCmd(a *app) *cobra.Command {
	var (
		from      string
		s, p, o   string
		countOnly bool
	)
	cmd := &cobra.Command{
		Use:   "query <input>",
		Short: "Print the triples matching a pattern",
		Long: "Print the triples matching a pattern. Each position takes <uri>, a prefixed\n" +
			"name, _:label, \"literal\" (with @lang or ^^datatype) or nothing for any node.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.cfg.NewGraph(a.logger)
			if err != nil {
				return err
			}
			if _, err := a.loadFile(cmd.Context(), g, args[0], from); err != nil {
				return err
			}
			pattern := make([]graph.Node, 3)
			for i, arg := range []string{s, p, o} {
				n, ok, err := resolvePattern(g, arg)
				if err != nil {
					return err
				}
				if !ok {
					a.logger.Debug("pattern node not in graph", "term", arg)
					return printMatches(cmd.OutOrStdout(), nil, countOnly)
				}
				pattern[i] = n
			}
			matches := g.Match(pattern[0], pattern[1], pattern[2])
			var triples []graph.Triple
			for t := range matches {
				triples = append(triples, t)
			}
			return printMatches(cmd.OutOrStdout(), triples, countOnly)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "input format (ntriples, jsonld)")
	cmd.Flags().StringVarP(&s, "subject", "s", "", "subject pattern")
	cmd.Flags().StringVarP(&p, "predicate", "p", "", "predicate pattern")
	cmd.Flags().StringVarP(&o, "object", "o", "", "object pattern")
	cmd.Flags().BoolVar(&countOnly, "count", false, "print only the number of matches")
	return cmd
}

func printMatches(w io.Writer, triples []graph.Triple, countOnly bool) error {
	if countOnly {
		_, err := fmt.Fprintln(w, len(triples))
		return err
	}
	for _, t := range triples {
		if _, err := fmt.Fprintln(w, t.String()); err != nil {
			return err
		}
	}
	return nil
}

// resolvePattern maps a command line term to a node of g. An empty argument
// is a wildcard. ok is false when the term does not occur in g.
func resolvePattern(g *graph.Graph, arg string) (graph.Node, bool, error) {
	if arg == "" {
		return graph.Node{}, true, nil
	}
	term, err := parseTermArg(g.Namespaces(), arg)
	if err != nil {
		return graph.Node{}, false, err
	}
	n, ok := g.Lookup(term)
	return n, ok, nil
}

func parseTermArg(ns *graph.NamespaceMapper, arg string) (graph.Term, error) {
	switch {
	case arg == "a":
		return graph.IRI(graph.RDFType), nil
	case strings.HasPrefix(arg, "<") && strings.HasSuffix(arg, ">"):
		return graph.IRI(arg[1 : len(arg)-1]), nil
	case strings.HasPrefix(arg, "_:"):
		return graph.Blank(arg[2:]), nil
	case strings.HasPrefix(arg, `"`):
		end := strings.LastIndex(arg, `"`)
		if end == 0 {
			return graph.Term{}, fmt.Errorf("unterminated literal %s", arg)
		}
		lexical, suffix := arg[1:end], arg[end+1:]
		switch {
		case suffix == "":
			return graph.Literal(lexical), nil
		case strings.HasPrefix(suffix, "@"):
			return graph.LangLiteral(lexical, suffix[1:]), nil
		case strings.HasPrefix(suffix, "^^"):
			dt, err := parseTermArg(ns, suffix[2:])
			if err != nil {
				return graph.Term{}, err
			}
			if dt.Kind != graph.NodeURI {
				return graph.Term{}, fmt.Errorf("datatype of %s is not a URI", arg)
			}
			return graph.TypedLiteral(lexical, dt.Value), nil
		}
		return graph.Term{}, fmt.Errorf("unexpected %q after literal", suffix)
	default:
		uri, err := ns.Expand(arg)
		if err != nil {
			return graph.Term{}, err
		}
		return graph.IRI(uri), nil
	}
}

func newMergeCmd(a *app) *cobra.Command {
	var (
		from, to, output string
		keepNames        bool
	)
	cmd := &cobra.Command{
		Use:   "merge <input> <input>...",
		Short: "Merge RDF files into one graph",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := a.cfg.NewGraph(a.logger)
			if err != nil {
				return err
			}
			if _, err := a.loadFile(cmd.Context(), target, args[0], from); err != nil {
				return err
			}
			for _, path := range args[1:] {
				src, err := a.cfg.NewGraph(a.logger)
				if err != nil {
					return err
				}
				if _, err := a.loadFile(cmd.Context(), src, path, from); err != nil {
					return err
				}
				added, err := target.Merge(src, keepNames)
				if err != nil {
					return fmt.Errorf("merge %s: %w", path, err)
				}
				a.logger.Info("merged", "path", path, "added", added, "triples", target.Len())
			}
			return a.writeGraph(cmd.Context(), cmd.OutOrStdout(), target, output, to)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "input format (ntriples, jsonld)")
	cmd.Flags().StringVarP(&to, "to", "t", "", "output format (ntriples, turtle, jsonld)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&keepNames, "keep-blank-names", false, "keep blank node labels of merged graphs where free")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "stats <input>",
		Short: "Summarize an RDF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.cfg.NewGraph(a.logger)
			if err != nil {
				return err
			}
			if _, err := a.loadFile(cmd.Context(), g, args[0], from); err != nil {
				return err
			}
			return writeStats(cmd.OutOrStdout(), g)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "input format (ntriples, jsonld)")
	return cmd
}

func writeStats(w io.Writer, g *graph.Graph) error {
	var uris, blanks, literals int
	for range g.URINodes() {
		uris++
	}
	for range g.BlankNodes() {
		blanks++
	}
	for range g.LiteralNodes() {
		literals++
	}
	var b strings.Builder
	fmt.Fprintf(&b, "triples:    %d\n", g.Len())
	fmt.Fprintf(&b, "nodes:      %d\n", g.NodeCount())
	fmt.Fprintf(&b, "uris:       %d\n", uris)
	fmt.Fprintf(&b, "blanks:     %d\n", blanks)
	fmt.Fprintf(&b, "literals:   %d\n", literals)
	ns := g.Namespaces()
	fmt.Fprintf(&b, "namespaces: %d\n", ns.Len())
	for _, prefix := range ns.Prefixes() {
		uri, _ := ns.NamespaceURI(prefix)
		fmt.Fprintf(&b, "  %s: <%s>\n", prefix, uri)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
