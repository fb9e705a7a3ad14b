// Package rdf reads and writes graphs from the graph package.
//
// Parsers stream value-level statements to a TripleHandler:
//   - ParseNTriples reads N-Triples line by line.
//   - ParseJSONLD converts a JSON-LD document to RDF with json-gold.
//
// NewGraphHandler interns and asserts statements into a graph; Load,
// LoadNTriples and LoadJSONLD wrap it. Malformed input is reported as a
// *ParseError. Input that parses but cannot form a triple, such as a literal
// subject, is reported as a *StructuralViolation.
//
// Writers serialize a whole graph. Each writer declares its capabilities up
// front and NewWriter keeps only the options it supports:
//
//	w, err := rdf.NewWriter(rdf.FormatTurtle, rdf.WriterOptions{
//	    PrettyPrint:      true,
//	    CompressionLevel: rdf.CompressionHigh,
//	})
//	if err != nil {
//	    // handle error
//	}
//	err = w.Write(ctx, os.Stdout, g)
//
// N-Triples has no options. Turtle supports pretty printing, prefix and
// shorthand compression, and a high-speed mode for large graphs. JSON-LD
// supports pretty printing and compaction against the graph's prefixes.
package rdf
