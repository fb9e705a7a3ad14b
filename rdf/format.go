package rdf

import (
	"bufio"
	"io"
	"path/filepath"
	"strings"
)

// Format identifies RDF serialization formats.
type Format string

const (
	FormatNTriples Format = "ntriples"
	FormatTurtle   Format = "turtle"
	FormatJSONLD   Format = "jsonld"
)

// ParseFormat normalizes a format string.
func ParseFormat(value string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "ntriples", "nt", "n-triples":
		return FormatNTriples, true
	case "turtle", "ttl":
		return FormatTurtle, true
	case "jsonld", "json-ld", "json":
		return FormatJSONLD, true
	default:
		return "", false
	}
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", false
	}
	return ParseFormat(ext)
}

// Readable reports whether the format has a parser.
func (f Format) Readable() bool {
	return f == FormatNTriples || f == FormatJSONLD
}

// DetectFormat peeks at the start of r and guesses a readable format. The
// returned reader replays the peeked bytes.
func DetectFormat(r io.Reader) (Format, io.Reader, bool) {
	br := bufio.NewReader(r)
	buf, _ := br.Peek(512)
	sample := strings.TrimSpace(string(buf))
	switch {
	case sample == "":
		return "", br, false
	case strings.HasPrefix(sample, "{"), strings.HasPrefix(sample, "["):
		return FormatJSONLD, br, true
	case strings.HasPrefix(sample, "<"), strings.HasPrefix(sample, "_:"), strings.HasPrefix(sample, "#"):
		return FormatNTriples, br, true
	default:
		return "", br, false
	}
}
