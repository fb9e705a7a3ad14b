package rdf

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/geoknoesis/rdf-graph/graph"
)

// ParseNTriples reads N-Triples from r and streams each statement to handler.
// Blank lines and comment lines are skipped. Parsing stops at the first error.
// If ctx is nil, context.Background() is used as the default.
func ParseNTriples(ctx context.Context, r io.Reader, handler TripleHandler, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}
	options := buildOptions(opts)
	reader := bufio.NewReader(r)
	var emitted int64
	for lineNo := 1; ; lineNo++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := readLine(reader, options.MaxLineBytes)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if errors.Is(err, ErrLineTooLong) {
				return &ParseError{Format: string(FormatNTriples), Line: lineNo, Offset: -1, Err: err}
			}
			return err
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		st, err := parseNTLine(trimmed)
		if err != nil {
			var cerr *cursorError
			column := 0
			if errors.As(err, &cerr) {
				column = cerr.pos + 1
			}
			return wrapParseError(string(FormatNTriples), trimmed, lineNo, column, err)
		}
		st.Line = lineNo
		if err := checkStatement(string(FormatNTriples), st); err != nil {
			return err
		}
		if options.MaxTriples > 0 && emitted >= options.MaxTriples {
			return ErrTripleLimitExceeded
		}
		if err := handler.HandleTriple(st); err != nil {
			return handlerError(string(FormatNTriples), trimmed, lineNo, err)
		}
		emitted++
	}
}

// readLine returns the next line without its terminator. A final line
// without a newline is returned as is.
func readLine(r *bufio.Reader, maxBytes int) (string, error) {
	var b strings.Builder
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			if err == io.EOF && b.Len() > 0 {
				return b.String(), nil
			}
			return "", err
		}
		b.Write(chunk)
		if maxBytes > 0 && b.Len() > maxBytes {
			return "", ErrLineTooLong
		}
		if !isPrefix {
			return b.String(), nil
		}
	}
}

func parseNTLine(line string) (Statement, error) {
	cursor := &ntCursor{input: line}
	subject, err := cursor.parseTerm()
	if err != nil {
		return Statement{}, err
	}
	predicate, err := cursor.parseTerm()
	if err != nil {
		return Statement{}, err
	}
	object, err := cursor.parseTerm()
	if err != nil {
		return Statement{}, err
	}
	if !cursor.consume('.') {
		return Statement{}, cursor.errorf("expected '.' at end of statement")
	}
	cursor.skipWS()
	if cursor.pos < len(cursor.input) && cursor.input[cursor.pos] != '#' {
		return Statement{}, cursor.errorf("unexpected content after '.'")
	}
	return Statement{S: subject, P: predicate, O: object}, nil
}

type ntCursor struct {
	input string
	pos   int
}

type cursorError struct {
	pos int
	msg string
}

func (e *cursorError) Error() string { return "ntriples: " + e.msg }

func (c *ntCursor) errorf(format string, args ...any) error {
	return &cursorError{pos: c.pos, msg: fmt.Sprintf(format, args...)}
}

func (c *ntCursor) skipWS() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		default:
			return
		}
	}
}

func (c *ntCursor) consume(ch byte) bool {
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

// parseTerm reads any term. Whether the term may stand in its position is
// checked once the whole statement has been read.
func (c *ntCursor) parseTerm() (graph.Term, error) {
	c.skipWS()
	if c.pos >= len(c.input) {
		return graph.Term{}, c.errorf("unexpected end of line")
	}
	switch {
	case c.input[c.pos] == '<':
		iri, err := c.parseIRI()
		return graph.IRI(iri), err
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNode()
	case c.input[c.pos] == '"':
		return c.parseLiteral()
	default:
		return graph.Term{}, c.errorf("unexpected token %q", c.input[c.pos])
	}
}

func (c *ntCursor) parseIRI() (string, error) {
	start := c.pos
	if !c.consume('<') {
		return "", c.errorf("expected IRI")
	}
	var b strings.Builder
	for c.pos < len(c.input) {
		ch := c.input[c.pos]
		switch {
		case ch == '>':
			c.pos++
			iri := b.String()
			if !hasScheme(iri) {
				return "", &cursorError{pos: start, msg: fmt.Sprintf("relative IRI <%s> not allowed", iri)}
			}
			return iri, nil
		case ch == '\\':
			r, err := c.parseUnicodeEscape()
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
		case ch <= ' ' || ch == '<' || ch == '"' || ch == '{' || ch == '}' || ch == '|' || ch == '^' || ch == '`':
			return "", c.errorf("invalid character %q in IRI", ch)
		default:
			b.WriteByte(ch)
			c.pos++
		}
	}
	return "", c.errorf("unterminated IRI")
}

// hasScheme reports whether iri starts with a URI scheme followed by ':'.
func hasScheme(iri string) bool {
	for i := 0; i < len(iri); i++ {
		ch := iri[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		case i > 0 && (ch >= '0' && ch <= '9' || ch == '+' || ch == '-' || ch == '.'):
		case i > 0 && ch == ':':
			return true
		default:
			return false
		}
	}
	return false
}

func (c *ntCursor) parseBlankNode() (graph.Term, error) {
	c.pos += 2
	start := c.pos
	for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
		c.pos++
	}
	// A trailing '.' belongs to the statement, not the label.
	for c.pos > start && c.input[c.pos-1] == '.' {
		c.pos--
	}
	if start == c.pos {
		return graph.Term{}, c.errorf("blank node label missing")
	}
	return graph.Blank(c.input[start:c.pos]), nil
}

func (c *ntCursor) parseLiteral() (graph.Term, error) {
	c.pos++ // opening quote
	var b strings.Builder
	closed := false
	for c.pos < len(c.input) && !closed {
		ch := c.input[c.pos]
		switch ch {
		case '"':
			c.pos++
			closed = true
		case '\\':
			if c.pos+1 >= len(c.input) {
				return graph.Term{}, c.errorf("unterminated escape")
			}
			switch next := c.input[c.pos+1]; next {
			case 'u', 'U':
				r, err := c.parseUnicodeEscape()
				if err != nil {
					return graph.Term{}, err
				}
				b.WriteRune(r)
				continue
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case '"', '\'', '\\':
				b.WriteByte(next)
			default:
				return graph.Term{}, c.errorf("invalid escape \\%c", next)
			}
			c.pos += 2
		case '\n', '\r':
			return graph.Term{}, c.errorf("line break in literal")
		default:
			b.WriteByte(ch)
			c.pos++
		}
	}
	if !closed {
		return graph.Term{}, c.errorf("unterminated literal")
	}
	lexical := b.String()
	if strings.HasPrefix(c.input[c.pos:], "@") {
		c.pos++
		start := c.pos
		for c.pos < len(c.input) && isLangChar(c.input[c.pos]) {
			c.pos++
		}
		if start == c.pos {
			return graph.Term{}, c.errorf("language tag missing")
		}
		return graph.LangLiteral(lexical, c.input[start:c.pos]), nil
	}
	if strings.HasPrefix(c.input[c.pos:], "^^") {
		c.pos += 2
		dt, err := c.parseIRI()
		if err != nil {
			return graph.Term{}, err
		}
		return graph.TypedLiteral(lexical, dt), nil
	}
	return graph.Literal(lexical), nil
}

// parseUnicodeEscape reads \uXXXX or \UXXXXXXXX at the cursor.
func (c *ntCursor) parseUnicodeEscape() (rune, error) {
	if c.pos+1 >= len(c.input) {
		return 0, c.errorf("unterminated escape")
	}
	width := 0
	switch c.input[c.pos+1] {
	case 'u':
		width = 4
	case 'U':
		width = 8
	default:
		return 0, c.errorf("invalid escape \\%c", c.input[c.pos+1])
	}
	start := c.pos + 2
	if start+width > len(c.input) {
		return 0, c.errorf("short unicode escape")
	}
	v, err := strconv.ParseUint(c.input[start:start+width], 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return 0, c.errorf("invalid unicode escape %q", c.input[c.pos:start+width])
	}
	c.pos = start + width
	return rune(v), nil
}

func isTermDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '<', '"':
		return true
	default:
		return false
	}
}

func isLangChar(ch byte) bool {
	return ch == '-' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

// ntWriter writes one statement per line. It has no options.
type ntWriter struct{}

func (ntWriter) Capabilities() Capability { return 0 }

func (ntWriter) Options() WriterOptions { return WriterOptions{} }

func (ntWriter) Write(ctx context.Context, w io.Writer, g *graph.Graph) error {
	bw := bufio.NewWriter(w)
	for _, t := range sortedTriples(g) {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := renderTerm(t.Subject().Term()) + " " +
			renderTerm(t.Predicate().Term()) + " " +
			renderTerm(t.Object().Term()) + " .\n"
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func renderIRI(iri string) string {
	return "<" + escapeIRI(iri) + ">"
}

// renderTerm renders a term in N-Triples syntax.
func renderTerm(term graph.Term) string {
	switch term.Kind {
	case graph.NodeURI:
		return renderIRI(term.Value)
	case graph.NodeBlank:
		return "_:" + term.Value
	case graph.NodeLiteral:
		quoted := `"` + escapeLiteral(term.Value) + `"`
		if term.Lang != "" {
			return quoted + "@" + term.Lang
		}
		if term.Datatype != "" {
			return quoted + "^^" + renderIRI(term.Datatype)
		}
		return quoted
	default:
		return ""
	}
}

func escapeLiteral(s string) string {
	if !strings.ContainsAny(s, "\"\\\n\r\t\b\f") && !hasControl(s) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

func escapeIRI(s string) string {
	if !strings.ContainsAny(s, "<>\"{}|^`\\") && !hasControl(s) && !strings.Contains(s, " ") {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if r <= 0x20 || strings.ContainsRune("<>\"{}|^`\\", r) {
			fmt.Fprintf(&b, `\u%04X`, r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func hasControl(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] == 0x7f {
			return true
		}
	}
	return false
}
