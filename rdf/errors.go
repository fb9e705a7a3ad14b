package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/geoknoesis/rdf-graph/graph"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeUnsupportedFormat indicates an unsupported format or writer.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeLineTooLong indicates a line exceeded the configured limit.
	ErrCodeLineTooLong ErrorCode = "LINE_TOO_LONG"
	// ErrCodeTripleLimitExceeded indicates that the maximum number of triples was exceeded.
	ErrCodeTripleLimitExceeded ErrorCode = "TRIPLE_LIMIT_EXCEEDED"
	// ErrCodeParseError indicates malformed input.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeStructuralViolation indicates well-formed input that is not a legal RDF triple.
	ErrCodeStructuralViolation ErrorCode = "STRUCTURAL_VIOLATION"
	// ErrCodeIOError indicates an I/O error.
	ErrCodeIOError ErrorCode = "IO_ERROR"
	// ErrCodeContextCanceled indicates the context was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
)

var (
	// ErrUnsupportedFormat indicates an unsupported format.
	ErrUnsupportedFormat = errors.New("unsupported RDF format")
	// ErrLineTooLong indicates a line exceeded the configured limit.
	ErrLineTooLong = errors.New("rdf: line exceeds configured limit")
	// ErrTripleLimitExceeded indicates that the maximum number of triples was exceeded.
	ErrTripleLimitExceeded = errors.New("rdf: maximum number of triples exceeded")
)

// Code returns the error code for an error. Errors raised by the graph
// package keep their own codes. Returns empty string for nil errors or io.EOF.
func Code(err error) ErrorCode {
	if err == nil || err == io.EOF {
		return ""
	}

	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, ErrLineTooLong):
		return ErrCodeLineTooLong
	case errors.Is(err, ErrTripleLimitExceeded):
		return ErrCodeTripleLimitExceeded
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeContextCanceled
	}

	var sv *StructuralViolation
	if errors.As(err, &sv) {
		return ErrCodeStructuralViolation
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return ErrCodeParseError
	}
	if code := graph.Code(err); code != "" {
		return ErrorCode(code)
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrCodeIOError
	}
	return ErrCodeParseError
}

// ParseError provides structured context for parse failures.
type ParseError struct {
	Format    string // Format name (e.g., "ntriples", "jsonld")
	Statement string // Offending statement or input excerpt
	Line      int    // 1-based line number (0 if unknown)
	Column    int    // 1-based column number (0 if unknown)
	Offset    int    // Byte offset in input (-1 if unknown)
	Err       error  // Underlying error
}

func (e *ParseError) Error() string {
	var msg strings.Builder
	msg.WriteString(e.Format)
	switch {
	case e.Line > 0 && e.Column > 0:
		fmt.Fprintf(&msg, ":%d:%d", e.Line, e.Column)
	case e.Line > 0:
		fmt.Fprintf(&msg, ":%d", e.Line)
	case e.Offset >= 0:
		fmt.Fprintf(&msg, " (offset %d)", e.Offset)
	}
	msg.WriteString(": ")
	msg.WriteString(e.Err.Error())
	if excerpt := e.excerpt(); excerpt != "" {
		msg.WriteString("\n  ")
		msg.WriteString(excerpt)
	}
	return msg.String()
}

// excerpt renders the statement around the error column with a caret under
// the offending byte.
func (e *ParseError) excerpt() string {
	const maxExcerptLen = 80
	const contextLen = 40

	if e.Statement == "" {
		return ""
	}
	if e.Column <= 0 {
		if len(e.Statement) > maxExcerptLen {
			return e.Statement[:maxExcerptLen] + "..."
		}
		return e.Statement
	}

	at := min(e.Column-1, len(e.Statement))
	start := max(at-contextLen, 0)
	end := min(at+contextLen, len(e.Statement))
	excerpt := e.Statement[start:end]
	caret := at - start
	if start > 0 {
		excerpt = "..." + excerpt
		caret += 3
	}
	if end < len(e.Statement) {
		excerpt += "..."
	}
	return excerpt + "\n  " + strings.Repeat(" ", max(caret, 0)) + "^"
}

func (e *ParseError) Unwrap() error { return e.Err }

// StructuralViolation reports a statement that parsed cleanly but cannot be
// a triple: a literal subject, or a predicate that is not a URI.
type StructuralViolation struct {
	Format   string
	Line     int
	Position string // "subject", "predicate" or "object"
	Kind     graph.NodeKind
	Term     graph.Term
}

func (e *StructuralViolation) Error() string {
	var msg strings.Builder
	msg.WriteString(e.Format)
	if e.Line > 0 {
		fmt.Fprintf(&msg, ":%d", e.Line)
	}
	fmt.Fprintf(&msg, ": %s cannot be the %s of a triple", e.Kind, e.Position)
	if !e.Term.IsZero() {
		msg.WriteString(": ")
		msg.WriteString(e.Term.String())
	}
	return msg.String()
}

// Unwrap lets errors.Is match graph.ErrInvalidTriple.
func (e *StructuralViolation) Unwrap() error { return graph.ErrInvalidTriple }

// wrapParseError adds format/statement/position context to a parse error.
// An error that already is a ParseError or StructuralViolation is returned
// unchanged.
func wrapParseError(format, statement string, line, column int, err error) error {
	if err == nil {
		return nil
	}
	var parseErr *ParseError
	var sv *StructuralViolation
	if errors.As(err, &parseErr) || errors.As(err, &sv) {
		return err
	}
	return &ParseError{
		Format:    format,
		Statement: statement,
		Line:      line,
		Column:    column,
		Offset:    -1,
		Err:       err,
	}
}

// handlerError adds parser context to an error returned by a TripleHandler.
// A StructuralViolation gets the format and line it lacks, and a graph error
// becomes a ParseError. Other errors are returned unchanged.
func handlerError(format, statement string, line int, err error) error {
	var sv *StructuralViolation
	if errors.As(err, &sv) {
		if sv.Format == "" {
			sv.Format = format
		}
		if sv.Line == 0 {
			sv.Line = line
		}
		return err
	}
	if graph.Code(err) == "" {
		return err
	}
	return wrapParseError(format, statement, line, 0, err)
}
