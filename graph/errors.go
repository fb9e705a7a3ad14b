package graph

import (
	"errors"
	"fmt"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeUnknownPrefix indicates a prefixed name used an undeclared prefix.
	ErrCodeUnknownPrefix ErrorCode = "UNKNOWN_PREFIX"
	// ErrCodeInvalidQName indicates a prefixed name without a ':' separator.
	ErrCodeInvalidQName ErrorCode = "INVALID_QNAME"
	// ErrCodeInvalidLiteralShape indicates a literal with both a language tag and a datatype.
	ErrCodeInvalidLiteralShape ErrorCode = "INVALID_LITERAL_SHAPE"
	// ErrCodeInvalidURI indicates a URI that is empty, malformed, or relative without a base.
	ErrCodeInvalidURI ErrorCode = "INVALID_URI"
	// ErrCodeNoBaseURI indicates the graph has no base URI.
	ErrCodeNoBaseURI ErrorCode = "NO_BASE_URI"
	// ErrCodeForeignNode indicates a node owned by another graph.
	ErrCodeForeignNode ErrorCode = "FOREIGN_NODE"
	// ErrCodeInvalidTriple indicates a triple with a missing or misplaced node.
	ErrCodeInvalidTriple ErrorCode = "INVALID_TRIPLE"
)

var (
	// ErrUnknownPrefix indicates a prefixed name used an undeclared prefix.
	ErrUnknownPrefix = errors.New("graph: unknown prefix")
	// ErrInvalidQName indicates a prefixed name without a ':' separator.
	ErrInvalidQName = errors.New("graph: invalid prefixed name")
	// ErrInvalidLiteralShape indicates a literal with both a language tag and a datatype.
	ErrInvalidLiteralShape = errors.New("graph: literal cannot have both a language tag and a datatype")
	// ErrInvalidURI indicates a URI that is empty, malformed, or relative without a base.
	ErrInvalidURI = errors.New("graph: invalid URI")
	// ErrNoBaseURI indicates the graph has no base URI.
	ErrNoBaseURI = errors.New("graph: no base URI")
	// ErrForeignNode indicates a node owned by another graph.
	ErrForeignNode = errors.New("graph: node belongs to another graph")
	// ErrInvalidTriple indicates a triple with a missing or misplaced node.
	ErrInvalidTriple = errors.New("graph: invalid triple")

	// errBlankNodeConflict signals that a requested blank node label is
	// already taken by an unrelated node. The registry always resolves it by
	// renaming; it never leaves this package.
	errBlankNodeConflict = errors.New("graph: blank node identity conflict")
)

// Code returns the error code for an error, or an empty code when err is nil
// or not produced by this package.
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrUnknownPrefix):
		return ErrCodeUnknownPrefix
	case errors.Is(err, ErrInvalidQName):
		return ErrCodeInvalidQName
	case errors.Is(err, ErrInvalidLiteralShape):
		return ErrCodeInvalidLiteralShape
	case errors.Is(err, ErrInvalidURI):
		return ErrCodeInvalidURI
	case errors.Is(err, ErrNoBaseURI):
		return ErrCodeNoBaseURI
	case errors.Is(err, ErrForeignNode):
		return ErrCodeForeignNode
	case errors.Is(err, ErrInvalidTriple):
		return ErrCodeInvalidTriple
	}
	return ""
}

// PrefixError reports a prefixed name whose prefix is not declared.
type PrefixError struct {
	QName  string // The prefixed name as given
	Prefix string // The undeclared prefix
}

func (e *PrefixError) Error() string {
	return fmt.Sprintf("graph: unknown prefix %q in %q", e.Prefix, e.QName)
}

func (e *PrefixError) Unwrap() error { return ErrUnknownPrefix }
