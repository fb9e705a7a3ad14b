package graph

import (
	"fmt"
	"strings"
)

// NodeKind identifies the variant of an RDF node.
type NodeKind uint8

const (
	// NodeURI represents a URI node.
	NodeURI NodeKind = iota + 1
	// NodeBlank represents a blank node.
	NodeBlank
	// NodeLiteral represents a literal node.
	NodeLiteral
)

func (k NodeKind) String() string {
	switch k {
	case NodeURI:
		return "uri"
	case NodeBlank:
		return "blank"
	case NodeLiteral:
		return "literal"
	default:
		return "none"
	}
}

// Well-known vocabulary URIs.
const (
	RDFNamespace     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFType          = RDFNamespace + "type"
	RDFLangString    = RDFNamespace + "langString"
	XSDNamespace     = "http://www.w3.org/2001/XMLSchema#"
	XSDString        = XSDNamespace + "string"
	XSDInteger       = XSDNamespace + "integer"
	XSDBoolean       = XSDNamespace + "boolean"
	XSDDecimal       = XSDNamespace + "decimal"
	XSDDouble        = XSDNamespace + "double"
	XSDDateTime      = XSDNamespace + "dateTime"
	RDFSNamespace    = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace     = "http://www.w3.org/2002/07/owl#"
	FOAFNamespace    = "http://xmlns.com/foaf/0.1/"
	DCTermsNamespace = "http://purl.org/dc/terms/"
)

// Term is the value-level description of a node. It carries no identity:
// interning a Term in a Graph yields that graph's Node for the value.
//
// Value holds the URI for NodeURI, the label for NodeBlank and the lexical
// form for NodeLiteral. Lang and Datatype only apply to literals and are
// mutually exclusive.
type Term struct {
	Kind     NodeKind
	Value    string
	Lang     string
	Datatype string
}

// IRI describes a URI node.
func IRI(uri string) Term { return Term{Kind: NodeURI, Value: uri} }

// Blank describes a blank node with the given label. An empty label asks for
// a fresh anonymous node.
func Blank(label string) Term { return Term{Kind: NodeBlank, Value: label} }

// Literal describes a plain literal.
func Literal(lexical string) Term { return Term{Kind: NodeLiteral, Value: lexical} }

// LangLiteral describes a language-tagged literal.
func LangLiteral(lexical, lang string) Term {
	return Term{Kind: NodeLiteral, Value: lexical, Lang: lang}
}

// TypedLiteral describes a literal with a datatype URI.
func TypedLiteral(lexical, datatype string) Term {
	return Term{Kind: NodeLiteral, Value: lexical, Datatype: datatype}
}

// IsZero reports whether the term describes nothing.
func (t Term) IsZero() bool { return t.Kind == 0 }

// String renders the term in N-Triples syntax.
func (t Term) String() string {
	switch t.Kind {
	case NodeURI:
		return "<" + t.Value + ">"
	case NodeBlank:
		return "_:" + t.Value
	case NodeLiteral:
		if t.Lang != "" {
			return fmt.Sprintf("%q@%s", t.Lexical(), t.Lang)
		}
		if t.Datatype != "" {
			return fmt.Sprintf("%q^^<%s>", t.Lexical(), t.Datatype)
		}
		return fmt.Sprintf("%q", t.Lexical())
	default:
		return ""
	}
}

// Lexical returns the lexical form of a literal term.
func (t Term) Lexical() string { return t.Value }

// canonical validates the term and returns the form used as the interning
// key. Language tags compare case-insensitively, so they are lower-cased.
func (t Term) canonical() (Term, error) {
	switch t.Kind {
	case NodeURI:
		if t.Value == "" {
			return Term{}, fmt.Errorf("%w: empty URI", ErrInvalidURI)
		}
		return Term{Kind: NodeURI, Value: t.Value}, nil
	case NodeBlank:
		return Term{Kind: NodeBlank, Value: t.Value}, nil
	case NodeLiteral:
		if t.Lang != "" && t.Datatype != "" {
			return Term{}, fmt.Errorf("%w: %q@%s^^<%s>", ErrInvalidLiteralShape, t.Value, t.Lang, t.Datatype)
		}
		return Term{Kind: NodeLiteral, Value: t.Value, Lang: strings.ToLower(t.Lang), Datatype: t.Datatype}, nil
	default:
		return Term{}, fmt.Errorf("%w: unknown node kind %d", ErrInvalidTriple, t.Kind)
	}
}
