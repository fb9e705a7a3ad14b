package graph

import (
	"fmt"
	"net/url"
	"strings"
)

// validateURI rejects URIs a writer could not emit between angle brackets.
func validateURI(uri string) error {
	if uri == "" {
		return fmt.Errorf("%w: empty URI", ErrInvalidURI)
	}
	for i, r := range uri {
		if r < 0x20 || r == ' ' {
			return fmt.Errorf("%w: invalid character at position %d in %q", ErrInvalidURI, i, uri)
		}
		if r == '<' || r == '>' || r == '"' {
			return fmt.Errorf("%w: character '%c' at position %d must be percent-encoded in %q", ErrInvalidURI, r, i, uri)
		}
	}
	return nil
}

// isAbsoluteURI reports whether uri has a scheme.
func isAbsoluteURI(uri string) bool {
	parsed, err := url.Parse(uri)
	if err != nil {
		// Opaque forms such as urn:... with odd characters still carry a scheme.
		scheme, _, ok := strings.Cut(uri, ":")
		return ok && isScheme(scheme)
	}
	return parsed.Scheme != "" && isScheme(parsed.Scheme)
}

func isScheme(s string) bool {
	if s == "" {
		return false
	}
	first := s[0]
	if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		return false
	}
	for i := 1; i < len(s); i++ {
		ch := s[i]
		if !((ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || isDigit(ch) || ch == '+' || ch == '-' || ch == '.') {
			return false
		}
	}
	return true
}

// resolveURI resolves a relative reference against a base URI according to
// RFC 3986.
func resolveURI(base, relative string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: base %q: %v", ErrInvalidURI, base, err)
	}
	relURL, err := url.Parse(relative)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidURI, relative, err)
	}
	if relURL.Scheme != "" {
		return relative, nil
	}
	return baseURL.ResolveReference(relURL).String(), nil
}
