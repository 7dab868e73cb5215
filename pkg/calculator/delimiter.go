package calculator

import (
	"slices"
	"strings"
)

const (
	// declarationMarker introduces the delimiter declaration line.
	declarationMarker = "//"

	// declarationSeparator separates delimiters on the declaration line.
	declarationSeparator = "|"
)

// delimiterSet holds literal, non-empty delimiters ordered longest first.
type delimiterSet []string

// newDelimiterSet drops empty entries and orders the rest by descending
// length. Equal-length delimiters keep their declaration order.
func newDelimiterSet(delims []string) delimiterSet {
	set := make(delimiterSet, 0, len(delims))
	for _, d := range delims {
		if d != "" {
			set = append(set, d)
		}
	}
	slices.SortStableFunc(set, func(a, b string) int {
		return len(b) - len(a)
	})
	return set
}

// split cuts line at every delimiter occurrence. At each position the
// longest matching delimiter wins. Empty tokens are kept so the caller
// decides how to treat them; an empty line yields one empty token.
func (s delimiterSet) split(line string) []string {
	var tokens []string
	start := 0
	for i := 0; i < len(line); {
		if n := s.matchAt(line, i); n > 0 {
			tokens = append(tokens, line[start:i])
			i += n
			start = i
			continue
		}
		i++
	}
	return append(tokens, line[start:])
}

// matchAt returns the length of the delimiter found at line[i:], or 0.
func (s delimiterSet) matchAt(line string, i int) int {
	rest := line[i:]
	for _, d := range s {
		if strings.HasPrefix(rest, d) {
			return len(d)
		}
	}
	return 0
}

// header is the result of reading the optional declaration line.
type header struct {
	delims delimiterSet
	body   string // input after the declaration line
	skip   int    // lines consumed by the declaration: 0 or 1
}

// parseHeader reads the declaration line when input starts with "//" and
// falls back to def otherwise.
func parseHeader(input string, def delimiterSet) (header, error) {
	if !strings.HasPrefix(input, declarationMarker) {
		return header{delims: def, body: input}, nil
	}

	decl, body, ok := strings.Cut(input[len(declarationMarker):], "\n")
	if !ok {
		return header{}, &MalformedInputError{Reason: reasonInvalidFormat}
	}

	delims := newDelimiterSet(strings.Split(decl, declarationSeparator))
	if len(delims) == 0 {
		return header{}, &MalformedInputError{Reason: reasonNoDelimiters}
	}
	return header{delims: delims, body: body, skip: 1}, nil
}
