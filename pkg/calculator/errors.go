package calculator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for broad classification.
var (
	ErrNullInput      = errors.New("input cannot be null")
	ErrMalformedInput = errors.New("malformed input")
	ErrNumberFormat   = errors.New("invalid number")
	ErrNegativeNumber = errors.New("negatives not allowed")
)

// Kind is a coarse-grained categorization of the errors returned by Sum.
type Kind string

const (
	KindNone           Kind = ""
	KindNullInput      Kind = "null_input"
	KindMalformedInput Kind = "malformed_input"
	KindNumberFormat   Kind = "number_format"
	KindNegativeNumber Kind = "negative_number"
	KindUnknown        Kind = "unknown"
)

// Reasons carried by MalformedInputError.
const (
	reasonBoundaryNewline = "boundary cannot be newlines"
	reasonInvalidFormat   = "invalid format: delimiter declaration is not terminated by a newline"
	reasonNoDelimiters    = "invalid format: no delimiters declared"
)

// MalformedInputError reports a structural problem found before any number
// is parsed.
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return "malformed input: " + e.Reason
}

func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// NumberFormatError reports a token that is not an integer literal.
type NumberFormatError struct {
	Token string
	Line  int   // 1-based line of the input, counting the declaration line
	Err   error // usually a *strconv.NumError; nil for a rejected empty token
}

func (e *NumberFormatError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("invalid number %q on line %d", e.Token, e.Line)
}

func (e *NumberFormatError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *NumberFormatError) Is(target error) bool {
	return target == ErrNumberFormat
}

// NegativeNumberError lists every negative number of the input in the order
// it was encountered.
type NegativeNumberError struct {
	Numbers []int
}

func (e *NegativeNumberError) Error() string {
	parts := make([]string, len(e.Numbers))
	for i, n := range e.Numbers {
		parts[i] = strconv.Itoa(n)
	}
	return ErrNegativeNumber.Error() + ": " + strings.Join(parts, ",")
}

func (e *NegativeNumberError) Is(target error) bool {
	return target == ErrNegativeNumber
}

// KindOf classifies err. It returns KindNone for a nil error and KindUnknown
// for errors that did not come from this package.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNullInput):
		return KindNullInput
	case errors.Is(err, ErrMalformedInput):
		return KindMalformedInput
	case errors.Is(err, ErrNumberFormat):
		return KindNumberFormat
	case errors.Is(err, ErrNegativeNumber):
		return KindNegativeNumber
	default:
		return KindUnknown
	}
}
