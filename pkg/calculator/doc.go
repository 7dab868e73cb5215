// Package calculator sums integers encoded in a delimited string.
//
// calculator.go provides Sum / SumString and the Calculator type that
// carries Options, an optional Observer and a logger. A nil *string is the
// absent input and fails with ErrNullInput; "" sums to 0.
//
// delimiter.go parses the optional declaration line ("//;\n" or
// "//*|%\n") and splits lines on literal delimiters, longest match first, so
// declaring both "," and ",," behaves the same in either order.
//
// errors.go holds the error taxonomy. Every error returned by Sum matches one
// of ErrNullInput, ErrMalformedInput, ErrNumberFormat or ErrNegativeNumber
// through errors.Is; KindOf maps it to a Kind.
//
// Numbers greater than Options.MaxValue (1000) contribute 0. Negative numbers
// also contribute 0 but are collected across the whole input and reported
// together in a single NegativeNumberError once every line has been scanned.
package calculator
