package calculator

import (
	"log/slog"
	"strings"
)

// Default values used when Options fields are left at their zero value.
const (
	DefaultDelimiter = ","
	DefaultMaxValue  = 1000
	DefaultWorkers   = 1
)

// Options tune the summation rules.
type Options struct {
	// DefaultDelimiter splits tokens when the input has no declaration line.
	// Empty or newline-containing values fall back to ",".
	DefaultDelimiter string

	// MaxValue is the largest number that still counts towards the sum.
	// Larger numbers contribute 0.
	MaxValue int

	// Workers bounds how many lines are evaluated concurrently.
	// 1 (or less) evaluates lines sequentially.
	Workers int

	// RejectEmptyTokens turns empty tokens ("1,,2", "1,") into
	// NumberFormatError instead of letting them contribute 0.
	RejectEmptyTokens bool
}

// DefaultOptions returns the classic rules: comma delimiter, numbers above
// 1000 ignored, sequential evaluation, empty tokens tolerated.
func DefaultOptions() Options {
	return Options{
		DefaultDelimiter: DefaultDelimiter,
		MaxValue:         DefaultMaxValue,
		Workers:          DefaultWorkers,
	}
}

func (o Options) normalized() Options {
	if o.DefaultDelimiter == "" || strings.Contains(o.DefaultDelimiter, "\n") {
		o.DefaultDelimiter = DefaultDelimiter
	}
	if o.MaxValue < 0 {
		o.MaxValue = 0
	}
	if o.Workers < 1 {
		o.Workers = DefaultWorkers
	}
	return o
}

// Option configures a Calculator built by New.
type Option func(*Calculator)

// WithOptions replaces the summation rules.
func WithOptions(opts Options) Option {
	return func(c *Calculator) { c.opts = opts }
}

// WithLogger sets the logger used for per-call debug records.
// Without it the calculator logs through slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Calculator) { c.logger = l }
}

// WithObserver registers o to receive one Report per call.
func WithObserver(o Observer) Option {
	return func(c *Calculator) { c.observer = o }
}
