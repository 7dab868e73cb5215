package calculator

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Report describes one Sum call. It is handed to the Observer after the
// call completes, whether it succeeded or not.
//
// Counts cover completed scans only: when a token fails to parse, Tokens,
// Clamped, Negatives and Sum are zero.
type Report struct {
	InputLen  int
	Lines     int // data lines, excluding the declaration line
	Tokens    int
	Clamped   int // numbers above MaxValue
	Negatives []int
	Sum       int
	Elapsed   time.Duration
	Kind      Kind // KindNone on success
}

// Observer receives a Report for every Sum call.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveSum(Report)
}

// Calculator sums delimited integer strings.
//
// A Calculator is immutable after New and safe for concurrent use.
type Calculator struct {
	opts     Options
	defaults delimiterSet
	logger   *slog.Logger
	observer Observer
}

// New returns a Calculator using DefaultOptions unless overridden.
func New(opts ...Option) *Calculator {
	c := &Calculator{opts: DefaultOptions()}
	for _, opt := range opts {
		opt(c)
	}
	c.opts = c.opts.normalized()
	c.defaults = newDelimiterSet([]string{c.opts.DefaultDelimiter})
	return c
}

var std = New()

// Sum adds up the numbers in *input using DefaultOptions.
func Sum(input *string) (int, error) {
	return std.Sum(input)
}

// SumString is Sum for an input that is known to be present.
func SumString(input string) (int, error) {
	return std.Sum(&input)
}

// Options returns the normalized rules this Calculator applies.
func (c *Calculator) Options() Options {
	return c.opts
}

// SumString is Sum for an input that is known to be present.
func (c *Calculator) SumString(input string) (int, error) {
	return c.Sum(&input)
}

// Sum adds up the numbers in *input.
//
// Structural failures (nil input, newline at either end, an unterminated
// declaration line) and the first token that is not an integer are returned
// immediately. Negative numbers are collected across the whole input and
// reported together as a *NegativeNumberError after the scan.
func (c *Calculator) Sum(input *string) (int, error) {
	start := time.Now()
	rep, err := c.sum(input)
	rep.Elapsed = time.Since(start)
	rep.Kind = KindOf(err)

	if c.observer != nil {
		c.observer.ObserveSum(rep)
	}
	c.log().Debug("calculator: sum",
		"input", quoted(input),
		"elapsed", rep.Elapsed,
		"kind", rep.Kind,
		"sum", rep.Sum,
	)

	if err != nil {
		return 0, err
	}
	return rep.Sum, nil
}

func (c *Calculator) sum(input *string) (Report, error) {
	if input == nil {
		return Report{}, ErrNullInput
	}
	s := *input
	rep := Report{InputLen: len(s)}
	if s == "" {
		return rep, nil
	}

	if s[0] == '\n' || s[len(s)-1] == '\n' {
		return rep, &MalformedInputError{Reason: reasonBoundaryNewline}
	}

	h, err := parseHeader(s, c.defaults)
	if err != nil {
		return rep, err
	}

	lines := strings.Split(h.body, "\n")
	rep.Lines = len(lines)

	var results []lineResult
	if c.opts.Workers > 1 && len(lines) > 1 {
		results = c.evalParallel(lines, h)
	} else {
		results = make([]lineResult, 0, len(lines))
		for i, line := range lines {
			r := c.evalLine(line, h.skip+i+1, h.delims)
			results = append(results, r)
			if r.err != nil {
				break
			}
		}
	}

	// Results are merged in line order, so the negatives keep encounter
	// order and the first failing token wins in both modes.
	for _, r := range results {
		if r.err != nil {
			return Report{InputLen: rep.InputLen, Lines: rep.Lines}, r.err
		}
		rep.Sum += r.sum
		rep.Tokens += r.tokens
		rep.Clamped += r.clamped
		rep.Negatives = append(rep.Negatives, r.negatives...)
	}

	if len(rep.Negatives) > 0 {
		return rep, &NegativeNumberError{Numbers: rep.Negatives}
	}
	return rep, nil
}

// lineResult is the contribution of one data line.
type lineResult struct {
	sum       int
	tokens    int
	clamped   int
	negatives []int
	err       error
}

// evalLine converts and clamps every token of line. It stops at the first
// token that is not an integer.
func (c *Calculator) evalLine(line string, lineNo int, delims delimiterSet) lineResult {
	var r lineResult
	for _, tok := range delims.split(line) {
		r.tokens++
		if tok == "" {
			if c.opts.RejectEmptyTokens {
				r.err = &NumberFormatError{Token: tok, Line: lineNo}
				return r
			}
			continue
		}

		// Literals outside the platform int range are rejected rather than
		// narrowed, so negatives are always reported with their real value.
		n, err := strconv.ParseInt(tok, 10, strconv.IntSize)
		if err != nil {
			r.err = &NumberFormatError{Token: tok, Line: lineNo, Err: err}
			return r
		}

		switch {
		case n < 0:
			r.negatives = append(r.negatives, int(n))
		case n > int64(c.opts.MaxValue):
			r.clamped++
		default:
			r.sum += int(n)
		}
	}
	return r
}

// evalParallel evaluates lines on at most Workers goroutines. Every line is
// evaluated; results are indexed by line so the caller can merge in order.
func (c *Calculator) evalParallel(lines []string, h header) []lineResult {
	results := make([]lineResult, len(lines))

	var g errgroup.Group
	g.SetLimit(c.opts.Workers)
	for i, line := range lines {
		i, line := i, line
		g.Go(func() error {
			results[i] = c.evalLine(line, h.skip+i+1, h.delims)
			return nil
		})
	}
	_ = g.Wait() // per-line failures live in results

	return results
}

func (c *Calculator) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

func quoted(input *string) string {
	if input == nil {
		return "<nil>"
	}
	return strconv.Quote(*input)
}
