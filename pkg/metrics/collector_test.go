package metrics

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/strcalc/strcalc/pkg/calculator"
)

// parseText decodes a text exposition from r into metric families.
func parseText(t *testing.T, r io.Reader) map[string]*dto.MetricFamily {
	t.Helper()
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil {
		t.Fatalf("parse exposition: %v", err)
	}
	return mfs
}

// callsByOutcome flattens the calls family into outcome → value.
func callsByOutcome(mf *dto.MetricFamily) map[string]float64 {
	out := make(map[string]float64)
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "outcome" {
				out[lp.GetValue()] = m.GetCounter().GetValue()
			}
		}
	}
	return out
}

func counterValue(mf *dto.MetricFamily) float64 {
	if mf == nil || len(mf.GetMetric()) == 0 {
		return 0
	}
	return mf.GetMetric()[0].GetCounter().GetValue()
}

func TestCollector_WithCalculator(t *testing.T) {
	col := NewCollector()
	c := calculator.New(calculator.WithObserver(col))

	// Calls that fail on a bad token report no counts, so tokens are 2+2+3.
	c.SumString("1,2")
	c.SumString("1001\n5")
	c.SumString("0\n-10\n-1000")
	c.SumString("a")
	c.SumString("1,\n")
	c.Sum(nil)

	var buf bytes.Buffer
	if err := col.WriteText(&buf); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	mfs := parseText(t, &buf)

	wantCalls := map[string]float64{
		OutcomeOK:         2,
		"null_input":      1,
		"malformed_input": 1,
		"number_format":   1,
		"negative_number": 1,
		"unknown":         0,
	}
	if diff := cmp.Diff(wantCalls, callsByOutcome(mfs[MetricCalls])); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}

	if got := counterValue(mfs[MetricTokens]); got != 7 {
		t.Errorf("%s = %v, want 7", MetricTokens, got)
	}
	if got := counterValue(mfs[MetricClamped]); got != 1 {
		t.Errorf("%s = %v, want 1", MetricClamped, got)
	}
	if got := counterValue(mfs[MetricNegatives]); got != 2 {
		t.Errorf("%s = %v, want 2", MetricNegatives, got)
	}

	dur := mfs[MetricDuration]
	if dur.GetType() != dto.MetricType_SUMMARY {
		t.Fatalf("%s type = %v, want SUMMARY", MetricDuration, dur.GetType())
	}
	if got := dur.GetMetric()[0].GetSummary().GetSampleCount(); got != 6 {
		t.Errorf("%s count = %d, want 6", MetricDuration, got)
	}
}

func TestCollector_NumberFormatCountsNothing(t *testing.T) {
	col := NewCollector()
	c := calculator.New(calculator.WithObserver(col))

	c.SumString("-1,2000\nx")

	if got := col.Calls("number_format"); got != 1 {
		t.Fatalf("Calls(number_format) = %d, want 1", got)
	}
	mfs := make(map[string]*dto.MetricFamily)
	for _, mf := range col.Gather() {
		mfs[mf.GetName()] = mf
	}
	for _, name := range []string{MetricNegatives, MetricClamped, MetricTokens} {
		if got := counterValue(mfs[name]); got != 0 {
			t.Errorf("%s = %v, want 0", name, got)
		}
	}
}

func TestCollector_ObservingDoesNotChangeResults(t *testing.T) {
	plain := calculator.New()
	observed := calculator.New(calculator.WithObserver(NewCollector()))

	for _, in := range []string{"1\n2,3", "//;\n1;2", "-1,-2", "x"} {
		a, errA := plain.SumString(in)
		b, errB := observed.SumString(in)
		if a != b || calculator.KindOf(errA) != calculator.KindOf(errB) {
			t.Errorf("%q: plain=(%d,%v) observed=(%d,%v)", in, a, errA, b, errB)
		}
	}
}

func TestCollector_GatherSortedAndStable(t *testing.T) {
	col := NewCollector()
	mfs := col.Gather()

	var names []string
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	want := []string{MetricClamped, MetricNegatives, MetricCalls, MetricDuration, MetricTokens}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("family order mismatch (-want +got):\n%s", diff)
	}

	for _, mf := range mfs {
		if mf.GetName() == MetricCalls && len(mf.GetMetric()) != len(outcomes) {
			t.Errorf("calls family has %d series, want %d", len(mf.GetMetric()), len(outcomes))
		}
	}
}

func TestCollector_Concurrent(t *testing.T) {
	col := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				col.ObserveSum(calculator.Report{Tokens: 1, Elapsed: time.Microsecond})
			}
		}()
	}
	wg.Wait()

	if got := col.Calls(OutcomeOK); got != 1000 {
		t.Errorf("Calls(ok) = %d, want 1000", got)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		kind calculator.Kind
		want string
	}{
		{calculator.KindNone, "ok"},
		{calculator.KindNegativeNumber, "negative_number"},
		{calculator.KindMalformedInput, "malformed_input"},
	}
	for _, tc := range tests {
		if got := Outcome(tc.kind); got != tc.want {
			t.Errorf("Outcome(%q) = %q, want %q", tc.kind, got, tc.want)
		}
	}
}

func TestContentType(t *testing.T) {
	if ct := ContentType(); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("ContentType() = %q, want text/plain", ct)
	}
}
