package metrics

import (
	"fmt"
	"io"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/strcalc/strcalc/pkg/calculator"
)

// Metric family names.
const (
	MetricCalls     = "strcalc_sum_calls_total"
	MetricTokens    = "strcalc_tokens_total"
	MetricClamped   = "strcalc_clamped_total"
	MetricNegatives = "strcalc_negatives_total"
	MetricDuration  = "strcalc_sum_duration_seconds"
)

// OutcomeOK labels calls that returned a sum.
const OutcomeOK = "ok"

// outcomes is the ordered label set of MetricCalls. Every outcome is
// exported, zero or not, so scrapes have a stable shape.
var outcomes = []string{
	OutcomeOK,
	string(calculator.KindNullInput),
	string(calculator.KindMalformedInput),
	string(calculator.KindNumberFormat),
	string(calculator.KindNegativeNumber),
	string(calculator.KindUnknown),
}

// Outcome returns the MetricCalls label for a calculator error kind.
func Outcome(k calculator.Kind) string {
	if k == calculator.KindNone {
		return OutcomeOK
	}
	return string(k)
}

// Collector counts Sum calls. It implements calculator.Observer.
//
// All exported methods are safe for concurrent use.
type Collector struct {
	mu        sync.Mutex
	calls     map[string]uint64
	tokens    uint64
	clamped   uint64
	negatives uint64
	durCount  uint64
	durSum    float64 // seconds
}

// NewCollector returns a Collector with every counter at zero.
func NewCollector() *Collector {
	return &Collector{calls: make(map[string]uint64, len(outcomes))}
}

// ObserveSum records one call.
func (c *Collector) ObserveSum(r calculator.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls[Outcome(r.Kind)]++
	c.tokens += uint64(r.Tokens)
	c.clamped += uint64(r.Clamped)
	c.negatives += uint64(len(r.Negatives))
	c.durCount++
	c.durSum += r.Elapsed.Seconds()
}

// Calls returns the number of calls recorded with the given outcome label.
func (c *Collector) Calls(outcome string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[outcome]
}

// Gather returns the current values as metric families, sorted by name.
func (c *Collector) Gather() []*dto.MetricFamily {
	c.mu.Lock()
	defer c.mu.Unlock()

	calls := make([]*dto.Metric, 0, len(outcomes))
	for _, o := range outcomes {
		calls = append(calls, &dto.Metric{
			Label:   []*dto.LabelPair{{Name: proto.String("outcome"), Value: proto.String(o)}},
			Counter: &dto.Counter{Value: proto.Float64(float64(c.calls[o]))},
		})
	}

	return []*dto.MetricFamily{
		counterFamily(MetricClamped, "Numbers above the maximum value that contributed 0.", c.clamped),
		counterFamily(MetricNegatives, "Negative numbers rejected.", c.negatives),
		{
			Name:   proto.String(MetricCalls),
			Help:   proto.String("Sum calls by outcome."),
			Type:   dto.MetricType_COUNTER.Enum(),
			Metric: calls,
		},
		{
			Name: proto.String(MetricDuration),
			Help: proto.String("Time spent in Sum."),
			Type: dto.MetricType_SUMMARY.Enum(),
			Metric: []*dto.Metric{{
				Summary: &dto.Summary{
					SampleCount: proto.Uint64(c.durCount),
					SampleSum:   proto.Float64(c.durSum),
				},
			}},
		},
		counterFamily(MetricTokens, "Tokens parsed.", c.tokens),
	}
}

// WriteText renders Gather in the Prometheus text exposition format.
func (c *Collector) WriteText(w io.Writer) error {
	for _, mf := range c.Gather() {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("metrics: write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// ContentType is the media type of WriteText output.
func ContentType() string {
	return string(expfmt.NewFormat(expfmt.TypeTextPlain))
}

func counterFamily(name, help string, v uint64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(name),
		Help: proto.String(help),
		Type: dto.MetricType_COUNTER.Enum(),
		Metric: []*dto.Metric{{
			Counter: &dto.Counter{Value: proto.Float64(float64(v))},
		}},
	}
}
