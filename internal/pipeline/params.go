package pipeline

import (
	"fmt"
	"time"

	"github.com/yuehlin/agritrend/internal/catalog"
)

// Metric selects which of the four price fields a pivot reads.
type Metric string

const (
	MetricHigh    Metric = "high"    // 上價
	MetricMid     Metric = "mid"     // 中價
	MetricLow     Metric = "low"     // 下價
	MetricAverage Metric = "average" // 平均價
)

// ParseMetric parses a metric name; the empty string selects the
// default (average).
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricHigh, MetricMid, MetricLow, MetricAverage:
		return Metric(s), nil
	case "":
		return MetricAverage, nil
	default:
		return "", fmt.Errorf("%w: unknown metric %q (valid: high, mid, low, average)", ErrValidation, s)
	}
}

// QueryParams is the immutable description of one query. Every pipeline
// invocation receives one of these; no component reads ambient state.
type QueryParams struct {
	CropCode string
	Start    time.Time
	End      time.Time
	Markets  []string
	Metric   Metric
}

// Validate checks the query shape before any fetch happens.
// Start/End ordering is deliberately not enforced (the API answers an
// inverted range with an empty list, which maps to the empty outcome).
func (p QueryParams) Validate() error {
	if p.CropCode == "" {
		return fmt.Errorf("%w: crop code is required", ErrValidation)
	}
	if _, ok := catalog.FindCommodity(p.CropCode); !ok {
		return fmt.Errorf("%w: unknown crop code %q", ErrValidation, p.CropCode)
	}
	if len(p.Markets) == 0 {
		return fmt.Errorf("%w: at least one market must be selected", ErrValidation)
	}
	if p.Start.IsZero() || p.End.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	if _, err := ParseMetric(string(p.Metric)); err != nil {
		return err
	}
	return nil
}
