// Package pipeline turns raw FarmTransData payloads into chartable and
// tabular price series: validate → fetch → normalize → filter → reshape.
//
// Every invocation works on freshly built data and resolves to a tagged
// Outcome at the boundary; no error and no panic escapes Run.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/yuehlin/agritrend/internal/external/moa"
	"github.com/yuehlin/agritrend/pkg/logger"
)

// Fetcher is the external collaborator that retrieves raw records.
// Satisfied by *moa.Client.
type Fetcher interface {
	FetchTrans(ctx context.Context, params moa.TransParams) ([]moa.RawRecord, error)
}

// Pipeline runs queries end to end. Stateless across invocations.
type Pipeline struct {
	fetcher Fetcher
	logger  *logger.Logger
}

// New creates a Pipeline.
func New(fetcher Fetcher, log *logger.Logger) *Pipeline {
	return &Pipeline{fetcher: fetcher, logger: log}
}

// Run executes one query and resolves every failure mode into the
// returned Outcome.
func (p *Pipeline) Run(ctx context.Context, params QueryParams) Outcome {
	if err := params.Validate(); err != nil {
		return errorOutcome(KindValidation, err)
	}

	metric, _ := ParseMetric(string(params.Metric)) // validated above; "" → average

	raw, err := p.fetcher.FetchTrans(ctx, moa.TransParams{
		CropCode: params.CropCode,
		Start:    params.Start,
		End:      params.End,
	})
	if err != nil {
		p.logger.WithError(err).WithField("crop_code", params.CropCode).Error("Fetch failed")
		return errorOutcome(KindTransport, fmt.Errorf("%w: %v", ErrTransport, err))
	}

	records, stats, err := Normalize(raw, p.logger)
	if err != nil {
		p.logger.WithError(err).Error("Payload rejected")
		return errorOutcome(KindSchema, err)
	}

	if stats.Dropped > 0 {
		p.logger.WithFields(map[string]interface{}{
			"dropped":      stats.Dropped,
			"malformed":    stats.Malformed,
			"out_of_range": stats.OutOfRange,
		}).Warn("Dropped records with unparseable dates")
	}

	if len(records) == 0 {
		return Outcome{
			Status:  StatusEmpty,
			Message: "no trades in the requested range",
			Stats:   stats,
		}
	}

	observed := ObservedMarkets(records)

	filtered := FilterMarkets(records, params.Markets)
	if len(filtered) == 0 {
		return Outcome{
			Status:          StatusEmpty,
			Message:         "no trades for the selected markets",
			ObservedMarkets: observed,
			Stats:           stats,
		}
	}

	p.logger.WithFields(map[string]interface{}{
		"crop_code": params.CropCode,
		"metric":    metric,
		"rows":      len(filtered),
	}).Info("Query resolved")

	return Outcome{
		Status:          StatusOK,
		Pivot:           Pivot(filtered, metric),
		Table:           BuildDisplayTable(filtered),
		ObservedMarkets: observed,
		Stats:           stats,
	}
}

func errorOutcome(kind Kind, err error) Outcome {
	return Outcome{
		Status:  StatusError,
		Kind:    kind,
		Message: err.Error(),
	}
}

// KindOf maps a pipeline error to its failure class; used by callers
// that hold a bare error rather than an Outcome.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrSchema):
		return KindSchema
	default:
		return KindTransport
	}
}
