package handlers

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/yuehlin/agritrend/internal/catalog"
	"github.com/yuehlin/agritrend/internal/export"
	"github.com/yuehlin/agritrend/internal/pipeline"
	"github.com/yuehlin/agritrend/pkg/logger"
)

// TrendHandler serves the price-trend query endpoints
// ⭐ SSOT: 行情查詢 API 只在這個 handler
type TrendHandler struct {
	pipeline *pipeline.Pipeline
	logger   *logger.Logger
}

// NewTrendHandler creates a new trend handler
func NewTrendHandler(p *pipeline.Pipeline, log *logger.Logger) *TrendHandler {
	return &TrendHandler{pipeline: p, logger: log}
}

// parseQuery builds pipeline params from the request query string.
// Dates are Gregorian YYYY-MM-DD; markets are comma-separated labels.
func parseQuery(r *http.Request) (pipeline.QueryParams, error) {
	q := r.URL.Query()

	var params pipeline.QueryParams
	params.CropCode = q.Get("crop")

	if s := q.Get("start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return params, fmt.Errorf("%w: invalid 'start' date (expected YYYY-MM-DD)", pipeline.ErrValidation)
		}
		params.Start = t
	}
	if s := q.Get("end"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return params, fmt.Errorf("%w: invalid 'end' date (expected YYYY-MM-DD)", pipeline.ErrValidation)
		}
		params.End = t
	}

	for _, part := range strings.Split(q.Get("markets"), ",") {
		if part = strings.TrimSpace(part); part != "" {
			params.Markets = append(params.Markets, part)
		}
	}

	metric, err := pipeline.ParseMetric(q.Get("metric"))
	if err != nil {
		return params, err
	}
	params.Metric = metric

	return params, nil
}

// GetTrend runs the query and returns the pivot series and display table
// GET /api/trend?crop=FT1&start=2024-01-01&end=2024-01-31&markets=台北一,台北二&metric=average
func (h *TrendHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	params, err := parseQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome := h.pipeline.Run(r.Context(), params)

	respondJSON(w, outcomeHTTPStatus(outcome), outcome)
}

// Export runs the query and streams the display table as an xlsx file
// GET /api/trend/export?crop=FT1&start=...&end=...&markets=...
func (h *TrendHandler) Export(w http.ResponseWriter, r *http.Request) {
	params, err := parseQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome := h.pipeline.Run(r.Context(), params)

	switch outcome.Status {
	case pipeline.StatusOK:
		// fall through to encoding below
	case pipeline.StatusEmpty:
		// Nothing to export; the exporter is never invoked on an empty result
		respondJSON(w, http.StatusNotFound, outcome)
		return
	default:
		respondJSON(w, outcomeHTTPStatus(outcome), outcome)
		return
	}

	data, err := export.WriteXLSX(outcome.Table, export.DefaultSheetName)
	if err != nil {
		h.logger.WithError(err).Error("Spreadsheet encoding failed")
		respondError(w, http.StatusInternalServerError, "failed to encode spreadsheet")
		return
	}

	cropName := params.CropCode
	if c, ok := catalog.FindCommodity(params.CropCode); ok {
		cropName = c.Name
	}
	filename := export.Filename(params.CropCode, cropName, params.Start, params.End)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// outcomeHTTPStatus maps a pipeline outcome to an HTTP status code.
// Soft-empty results are 200s; upstream trouble is a gateway problem.
func outcomeHTTPStatus(o pipeline.Outcome) int {
	switch o.Status {
	case pipeline.StatusOK, pipeline.StatusEmpty:
		return http.StatusOK
	default:
		switch o.Kind {
		case pipeline.KindValidation:
			return http.StatusBadRequest
		default:
			return http.StatusBadGateway
		}
	}
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
