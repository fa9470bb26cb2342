package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/yuehlin/agritrend/internal/external/moa"
	"github.com/yuehlin/agritrend/internal/rocdate"
	"github.com/yuehlin/agritrend/pkg/logger"
)

// Price is a numeric-or-missing price. Missing covers both a
// non-numeric source string and the feed's zero sentinel; it is never a
// real price of zero, so charts break the line instead of dropping to 0.
type Price struct {
	Value float64
	Valid bool
}

// MarshalJSON renders a missing price as null, never 0 or "NaN".
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// UnmarshalJSON accepts null or a number.
func (p *Price) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = Price{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Price{Value: v, Valid: true}
	return nil
}

// Record is one normalized trading observation.
type Record struct {
	Date    time.Time // resolved Gregorian trade date
	RocDate string    // original 交易日期 string, kept for display
	Market  string
	Crop    string
	High    Price
	Mid     Price
	Low     Price
	Average Price
	Volume  string
}

// Metric returns the price selected by m.
func (r Record) Metric(m Metric) Price {
	switch m {
	case MetricHigh:
		return r.High
	case MetricMid:
		return r.Mid
	case MetricLow:
		return r.Low
	default:
		return r.Average
	}
}

// NormalizeStats counts what normalization did to the raw payload.
// Dropped rows are diagnosable here; they never fail the query.
type NormalizeStats struct {
	Total      int `json:"total"`
	Kept       int `json:"kept"`
	Dropped    int `json:"dropped"`
	Malformed  int `json:"malformed_dates"`
	OutOfRange int `json:"out_of_range_dates"`
}

// sanitizePrice applies the feed's price conventions: a value that does
// not parse is missing, and an exact 0 is the 休市 (no session) sentinel,
// also missing. 0 is the API's way of writing "no trade that day"; it
// must never survive as a real price.
func sanitizePrice(s string) Price {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Price{}
	}
	if v == 0 {
		return Price{}
	}
	return Price{Value: v, Valid: true}
}

// Normalize converts the raw payload into clean records.
//
// A syntactically valid empty list is a legitimate "no trades in range"
// result and returns zero records with no error. A first record without
// the market-name field means the payload is not FarmTransData at all
// and fails with ErrSchema. Records whose 交易日期 does not parse are
// dropped whole, counted in the stats.
func Normalize(raw []moa.RawRecord, log *logger.Logger) ([]Record, NormalizeStats, error) {
	stats := NormalizeStats{Total: len(raw)}

	if len(raw) == 0 {
		return nil, stats, nil
	}

	if !raw[0].Has(moa.FieldMarketName) {
		return nil, stats, fmt.Errorf("%w: missing %s field", ErrSchema, moa.FieldMarketName)
	}

	records := make([]Record, 0, len(raw))
	for _, r := range raw {
		rocStr := r.Str(moa.FieldTransDate)

		date, err := rocdate.Parse(rocStr)
		if err != nil {
			stats.Dropped++
			if errors.Is(err, rocdate.ErrOutOfRange) {
				stats.OutOfRange++
			} else {
				stats.Malformed++
			}
			log.WithFields(map[string]interface{}{
				"trans_date": rocStr,
				"market":     r.Str(moa.FieldMarketName),
			}).Debug("Dropped record with unparseable date")
			continue
		}

		records = append(records, Record{
			Date:    date,
			RocDate: rocStr,
			Market:  r.Str(moa.FieldMarketName),
			Crop:    r.Str(moa.FieldCropName),
			High:    sanitizePrice(r.Str(moa.FieldUpper)),
			Mid:     sanitizePrice(r.Str(moa.FieldMiddle)),
			Low:     sanitizePrice(r.Str(moa.FieldLower)),
			Average: sanitizePrice(r.Str(moa.FieldAverage)),
			Volume:  r.Str(moa.FieldVolume),
		})
	}

	stats.Kept = len(records)
	return records, stats, nil
}
