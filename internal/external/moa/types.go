package moa

import (
	"net/url"
	"strconv"
	"time"

	"github.com/yuehlin/agritrend/internal/rocdate"
)

// Field names as they appear in the FarmTransData JSON payload.
const (
	FieldTransDate  = "交易日期"
	FieldCropCode   = "作物代號"
	FieldCropName   = "作物名稱"
	FieldMarketName = "市場名稱"
	FieldUpper      = "上價"
	FieldMiddle     = "中價"
	FieldLower      = "下價"
	FieldAverage    = "平均價"
	FieldVolume     = "交易量"
)

// defaultTop caps the number of records the API returns per query.
const defaultTop = 5000

// RawRecord is one record exactly as decoded from the API. The feed has
// shifted between string and numeric encodings for the price fields over
// the years, so the shape is kept loose and read through Str.
type RawRecord map[string]interface{}

// Has reports whether the record carries the given field at all.
func (r RawRecord) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Str returns the record field as a string. Numeric JSON values are
// formatted back to their shortest decimal form; anything else is "".
func (r RawRecord) Str(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// TransParams describes one FarmTransData query.
// Start/End ordering is the caller's responsibility.
type TransParams struct {
	CropCode string
	Start    time.Time
	End      time.Time
}

// Values encodes the params the way the endpoint expects: ROC-formatted
// dates and a fixed result cap. Pure, no I/O.
func (p TransParams) Values() url.Values {
	v := url.Values{}
	v.Set("CropCode", p.CropCode)
	v.Set("StartDate", rocdate.Format(p.Start))
	v.Set("EndDate", rocdate.Format(p.End))
	v.Set("$top", strconv.Itoa(defaultTop))
	return v
}
