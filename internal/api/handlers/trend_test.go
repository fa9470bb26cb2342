package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yuehlin/agritrend/internal/external/moa"
	"github.com/yuehlin/agritrend/internal/pipeline"
	"github.com/yuehlin/agritrend/pkg/logger"
)

type stubFetcher struct {
	records []moa.RawRecord
	err     error
}

func (s *stubFetcher) FetchTrans(ctx context.Context, params moa.TransParams) ([]moa.RawRecord, error) {
	return s.records, s.err
}

func testRecords() []moa.RawRecord {
	return []moa.RawRecord{
		{
			moa.FieldMarketName: "台北一",
			moa.FieldCropName:   "南瓜-木瓜形",
			moa.FieldTransDate:  "113.01.05",
			moa.FieldUpper:      "30.0",
			moa.FieldMiddle:     "26.0",
			moa.FieldLower:      "22.0",
			moa.FieldAverage:    "25.0",
			moa.FieldVolume:     "1234.5",
		},
	}
}

func newTrendHandler(fetcher pipeline.Fetcher) *TrendHandler {
	log := logger.NewWithWriter(io.Discard, "error")
	return NewTrendHandler(pipeline.New(fetcher, log), log)
}

func trendURL(markets string) string {
	v := url.Values{}
	v.Set("crop", "FT1")
	v.Set("start", "2024-01-01")
	v.Set("end", "2024-01-31")
	if markets != "" {
		v.Set("markets", markets)
	}
	return "/api/trend?" + v.Encode()
}

func TestGetTrend(t *testing.T) {
	h := newTrendHandler(&stubFetcher{records: testRecords()})

	req := httptest.NewRequest(http.MethodGet, trendURL("台北一,台北二"), nil)
	rec := httptest.NewRecorder()

	h.GetTrend(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out pipeline.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

	assert.Equal(t, pipeline.StatusOK, out.Status)
	require.NotNil(t, out.Pivot)
	assert.Equal(t, []string{"台北一"}, out.Pivot.Markets)
	require.NotNil(t, out.Table)
	require.Len(t, out.Table.Rows, 1)
	assert.Equal(t, "113.01.05", out.Table.Rows[0].RocDate)
}

func TestGetTrendValidationError(t *testing.T) {
	h := newTrendHandler(&stubFetcher{})

	req := httptest.NewRequest(http.MethodGet, trendURL(""), nil) // no markets
	rec := httptest.NewRecorder()

	h.GetTrend(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTrendBadDate(t *testing.T) {
	h := newTrendHandler(&stubFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/api/trend?crop=FT1&start=05.01.113&end=2024-01-31&markets=台北一", nil)
	rec := httptest.NewRecorder()

	h.GetTrend(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTrendTransportError(t *testing.T) {
	h := newTrendHandler(&stubFetcher{err: &moa.StatusError{StatusCode: 500}})

	req := httptest.NewRequest(http.MethodGet, trendURL("台北一"), nil)
	rec := httptest.NewRecorder()

	h.GetTrend(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var out pipeline.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, pipeline.KindTransport, out.Kind)
}

func TestGetTrendEmptyResult(t *testing.T) {
	h := newTrendHandler(&stubFetcher{records: nil})

	req := httptest.NewRequest(http.MethodGet, trendURL("台北一"), nil)
	rec := httptest.NewRecorder()

	h.GetTrend(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var out pipeline.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, pipeline.StatusEmpty, out.Status)
}

func TestExport(t *testing.T) {
	h := newTrendHandler(&stubFetcher{records: testRecords()})

	req := httptest.NewRequest(http.MethodGet, "/api/trend/export?crop=FT1&start=2024-01-01&end=2024-01-31&markets=台北一", nil)
	rec := httptest.NewRecorder()

	h.Export(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))

	_, disp, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "FT1_南瓜-木瓜形_1130101-1130131.xlsx", disp["filename"])

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetList()[0])
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "台北一", rows[1][1])
}

func TestExportEmptyResult(t *testing.T) {
	h := newTrendHandler(&stubFetcher{records: nil})

	req := httptest.NewRequest(http.MethodGet, "/api/trend/export?crop=FT1&start=2024-01-01&end=2024-01-31&markets=台北一", nil)
	rec := httptest.NewRecorder()

	h.Export(rec, req)

	// Exporter is not invoked on empty results
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestExportValidationError(t *testing.T) {
	h := newTrendHandler(&stubFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/api/trend/export?crop=ZZ99&start=2024-01-01&end=2024-01-31&markets=台北一", nil)
	rec := httptest.NewRecorder()

	h.Export(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
