package moa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/yuehlin/agritrend/pkg/config"
	"github.com/yuehlin/agritrend/pkg/httputil"
	"github.com/yuehlin/agritrend/pkg/logger"
)

// Client handles communication with the MOA open-data platform
// ⭐ SSOT: FarmTransData API 呼叫只在這個 client
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new MOA open-data client
func NewClient(httpClient *httputil.Client, cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.MOA.BaseURL,
	}
}

// StatusError reports a non-2xx response from the endpoint.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("moa: unexpected status code: %d", e.StatusCode)
}

// FetchTrans fetches wholesale transaction records for one commodity and
// date range. An empty slice is a legitimate result (no trades in range),
// not an error.
func (c *Client) FetchTrans(ctx context.Context, params TransParams) ([]RawRecord, error) {
	fullURL := fmt.Sprintf("%s?%s", c.baseURL, params.Values().Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var records []RawRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"crop_code": params.CropCode,
		"count":     len(records),
	}).Debug("Fetched transaction records")

	return records, nil
}
