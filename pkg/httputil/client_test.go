package httputil

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yuehlin/agritrend/pkg/config"
	"github.com/yuehlin/agritrend/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Env: "development",
		MOA: config.MOAConfig{
			Timeout:   5 * time.Second,
			TLSVerify: false,
			RateLimit: 100,
		},
		LogLevel:  "error",
		LogFormat: "json",
	}
}

func testLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, "error")
}

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := New(testConfig(), testLogger())

	resp, err := c.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !bytes.Equal(body, []byte(`[]`)) {
		t.Errorf("body = %s, want []", body)
	}
}

func TestGetRespectsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	c := New(testConfig(), testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Get(ctx, server.URL)
	if err == nil {
		t.Error("expected error when context expires, got nil")
	}
}

func TestGetInvalidURL(t *testing.T) {
	c := New(testConfig(), testLogger())

	_, err := c.Get(context.Background(), "://not-a-url")
	if err == nil {
		t.Error("expected error for invalid URL, got nil")
	}
}

func TestRateLimiterThrottles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.MOA.RateLimit = 20 // 50ms between requests

	c := New(cfg, testLogger())

	start := time.Now()
	for i := 0; i < 3; i++ {
		resp, err := c.Get(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Get() failed: %v", err)
		}
		resp.Body.Close()
	}

	// First request is immediate, the next two wait ~50ms each
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("3 requests finished in %v, limiter not applied", elapsed)
	}
}
