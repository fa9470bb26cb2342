package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 所有環境變數只在這裡讀取
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// External API
	MOA MOAConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// MOAConfig holds MOA (農業部開放資料平台) API configuration
type MOAConfig struct {
	BaseURL   string
	Timeout   time.Duration
	TLSVerify bool    // the endpoint has a flaky cert chain; verification off by default
	RateLimit float64 // outbound requests per second
}

// Load reads configuration from environment variables
// ⭐ SSOT: 只有這個函式呼叫 os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		// External API
		MOA: MOAConfig{
			BaseURL:   getEnv("MOA_BASE_URL", "https://data.moa.gov.tw/Service/OpenData/FromM/FarmTransData.aspx"),
			Timeout:   getEnvAsDuration("MOA_TIMEOUT", "30s"),
			TLSVerify: getEnvAsBool("MOA_TLS_VERIFY", false),
			RateLimit: getEnvAsFloat("MOA_RATE_LIMIT", 2.0),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.MOA.BaseURL == "" {
		return fmt.Errorf("MOA_BASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.MOA.RateLimit <= 0 {
		return fmt.Errorf("MOA_RATE_LIMIT must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
