package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yuehlin/agritrend/internal/api"
	"github.com/yuehlin/agritrend/internal/api/handlers"
	"github.com/yuehlin/agritrend/internal/external/moa"
	"github.com/yuehlin/agritrend/internal/pipeline"
	"github.com/yuehlin/agritrend/pkg/config"
	"github.com/yuehlin/agritrend/pkg/httputil"
	"github.com/yuehlin/agritrend/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "啟動 REST API 伺服器",
	Long: `Starts the REST API server.

Endpoints:
  GET /health                    - Health check
  GET /api/catalog/commodities   - 品種目錄
  GET /api/catalog/markets       - 市場目錄
  GET /api/trend                 - 行情查詢 (pivot + table)
  GET /api/trend/export          - 行情匯出 (xlsx)

Example:
  go run ./cmd/agritrend api
  go run ./cmd/agritrend api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from PORT env)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if apiPort != "" {
		cfg.Port = apiPort
	}
	if verbose {
		cfg.LogLevel = "debug"
		cfg.LogFormat = "console"
	}

	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	httpClient := httputil.New(cfg, log)
	moaClient := moa.NewClient(httpClient, cfg, log)
	pipe := pipeline.New(moaClient, log)

	trendHandler := handlers.NewTrendHandler(pipe, log)
	catalogHandler := handlers.NewCatalogHandler(log)

	router := api.NewRouter(trendHandler, catalogHandler, log)
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
