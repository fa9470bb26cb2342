package commands

import (
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "agritrend",
	Short: "農產品批發市場行情查詢",
	Long: `agritrend — 台灣農產品批發市場行情分析

Fetches wholesale transaction records from the MOA open-data platform,
normalizes ROC dates and price fields, and renders a per-market trend
series, a sorted table, and an xlsx export.

Usage:
  go run ./cmd/agritrend [command]

Examples:
  go run ./cmd/agritrend api
  go run ./cmd/agritrend query --crop FT1 --start 2024-01-01 --end 2024-01-31
  go run ./cmd/agritrend catalog`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
