package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yuehlin/agritrend/internal/catalog"
	"github.com/yuehlin/agritrend/internal/export"
	"github.com/yuehlin/agritrend/internal/external/moa"
	"github.com/yuehlin/agritrend/internal/pipeline"
	"github.com/yuehlin/agritrend/pkg/config"
	"github.com/yuehlin/agritrend/pkg/httputil"
	"github.com/yuehlin/agritrend/pkg/logger"
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "查詢行情並列出明細",
	Long: `Runs one price query against the MOA open-data API and prints the
sorted detail table. With --out the same table is written as an xlsx
file.

Example:
  go run ./cmd/agritrend query --crop FT1 --start 2024-01-01 --end 2024-01-31
  go run ./cmd/agritrend query --crop FT6 --markets 台北一,台北二 --metric high --out trend.xlsx`,
	RunE: runQuery,
}

var (
	queryCrop    string
	queryStart   string
	queryEnd     string
	queryMarkets []string
	queryMetric  string
	queryOut     string
)

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVar(&queryCrop, "crop", "FT1", "commodity code (see: agritrend catalog)")
	queryCmd.Flags().StringVar(&queryStart, "start", "", "start date, YYYY-MM-DD (default: 30 days ago)")
	queryCmd.Flags().StringVar(&queryEnd, "end", "", "end date, YYYY-MM-DD (default: today)")
	queryCmd.Flags().StringSliceVar(&queryMarkets, "markets",
		[]string{"台北一", "台北二", "台中市", "高雄市", "桃園區"}, "market labels to include")
	queryCmd.Flags().StringVar(&queryMetric, "metric", "average", "price metric: high, mid, low, average")
	queryCmd.Flags().StringVar(&queryOut, "out", "", "write the table as xlsx to this path (empty: auto filename, omit: no file)")
	queryCmd.Flags().Lookup("out").NoOptDefVal = "auto"
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !verbose {
		cfg.LogLevel = "warn"
	}
	cfg.LogFormat = "console"

	log := logger.New(cfg)

	params, err := buildQueryParams()
	if err != nil {
		return err
	}

	httpClient := httputil.New(cfg, log)
	moaClient := moa.NewClient(httpClient, cfg, log)
	pipe := pipeline.New(moaClient, log)

	outcome := pipe.Run(context.Background(), params)

	switch outcome.Status {
	case pipeline.StatusError:
		return fmt.Errorf("query failed (%s): %s", outcome.Kind, outcome.Message)

	case pipeline.StatusEmpty:
		fmt.Println(outcome.Message)
		if len(outcome.ObservedMarkets) > 0 {
			fmt.Printf("觀測到的市場: %s\n", strings.Join(outcome.ObservedMarkets, ", "))
		}
		return nil
	}

	printTable(outcome.Table)

	if outcome.Stats.Dropped > 0 {
		fmt.Printf("\n(%d 筆日期無法解析，已略過)\n", outcome.Stats.Dropped)
	}
	fmt.Printf("觀測到的市場: %s\n", strings.Join(outcome.ObservedMarkets, ", "))

	if queryOut == "" {
		return nil
	}

	path := queryOut
	if path == "auto" {
		cropName := params.CropCode
		if c, ok := catalog.FindCommodity(params.CropCode); ok {
			cropName = c.Name
		}
		path = export.Filename(params.CropCode, cropName, params.Start, params.End)
	}

	data, err := export.WriteXLSX(outcome.Table, export.DefaultSheetName)
	if err != nil {
		return fmt.Errorf("encode spreadsheet: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	fmt.Printf("已匯出 %s (%d rows)\n", path, len(outcome.Table.Rows))
	return nil
}

func buildQueryParams() (pipeline.QueryParams, error) {
	var params pipeline.QueryParams

	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if queryStart != "" {
		t, err := time.Parse("2006-01-02", queryStart)
		if err != nil {
			return params, fmt.Errorf("invalid --start (expected YYYY-MM-DD): %w", err)
		}
		start = t
	}
	if queryEnd != "" {
		t, err := time.Parse("2006-01-02", queryEnd)
		if err != nil {
			return params, fmt.Errorf("invalid --end (expected YYYY-MM-DD): %w", err)
		}
		end = t
	}

	metric, err := pipeline.ParseMetric(queryMetric)
	if err != nil {
		return params, err
	}

	return pipeline.QueryParams{
		CropCode: queryCrop,
		Start:    start,
		End:      end,
		Markets:  queryMarkets,
		Metric:   metric,
	}, nil
}

func printTable(table *pipeline.DisplayTable) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, strings.Join(table.Columns, "\t"))

	for _, row := range table.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.RocDate, row.Market, row.Crop,
			priceString(row.High), priceString(row.Mid),
			priceString(row.Low), priceString(row.Average),
			row.Volume)
	}
}

func priceString(p pipeline.Price) string {
	if !p.Valid {
		return "-"
	}
	return fmt.Sprintf("%.1f", p.Value)
}
