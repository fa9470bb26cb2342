package pipeline

import (
	"sort"
	"time"
)

// PivotSeries is the wide, date-keyed view for charting: one series per
// market, each aligned index-for-index with Dates. A missing cell means
// that market had no session that day.
type PivotSeries struct {
	Dates   []time.Time        `json:"dates"`   // unique, ascending
	Markets []string           `json:"markets"` // sorted
	Series  map[string][]Price `json:"series"`  // market → per-date prices
}

// DisplayColumns is the fixed column order of the table view and the
// spreadsheet export.
var DisplayColumns = []string{
	"交易日期", "市場名稱", "作物名稱", "上價", "中價", "下價", "平均價", "交易量",
}

// DisplayRow is one row of the long-form table view.
type DisplayRow struct {
	Date    time.Time `json:"date"`
	RocDate string    `json:"trans_date"`
	Market  string    `json:"market_name"`
	Crop    string    `json:"crop_name"`
	High    Price     `json:"high"`
	Mid     Price     `json:"mid"`
	Low     Price     `json:"low"`
	Average Price     `json:"average"`
	Volume  string    `json:"volume"`
}

// DisplayTable is the sorted long-form view, shared by the table
// renderer and the spreadsheet exporter.
type DisplayTable struct {
	Columns []string     `json:"columns"`
	Rows    []DisplayRow `json:"rows"`
}

// FilterMarkets keeps records whose market label exactly matches one of
// the selected labels. Matching is case-sensitive and alias-blind:
// 桃園區 and 桃農 are different labels even when they are the same
// market, so callers select every label they want.
func FilterMarkets(records []Record, markets []string) []Record {
	selected := make(map[string]bool, len(markets))
	for _, m := range markets {
		selected[m] = true
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if selected[r.Market] {
			out = append(out, r)
		}
	}
	return out
}

// ObservedMarkets returns the distinct market labels present in the
// records, in first-seen order. This is the debug listing users check
// when their selection comes up empty.
func ObservedMarkets(records []Record) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if !seen[r.Market] {
			seen[r.Market] = true
			out = append(out, r.Market)
		}
	}
	return out
}

// Pivot reshapes records into a PivotSeries on the given metric.
//
// Tie-break: when the feed yields more than one record for the same
// (date, market) pair, the later record in input order wins. The feed
// does not promise uniqueness and an unstable pick would make charts
// flicker between refreshes.
func Pivot(records []Record, metric Metric) *PivotSeries {
	type cellKey struct {
		date   time.Time
		market string
	}

	cells := make(map[cellKey]Price)
	dateSet := make(map[time.Time]bool)
	marketSet := make(map[string]bool)

	for _, r := range records {
		cells[cellKey{r.Date, r.Market}] = r.Metric(metric) // last write wins
		dateSet[r.Date] = true
		marketSet[r.Market] = true
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	markets := make([]string, 0, len(marketSet))
	for m := range marketSet {
		markets = append(markets, m)
	}
	sort.Strings(markets)

	series := make(map[string][]Price, len(markets))
	for _, m := range markets {
		col := make([]Price, len(dates))
		for i, d := range dates {
			col[i] = cells[cellKey{d, m}] // zero value = missing
		}
		series[m] = col
	}

	return &PivotSeries{Dates: dates, Markets: markets, Series: series}
}

// BuildDisplayTable projects records onto the fixed display columns,
// sorted by date descending then market name ascending.
func BuildDisplayTable(records []Record) *DisplayTable {
	rows := make([]DisplayRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, DisplayRow{
			Date:    r.Date,
			RocDate: r.RocDate,
			Market:  r.Market,
			Crop:    r.Crop,
			High:    r.High,
			Mid:     r.Mid,
			Low:     r.Low,
			Average: r.Average,
			Volume:  r.Volume,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.After(rows[j].Date)
		}
		return rows[i].Market < rows[j].Market
	})

	return &DisplayTable{Columns: DisplayColumns, Rows: rows}
}
