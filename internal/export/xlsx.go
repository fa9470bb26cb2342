// Package export serializes a display table into a downloadable
// spreadsheet. It applies no transformation of its own: column order,
// row order and missing values arrive already decided.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yuehlin/agritrend/internal/pipeline"
	"github.com/yuehlin/agritrend/internal/rocdate"
)

// DefaultSheetName is used when the caller does not name the sheet.
const DefaultSheetName = "行情資料"

// WriteXLSX renders the table as a single-sheet xlsx workbook. Missing
// prices become blank cells, never "NaN" or 0. Deterministic for a
// given table.
func WriteXLSX(table *pipeline.DisplayTable, sheetName string) ([]byte, error) {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		values := []interface{}{
			row.RocDate,
			row.Market,
			row.Crop,
			priceCell(row.High),
			priceCell(row.Mid),
			priceCell(row.Low),
			priceCell(row.Average),
			row.Volume,
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// priceCell maps a missing price to a blank cell.
func priceCell(p pipeline.Price) interface{} {
	if !p.Valid {
		return nil
	}
	return p.Value
}

// Filename builds the download name:
// {code}_{cropName}_{rocStart}-{rocEnd}.xlsx with compact ROC dates.
func Filename(code, cropName string, start, end time.Time) string {
	return fmt.Sprintf("%s_%s_%s-%s.xlsx",
		code, cropName, rocdate.Compact(start), rocdate.Compact(end))
}
