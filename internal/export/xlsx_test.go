package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yuehlin/agritrend/internal/pipeline"
)

func sampleTable() *pipeline.DisplayTable {
	return &pipeline.DisplayTable{
		Columns: pipeline.DisplayColumns,
		Rows: []pipeline.DisplayRow{
			{
				Date:    time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC),
				RocDate: "113.01.06",
				Market:  "台北二",
				Crop:    "南瓜-木瓜形",
				High:    pipeline.Price{Value: 35.5, Valid: true},
				Mid:     pipeline.Price{Value: 30, Valid: true},
				Low:     pipeline.Price{Value: 25, Valid: true},
				Average: pipeline.Price{Value: 30.5, Valid: true},
				Volume:  "987",
			},
			{
				Date:    time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
				RocDate: "113.01.05",
				Market:  "台北一",
				Crop:    "南瓜-木瓜形",
				High:    pipeline.Price{}, // no session
				Mid:     pipeline.Price{},
				Low:     pipeline.Price{},
				Average: pipeline.Price{},
				Volume:  "0",
			},
		},
	}
}

func TestWriteXLSX(t *testing.T) {
	data, err := WriteXLSX(sampleTable(), "南瓜行情")
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"南瓜行情"}, f.GetSheetList())

	rows, err := f.GetRows("南瓜行情")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 data rows

	assert.Equal(t, pipeline.DisplayColumns, rows[0])

	// Row order matches the table exactly
	assert.Equal(t, "113.01.06", rows[1][0])
	assert.Equal(t, "台北二", rows[1][1])
	assert.Equal(t, "35.5", rows[1][3])
	assert.Equal(t, "30.5", rows[1][6])

	assert.Equal(t, "113.01.05", rows[2][0])
	assert.Equal(t, "台北一", rows[2][1])

	// Missing prices render as blank cells, not "NaN" or 0
	for _, cell := range []string{"D3", "E3", "F3", "G3"} {
		v, err := f.GetCellValue("南瓜行情", cell)
		require.NoError(t, err)
		assert.Empty(t, v, "cell %s should be blank", cell)
	}
}

func TestWriteXLSXDefaultSheetName(t *testing.T) {
	data, err := WriteXLSX(sampleTable(), "")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DefaultSheetName}, f.GetSheetList())
}

func TestWriteXLSXEmptyTable(t *testing.T) {
	table := &pipeline.DisplayTable{Columns: pipeline.DisplayColumns}

	data, err := WriteXLSX(table, "")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only
}

func TestWriteXLSXDeterministic(t *testing.T) {
	table := sampleTable()

	a, err := WriteXLSX(table, "南瓜行情")
	require.NoError(t, err)
	b, err := WriteXLSX(table, "南瓜行情")
	require.NoError(t, err)

	// Compare cell content, not raw bytes (zip timestamps may differ)
	fa, err := excelize.OpenReader(bytes.NewReader(a))
	require.NoError(t, err)
	defer fa.Close()
	fb, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer fb.Close()

	rowsA, err := fa.GetRows("南瓜行情")
	require.NoError(t, err)
	rowsB, err := fb.GetRows("南瓜行情")
	require.NoError(t, err)
	assert.Equal(t, rowsA, rowsB)
}

func TestFilename(t *testing.T) {
	got := Filename("FT1", "南瓜-木瓜形",
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "FT1_南瓜-木瓜形_1130105-1130201.xlsx", got)
}
