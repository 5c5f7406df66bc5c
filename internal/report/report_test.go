package report

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/evaczone-cli/internal/batch"
)

func milesPtr(v float64) *float64 { return &v }

func sampleResults() []batch.Result {
	return []batch.Result{
		{
			Address:       "100 Hill Dr, Altadena, CA",
			OrderStatus:   batch.StatusYes,
			WarningStatus: batch.StatusNo,
			Zone: &batch.ZoneInfo{
				ID:            "LAC-E-100",
				Status:        "Evacuation Order",
				StatusReason:  "Wildfire",
				Acreage:       1520.5,
				EstPopulation: 4300,
				LastUpdated:   "2025-01-14 16:00:00",
			},
		},
		{
			Address:             "remote cabin",
			OrderStatus:         batch.StatusNo,
			WarningStatus:       batch.StatusNo,
			NearestMiles:        milesPtr(3.0),
			NearestWarningMiles: milesPtr(7.25),
		},
		{
			Address:       "Nowhere, XX",
			OrderStatus:   batch.StatusNotAvailable,
			WarningStatus: batch.StatusNotAvailable,
		},
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, sampleResults(), Options{})

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4, "header plus one row per result")

	assert.Contains(t, lines[0], "ADDRESS")
	assert.Contains(t, lines[1], "LAC-E-100")
	assert.Contains(t, lines[2], "3.00")
	assert.Contains(t, lines[2], "7.25")
	assert.Contains(t, lines[3], "N/A")
	assert.NotContains(t, out, ansiRedBold, "no color without the option")
}

func TestWriteTableColorHighlightsYes(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, sampleResults(), Options{Color: true})

	assert.Contains(t, buf.String(), ansiRedBold+"Yes"+ansiReset)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResults()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, headers, records[0])
	assert.Equal(t, "100 Hill Dr, Altadena, CA", records[1][0])
	assert.Equal(t, "Yes", records[1][1])
	assert.Equal(t, "N/A", records[1][3], "contained rows have no distance")
	assert.Equal(t, "3.00", records[2][3])
	assert.Equal(t, "", records[2][5], "distance rows have no zone attributes")
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")
	require.NoError(t, WriteXLSX(path, sampleResults()))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Results", sheet.Name)
	require.Len(t, sheet.Rows, 4)
	assert.Equal(t, "ADDRESS", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "LAC-E-100", sheet.Rows[1].Cells[5].Value)
}
