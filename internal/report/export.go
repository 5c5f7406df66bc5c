package report

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/evaczone-cli/internal/batch"
)

// WriteCSV exports results as CSV with a header row.
func WriteCSV(out io.Writer, results []batch.Result) error {
	w := csv.NewWriter(out)

	if err := w.Write(headers); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	for _, r := range results {
		if err := w.Write(rowValues(r)); err != nil {
			return eris.Wrap(err, "report: write csv row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "report: flush csv")
	}
	return nil
}

// WriteXLSX exports results as a single-sheet workbook at the given path.
func WriteXLSX(path string, results []batch.Result) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Results")
	if err != nil {
		return eris.Wrap(err, "report: add xlsx sheet")
	}

	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().Value = h
	}

	for _, r := range results {
		row := sheet.AddRow()
		for _, v := range rowValues(r) {
			row.AddCell().Value = v
		}
	}

	if err := file.Save(path); err != nil {
		return eris.Wrap(err, "report: save xlsx")
	}
	return nil
}
