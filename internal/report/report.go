// Package report renders batch results as a terminal table and exports
// them to CSV and XLSX. It contains no classification logic.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sells-group/evaczone-cli/internal/batch"
)

const (
	ansiRedBold = "\x1b[1;31m"
	ansiReset   = "\x1b[0m"
)

// Options controls table rendering.
type Options struct {
	// Color highlights "Yes" order/warning cells in red.
	Color bool
}

// headers is the column set shared by the table and both export formats.
var headers = []string{
	"ADDRESS",
	"ORDER",
	"WARNING",
	"DIST_MI",
	"WARN_DIST_MI",
	"ZONE_ID",
	"ZONE_STATUS",
	"REASON",
	"ACREAGE",
	"EST_POP",
	"LAST_UPDATED",
}

// WriteTable renders results as an aligned text table, one row per address
// in batch order.
func WriteTable(out io.Writer, results []batch.Result, opts Options) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	for i, h := range headers {
		if i > 0 {
			_, _ = fmt.Fprint(w, "\t")
		}
		_, _ = fmt.Fprint(w, h)
	}
	_, _ = fmt.Fprintln(w)

	for _, r := range results {
		row := rowValues(r)
		for i, v := range row {
			if i > 0 {
				_, _ = fmt.Fprint(w, "\t")
			}
			if opts.Color && (i == 1 || i == 2) && v == string(batch.StatusYes) {
				_, _ = fmt.Fprint(w, ansiRedBold+v+ansiReset)
				continue
			}
			_, _ = fmt.Fprint(w, v)
		}
		_, _ = fmt.Fprintln(w)
	}
	_ = w.Flush()
}

// rowValues flattens one result into display cells.
func rowValues(r batch.Result) []string {
	row := []string{
		r.Address,
		string(r.OrderStatus),
		string(r.WarningStatus),
		formatMiles(r.NearestMiles),
		formatMiles(r.NearestWarningMiles),
	}

	if r.Zone != nil {
		row = append(row,
			r.Zone.ID,
			r.Zone.Status,
			r.Zone.StatusReason,
			fmt.Sprintf("%.1f", r.Zone.Acreage),
			fmt.Sprintf("%d", r.Zone.EstPopulation),
			r.Zone.LastUpdated,
		)
	} else {
		row = append(row, "", "", "", "", "", "")
	}
	return row
}

// formatMiles renders a nullable distance as "3.00" or "N/A".
func formatMiles(miles *float64) string {
	if miles == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *miles)
}
