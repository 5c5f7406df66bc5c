package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/evaczone-cli/internal/zone"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Inspect the evacuation zone feed",
}

var feedStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the current feed snapshot by zone status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		repo, err := buildFeedClient(cfg).Fetch(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "feed status")
		}

		formatFeedStatus(repo)
		return nil
	},
}

// formatFeedStatus prints zone counts and acreage grouped by status.
func formatFeedStatus(repo *zone.Repository) {
	type statusAgg struct {
		zones      int
		acreage    float64
		population int64
	}
	agg := make(map[string]*statusAgg)

	for _, rec := range repo.Records() {
		status := rec.Status
		if status == "" {
			status = "(unknown)"
		}
		a := agg[status]
		if a == nil {
			a = &statusAgg{}
			agg[status] = a
		}
		a.zones++
		a.acreage += rec.Acreage
		a.population += rec.EstPopulation
	}

	statuses := make([]string, 0, len(agg))
	for s := range agg {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STATUS\tZONES\tACREAGE\tEST_POP")
	_, _ = fmt.Fprintln(w, "------\t-----\t-------\t-------")
	for _, s := range statuses {
		a := agg[s]
		_, _ = fmt.Fprintf(w, "%s\t%d\t%.1f\t%d\n", s, a.zones, a.acreage, a.population)
	}
	_, _ = fmt.Fprintf(w, "TOTAL\t%d\t\t\n", repo.Len())
	_ = w.Flush()
}

func init() {
	feedCmd.AddCommand(feedStatusCmd)
	rootCmd.AddCommand(feedCmd)
}
