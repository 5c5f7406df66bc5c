package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/evaczone-cli/internal/batch"
	"github.com/sells-group/evaczone-cli/internal/report"
)

var (
	checkFile    string
	checkCSVPath string
	checkXLSX    string
	checkNoColor bool
)

var checkCmd = &cobra.Command{
	Use:   "check [address]...",
	Short: "Check addresses against active evacuation zones",
	Long: "Geocodes each address and classifies it against the current feed snapshot.\n" +
		"Addresses come from arguments, --file, or stdin (one per line).",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		addresses, err := gatherAddresses(cmd.InOrStdin(), args)
		if err != nil {
			if errors.Is(err, batch.ErrNoAddresses) {
				fmt.Fprintln(os.Stderr, "Please enter at least one address.")
				return nil
			}
			return err
		}

		gc, err := buildGeocoder(cfg)
		if err != nil {
			return eris.Wrap(err, "build geocoder")
		}

		orch := batch.NewOrchestrator(gc, buildFeedClient(cfg),
			batch.WithMaxAddresses(cfg.Batch.MaxAddresses),
			batch.WithConcurrency(cfg.Batch.Concurrency),
		)

		results, err := orch.Run(ctx, addresses)
		if err != nil {
			return eris.Wrap(err, "check zones")
		}

		report.WriteTable(os.Stdout, results, report.Options{Color: !checkNoColor})

		if checkCSVPath != "" {
			f, err := os.Create(checkCSVPath)
			if err != nil {
				return eris.Wrap(err, "create csv file")
			}
			defer f.Close() //nolint:errcheck
			if err := report.WriteCSV(f, results); err != nil {
				return err
			}
		}
		if checkXLSX != "" {
			if err := report.WriteXLSX(checkXLSX, results); err != nil {
				return err
			}
		}

		return nil
	},
}

// gatherAddresses assembles the batch input: explicit arguments win,
// then --file, then stdin.
func gatherAddresses(stdin io.Reader, args []string) ([]string, error) {
	if len(args) > 0 {
		return batch.SplitAddresses(strings.Join(args, "\n"))
	}

	if checkFile != "" {
		data, err := os.ReadFile(checkFile)
		if err != nil {
			return nil, eris.Wrapf(err, "read address file %s", checkFile)
		}
		return batch.SplitAddresses(string(data))
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, eris.Wrap(err, "read stdin")
	}
	return batch.SplitAddresses(string(data))
}

func init() {
	checkCmd.Flags().StringVarP(&checkFile, "file", "f", "", "file with one address per line")
	checkCmd.Flags().StringVar(&checkCSVPath, "csv", "", "also write results to a CSV file")
	checkCmd.Flags().StringVar(&checkXLSX, "xlsx", "", "also write results to an XLSX workbook")
	checkCmd.Flags().BoolVar(&checkNoColor, "no-color", false, "disable highlighting of Yes cells")
	rootCmd.AddCommand(checkCmd)
}
