package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"librieval/internal/config"
	"librieval/internal/language"
	"librieval/internal/ledger"
	"librieval/internal/results"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var ledgerPath string
	var runs int
	var worst int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize the ledger and recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			path := strings.TrimSpace(ledgerPath)
			if path == "" {
				path = cfg.Paths.LedgerPath
			} else if path, err = config.ExpandPath(path); err != nil {
				return fmt.Errorf("resolve ledger path: %w", err)
			}

			records, err := ledger.Read(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintf(out, "Ledger: %s\n", path)
			if len(records) == 0 {
				fmt.Fprintln(out, "No scored files")
			} else {
				fmt.Fprintln(out, renderLedgerSummary(records, colorize))
				if worst > 0 {
					fmt.Fprintln(out, "Highest WER")
					fmt.Fprintln(out, renderWorst(records, worst, colorize))
				}
			}

			if runs > 0 && cfg.Runner.RecordHistory {
				return reportRuns(cmd.Context(), out, cfg.Paths.ResultsDB, runs, colorize)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ledgerPath, "ledger", "", "CSV ledger path (default from config)")
	cmd.Flags().IntVar(&runs, "runs", 5, "Recent runs to list from the results store")
	cmd.Flags().IntVar(&worst, "worst", 5, "Files with the highest WER to list")
	return cmd
}

func renderLedgerSummary(records []ledger.Record, colorize bool) string {
	var sumWER, sumPER float64
	perfect := 0
	for _, rec := range records {
		sumWER += rec.WER
		sumPER += rec.PER
		if rec.WER == 0 {
			perfect++
		}
	}
	n := float64(len(records))
	rows := [][]string{
		{"Files", strconv.Itoa(len(records))},
		{"Mean WER", formatScore(sumWER / n)},
		{"Mean PER", formatScore(sumPER / n)},
		{"Exact matches", strconv.Itoa(perfect)},
	}
	return renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}, colorize)
}

func renderWorst(records []ledger.Record, limit int, colorize bool) string {
	sorted := make([]ledger.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WER > sorted[j].WER
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	rows := make([][]string, 0, len(sorted))
	for _, rec := range sorted {
		rows = append(rows, []string{rec.AudioFilename, formatScore(rec.WER), formatScore(rec.PER)})
	}
	return renderTable([]string{"File", "WER", "PER"}, rows, []columnAlignment{alignLeft, alignRight, alignRight}, colorize)
}

func reportRuns(ctx context.Context, out io.Writer, dbPath string, limit int, colorize bool) error {
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(out, "No run history")
			return nil
		}
		return fmt.Errorf("stat results store: %w", err)
	}
	store, err := results.OpenPath(dbPath)
	if err != nil {
		return fmt.Errorf("open results store: %w", err)
	}
	defer store.Close()

	runs, err := store.RecentRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No run history")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			string(run.Status),
			run.Backend,
			language.DisplayName(run.Language),
			strconv.Itoa(run.Processed),
			strconv.Itoa(run.Failed),
			formatScore(run.MeanWER),
		})
	}
	fmt.Fprintln(out, "Recent runs")
	fmt.Fprintln(out, renderTable(
		[]string{"Run", "Started", "Status", "Backend", "Language", "Scored", "Failed", "Mean WER"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
		colorize,
	))
	return nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
