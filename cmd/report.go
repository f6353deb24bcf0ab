package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jsphweid/melodex/config"
	"github.com/jsphweid/melodex/corpus"
	"github.com/jsphweid/melodex/ledger"
	"github.com/jsphweid/melodex/logger"
	"github.com/jsphweid/melodex/model"
	"github.com/jsphweid/melodex/util"
	"github.com/spf13/cobra"
)

var reportRunID string

func init() {
	reportCmd.Flags().StringVar(&reportRunID, "run", "", "run id to report on (defaults to the latest)")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates a report",
	Long:  `Summarizes the latest preprocessing run and the encoded songs on disk`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return report(cmd.Context(), os.Stdout, cfg, reportRunID)
	},
}

type songsReport struct {
	numFiles   int
	numSymbols []int
	numBytes   int64
}

func analyzeSongs(dir string) (songsReport, error) {
	var report songsReport
	paths, err := corpus.EncodedSongPaths(dir)
	if err != nil {
		return report, err
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return report, fmt.Errorf("could not read encoded song: %w", err)
		}
		report.numFiles += 1
		report.numBytes += int64(len(data))
		report.numSymbols = append(report.numSymbols, len(strings.Fields(string(data))))
	}
	return report, nil
}

type runReport struct {
	runID    string
	summary  model.Summary
	failures []model.Outcome
}

func analyzeRun(ctx context.Context, path string, runID string) (runReport, error) {
	var report runReport
	l, err := ledger.Open(path)
	if err != nil {
		return report, err
	}
	defer l.Close()

	if runID == "" {
		runID, err = l.LatestRun(ctx)
		if err != nil {
			return report, err
		}
	}
	outcomes, err := l.Outcomes(ctx, runID)
	if err != nil {
		return report, err
	}

	report.runID = runID
	report.summary = model.Summarize(outcomes)
	for _, o := range outcomes {
		if o.Status == model.StatusFailed {
			report.failures = append(report.failures, o)
		}
	}
	return report, nil
}

func report(ctx context.Context, w io.Writer, cfg config.Config, runID string) error {
	if _, err := os.Stat(cfg.LedgerPath); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("no ledger at %v, run preprocess first", cfg.LedgerPath)
	}
	songs, err := analyzeSongs(cfg.OutputDir)
	if err != nil {
		return err
	}
	run, err := analyzeRun(ctx, cfg.LedgerPath, runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "run: %v\n", run.runID)
	fmt.Fprintf(w, "scores found: %v\n", run.summary.Total)
	fmt.Fprintf(w, "songs loaded: %v\n", run.summary.Loaded)
	fmt.Fprintf(w, "songs accepted: %v\n", run.summary.Accepted)
	fmt.Fprintf(w, "songs rejected for durations: %v\n", run.summary.Rejected)
	fmt.Fprintf(w, "songs failed: %v\n", run.summary.Failed)
	if logger.IsVerbose() {
		for _, o := range run.failures {
			fmt.Fprintf(w, "  %v: %v\n", o.Path, o.Error)
		}
	}

	fmt.Fprintf(w, "encoded songs on disk: %v (%v bytes)\n", songs.numFiles, songs.numBytes)
	total := util.Sum(songs.numSymbols)
	fmt.Fprintf(w, "encoded symbols: %v\n", total)
	if songs.numFiles > 0 {
		fmt.Fprintf(w, "average symbols per song: %.1f\n", float64(total)/float64(songs.numFiles))
	}
	if songs.numFiles != run.summary.Accepted {
		fmt.Fprintf(w, "WARNING: %v encoded songs on disk but %v accepted in run %v\n", songs.numFiles, run.summary.Accepted, run.runID)
	}
	return nil
}
