// Package preprocess runs the per-score stages over a dataset: parse,
// duration filter, key normalization and time-step encoding. Each
// accepted score is written to its own numbered file.
package preprocess

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jsphweid/melodex/config"
	"github.com/jsphweid/melodex/constants"
	"github.com/jsphweid/melodex/duration"
	"github.com/jsphweid/melodex/encode"
	"github.com/jsphweid/melodex/file"
	"github.com/jsphweid/melodex/key"
	"github.com/jsphweid/melodex/ledger"
	"github.com/jsphweid/melodex/logger"
	"github.com/jsphweid/melodex/model"
	"github.com/jsphweid/melodex/score"
	"github.com/jsphweid/melodex/util"
)

type Options struct {
	OutputDir           string
	AcceptableDurations []float64
	TimeStep            float64
	Markers             encode.Markers
	Workers             int
	Load                score.Reader
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		OutputDir:           cfg.OutputDir,
		AcceptableDurations: cfg.AcceptableDurations,
		TimeStep:            cfg.TimeStep,
		Markers:             encode.Markers{Rest: cfg.Rest, Hold: cfg.Hold},
		Workers:             cfg.Workers,
		Load:                score.Load,
	}
}

func EncodedSongPath(dir string, num model.FileNum) string {
	return filepath.Join(dir, strconv.FormatUint(uint64(num), 10)+constants.EncodedSongExt)
}

// ProcessScore runs one score through the pipeline. Problems with the
// score itself end up in the outcome; the returned error is reserved for
// failing to write the encoded song.
func ProcessScore(num model.FileNum, path string, opts Options) (model.Outcome, error) {
	res := model.Outcome{FileNum: num, Path: path, Status: model.StatusFailed}
	fail := func(err error) (model.Outcome, error) {
		logger.Warn("Skipping %v because: %v", path, err)
		res.Error = err.Error()
		return res, nil
	}

	load := opts.Load
	if load == nil {
		load = score.Load
	}
	song, err := load(path)
	if err != nil {
		return fail(err)
	}
	res.Parsed = true

	if !duration.HasAcceptableDurations(song, opts.AcceptableDurations) {
		logger.Debug("Rejecting %v: unacceptable durations", path)
		res.Status = model.StatusRejected
		return res, nil
	}

	normalized, k, shift, err := key.Normalize(song)
	if k.Mode != "" {
		res.Key = k.String()
	}
	if err != nil {
		return fail(err)
	}
	res.Shift = shift

	symbols, err := encode.Symbols(normalized, opts.TimeStep, opts.Markers)
	if err != nil {
		return fail(err)
	}
	encoded := strings.Join(symbols, " ")
	if err := os.WriteFile(EncodedSongPath(opts.OutputDir, num), []byte(encoded), 0644); err != nil {
		return res, fmt.Errorf("write failed for encoded song %v: %w", num, err)
	}
	logger.Debug("Encoded %v in %v (shift %d) as %d symbols", path, k, shift, len(symbols))
	res.Status = model.StatusAccepted
	res.Symbols = len(symbols)
	return res, nil
}

// ProcessAllScores fans the scores out to opts.Workers goroutines. Results
// come back ordered by file number.
func ProcessAllScores(ctx context.Context, m model.FileNumToScorePath, opts Options) ([]model.Outcome, error) {
	keys := util.GetKeys(m)
	outcomes := make([]model.Outcome, len(keys))

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	done := 0

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				num := keys[i]
				o, err := ProcessScore(num, m[num], opts)
				outcomes[i] = o

				mu.Lock()
				done++
				logger.Progress("Processing %v of %v scores", done, len(keys))
				if err != nil && firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}

	for i := range keys {
		if ctx.Err() != nil {
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return outcomes, firstErr
	}
	if err := ctx.Err(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

type Result struct {
	Manifest model.Manifest
	Outcomes []model.Outcome
}

// Run preprocesses the whole dataset described by cfg: it clears the
// output directory, encodes every score, then writes the manifest and
// records the outcomes in the ledger.
func Run(ctx context.Context, cfg config.Config) (Result, error) {
	logger.Section("preprocess")
	paths, err := util.GatherAllScorePaths(cfg.DatasetPath, cfg.NormalizedExtensions(), cfg.MaxFiles)
	if err != nil {
		return Result{}, err
	}
	logger.Info("%v scores found in %v", len(paths), cfg.DatasetPath)

	if err := util.RecreateOutputDir(cfg.OutputDir); err != nil {
		return Result{}, err
	}

	fileNumMap := file.CreateFileNumMap(paths)
	outcomes, err := ProcessAllScores(ctx, fileNumMap, OptionsFromConfig(cfg))
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Manifest: model.Manifest{
			RunID:   uuid.New().String(),
			Summary: model.Summarize(outcomes),
			Files:   fileNumMap,
		},
		Outcomes: outcomes,
	}
	if cfg.ManifestPath != "" {
		if err := util.WriteJSON(cfg.ManifestPath, res.Manifest); err != nil {
			return res, err
		}
	}
	if cfg.LedgerPath != "" {
		if err := record(ctx, cfg.LedgerPath, res); err != nil {
			return res, err
		}
	}

	s := res.Manifest.Summary
	logger.Progress("%v songs loaded, %v accepted (%v rejected, %v failed)", s.Loaded, s.Accepted, s.Rejected, s.Failed)
	return res, nil
}

func record(ctx context.Context, path string, res Result) (err error) {
	l, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, l.Close())
	}()
	if err := l.Record(ctx, res.Manifest.RunID, res.Outcomes); err != nil {
		return err
	}
	logger.Info("Recorded %v outcomes for run %v in %v", len(res.Outcomes), res.Manifest.RunID, l.Path())
	return nil
}
