package cmd

import (
	"context"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/jsphweid/melodex/config"
	"github.com/jsphweid/melodex/logger"
	"github.com/spf13/cobra"
)

var watchDelay time.Duration

func init() {
	watchCmd.Flags().DurationVar(&watchDelay, "delay", 2*time.Second, "quiet period before rebuilding")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuilds whenever the dataset changes",
	Long:  `Runs build, then runs it again whenever a score in the dataset changes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return watch(ctx, cfg, watchDelay)
	},
}

func addDirs(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

// isScoreEvent reports whether ev touches a score file or adds a directory
// that might hold some.
func isScoreEvent(ev fsnotify.Event, exts []string) bool {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(ev.Name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

func watch(ctx context.Context, cfg config.Config, delay time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := addDirs(watcher, cfg.DatasetPath); err != nil {
		return err
	}

	var mu sync.Mutex
	rebuild := func() {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		if _, err := Build(ctx, cfg); err != nil {
			logger.Warn("Build failed: %v", err)
		}
	}
	rebuild()

	debounced := debounce.New(delay)
	exts := cfg.NormalizedExtensions()
	logger.Progress("Watching %v", cfg.DatasetPath)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isScoreEvent(ev, exts) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addDirs(watcher, ev.Name); err != nil {
						logger.Warn("Could not watch %v: %v", ev.Name, err)
					}
				}
			}
			logger.Debug("Change detected: %v", ev)
			debounced(rebuild)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}
