// Package logger prints pipeline diagnostics to stderr. Lines carry the
// name of the stage that emitted them, so a warning raised while
// preprocessing reads "preprocess: warning: ...".
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type Level int

const (
	LevelWarn Level = iota
	LevelProgress
	LevelInfo
	LevelDebug
)

var tags = map[Level]string{
	LevelWarn:  "warning: ",
	LevelDebug: "debug: ",
}

var mu sync.Mutex

var (
	threshold = LevelProgress
	stage     = ""
	output    = io.Writer(os.Stderr)
)

// SetVerbose lets Info and Debug lines through.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	threshold = LevelProgress
	if v {
		threshold = LevelDebug
	}
}

func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return threshold >= LevelInfo
}

func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Section starts a new stage. Later lines are prefixed with its name, and
// a header is printed in verbose mode.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	stage = name
	if threshold >= LevelInfo {
		fmt.Fprintf(output, "== %s ==\n", name)
	}
}

func logf(level Level, format string, args []any) {
	mu.Lock()
	defer mu.Unlock()
	if level > threshold {
		return
	}
	prefix := tags[level]
	if stage != "" {
		prefix = stage + ": " + prefix
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

func Debug(format string, args ...any) { logf(LevelDebug, format, args) }

func Info(format string, args ...any) { logf(LevelInfo, format, args) }

// Warn reports a problem that did not stop the run, such as a skipped score.
func Warn(format string, args ...any) { logf(LevelWarn, format, args) }

func Progress(format string, args ...any) { logf(LevelProgress, format, args) }
