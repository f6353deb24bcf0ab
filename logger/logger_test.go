package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, v bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(v)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
		Section("")
	})
	return &buf
}

func TestQuietModeOnlyPrintsWarningsAndProgress(t *testing.T) {
	buf := capture(t, false)
	assert.False(t, IsVerbose())

	Debug("debug %d", 1)
	Info("info %d", 2)
	Warn("skipping %v", "a.krn")
	Progress("Processing %v of %v scores", 1, 2)

	assert.Equal(t, "warning: skipping a.krn\nProcessing 1 of 2 scores\n", buf.String())
}

func TestVerboseModePrintsEverything(t *testing.T) {
	buf := capture(t, true)
	assert.True(t, IsVerbose())

	Debug("debug %d", 1)
	Info("info %d", 2)

	assert.Equal(t, "debug: debug 1\ninfo 2\n", buf.String())
}

func TestLinesCarryTheirStage(t *testing.T) {
	buf := capture(t, true)

	Section("preprocess")
	Warn("skipping %v", "a.krn")
	Section("assemble")
	Progress("corpus written")

	assert.Equal(t, "== preprocess ==\npreprocess: warning: skipping a.krn\n== assemble ==\nassemble: corpus written\n", buf.String())
}

func TestSectionHeaderOnlyWhenVerbose(t *testing.T) {
	buf := capture(t, false)

	Section("sequences")
	Progress("done")

	assert.Equal(t, "sequences: done\n", buf.String())
}
