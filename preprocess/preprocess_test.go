package preprocess

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/melodex/config"
	"github.com/jsphweid/melodex/ledger"
	"github.com/jsphweid/melodex/logger"
	"github.com/jsphweid/melodex/model"
	"github.com/jsphweid/melodex/util"
)

var fixtures = map[string]string{
	"a_gmajor.krn":  "!!!OTL: Hopp\n**kern\n*M4/4\n*G:\n=1\n4g\n8a\n8b\n2g\n==\n*-\n",
	"b_triplet.krn": "**kern\n*C:\n12c\n12d\n12e\n4f\n*-\n",
	"c_dorian.krn":  "**kern\n*d:dor\n4d\n4e\n4f\n4g\n*-\n",
	"d_broken.krn":  "4c\n",
	"e_aminor.krn":  "**kern\n2a\n4cc\n4ee\n2a\n4r\n4ee\n4cc\n4b\n2a\n4e\n*-\n",
	"notes.txt":     "not a score",
}

func setupDataset(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	dataset := filepath.Join(root, "erk")
	require.NoError(t, os.MkdirAll(dataset, 0755))
	for name, data := range fixtures {
		require.NoError(t, os.WriteFile(filepath.Join(dataset, name), []byte(data), 0644))
	}

	cfg := config.Default()
	cfg.DatasetPath = dataset
	cfg.OutputDir = filepath.Join(root, "dataset")
	cfg.ManifestPath = filepath.Join(root, "manifest.json")
	cfg.LedgerPath = filepath.Join(root, "ledger.db")
	cfg.Workers = 2
	return cfg
}

func quietLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
	return &buf
}

func TestRun(t *testing.T) {
	logs := quietLogs(t)
	cfg := setupDataset(t)
	// stale output from an earlier run must disappear
	require.NoError(t, os.MkdirAll(cfg.OutputDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.OutputDir, "99.txt"), []byte("60"), 0644))

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(model.Summary{Total: 5, Loaded: 4, Accepted: 2, Rejected: 1, Failed: 2}, res.Manifest.Summary)
	assert.NotEmpty(res.Manifest.RunID)
	assert.Len(res.Manifest.Files, 5)
	assert.Contains(logs.String(), "4 songs loaded, 2 accepted")

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch([]string{"0.txt", "4.txt"}, names)

	gmajor, err := os.ReadFile(filepath.Join(cfg.OutputDir, "0.txt"))
	require.NoError(t, err)
	assert.Equal("60 _ _ _ 62 _ 64 _ 60 _ _ _ _ _ _ _", string(gmajor))

	aminor, err := os.ReadFile(filepath.Join(cfg.OutputDir, "4.txt"))
	require.NoError(t, err)
	assert.True(strings.HasPrefix(string(aminor), "69 _ _ _ _ _ _ _ 72 _ _ _ 76"))
	assert.Len(strings.Fields(string(aminor)), 52)

	byName := make(map[string]model.Outcome)
	for _, o := range res.Outcomes {
		byName[filepath.Base(o.Path)] = o
	}
	assert.Equal(-7, byName["a_gmajor.krn"].Shift)
	assert.Equal("G major", byName["a_gmajor.krn"].Key)
	assert.Equal(16, byName["a_gmajor.krn"].Symbols)
	assert.Equal(model.StatusRejected, byName["b_triplet.krn"].Status)
	assert.Equal(model.StatusFailed, byName["c_dorian.krn"].Status)
	assert.True(byName["c_dorian.krn"].Parsed)
	assert.Contains(byName["c_dorian.krn"].Error, "unresolved key")
	assert.False(byName["d_broken.krn"].Parsed)
	assert.Equal("A minor", byName["e_aminor.krn"].Key)

	manifest, err := util.ReadJSON[model.Manifest](cfg.ManifestPath)
	require.NoError(t, err)
	assert.Equal(res.Manifest, manifest)

	l, err := ledger.Open(cfg.LedgerPath)
	require.NoError(t, err)
	defer l.Close()
	recorded, err := l.Outcomes(context.Background(), res.Manifest.RunID)
	require.NoError(t, err)
	assert.Equal(res.Outcomes, recorded)
}

func TestRunHonorsMaxFiles(t *testing.T) {
	quietLogs(t)
	cfg := setupDataset(t)
	cfg.MaxFiles = 2
	cfg.LedgerPath = ""

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Manifest.Summary.Total)
}

func TestRunSkipsCorruptMidi(t *testing.T) {
	logs := quietLogs(t)
	cfg := setupDataset(t)
	cfg.Extensions = []string{".krn", ".mid"}
	cfg.LedgerPath = ""
	corrupt, err := hex.DecodeString("4d546864000000060000000103c04d54724f0000000000ff03017800ff2f00")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DatasetPath, "f_corrupt.mid"), corrupt, 0644))

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(6, res.Manifest.Summary.Total)
	assert.Equal(2, res.Manifest.Summary.Accepted)
	last := res.Outcomes[len(res.Outcomes)-1]
	assert.Equal(model.StatusFailed, last.Status)
	assert.Contains(last.Error, model.ErrUnparsableScore.Error())
	assert.Contains(logs.String(), "f_corrupt.mid")
}

func TestRunMissingDatasetFails(t *testing.T) {
	quietLogs(t)
	cfg := setupDataset(t)
	cfg.DatasetPath = filepath.Join(t.TempDir(), "missing")

	_, err := Run(context.Background(), cfg)
	assert.Error(t, err)
}

func TestProcessScoreWriteFailureAborts(t *testing.T) {
	quietLogs(t)
	opts := Options{
		OutputDir:           filepath.Join(t.TempDir(), "does", "not", "exist"),
		AcceptableDurations: []float64{1},
		TimeStep:            0.25,
		Workers:             1,
		Load: func(path string) (model.Score, error) {
			return model.Score{Events: []model.Event{model.Note(60, 1)}}, nil
		},
	}

	_, err := ProcessAllScores(context.Background(), model.FileNumToScorePath{0: "x.krn"}, opts)
	assert.Error(t, err)
}

func TestProcessScoreKeepsGoingAfterFailures(t *testing.T) {
	quietLogs(t)
	failing := errors.New("boom")
	opts := Options{
		OutputDir:           t.TempDir(),
		AcceptableDurations: []float64{0.25, 0.5, 1},
		TimeStep:            0.25,
		Workers:             3,
		Load: func(path string) (model.Score, error) {
			if path == "bad" {
				return model.Score{}, failing
			}
			return model.Score{Events: []model.Event{model.Note(60, 1), model.Note(62, 0.5)}}, nil
		},
	}
	m := model.FileNumToScorePath{0: "good", 1: "bad", 2: "good", 3: "good"}

	outcomes, err := ProcessAllScores(context.Background(), m, opts)
	require.NoError(t, err)
	require.Len(t, outcomes, 4)
	for i, o := range outcomes {
		assert.Equal(t, model.FileNum(i), o.FileNum)
	}
	assert.Equal(t, model.StatusFailed, outcomes[1].Status)
	assert.Equal(t, "boom", outcomes[1].Error)
	assert.Equal(t, model.StatusAccepted, outcomes[3].Status)
	assert.Equal(t, 6, outcomes[3].Symbols)
}
