package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestGatherAllScorePaths(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b", "deut2.krn"))
	touch(t, filepath.Join(root, "a", "deut1.KRN"))
	touch(t, filepath.Join(root, "a", "notes.txt"))
	touch(t, filepath.Join(root, "c", "song.mid"))

	paths, err := GatherAllScorePaths(root, []string{".krn"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "deut1.KRN"),
		filepath.Join(root, "b", "deut2.krn"),
	}, paths)

	paths, err = GatherAllScorePaths(root, []string{".krn", ".mid"}, 2)
	require.NoError(t, err)
	assert.Len(t, paths, 2)

	_, err = GatherAllScorePaths(filepath.Join(root, "missing"), []string{".krn"}, 0)
	assert.Error(t, err)
}

func TestRecreateOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	touch(t, filepath.Join(dir, "0.txt"))

	require.NoError(t, RecreateOutputDir(dir))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGetKeysIsSorted(t *testing.T) {
	assert.Equal(t, []uint32{0, 2, 10}, GetKeys(map[uint32]string{10: "c", 0: "a", 2: "b"}))
	assert.Equal(t, []string{"/", "60", "_"}, GetKeys(map[string]int{"_": 0, "60": 1, "/": 2}))
}

func TestSum(t *testing.T) {
	assert.Equal(t, uint64(6), Sum([]int{1, 2, 3}))
	assert.Equal(t, uint64(0), Sum([]uint8{}))
}

func TestBinaryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.gob")
	in := map[string][]int{"inputs": {1, 2, 3}}
	require.NoError(t, CreateBinary(path, in))

	out, err := ReadBinary[map[string][]int](path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWriteJSONIsIndented(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.json")
	require.NoError(t, WriteJSON(path, map[string]int{"60": 1, "/": 0}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"/\": 0,\n    \"60\": 1\n}", string(raw))

	m, err := ReadJSON[map[string]int](path)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"60": 1, "/": 0}, m)
}
