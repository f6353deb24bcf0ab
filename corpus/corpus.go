// Package corpus joins encoded songs into one delimited text and builds
// the symbol vocabulary over it.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jsphweid/melodex/constants"
	"github.com/jsphweid/melodex/model"
	"github.com/jsphweid/melodex/util"
)

// Assemble follows every song with sequenceLength delimiters and drops the
// final trailing space. Windows that cross a song boundary therefore always
// contain a delimiter.
func Assemble(songs []string, sequenceLength int, delimiter string) string {
	newSongDelimiter := strings.Repeat(delimiter+" ", sequenceLength)
	var sb strings.Builder
	for _, song := range songs {
		sb.WriteString(song)
		sb.WriteString(" ")
		sb.WriteString(newSongDelimiter)
	}
	res := sb.String()
	if res == "" {
		return res
	}
	return res[:len(res)-1]
}

// EncodedSongPaths lists the encoded songs in dir ordered by their numeric
// file name, so 2.txt comes before 10.txt. Other names sort after, lexically.
func EncodedSongPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read encoded songs: %w", err)
	}

	type entry struct {
		name string
		num  int
		ok   bool
	}
	var files []entry
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != constants.EncodedSongExt {
			continue
		}
		num, err := strconv.Atoi(strings.TrimSuffix(e.Name(), constants.EncodedSongExt))
		files = append(files, entry{name: e.Name(), num: num, ok: err == nil})
	}
	sort.Slice(files, func(i, j int) bool {
		a, b := files[i], files[j]
		if a.ok != b.ok {
			return a.ok
		}
		if a.ok && a.num != b.num {
			return a.num < b.num
		}
		return a.name < b.name
	})

	res := make([]string, len(files))
	for i, f := range files {
		res[i] = filepath.Join(dir, f.name)
	}
	return res, nil
}

// CreateSingleFileDataset reads every encoded song in dir, assembles them
// and writes the result to corpusPath.
func CreateSingleFileDataset(dir, corpusPath string, sequenceLength int, delimiter string) (string, error) {
	paths, err := EncodedSongPaths(dir)
	if err != nil {
		return "", err
	}

	songs := make([]string, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("could not read encoded song: %w", err)
		}
		songs = append(songs, string(data))
	}

	res := Assemble(songs, sequenceLength, delimiter)
	if err := os.WriteFile(corpusPath, []byte(res), 0644); err != nil {
		return "", fmt.Errorf("write failed for corpus %v: %w", corpusPath, err)
	}
	return res, nil
}

func LoadCorpus(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read corpus: %w", err)
	}
	return string(data), nil
}

// BuildVocabulary assigns ids to the distinct whitespace separated tokens
// of corpus in byte-wise sorted order.
func BuildVocabulary(corpus string) model.Vocabulary {
	seen := make(map[string]bool)
	for _, token := range strings.Fields(corpus) {
		seen[token] = true
	}
	symbols := util.GetKeys(seen)

	res := make(model.Vocabulary, len(symbols))
	for i, symbol := range symbols {
		res[symbol] = i
	}
	return res
}

func CreateMapping(corpus, mappingPath string) (model.Vocabulary, error) {
	mappings := BuildVocabulary(corpus)
	if err := util.WriteJSON(mappingPath, mappings); err != nil {
		return nil, err
	}
	return mappings, nil
}

// LoadMapping reads a vocabulary and checks its ids are exactly 0..n-1.
func LoadMapping(path string) (model.Vocabulary, error) {
	mappings, err := util.ReadJSON[model.Vocabulary](path)
	if err != nil {
		return nil, err
	}
	if err := Validate(mappings); err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return mappings, nil
}

func Validate(v model.Vocabulary) error {
	used := make([]bool, len(v))
	for symbol, id := range v {
		if id < 0 || id >= len(v) {
			return fmt.Errorf("symbol %q has id %d outside [0, %d)", symbol, id, len(v))
		}
		if used[id] {
			return fmt.Errorf("id %d is assigned more than once", id)
		}
		used[id] = true
	}
	return nil
}

// Symbols lists the vocabulary in id order.
func Symbols(v model.Vocabulary) []string {
	res := make([]string, len(v))
	for symbol, id := range v {
		if id >= 0 && id < len(res) {
			res[id] = symbol
		}
	}
	return res
}
