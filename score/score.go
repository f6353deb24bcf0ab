// Package score picks a reader for a score file based on its extension.
package score

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jsphweid/melodex/kern"
	"github.com/jsphweid/melodex/midi"
	"github.com/jsphweid/melodex/model"
)

type Reader func(path string) (model.Score, error)

var readers = map[string]Reader{
	".krn":  kern.ReadScore,
	".kern": kern.ReadScore,
	".mid":  midi.ReadScore,
	".midi": midi.ReadScore,
}

func IsSupported(ext string) bool {
	_, ok := readers[strings.ToLower(ext)]
	return ok
}

func Load(path string) (model.Score, error) {
	ext := strings.ToLower(filepath.Ext(path))
	read, ok := readers[ext]
	if !ok {
		return model.Score{}, fmt.Errorf("%w: %s: no reader for %q files", model.ErrUnparsableScore, path, ext)
	}
	return read(path)
}
