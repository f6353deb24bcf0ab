package file

import (
	"github.com/jsphweid/melodex/model"
)

// CreateFileNumMap numbers the paths in the order they were gathered. The
// number also names the encoded song written for that path.
func CreateFileNumMap(paths []string) model.FileNumToScorePath {
	res := make(model.FileNumToScorePath)
	for i, v := range paths {
		res[uint32(i)] = v
	}
	return res
}
