package file

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsphweid/melodex/model"
)

func TestCreateFileNumMap(t *testing.T) {
	m := CreateFileNumMap([]string{"a/1.krn", "a/2.krn", "b/1.krn"})
	assert.Equal(t, model.FileNumToScorePath{0: "a/1.krn", 1: "a/2.krn", 2: "b/1.krn"}, m)
	assert.Empty(t, CreateFileNumMap(nil))
}
