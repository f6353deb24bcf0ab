package sequence

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/melodex/logger"
	"github.com/jsphweid/melodex/model"
)

func TestGenerateScenario(t *testing.T) {
	examples := Generate([]int{0, 1, 2, 3, 4}, 2)
	assert.Equal(t, []model.Example{
		{Input: []int{0, 1}, Target: 2},
		{Input: []int{1, 2}, Target: 3},
		{Input: []int{2, 3}, Target: 4},
	}, examples)
}

func TestGenerateTargetsFollowWindows(t *testing.T) {
	ints := []int{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5}
	for _, size := range []int{1, 3, 5, 10} {
		examples := Generate(ints, size)
		require.Len(t, examples, len(ints)-size)
		for i, ex := range examples {
			assert.Equal(t, ints[i:i+size], ex.Input)
			assert.Equal(t, ints[i+size], ex.Target)
		}
	}
}

func TestGenerateShortCorpus(t *testing.T) {
	assert.Empty(t, Generate([]int{0, 1}, 2))
	assert.Empty(t, Generate([]int{0}, 4))
	assert.Empty(t, Generate(nil, 1))
}

func TestToInts(t *testing.T) {
	v := model.Vocabulary{"/": 0, "60": 1, "62": 2, "_": 3}
	ints, err := ToInts("60 _ / / 62 / /", v)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 0, 0, 2, 0, 0}, ints)
}

func TestToIntsUnknownSymbol(t *testing.T) {
	_, err := ToInts("60 _ 64", model.Vocabulary{"60": 0, "_": 1})
	assert.ErrorIs(t, err, model.ErrUnknownSymbol)
}

func TestOneHot(t *testing.T) {
	examples := Generate([]int{0, 2, 1, 2}, 2)
	oh, err := OneHot(examples, 2, 4)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal([3]int{2, 2, 4}, oh.Shape())
	assert.Len(oh.Data, 16)
	assert.Equal(float32(1), oh.At(0, 0, 0))
	assert.Equal(float32(1), oh.At(0, 1, 2))
	assert.Equal(float32(1), oh.At(1, 0, 2))
	assert.Equal(float32(1), oh.At(1, 1, 1))

	var total float32
	for _, v := range oh.Data {
		total += v
	}
	assert.Equal(float32(4), total)
}

func TestOneHotRejectsOutOfRangeIds(t *testing.T) {
	_, err := OneHot([]model.Example{{Input: []int{0, 5}, Target: 1}}, 2, 3)
	assert.Error(t, err)
}

func TestWidthIsPersistedVocabularySize(t *testing.T) {
	v := model.Vocabulary{"/": 0, "60": 1, "62": 2, "64": 3, "_": 4}
	corpus := "60 _ / / 62 / /"

	var logs bytes.Buffer
	logger.SetOutput(&logs)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	set, err := GenerateTrainingSequences(corpus, v, 2)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "1 of 5 vocabulary symbols never occur")

	ints, err := ToInts(corpus, v)
	require.NoError(t, err)
	assert.Equal(t, 4, ObservedVocabularySize(ints))
	assert.Equal(t, len(v), set.Inputs.VocabularySize)
	assert.Equal(t, [3]int{5, 2, 5}, set.Inputs.Shape())
	assert.Equal(t, []int{0, 0, 2, 0, 0}, set.Targets)
}
