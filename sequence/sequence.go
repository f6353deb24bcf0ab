// Package sequence turns the assembled corpus into fixed-length training
// windows: each input is sequenceLength consecutive symbol ids and its
// target is the id that follows.
package sequence

import (
	"fmt"
	"strings"

	"github.com/jsphweid/melodex/logger"
	"github.com/jsphweid/melodex/model"
)

func ToInts(corpus string, v model.Vocabulary) ([]int, error) {
	tokens := strings.Fields(corpus)
	res := make([]int, len(tokens))
	for i, symbol := range tokens {
		id, ok := v[symbol]
		if !ok {
			return nil, fmt.Errorf("%w: %q at token %d", model.ErrUnknownSymbol, symbol, i)
		}
		res[i] = id
	}
	return res, nil
}

// Generate returns len(ints) - sequenceLength examples, none when the
// corpus is not longer than one window.
func Generate(ints []int, sequenceLength int) []model.Example {
	numSequences := len(ints) - sequenceLength
	if numSequences <= 0 {
		return nil
	}
	res := make([]model.Example, numSequences)
	for i := range res {
		res[i] = model.Example{
			Input:  ints[i : i+sequenceLength],
			Target: ints[i+sequenceLength],
		}
	}
	return res
}

// OneHot encodes the inputs of examples over vocabularySize classes.
func OneHot(examples []model.Example, sequenceLength, vocabularySize int) (model.OneHot, error) {
	res := model.OneHot{
		NumExamples:    len(examples),
		SequenceLength: sequenceLength,
		VocabularySize: vocabularySize,
		Data:           make([]float32, len(examples)*sequenceLength*vocabularySize),
	}
	for i, ex := range examples {
		if len(ex.Input) != sequenceLength {
			return model.OneHot{}, fmt.Errorf("example %d has %d inputs, expected %d", i, len(ex.Input), sequenceLength)
		}
		for j, id := range ex.Input {
			if id < 0 || id >= vocabularySize {
				return model.OneHot{}, fmt.Errorf("example %d: id %d outside vocabulary of %d", i, id, vocabularySize)
			}
			res.Data[res.Offset(i, j, id)] = 1
		}
	}
	return res, nil
}

func Targets(examples []model.Example) []int {
	res := make([]int, len(examples))
	for i, ex := range examples {
		res[i] = ex.Target
	}
	return res
}

// ObservedVocabularySize counts the distinct ids that actually occur.
func ObservedVocabularySize(ints []int) int {
	seen := make(map[int]bool)
	for _, id := range ints {
		seen[id] = true
	}
	return len(seen)
}

// GenerateTrainingSequences maps corpus through v and windows it. The
// one-hot width is the size of the persisted vocabulary, not the number
// of symbols observed in this corpus; a mismatch is only warned about.
func GenerateTrainingSequences(corpus string, v model.Vocabulary, sequenceLength int) (model.TrainingSet, error) {
	ints, err := ToInts(corpus, v)
	if err != nil {
		return model.TrainingSet{}, err
	}
	if observed := ObservedVocabularySize(ints); observed != len(v) {
		logger.Warn("%v of %v vocabulary symbols never occur in the corpus", len(v)-observed, len(v))
	}
	examples := Generate(ints, sequenceLength)
	inputs, err := OneHot(examples, sequenceLength, len(v))
	if err != nil {
		return model.TrainingSet{}, err
	}
	return model.TrainingSet{Inputs: inputs, Targets: Targets(examples)}, nil
}
