package model

// Vocabulary maps a symbol to its dense integer id.
type Vocabulary = map[string]int

type Example struct {
	Input  []int
	Target int
}

// OneHot is a (NumExamples, SequenceLength, VocabularySize) tensor stored
// row-major in Data.
type OneHot struct {
	NumExamples    int
	SequenceLength int
	VocabularySize int
	Data           []float32
}

func (o OneHot) Shape() [3]int {
	return [3]int{o.NumExamples, o.SequenceLength, o.VocabularySize}
}

func (o OneHot) Offset(i, j, k int) int {
	return (i*o.SequenceLength+j)*o.VocabularySize + k
}

func (o OneHot) At(i, j, k int) float32 {
	return o.Data[o.Offset(i, j, k)]
}

// TrainingSet is what gets persisted by `sequences --out`.
type TrainingSet struct {
	Inputs  OneHot
	Targets []int
}
