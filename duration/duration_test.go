package duration

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsphweid/melodex/constants"
	"github.com/jsphweid/melodex/model"
)

func TestHasAcceptableDurations(t *testing.T) {
	cases := []struct {
		name     string
		events   []model.Event
		expected bool
	}{
		{"empty score", nil, true},
		{"all acceptable", []model.Event{model.Note(60, 0.25), model.Rest(0.75), model.Note(62, 4)}, true},
		{"triplet", []model.Event{model.Note(60, 1), model.Note(62, 1.0 / 3)}, false},
		{"thirty-second", []model.Event{model.Note(60, 0.125)}, false},
		{"grace note", []model.Event{model.Note(60, 0), model.Note(62, 1)}, false},
		{"rejected rest", []model.Event{model.Note(60, 1), model.Rest(2.5)}, false},
		{"breve", []model.Event{model.Note(60, 8)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := model.Score{Events: tc.events}
			assert.Equal(t, tc.expected, HasAcceptableDurations(s, constants.DefaultAcceptableDurations))
		})
	}
}

func TestNoTolerance(t *testing.T) {
	s := model.Score{Events: []model.Event{model.Note(60, 1.0000001)}}
	assert.False(t, HasAcceptableDurations(s, []float64{1.0}))
}

func TestIsIdempotent(t *testing.T) {
	s := model.Score{Events: []model.Event{model.Note(60, 1), model.Note(62, 0.3)}}
	first := HasAcceptableDurations(s, constants.DefaultAcceptableDurations)
	second := HasAcceptableDurations(s, constants.DefaultAcceptableDurations)
	assert.Equal(t, first, second)
}
