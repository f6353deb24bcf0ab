package encode

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jsphweid/melodex/model"
)

type Markers struct {
	Rest string
	Hold string
}

// Symbols quantizes s into time steps. Each event emits its pitch (or the
// rest marker) once, then a hold marker for every further step it lasts,
// e.g. pitch 60 lasting a quarter at a sixteenth step is 60 _ _ _.
func Symbols(s model.Score, timeStep float64, m Markers) ([]string, error) {
	var res []string
	for i, e := range s.Events {
		steps := int(math.Round(e.Duration / timeStep))
		if steps < 1 {
			return nil, fmt.Errorf("%w: event %d lasts %v at time step %v", model.ErrZeroLengthEvent, i, e.Duration, timeStep)
		}

		var symbol string
		switch e.Kind {
		case model.NoteEvent:
			symbol = strconv.Itoa(e.Pitch)
		case model.RestEvent:
			symbol = m.Rest
		default:
			panic(fmt.Sprintf("unknown event kind %v", e.Kind))
		}

		res = append(res, symbol)
		for step := 1; step < steps; step++ {
			res = append(res, m.Hold)
		}
	}
	return res, nil
}

// Song returns the symbols of s joined by single spaces.
func Song(s model.Score, timeStep float64, m Markers) (string, error) {
	symbols, err := Symbols(s, timeStep, m)
	if err != nil {
		return "", err
	}
	return strings.Join(symbols, " "), nil
}
