package model

import (
	"fmt"
	"strings"
)

type EventKind uint8

const (
	NoteEvent EventKind = iota
	RestEvent
)

// Event is one note or rest. Pitch is a MIDI note number and is only
// meaningful when Kind is NoteEvent. Duration is in quarter-note units.
type Event struct {
	Kind     EventKind
	Pitch    int
	Duration float64
}

func Note(pitch int, duration float64) Event {
	return Event{Kind: NoteEvent, Pitch: pitch, Duration: duration}
}

func Rest(duration float64) Event {
	return Event{Kind: RestEvent, Duration: duration}
}

func (e Event) IsRest() bool {
	return e.Kind == RestEvent
}

// Score is a monophonic sequence of events in time order.
type Score struct {
	Source string
	Events []Event

	// NOTE: nil when the file does not declare a key
	DeclaredKey *Key
}

// Transpose returns a copy of the score with every note shifted by the
// given number of semitones. Rests and durations are untouched.
func (s Score) Transpose(semitones int) Score {
	res := Score{Source: s.Source, DeclaredKey: s.DeclaredKey}
	res.Events = make([]Event, len(s.Events))
	for i, e := range s.Events {
		if !e.IsRest() {
			e.Pitch += semitones
		}
		res.Events[i] = e
	}
	return res
}

type Mode string

const (
	Major Mode = "major"
	Minor Mode = "minor"
)

// PitchName is a spelled pitch class, e.g. F# is {Step: 'F', Alter: 1}.
type PitchName struct {
	Step  byte
	Alter int
}

var stepSemitones = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// Semitone is the distance from C in the same octave, so Cb is -1 and B# is 12.
func (p PitchName) Semitone() int {
	return stepSemitones[p.Step] + p.Alter
}

func (p PitchName) String() string {
	var sb strings.Builder
	sb.WriteByte(p.Step)
	for i := 0; i < p.Alter; i++ {
		sb.WriteByte('#')
	}
	for i := 0; i > p.Alter; i-- {
		sb.WriteByte('b')
	}
	return sb.String()
}

// ParsePitchName reads names like "C", "f#", "Bb" or "B-".
func ParsePitchName(s string) (PitchName, error) {
	if s == "" {
		return PitchName{}, fmt.Errorf("empty pitch name")
	}
	step := strings.ToUpper(s[:1])[0]
	if _, ok := stepSemitones[step]; !ok {
		return PitchName{}, fmt.Errorf("invalid pitch name %q", s)
	}
	p := PitchName{Step: step}
	for _, c := range s[1:] {
		switch c {
		case '#':
			p.Alter++
		case 'b', '-':
			p.Alter--
		default:
			return PitchName{}, fmt.Errorf("invalid pitch name %q", s)
		}
	}
	return p, nil
}

type Key struct {
	Tonic PitchName
	Mode  Mode
}

func (k Key) String() string {
	return fmt.Sprintf("%v %v", k.Tonic, k.Mode)
}
