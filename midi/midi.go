package midi

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/jsphweid/melodex/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF
	var err error

	// https://github.com/gomidi/midi/issues/20
	// smf.ReadFrom panics with strings and runtime errors alike
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = fmt.Errorf("%w: %v", model.ErrUnparsableScore, r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, fmt.Errorf("%w: error reading midi file... %v", model.ErrUnparsableScore, err)
	}

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, fmt.Errorf("%w: error parsing midi file... %v", model.ErrUnparsableScore, err)
	}

	return res, nil
}

func ReadScore(path string) (model.Score, error) {
	parsed, err := ReadMidiFile(path)
	if err != nil {
		return model.Score{}, fmt.Errorf("%s: %w", path, err)
	}
	s, err := ToScore(parsed)
	if err != nil {
		return model.Score{}, fmt.Errorf("%s: %w", path, err)
	}
	s.Source = path
	return s, nil
}

type reducedEvent struct {
	ticks     int64
	isNoteOff bool
	note      uint8
}

// ToScore flattens every track into one monophonic line. Silence between
// notes becomes rests and an overlapping note cuts the previous one short.
func ToScore(s *smf.SMF) (model.Score, error) {
	var res model.Score
	if s == nil {
		return res, fmt.Errorf("%w: no midi data", model.ErrUnparsableScore)
	}

	ticksPerQuarter, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || ticksPerQuarter == 0 {
		return res, fmt.Errorf("%w: only metric time formats are supported", model.ErrUnparsableScore)
	}
	tpq := float64(ticksPerQuarter)

	var reducedEvents []reducedEvent
	keyTicks := int64(-1)
	for _, events := range s.Tracks {
		var absTicks int64
		for _, event := range events {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				reducedEvents = append(reducedEvents, reducedEvent{ticks: absTicks, isNoteOff: velocity == 0, note: key})
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				reducedEvents = append(reducedEvents, reducedEvent{ticks: absTicks, isNoteOff: true, note: key})
			default:
				if k, ok := keySignature([]byte(event.Message)); ok && (keyTicks < 0 || absTicks < keyTicks) {
					res.DeclaredKey = &k
					keyTicks = absTicks
				}
			}
		}
	}

	// prioritize smaller offset values then note off
	sort.SliceStable(reducedEvents, func(i, j int) bool {
		if reducedEvents[i].ticks != reducedEvents[j].ticks {
			return reducedEvents[i].ticks < reducedEvents[j].ticks
		}
		return reducedEvents[i].isNoteOff && !reducedEvents[j].isNoteOff
	})

	var cursor int64
	var sounding *reducedEvent
	emit := func(e model.Event, from, to int64) {
		e.Duration = float64(to-from) / tpq
		res.Events = append(res.Events, e)
		cursor = to
	}
	for i := range reducedEvents {
		evt := reducedEvents[i]
		if evt.isNoteOff {
			if sounding != nil && sounding.note == evt.note {
				emit(model.Note(int(sounding.note), 0), sounding.ticks, evt.ticks)
				sounding = nil
			}
			continue
		}

		if sounding != nil {
			if sounding.ticks == evt.ticks {
				return res, fmt.Errorf("%w: notes %v and %v start together at tick %v", model.ErrUnsupportedEvent, sounding.note, evt.note, evt.ticks)
			}
			emit(model.Note(int(sounding.note), 0), sounding.ticks, evt.ticks)
		} else if evt.ticks > cursor {
			emit(model.Rest(0), cursor, evt.ticks)
		}
		sounding = &evt
	}
	if sounding != nil {
		return res, fmt.Errorf("%w: note %v is never released", model.ErrUnparsableScore, sounding.note)
	}

	if res.DeclaredKey != nil && len(reducedEvents) > 0 && keyTicks > reducedEvents[0].ticks {
		res.DeclaredKey = nil
	}
	return res, nil
}

var majorKeys = []string{"Cb", "Gb", "Db", "Ab", "Eb", "Bb", "F", "C", "G", "D", "A", "E", "B", "F#", "C#"}
var minorKeys = []string{"Ab", "Eb", "Bb", "F", "C", "G", "D", "A", "E", "B", "F#", "C#", "G#", "D#", "A#"}

// keySignature decodes a key signature meta message (FF 59 02 sf mi).
func keySignature(b []byte) (model.Key, bool) {
	if len(b) < 4 || b[0] != 0xFF || b[1] != 0x59 {
		return model.Key{}, false
	}
	sf := int(int8(b[len(b)-2]))
	mi := b[len(b)-1]
	if sf < -7 || sf > 7 || mi > 1 {
		return model.Key{}, false
	}

	names, mode := majorKeys, model.Major
	if mi == 1 {
		names, mode = minorKeys, model.Minor
	}
	tonic, err := model.ParsePitchName(names[sf+7])
	if err != nil {
		return model.Key{}, false
	}
	return model.Key{Tonic: tonic, Mode: mode}, true
}
