// Package kern reads monophonic Humdrum **kern scores.
//
// Only the first **kern spine of a file is read. Comments, barlines and
// null tokens are skipped, tie and beam marks are ignored, and tied notes
// stay separate events. A key designation such as *G: or *e: appearing
// before the first note becomes the score's declared key.
package kern

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jsphweid/melodex/model"
)

func ReadScore(path string) (model.Score, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Score{}, fmt.Errorf("%w: %v", model.ErrUnparsableScore, err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return model.Score{}, fmt.Errorf("%s: %w", path, err)
	}
	s.Source = path
	return s, nil
}

var spineManipulators = map[string]bool{"*^": true, "*v": true, "*x": true, "*+": true}

func Parse(r io.Reader) (model.Score, error) {
	var s model.Score
	kernCol := -1
	seenData := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "!") {
			continue
		}
		fields := strings.Split(line, "\t")

		if kernCol < 0 {
			if !strings.HasPrefix(line, "**") {
				return s, fmt.Errorf("%w: line %d: data before exclusive interpretation", model.ErrUnparsableScore, lineNum)
			}
			for i, f := range fields {
				if f == "**kern" {
					kernCol = i
					break
				}
			}
			if kernCol < 0 {
				return s, fmt.Errorf("%w: no **kern spine", model.ErrUnparsableScore)
			}
			continue
		}
		if kernCol >= len(fields) {
			return s, fmt.Errorf("%w: line %d: missing **kern column", model.ErrUnparsableScore, lineNum)
		}
		tok := fields[kernCol]

		switch {
		case strings.HasPrefix(line, "*"):
			terminated := true
			for _, f := range fields {
				if spineManipulators[f] {
					return s, fmt.Errorf("%w: line %d: spine manipulation %q is not supported", model.ErrUnparsableScore, lineNum, f)
				}
				if f != "*-" {
					terminated = false
				}
			}
			if terminated {
				return s, scanner.Err()
			}
			if !seenData && s.DeclaredKey == nil {
				if k, ok := parseKeyDesignation(tok); ok {
					s.DeclaredKey = &k
				}
			}
		case strings.HasPrefix(line, "="):
			continue
		default:
			if tok == "." {
				continue
			}
			if strings.Contains(tok, " ") {
				return s, fmt.Errorf("%w: line %d: chord %q", model.ErrUnsupportedEvent, lineNum, tok)
			}
			e, err := ParseToken(tok)
			if err != nil {
				return s, fmt.Errorf("line %d: %w", lineNum, err)
			}
			s.Events = append(s.Events, e)
			seenData = true
		}
	}
	if err := scanner.Err(); err != nil {
		return s, fmt.Errorf("%w: %v", model.ErrUnparsableScore, err)
	}
	if kernCol < 0 {
		return s, fmt.Errorf("%w: no **kern spine", model.ErrUnparsableScore)
	}
	return s, nil
}

// parseKeyDesignation reads tokens like *G:, *e-:, *F#: or *d:dor.
// Upper case tonics are major and lower case minor unless a mode is given.
func parseKeyDesignation(tok string) (model.Key, bool) {
	if !strings.HasPrefix(tok, "*") || !strings.Contains(tok, ":") {
		return model.Key{}, false
	}
	name, mode, _ := strings.Cut(tok[1:], ":")
	if name == "" || strings.ContainsAny(name, "[]") {
		return model.Key{}, false
	}
	tonic, err := model.ParsePitchName(name)
	if err != nil {
		return model.Key{}, false
	}
	k := model.Key{Tonic: tonic, Mode: model.Major}
	if name[0] >= 'a' && name[0] <= 'g' {
		k.Mode = model.Minor
	}
	if mode != "" {
		k.Mode = model.Mode(mode)
	}
	return k, true
}

var letterSemitones = map[byte]int{'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11}

// ParseToken converts a single **kern data token into a note or rest.
// Grace notes come back with a zero duration.
func ParseToken(tok string) (model.Event, error) {
	var recip, denom string
	var inDenom, isRest, isGrace bool
	var dots, letterCount, alter int
	var letter byte

	for i := 0; i < len(tok); i++ {
		c := tok[i]
		switch {
		case c >= '0' && c <= '9':
			if inDenom {
				denom += string(c)
			} else {
				recip += string(c)
			}
		case c == '%':
			inDenom = true
		case c == '.':
			dots++
		case c == 'r':
			isRest = true
		case c == 'q' || c == 'Q':
			isGrace = true
		case c == '#':
			alter++
		case c == '-':
			alter--
		case c == 'n':
			// explicit natural
		case (c >= 'a' && c <= 'g') || (c >= 'A' && c <= 'G'):
			if letterCount > 0 && c != letter {
				return model.Event{}, fmt.Errorf("%w: ambiguous pitch in %q", model.ErrUnparsableScore, tok)
			}
			letter = c
			letterCount++
		}
	}

	var duration float64
	if !isGrace {
		if recip == "" {
			return model.Event{}, fmt.Errorf("%w: missing duration in %q", model.ErrUnparsableScore, tok)
		}
		d, err := recipDuration(recip, denom, dots)
		if err != nil {
			return model.Event{}, fmt.Errorf("%w: %q: %v", model.ErrUnparsableScore, tok, err)
		}
		duration = d
	}

	if isRest {
		return model.Rest(duration), nil
	}
	if letterCount == 0 {
		return model.Event{}, fmt.Errorf("%w: no pitch in %q", model.ErrUnparsableScore, tok)
	}

	var octave int
	if letter >= 'a' {
		octave = 4 + letterCount - 1
	} else {
		octave = 3 - (letterCount - 1)
		letter += 'a' - 'A'
	}
	pitch := 12*(octave+1) + letterSemitones[letter] + alter
	return model.Note(pitch, duration), nil
}

// recipDuration turns a reciprocal rhythm value into quarter-note units:
// 4 is a quarter, 8 an eighth, 0 a breve, 00 a longa, 000 a maxima and
// 3%2 two thirds of a whole.
func recipDuration(recip, denom string, dots int) (float64, error) {
	n, err := strconv.Atoi(recip)
	if err != nil {
		return 0, err
	}
	m := 1
	if denom != "" {
		m, err = strconv.Atoi(denom)
		if err != nil {
			return 0, err
		}
	}
	if m == 0 {
		return 0, fmt.Errorf("zero denominator")
	}

	var base float64
	if n == 0 {
		// each extra zero doubles the breve
		base = float64(int(8)<<(len(recip)-1)) / float64(m)
	} else {
		base = 4 * float64(m) / float64(n)
	}

	total, add := base, base
	for i := 0; i < dots; i++ {
		add /= 2
		total += add
	}
	return total, nil
}
