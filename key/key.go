// Package key finds the key of a score and transposes it to C major or
// A minor.
//
// A key declared by the score file wins. Otherwise the key is estimated
// with the Krumhansl-Schmuckler algorithm: pitch classes are weighted by
// duration and correlated against the 24 rotated major and minor profiles.
package key

import (
	"fmt"
	"math"

	"github.com/jsphweid/melodex/model"
)

var majorProfile = [12]float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
var minorProfile = [12]float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}

var tonicNames = [12]model.PitchName{
	{Step: 'C'}, {Step: 'C', Alter: 1}, {Step: 'D'}, {Step: 'E', Alter: -1},
	{Step: 'E'}, {Step: 'F'}, {Step: 'F', Alter: 1}, {Step: 'G'},
	{Step: 'A', Alter: -1}, {Step: 'A'}, {Step: 'B', Alter: -1}, {Step: 'B'},
}

// Targets in the octave of the tonic, so G major moves down a fifth and
// E minor moves up a fourth.
var targets = map[model.Mode]model.PitchName{
	model.Major: {Step: 'C'},
	model.Minor: {Step: 'A'},
}

func Detect(s model.Score) (model.Key, error) {
	if s.DeclaredKey != nil {
		return *s.DeclaredKey, nil
	}
	return Estimate(s)
}

func Estimate(s model.Score) (model.Key, error) {
	var histogram [12]float64
	var total float64
	for _, e := range s.Events {
		switch e.Kind {
		case model.NoteEvent:
			pc := ((e.Pitch % 12) + 12) % 12
			histogram[pc] += e.Duration
			total += e.Duration
		case model.RestEvent:
		default:
			panic(fmt.Sprintf("unknown event kind %v", e.Kind))
		}
	}
	if total == 0 {
		return model.Key{}, fmt.Errorf("%w: no sounding notes to estimate from", model.ErrUnresolvedKey)
	}

	best := math.Inf(-1)
	var res model.Key
	profiles := []struct {
		mode    model.Mode
		profile [12]float64
	}{
		{model.Major, majorProfile},
		{model.Minor, minorProfile},
	}
	for _, p := range profiles {
		for tonic := 0; tonic < 12; tonic++ {
			var rotated [12]float64
			for pc := range rotated {
				rotated[pc] = p.profile[(pc-tonic+12)%12]
			}
			r := correlation(histogram, rotated)
			if r > best {
				best = r
				res = model.Key{Tonic: tonicNames[tonic], Mode: p.mode}
			}
		}
	}
	if math.IsInf(best, -1) {
		return model.Key{}, fmt.Errorf("%w: pitch classes are evenly distributed", model.ErrUnresolvedKey)
	}
	return res, nil
}

// correlation is the Pearson coefficient, NaN when x is constant.
func correlation(x, y [12]float64) float64 {
	var mx, my float64
	for i := range x {
		mx += x[i]
		my += y[i]
	}
	mx /= 12
	my /= 12

	var num, dx, dy float64
	for i := range x {
		num += (x[i] - mx) * (y[i] - my)
		dx += (x[i] - mx) * (x[i] - mx)
		dy += (y[i] - my) * (y[i] - my)
	}
	if dx == 0 || dy == 0 {
		return math.NaN()
	}
	return num / math.Sqrt(dx*dy)
}

// Interval returns the semitone shift from the key's tonic to C for major
// keys or to A for minor keys.
func Interval(k model.Key) (int, error) {
	target, ok := targets[k.Mode]
	if !ok {
		return 0, fmt.Errorf("%w: %v has mode %q", model.ErrUnresolvedKey, k.Tonic, k.Mode)
	}
	return target.Semitone() - k.Tonic.Semitone(), nil
}

// Normalize returns a transposed copy of s along with the key it was
// detected in and the shift that was applied.
func Normalize(s model.Score) (model.Score, model.Key, int, error) {
	k, err := Detect(s)
	if err != nil {
		return model.Score{}, k, 0, err
	}
	shift, err := Interval(k)
	if err != nil {
		return model.Score{}, k, 0, err
	}
	return s.Transpose(shift), k, shift, nil
}
