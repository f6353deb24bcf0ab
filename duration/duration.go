package duration

import "github.com/jsphweid/melodex/model"

// HasAcceptableDurations reports whether every note and rest lasts exactly
// one of the acceptable quarter-note durations. There is no tolerance.
func HasAcceptableDurations(s model.Score, acceptable []float64) bool {
	for _, e := range s.Events {
		if !contains(acceptable, e.Duration) {
			return false
		}
	}
	return true
}

func contains(durations []float64, d float64) bool {
	for _, v := range durations {
		if v == d {
			return true
		}
	}
	return false
}
