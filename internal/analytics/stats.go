// Package analytics aggregates answer history into study guidance.
package analytics

// Stats summarizes a set of answer outcomes, either the overall progress
// mapping or a single round's results.
type Stats struct {
	Asked   int
	Correct int
	Wrong   int
	Percent float64 // Correct/Asked*100, 0.0 when nothing was asked
}

// OverallStats counts outcomes and derives the success percentage.
func OverallStats(results map[int]bool) Stats {
	s := Stats{Asked: len(results)}
	for _, correct := range results {
		if correct {
			s.Correct++
		} else {
			s.Wrong++
		}
	}
	if s.Asked > 0 {
		s.Percent = float64(s.Correct) / float64(s.Asked) * 100
	}
	return s
}
