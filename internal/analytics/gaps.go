package analytics

import (
	"sort"

	"github.com/abhisek/quizdrill/internal/question"
)

// SortKey selects the ordering of a gap table.
type SortKey int

const (
	SortGapDesc      SortKey = iota // largest knowledge gap first
	SortAccuracyAsc                 // lowest accuracy first
	SortAttemptsDesc                // most attempted first
)

// GapRow is one topic's aggregated standing. Gap is 1 - Accuracy.
type GapRow struct {
	Topic    string
	Attempts int
	Correct  int
	Accuracy float64
	Gap      float64
}

// GapFilter controls filtering, ordering, and truncation of a gap table.
type GapFilter struct {
	// MinAttempts drops topics with fewer attempted rows.
	MinAttempts int

	// MaxAccuracy drops topics above this accuracy (already-known areas).
	MaxAccuracy float64

	// SortBy orders the surviving rows.
	SortBy SortKey

	// TopK truncates the result; 0 means unlimited.
	TopK int
}

// TopicGapTable aggregates per-topic accuracy over attempted questions.
// Each question contributes one row per tag in the set named by selector;
// questions without a recorded attempt or without tags contribute nothing.
// An empty result is a valid "no topics match" outcome, not an error.
func TopicGapTable(questions []question.Question, prog map[int]bool, selector string, filter GapFilter) []GapRow {
	type bucket struct {
		attempts int
		correct  int
	}
	buckets := make(map[string]*bucket)

	for _, q := range questions {
		correct, attempted := prog[q.ID]
		if !attempted {
			continue
		}
		for _, topic := range q.TopicsFor(selector) {
			b := buckets[topic]
			if b == nil {
				b = &bucket{}
				buckets[topic] = b
			}
			b.attempts++
			if correct {
				b.correct++
			}
		}
	}

	rows := make([]GapRow, 0, len(buckets))
	for topic, b := range buckets {
		accuracy := float64(b.correct) / float64(b.attempts)
		row := GapRow{
			Topic:    topic,
			Attempts: b.attempts,
			Correct:  b.correct,
			Accuracy: accuracy,
			Gap:      1 - accuracy,
		}
		if row.Attempts < filter.MinAttempts || row.Accuracy > filter.MaxAccuracy {
			continue
		}
		rows = append(rows, row)
	}

	sortRows(rows, filter.SortBy)

	if filter.TopK > 0 && len(rows) > filter.TopK {
		rows = rows[:filter.TopK]
	}
	return rows
}

// sortRows orders rows by the chosen key, breaking ties by topic name so
// output is stable for display.
func sortRows(rows []GapRow, key SortKey) {
	sort.Slice(rows, func(i, j int) bool {
		switch key {
		case SortAccuracyAsc:
			if rows[i].Accuracy != rows[j].Accuracy {
				return rows[i].Accuracy < rows[j].Accuracy
			}
		case SortAttemptsDesc:
			if rows[i].Attempts != rows[j].Attempts {
				return rows[i].Attempts > rows[j].Attempts
			}
		default: // SortGapDesc
			if rows[i].Gap != rows[j].Gap {
				return rows[i].Gap > rows[j].Gap
			}
		}
		return rows[i].Topic < rows[j].Topic
	})
}

// TopicCount is one topic's share of the bank, attempts aside.
type TopicCount struct {
	Topic   string
	Count   int
	Percent float64
}

// TopicDistribution counts tag occurrences in the set named by selector
// across the whole bank, most common first, truncated to topN (0 means
// unlimited). Percent is relative to the total tag count.
func TopicDistribution(questions []question.Question, selector string, topN int) []TopicCount {
	counts := make(map[string]int)
	total := 0
	for _, q := range questions {
		for _, topic := range q.TopicsFor(selector) {
			counts[topic]++
			total++
		}
	}

	rows := make([]TopicCount, 0, len(counts))
	for topic, count := range counts {
		rows = append(rows, TopicCount{
			Topic:   topic,
			Count:   count,
			Percent: float64(count) / float64(total) * 100,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Topic < rows[j].Topic
	})

	if topN > 0 && len(rows) > topN {
		rows = rows[:topN]
	}
	return rows
}
