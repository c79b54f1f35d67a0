package round

import "github.com/abhisek/quizdrill/internal/question"

// State is the lifecycle phase of the round machine.
type State int

const (
	StateIdle       State = iota // no round
	StateInProgress              // round active, position < length
	StateCompleted               // position reached length, awaiting save or clear
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInProgress:
		return "in progress"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

// Round is the state of one practice round. The question order is fixed
// at start; Position only moves forward while the round is active.
type Round struct {
	// ID identifies the round, mostly for logging.
	ID string

	// Questions is the shuffled question list for this round.
	Questions []question.Question

	// Position indexes the current question; equal to len(Questions) when
	// the round is completed.
	Position int

	// Results maps submitted positions to correctness. Skipped positions
	// have no entry.
	Results map[int]bool

	// Answered is set after the current position is submitted, until the
	// next advance.
	Answered bool
}

// Outcomes translates position-keyed results into a question-id-keyed
// mapping suitable for merging into the progress store.
func (r *Round) Outcomes() map[int]bool {
	outcomes := make(map[int]bool, len(r.Results))
	for pos, correct := range r.Results {
		outcomes[r.Questions[pos].ID] = correct
	}
	return outcomes
}
