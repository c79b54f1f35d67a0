package round

import (
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/quizdrill/internal/progress"
	"github.com/abhisek/quizdrill/internal/question"
)

// Machine owns the lifecycle of at most one practice round. It is an
// explicit object passed around by the caller; all mutation goes through
// its transition methods. Not safe for concurrent use.
type Machine struct {
	round *Round
	prog  *progress.Store
	snaps SnapshotStore
	rng   *rand.Rand
	log   *zap.Logger
}

// NewMachine creates a Machine merging results into prog on save and
// persisting round snapshots to snaps. snaps may be nil, in which case the
// round lives only in memory.
func NewMachine(prog *progress.Store, snaps SnapshotStore, rng *rand.Rand, log *zap.Logger) *Machine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Machine{prog: prog, snaps: snaps, rng: rng, log: log}
}

// State reports the current lifecycle phase.
func (m *Machine) State() State {
	switch {
	case m.round == nil:
		return StateIdle
	case m.round.Position >= len(m.round.Questions):
		return StateCompleted
	default:
		return StateInProgress
	}
}

// Active reports whether a round exists (in progress or completed).
func (m *Machine) Active() bool { return m.round != nil }

// Round returns the live round state, or nil when idle.
func (m *Machine) Round() *Round { return m.round }

// Start begins a new round over a fresh shuffle of pool. Only valid from
// Idle.
func (m *Machine) Start(pool []question.Question) error {
	if m.round != nil {
		return &InvalidTransitionError{Action: "start a round", State: m.State()}
	}
	if len(pool) == 0 {
		return ErrEmptyPool
	}

	shuffled := make([]question.Question, len(pool))
	copy(shuffled, pool)
	m.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	m.round = &Round{
		ID:        uuid.NewString(),
		Questions: shuffled,
		Results:   make(map[int]bool),
	}
	m.log.Info("round started",
		zap.String("round_id", m.round.ID),
		zap.Int("questions", len(shuffled)),
	)
	m.persist()
	return nil
}

// Current returns the question at the current position, or nil when the
// machine is idle or the round is completed.
func (m *Machine) Current() *question.Question {
	if m.State() != StateInProgress {
		return nil
	}
	return &m.round.Questions[m.round.Position]
}

// Submit grades the selected option indices against the current question
// and records the result. Rejects an empty selection with ErrNoSelection
// and a second submit at the same position with *InvalidTransitionError.
func (m *Machine) Submit(selected []int) (bool, error) {
	if m.State() != StateInProgress {
		return false, &InvalidTransitionError{Action: "submit", State: m.State()}
	}
	if m.round.Answered {
		return false, &InvalidTransitionError{Action: "submit again", State: m.State()}
	}
	if len(selected) == 0 {
		return false, ErrNoSelection
	}

	q := m.round.Questions[m.round.Position]
	correct := q.Grade(selected)
	m.round.Results[m.round.Position] = correct
	m.round.Answered = true
	m.persist()
	return correct, nil
}

// Next advances to the following position. Before a submit it acts as an
// explicit skip; after one it moves past the revealed answer. Reaching the
// end of the list completes the round.
func (m *Machine) Next() error {
	if m.State() != StateInProgress {
		return &InvalidTransitionError{Action: "advance", State: m.State()}
	}

	m.round.Position++
	m.round.Answered = false
	m.persist()

	if m.State() == StateCompleted {
		m.log.Info("round completed",
			zap.String("round_id", m.round.ID),
			zap.Int("submitted", len(m.round.Results)),
		)
	}
	return nil
}

// StopAndSave merges the round's outcomes into the progress store, keyed
// by question id, and returns the machine to Idle. Valid whenever a round
// exists, completed or not.
func (m *Machine) StopAndSave() error {
	if m.round == nil {
		return &InvalidTransitionError{Action: "save", State: StateIdle}
	}

	if err := m.prog.Merge(m.round.Outcomes()); err != nil {
		return err
	}
	m.log.Info("round results merged",
		zap.String("round_id", m.round.ID),
		zap.Int("outcomes", len(m.round.Results)),
	)
	m.discard()
	return nil
}

// Clear returns the machine to Idle without persisting anything. Clearing
// an idle machine is a no-op.
func (m *Machine) Clear() {
	if m.round == nil {
		return
	}
	m.discard()
}

// Restart discards the current round and starts a new one over the same
// question list with a fresh shuffle.
func (m *Machine) Restart() error {
	if m.round == nil {
		return &InvalidTransitionError{Action: "restart", State: StateIdle}
	}
	pool := m.round.Questions
	m.discard()
	return m.Start(pool)
}

// discard drops the round and its snapshot.
func (m *Machine) discard() {
	m.round = nil
	m.clearSnapshot()
}
