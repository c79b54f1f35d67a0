package round

import (
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// SnapshotStore is the durable key-value port used to keep an in-progress
// round alive across process restarts. No transactional guarantee is
// required across operations.
type SnapshotStore interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// snapshotKey holds the serialized round. A single key keeps restore
// all-or-nothing without asking the store for transactions.
const snapshotKey = "round_in_progress"

// snapshot is the persisted form of a Round. Full question copies ride
// along so a round survives edits to the bank mid-round.
type snapshot struct {
	ID        string          `json:"id"`
	Questions json.RawMessage `json:"questions"`
	Position  int             `json:"position"`
	Results   map[string]bool `json:"results"`
	Answered  bool            `json:"answered"`
}

// persist writes the current round to the snapshot store. Persistence is
// best effort: a failed write is logged, never surfaced, so a broken
// session store cannot interrupt a round.
func (m *Machine) persist() {
	if m.snaps == nil || m.round == nil {
		return
	}

	data, err := encodeSnapshot(m.round)
	if err == nil {
		err = m.snaps.Set(snapshotKey, data)
	}
	if err != nil {
		m.log.Warn("failed to snapshot round", zap.String("round_id", m.round.ID), zap.Error(err))
	}
}

// clearSnapshot removes any persisted round.
func (m *Machine) clearSnapshot() {
	if m.snaps == nil {
		return
	}
	if err := m.snaps.Delete(snapshotKey); err != nil {
		m.log.Warn("failed to clear round snapshot", zap.Error(err))
	}
}

// Restore loads a previously persisted round, if any. Returns true when a
// round was restored. Only valid from Idle.
func (m *Machine) Restore() (bool, error) {
	if m.snaps == nil {
		return false, nil
	}
	if m.round != nil {
		return false, &InvalidTransitionError{Action: "restore", State: m.State()}
	}

	data, ok, err := m.snaps.Get(snapshotKey)
	if err != nil {
		return false, fmt.Errorf("read round snapshot: %w", err)
	}
	if !ok {
		return false, nil
	}

	restored, err := decodeSnapshot(data)
	if err != nil {
		// A snapshot that no longer decodes is dropped rather than
		// wedging every startup.
		m.log.Warn("dropping undecodable round snapshot", zap.Error(err))
		m.clearSnapshot()
		return false, nil
	}

	m.round = restored
	m.log.Info("round restored",
		zap.String("round_id", restored.ID),
		zap.Int("position", restored.Position),
		zap.Int("questions", len(restored.Questions)),
	)
	return true, nil
}

func encodeSnapshot(r *Round) ([]byte, error) {
	questions, err := json.Marshal(r.Questions)
	if err != nil {
		return nil, fmt.Errorf("encode questions: %w", err)
	}

	results := make(map[string]bool, len(r.Results))
	for pos, correct := range r.Results {
		results[strconv.Itoa(pos)] = correct
	}

	return json.Marshal(snapshot{
		ID:        r.ID,
		Questions: questions,
		Position:  r.Position,
		Results:   results,
		Answered:  r.Answered,
	})
}

func decodeSnapshot(data []byte) (*Round, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}

	r := &Round{
		ID:       snap.ID,
		Position: snap.Position,
		Answered: snap.Answered,
		Results:  make(map[int]bool, len(snap.Results)),
	}
	if err := json.Unmarshal(snap.Questions, &r.Questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	for key, correct := range snap.Results {
		pos, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("bad result position %q", key)
		}
		r.Results[pos] = correct
	}

	if r.Position < 0 || r.Position > len(r.Questions) {
		return nil, fmt.Errorf("position %d outside [0,%d]", r.Position, len(r.Questions))
	}
	return r, nil
}
