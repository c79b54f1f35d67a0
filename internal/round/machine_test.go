package round

import (
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/abhisek/quizdrill/internal/progress"
	"github.com/abhisek/quizdrill/internal/question"
)

// memoryStore is an in-memory SnapshotStore for tests.
type memoryStore struct {
	data map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (m *memoryStore) Get(key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryStore) Set(key string, value []byte) error {
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memoryStore) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func testProgressStore(t *testing.T) *progress.Store {
	t.Helper()
	return progress.NewStore(filepath.Join(t.TempDir(), "progress.json"), false, nil)
}

func testMachine(t *testing.T, snaps SnapshotStore) *Machine {
	t.Helper()
	return NewMachine(testProgressStore(t), snaps, rand.New(rand.NewSource(1)), nil)
}

func twoQuestions() []question.Question {
	return []question.Question{
		{ID: 1, Mode: question.ModeSingleChoice, Text: "q1", Options: []string{"a", "b"}, Answer: []int{0}},
		{ID: 2, Mode: question.ModeMultipleChoice, Text: "q2", Options: []string{"a", "b", "c"}, Answer: []int{0, 2}},
	}
}

func TestStart_InitialState(t *testing.T) {
	m := testMachine(t, nil)

	if err := m.Start(twoQuestions()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	if m.State() != StateInProgress {
		t.Errorf("State() = %v, want InProgress", m.State())
	}
	r := m.Round()
	if r.Position != 0 {
		t.Errorf("Position = %d, want 0", r.Position)
	}
	if len(r.Results) != 0 {
		t.Errorf("len(Results) = %d, want 0", len(r.Results))
	}
	if r.Answered {
		t.Error("Answered should be false at start")
	}
	if r.ID == "" {
		t.Error("round ID should be set")
	}
}

func TestStart_WhileActiveRejected(t *testing.T) {
	m := testMachine(t, nil)
	if err := m.Start(twoQuestions()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	err := m.Start(twoQuestions())
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Errorf("err = %v, want InvalidTransitionError", err)
	}
}

func TestSubmitNextFlow(t *testing.T) {
	m := testMachine(t, nil)
	if err := m.Start(twoQuestions()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	q := m.Current()
	if q == nil {
		t.Fatal("Current() = nil, want first question")
	}

	correct, err := m.Submit(q.Answer)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if !correct {
		t.Error("submitting the correct answer should grade true")
	}
	if !m.Round().Answered {
		t.Error("Answered should be true after submit")
	}
	if got := m.Round().Results[0]; !got {
		t.Errorf("Results[0] = %v, want true", got)
	}

	if err := m.Next(); err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if m.Round().Position != 1 {
		t.Errorf("Position = %d, want 1", m.Round().Position)
	}
	if m.Round().Answered {
		t.Error("Answered should reset after Next")
	}

	// Wrong answer at position 1.
	if _, err := m.Submit([]int{1}); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if err := m.Next(); err != nil {
		t.Fatalf("Next returned error: %v", err)
	}

	if m.State() != StateCompleted {
		t.Errorf("State() = %v, want Completed", m.State())
	}
	if m.Current() != nil {
		t.Error("Current() should be nil after completion")
	}
}

func TestSubmit_DoubleSubmitRejected(t *testing.T) {
	m := testMachine(t, nil)
	if err := m.Start(twoQuestions()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	if _, err := m.Submit([]int{0}); err != nil {
		t.Fatalf("first Submit returned error: %v", err)
	}

	_, err := m.Submit([]int{1})
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Errorf("second submit err = %v, want InvalidTransitionError", err)
	}
}

func TestSubmit_NoSelection(t *testing.T) {
	m := testMachine(t, nil)
	if err := m.Start(twoQuestions()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	if _, err := m.Submit(nil); !errors.Is(err, ErrNoSelection) {
		t.Errorf("err = %v, want ErrNoSelection", err)
	}

	// A rejected submit leaves the position open.
	if m.Round().Answered {
		t.Error("Answered should remain false after NoSelection")
	}
}

func TestSubmit_AfterCompletionRejected(t *testing.T) {
	m := testMachine(t, nil)
	if err := m.Start(twoQuestions()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	// Skip both questions.
	if err := m.Next(); err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if err := m.Next(); err != nil {
		t.Fatalf("Next returned error: %v", err)
	}

	if m.State() != StateCompleted {
		t.Fatalf("State() = %v, want Completed", m.State())
	}
	if _, err := m.Submit([]int{0}); err == nil {
		t.Error("expected submit after completion to be rejected")
	}
	// Skipped positions leave no result entries.
	if len(m.Round().Results) != 0 {
		t.Errorf("len(Results) = %d, want 0 after skipping all", len(m.Round().Results))
	}
}

func TestStopAndSave_MergesOutcomesByQuestionID(t *testing.T) {
	prog := testProgressStore(t)
	if err := prog.Save(map[int]bool{2: true, 9: false}); err != nil {
		t.Fatalf("seed progress: %v", err)
	}
	m := NewMachine(prog, nil, rand.New(rand.NewSource(1)), nil)

	if err := m.Start(twoQuestions()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	// Answer both questions wrong.
	for m.State() == StateInProgress {
		q := m.Current()
		wrong := []int{}
		for i := range q.Options {
			if !q.Grade([]int{i}) {
				wrong = []int{i}
				break
			}
		}
		if _, err := m.Submit(wrong); err != nil {
			t.Fatalf("Submit returned error: %v", err)
		}
		if err := m.Next(); err != nil {
			t.Fatalf("Next returned error: %v", err)
		}
	}

	if err := m.StopAndSave(); err != nil {
		t.Fatalf("StopAndSave returned error: %v", err)
	}
	if m.State() != StateIdle {
		t.Errorf("State() = %v, want Idle after save", m.State())
	}

	saved, err := prog.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	// Both round questions recorded wrong; unrelated id 9 preserved.
	want := map[int]bool{1: false, 2: false, 9: false}
	for id, correct := range want {
		if got, ok := saved[id]; !ok || got != correct {
			t.Errorf("saved[%d] = %v (present=%v), want %v", id, got, ok, correct)
		}
	}
}

func TestClear_IdleIsNoOp(t *testing.T) {
	m := testMachine(t, nil)

	m.Clear() // must not panic or error

	if m.State() != StateIdle {
		t.Errorf("State() = %v, want Idle", m.State())
	}
}

func TestClear_DiscardsWithoutPersisting(t *testing.T) {
	prog := testProgressStore(t)
	m := NewMachine(prog, nil, rand.New(rand.NewSource(1)), nil)

	if err := m.Start(twoQuestions()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if _, err := m.Submit([]int{0}); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	m.Clear()

	saved, err := prog.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(saved) != 0 {
		t.Errorf("progress has %d entries after Clear, want 0", len(saved))
	}
}

func TestRestart_FreshRoundSameQuestions(t *testing.T) {
	m := testMachine(t, nil)
	if err := m.Start(twoQuestions()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	firstID := m.Round().ID
	if _, err := m.Submit([]int{0}); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if err := m.Restart(); err != nil {
		t.Fatalf("Restart returned error: %v", err)
	}

	r := m.Round()
	if r.ID == firstID {
		t.Error("restart should mint a new round ID")
	}
	if r.Position != 0 || len(r.Results) != 0 || r.Answered {
		t.Error("restart should reset position, results, and answered flag")
	}
	if len(r.Questions) != 2 {
		t.Errorf("len(Questions) = %d, want 2", len(r.Questions))
	}
}

func TestSnapshot_SurvivesRestart(t *testing.T) {
	snaps := newMemoryStore()
	prog := testProgressStore(t)
	m := NewMachine(prog, snaps, rand.New(rand.NewSource(1)), nil)

	if err := m.Start(twoQuestions()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if _, err := m.Submit(m.Current().Answer); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	savedID := m.Round().ID

	// Simulate a process restart with a fresh machine over the same store.
	resumed := NewMachine(prog, snaps, rand.New(rand.NewSource(2)), nil)
	ok, err := resumed.Restore()
	if err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	if !ok {
		t.Fatal("Restore() = false, want true")
	}

	r := resumed.Round()
	if r.ID != savedID {
		t.Errorf("restored ID = %s, want %s", r.ID, savedID)
	}
	if r.Position != 0 || !r.Answered {
		t.Errorf("restored Position=%d Answered=%v, want 0/true", r.Position, r.Answered)
	}
	if got := r.Results[0]; !got {
		t.Errorf("restored Results[0] = %v, want true", got)
	}
	if len(r.Questions) != 2 {
		t.Errorf("restored len(Questions) = %d, want 2", len(r.Questions))
	}
}

func TestSnapshot_ClearedOnSaveAndClear(t *testing.T) {
	snaps := newMemoryStore()
	m := NewMachine(testProgressStore(t), snaps, rand.New(rand.NewSource(1)), nil)

	if err := m.Start(twoQuestions()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if _, ok, _ := snaps.Get("round_in_progress"); !ok {
		t.Fatal("expected snapshot after start")
	}

	if err := m.StopAndSave(); err != nil {
		t.Fatalf("StopAndSave returned error: %v", err)
	}
	if _, ok, _ := snaps.Get("round_in_progress"); ok {
		t.Error("snapshot should be deleted after save")
	}

	resumed := NewMachine(testProgressStore(t), snaps, rand.New(rand.NewSource(1)), nil)
	ok, err := resumed.Restore()
	if err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	if ok {
		t.Error("Restore() = true after snapshot cleared, want false")
	}
}

func TestRestore_UndecodableSnapshotDropped(t *testing.T) {
	snaps := newMemoryStore()
	if err := snaps.Set("round_in_progress", []byte("not json")); err != nil {
		t.Fatal(err)
	}

	m := testMachine(t, snaps)
	ok, err := m.Restore()
	if err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	if ok {
		t.Error("Restore() = true for undecodable snapshot, want false")
	}
	if _, present, _ := snaps.Get("round_in_progress"); present {
		t.Error("undecodable snapshot should be deleted")
	}
}
