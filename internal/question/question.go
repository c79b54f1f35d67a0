package question

import (
	"encoding/json"
	"fmt"
)

// Mode distinguishes how a question is answered.
type Mode string

const (
	ModeSingleChoice   Mode = "single_choice"
	ModeMultipleChoice Mode = "multiple_choice"
)

// TopicSelectors lists the topic tag sets a question may carry, in the
// order they appear in the stored records.
var TopicSelectors = []string{"gcp_topics", "gcp_products", "ml_topics"}

// Question is a single quiz question loaded from the bank. Questions are
// immutable once loaded; edits go through Repository.Update.
type Question struct {
	// ID is the unique positive identifier of the question.
	ID int `json:"id"`

	// Mode is single_choice or multiple_choice.
	Mode Mode `json:"mode"`

	// Text is the question body (plain text or HTML).
	Text string `json:"question"`

	// Options is the ordered list of answer choices (at least two).
	Options []string `json:"options"`

	// Answer holds the indices of the correct options. Single-choice
	// questions have exactly one entry. On the wire it is a bare integer
	// for single_choice and an array for multiple_choice.
	Answer []int `json:"-"`

	// Explanation is optional text shown after answering.
	Explanation string `json:"explanation,omitempty"`

	// Topic tag sets, consumed only by analytics.
	GCPTopics   []string `json:"gcp_topics,omitempty"`
	GCPProducts []string `json:"gcp_products,omitempty"`
	MLTopics    []string `json:"ml_topics,omitempty"`
}

// questionWire mirrors Question with a raw answer field so the
// int-or-array encoding can be handled in one place.
type questionWire struct {
	ID          int             `json:"id"`
	Mode        Mode            `json:"mode"`
	Text        string          `json:"question"`
	Options     []string        `json:"options"`
	Answer      json.RawMessage `json:"answer"`
	Explanation string          `json:"explanation,omitempty"`
	GCPTopics   []string        `json:"gcp_topics,omitempty"`
	GCPProducts []string        `json:"gcp_products,omitempty"`
	MLTopics    []string        `json:"ml_topics,omitempty"`
}

// UnmarshalJSON decodes a stored record, accepting both answer encodings.
func (q *Question) UnmarshalJSON(data []byte) error {
	var w questionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	q.ID = w.ID
	q.Mode = w.Mode
	q.Text = w.Text
	q.Options = w.Options
	q.Explanation = w.Explanation
	q.GCPTopics = w.GCPTopics
	q.GCPProducts = w.GCPProducts
	q.MLTopics = w.MLTopics

	q.Answer = nil
	if len(w.Answer) == 0 {
		return nil
	}

	var single int
	if err := json.Unmarshal(w.Answer, &single); err == nil {
		q.Answer = []int{single}
		return nil
	}
	var multi []int
	if err := json.Unmarshal(w.Answer, &multi); err != nil {
		return fmt.Errorf("answer must be an integer or a list of integers: %w", err)
	}
	q.Answer = multi
	return nil
}

// MarshalJSON encodes the record using the wire answer encoding for the
// question's mode.
func (q Question) MarshalJSON() ([]byte, error) {
	w := questionWire{
		ID:          q.ID,
		Mode:        q.Mode,
		Text:        q.Text,
		Options:     q.Options,
		Explanation: q.Explanation,
		GCPTopics:   q.GCPTopics,
		GCPProducts: q.GCPProducts,
		MLTopics:    q.MLTopics,
	}

	var (
		raw []byte
		err error
	)
	if q.Mode == ModeSingleChoice && len(q.Answer) == 1 {
		raw, err = json.Marshal(q.Answer[0])
	} else {
		raw, err = json.Marshal(q.Answer)
	}
	if err != nil {
		return nil, err
	}
	w.Answer = raw

	return json.Marshal(w)
}

// Validate checks the cross-field invariants the JSON schema cannot
// express: answer cardinality per mode and option index bounds.
func (q *Question) Validate() error {
	if q.ID <= 0 {
		return fmt.Errorf("id must be positive, got %d", q.ID)
	}
	if q.Mode != ModeSingleChoice && q.Mode != ModeMultipleChoice {
		return fmt.Errorf("unknown mode %q", q.Mode)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("need at least 2 options, got %d", len(q.Options))
	}
	if len(q.Answer) == 0 {
		return fmt.Errorf("answer must not be empty")
	}
	if q.Mode == ModeSingleChoice && len(q.Answer) != 1 {
		return fmt.Errorf("single_choice answer must be one index, got %d", len(q.Answer))
	}
	seen := make(map[int]bool, len(q.Answer))
	for _, idx := range q.Answer {
		if idx < 0 || idx >= len(q.Options) {
			return fmt.Errorf("answer index %d out of range [0,%d)", idx, len(q.Options))
		}
		if seen[idx] {
			return fmt.Errorf("duplicate answer index %d", idx)
		}
		seen[idx] = true
	}
	return nil
}

// Grade reports whether the selected option indices answer the question
// correctly. Single-choice requires exactly the correct index; multiple
// choice requires the exact set of correct indices, with no partial
// credit. Duplicate selections collapse to one, so grading is a pure set
// comparison.
func (q *Question) Grade(selected []int) bool {
	if q.Mode == ModeSingleChoice {
		return len(selected) == 1 && selected[0] == q.Answer[0]
	}

	want := make(map[int]bool, len(q.Answer))
	for _, idx := range q.Answer {
		want[idx] = true
	}
	got := make(map[int]bool, len(selected))
	for _, idx := range selected {
		if !want[idx] {
			return false
		}
		got[idx] = true
	}
	return len(got) == len(want)
}

// TopicsFor returns the tag set named by selector, or nil if the question
// carries no tags under it.
func (q *Question) TopicsFor(selector string) []string {
	switch selector {
	case "gcp_topics":
		return q.GCPTopics
	case "gcp_products":
		return q.GCPProducts
	case "ml_topics":
		return q.MLTopics
	}
	return nil
}
