package round

import (
	"fmt"
	"math/rand"

	"github.com/abhisek/quizdrill/internal/question"
)

// Partition splits the question bank by recorded outcome. The three sets
// are disjoint and cover the bank exactly once.
type Partition struct {
	// Incorrect holds questions whose last attempt was wrong.
	Incorrect []question.Question

	// Unanswered holds questions with no recorded attempt.
	Unanswered []question.Question

	// Correct holds questions whose last attempt was right.
	Correct []question.Question
}

// Total returns the number of questions across all three sets.
func (p Partition) Total() int {
	return len(p.Incorrect) + len(p.Unanswered) + len(p.Correct)
}

// PartitionQuestions buckets questions by their entry in prog, preserving
// bank order within each bucket.
func PartitionQuestions(questions []question.Question, prog map[int]bool) Partition {
	var part Partition
	for _, q := range questions {
		correct, attempted := prog[q.ID]
		switch {
		case !attempted:
			part.Unanswered = append(part.Unanswered, q)
		case correct:
			part.Correct = append(part.Correct, q)
		default:
			part.Incorrect = append(part.Incorrect, q)
		}
	}
	return part
}

// PoolOptions configures which questions a round draws from.
type PoolOptions struct {
	// IncludeWrong adds all previously wrong questions and a sampled share
	// of previously correct ones. Without it the pool is unanswered only.
	IncludeWrong bool

	// CorrectPercent is the share [0,100] of previously correct questions
	// to mix back in when IncludeWrong is set.
	CorrectPercent int
}

// Sampler builds round pools. The randomness source is injected so tests
// can fix the seed.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a Sampler drawing from rng.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// BuildPool assembles the candidate pool for a new round. Returns
// ErrEmptyPool when nothing is left to practice under the policy.
func (s *Sampler) BuildPool(part Partition, opts PoolOptions) ([]question.Question, error) {
	if opts.CorrectPercent < 0 || opts.CorrectPercent > 100 {
		return nil, fmt.Errorf("correct percentage %d outside [0,100]", opts.CorrectPercent)
	}

	var pool []question.Question
	pool = append(pool, part.Unanswered...)

	if opts.IncludeWrong {
		pool = append(pool, part.Incorrect...)

		k := len(part.Correct) * opts.CorrectPercent / 100
		pool = append(pool, s.sample(part.Correct, k)...)
	}

	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	return pool, nil
}

// Shuffle returns a new slice with the questions in uniform random order.
func (s *Sampler) Shuffle(questions []question.Question) []question.Question {
	shuffled := make([]question.Question, len(questions))
	copy(shuffled, questions)

	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// sample picks k questions uniformly without replacement.
func (s *Sampler) sample(questions []question.Question, k int) []question.Question {
	if k <= 0 || len(questions) == 0 {
		return nil
	}
	if k > len(questions) {
		k = len(questions)
	}

	picked := make([]question.Question, 0, k)
	for _, idx := range s.rng.Perm(len(questions))[:k] {
		picked = append(picked, questions[idx])
	}
	return picked
}
