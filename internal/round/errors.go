package round

import (
	"errors"
	"fmt"
)

// ErrEmptyPool is the normal terminal condition when the sampled pool has
// no questions left to practice. It is not a system failure.
var ErrEmptyPool = errors.New("no questions left to practice")

// ErrNoSelection indicates a submit with no option chosen. Recoverable;
// the caller re-prompts.
var ErrNoSelection = errors.New("no answer selected")

// InvalidTransitionError reports a round action called in a state that
// does not allow it. The surrounding UI should prevent these, but the
// machine rejects them regardless.
type InvalidTransitionError struct {
	Action string
	State  State
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s while round is %s", e.Action, e.State)
}
