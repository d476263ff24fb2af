package game

import (
	"errors"
	"fmt"
)

// ErrNotReset is returned by Step and Observe before the first Reset.
var ErrNotReset = errors.New("environment not reset")

// InvalidActionError reports an action outside [0, Size). It signals a
// caller bug; the environment never clamps.
type InvalidActionError struct {
	Action Action
	Size   int
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid action %d: must be in [0,%d)", int(e.Action), e.Size)
}
