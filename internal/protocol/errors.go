package protocol

import (
	"errors"
	"fmt"

	"github.com/lox/liarsdeck/internal/game"
)

// Error codes
const (
	CodeInvalidAction  = "invalid_action"
	CodeNotReset       = "not_reset"
	CodeInvalidMessage = "invalid_message"
	CodeUnknownType    = "unknown_message_type"
	CodeInternal       = "internal"
)

// RemoteError is an error reported by the server that has no game equivalent.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("server error %s: %s", e.Code, e.Message)
}

// ErrorFor converts an environment error into its wire form
func ErrorFor(err error) ErrorData {
	var invalid *game.InvalidActionError
	switch {
	case errors.As(err, &invalid):
		return ErrorData{Code: CodeInvalidAction, Message: err.Error()}
	case errors.Is(err, game.ErrNotReset):
		return ErrorData{Code: CodeNotReset, Message: err.Error()}
	default:
		return ErrorData{Code: CodeInternal, Message: err.Error()}
	}
}

// Err converts a wire error back into the matching game error. action and
// size fill in an *game.InvalidActionError.
func (d ErrorData) Err(action game.Action, size int) error {
	switch d.Code {
	case CodeInvalidAction:
		return &game.InvalidActionError{Action: action, Size: size}
	case CodeNotReset:
		return game.ErrNotReset
	default:
		return &RemoteError{Code: d.Code, Message: d.Message}
	}
}
