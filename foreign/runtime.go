// Package foreign defines the handle to the scripting runtime that hosts the
// terminal's API module, and the value model that crosses the boundary.
package foreign

import (
	"context"
	"errors"
	"fmt"
)

// ErrClosed is returned by calls on a runtime that has been closed or has died.
var ErrClosed = errors.New("foreign: runtime closed")

// Runtime invokes functions of the terminal module by name.
//
// Implementations are not required to be safe for concurrent use by more than
// one session; callers serialize at a higher level when they share one.
type Runtime interface {
	// Call invokes fn with positional and keyword arguments and returns the
	// normalized result. kwargs may be nil.
	Call(ctx context.Context, fn string, args []any, kwargs map[string]any) (any, error)
	Close() error
}

// CallError is an exception raised inside the runtime while executing a call.
type CallError struct {
	Fn      string `json:"fn"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (e *CallError) Error() string {
	return fmt.Sprintf("foreign: %s raised %s: %s", e.Fn, e.Type, e.Message)
}
