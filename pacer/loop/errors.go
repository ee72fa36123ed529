package loop

import (
	"errors"
	"fmt"
)

// ErrNilGame is returned by New when no Game is supplied.
var ErrNilGame = errors.New("loop: game must not be nil")

// PanicError wraps a panic raised inside a Game hook.
type PanicError struct {
	Phase Phase
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic during %s: %v", e.Phase, e.Value)
}

// Unwrap exposes the panic value when it was an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
