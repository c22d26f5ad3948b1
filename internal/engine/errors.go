package engine

import (
	"errors"
	"fmt"
)

// ErrNoAction is reported when a target is run without a registered action.
var ErrNoAction = errors.New("no action registered")

// ActionError wraps a runtime failure raised by a target's action.
type ActionError struct {
	Target string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("unable to run function for build target %s: %v", e.Target, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }
