package engine

import (
	"context"

	"github.com/vk/lbuild/internal/target"
)

// Status is the result code of running a target. Zero means success.
type Status int

const (
	StatusOK     Status = 0
	StatusFailed Status = 1
)

// OK reports whether s is a success status.
func (s Status) OK() bool {
	return s == StatusOK
}

// Action performs a target's own work.
//
// A returned error is a runtime failure and aborts the whole run. A non-OK
// status without an error is reported but does not abort the caller.
type Action interface {
	Invoke(ctx context.Context, target string) (Status, error)
}

// ActionFunc adapts a plain function to the Action interface.
type ActionFunc func(ctx context.Context, target string) (Status, error)

// Invoke calls f.
func (f ActionFunc) Invoke(ctx context.Context, target string) (Status, error) {
	return f(ctx, target)
}

// Engine is an isolated build context. Independent engines share no state.
type Engine struct {
	// targets holds every declared target and the dependency edges between them.
	targets *target.Registry
	// declared buffers dependency names per target until Finalize.
	declared map[string][]string
	// finalized is set once Finalize has drained the buffer.
	finalized bool
	// actions maps a target name to its action; a nil entry is an empty slot.
	actions map[string]Action
}
