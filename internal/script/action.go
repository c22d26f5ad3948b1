package script

import (
	"context"

	"github.com/vk/lbuild/internal/engine"
	"go.starlark.net/starlark"
)

// scriptAction runs a Starlark callable as a target's action. The callable
// receives the target's Task handle as its only argument.
type scriptAction struct {
	interp *Interpreter
	fn     starlark.Callable
}

// Invoke implements engine.Action.
func (a *scriptAction) Invoke(ctx context.Context, name string) (engine.Status, error) {
	thread := a.interp.thread
	restore := enter(thread, ctx)
	defer restore()

	v, err := starlark.Call(thread, a.fn, starlark.Tuple{&Task{name: name, interp: a.interp}}, nil)
	if err != nil {
		logBacktrace(ctx, err)
		return engine.StatusFailed, err
	}
	return statusOf(v), nil
}

// statusOf maps an action's return value to a status: None, True and 0 are
// success, False is a plain failure and any other int is used as is.
func statusOf(v starlark.Value) engine.Status {
	switch v := v.(type) {
	case starlark.Bool:
		if !v {
			return engine.StatusFailed
		}
	case starlark.Int:
		n, ok := v.Int64()
		if !ok {
			return engine.StatusFailed
		}
		return engine.Status(n)
	}
	return engine.StatusOK
}
