package script

import (
	"fmt"

	"go.starlark.net/starlark"
)

// Task is the script-side handle of a build target. It only carries the
// target's name; all state lives in the engine.
type Task struct {
	name   string
	interp *Interpreter
}

var (
	_ starlark.Value    = (*Task)(nil)
	_ starlark.HasAttrs = (*Task)(nil)
)

func (t *Task) String() string        { return fmt.Sprintf("task(%q)", t.name) }
func (t *Task) Type() string          { return "task" }
func (t *Task) Freeze()               {}
func (t *Task) Truth() starlark.Bool  { return starlark.True }
func (t *Task) Hash() (uint32, error) { return starlark.String(t.name).Hash() }

// Name returns the name of the target behind the handle.
func (t *Task) Name() string { return t.name }

// Attr implements starlark.HasAttrs.
func (t *Task) Attr(name string) (starlark.Value, error) {
	switch name {
	case "name":
		return starlark.String(t.name), nil
	case "dependsOn":
		return starlark.NewBuiltin("dependsOn", t.interp.taskDependsOn).BindReceiver(t), nil
	case "run":
		return starlark.NewBuiltin("run", t.interp.taskRun).BindReceiver(t), nil
	}
	return nil, nil
}

// AttrNames implements starlark.HasAttrs.
func (t *Task) AttrNames() []string {
	return []string{"dependsOn", "name", "run"}
}

// taskDependsOn buffers the dependency names given as arguments.
func (i *Interpreter) taskDependsOn(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	self := b.Receiver().(*Task)
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
	}

	deps := make([]string, 0, len(args))
	for n, arg := range args {
		s, ok := starlark.AsString(arg)
		if !ok {
			return nil, fmt.Errorf("%s: argument %d: expected string, got %s", b.Name(), n+1, arg.Type())
		}
		deps = append(deps, s)
	}

	i.engine.Declare(threadContext(thread), self.name, deps)
	return self, nil
}

// taskRun attaches a callable as the target's action.
func (i *Interpreter) taskRun(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	self := b.Receiver().(*Task)

	var fn starlark.Callable
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &fn); err != nil {
		return nil, err
	}

	if err := i.engine.SetAction(self.name, &scriptAction{interp: i, fn: fn}); err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return self, nil
}
