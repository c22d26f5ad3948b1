package engine

import (
	"github.com/vk/lbuild/internal/target"
)

// New creates and returns an initialized, empty Engine.
func New() *Engine {
	return &Engine{
		targets:  target.NewRegistry(),
		declared: make(map[string][]string),
		actions:  make(map[string]Action),
	}
}

// Registry exposes the engine's target registry for inspection.
func (e *Engine) Registry() *target.Registry {
	return e.targets
}

// CreateTask registers a target named name and allocates an empty action
// slot for it.
func (e *Engine) CreateTask(name string) (target.ID, error) {
	id, err := e.targets.Create(name)
	if err != nil {
		return id, err
	}
	e.actions[name] = nil
	return id, nil
}

// SetAction attaches action to the target named name, replacing any action
// registered before.
func (e *Engine) SetAction(name string, action Action) error {
	if _, ok := e.targets.Get(name); !ok {
		return target.UnknownTarget(name)
	}
	e.actions[name] = action
	return nil
}

// Action returns the action registered for name, if any.
func (e *Engine) Action(name string) (Action, bool) {
	a, ok := e.actions[name]
	return a, ok && a != nil
}

// Clear tears the engine down: targets, buffered declarations and actions
// are dropped. The engine can be populated again afterwards.
func (e *Engine) Clear() {
	e.targets.Clear()
	e.declared = make(map[string][]string)
	e.finalized = false
	e.actions = make(map[string]Action)
}
