package engine

import (
	"context"
	"fmt"

	"github.com/vk/lbuild/internal/ctxlog"
	"github.com/vk/lbuild/internal/target"
)

// Run executes the target behind id. Dependencies run first, recursively and
// in declaration order, then the target's own action.
//
// Nothing is memoized: a target reachable through several paths runs once per
// path. A dependency that finishes with a non-OK status does not stop the
// walk. An action error aborts the remaining chain and is returned as an
// *ActionError; already finished targets are not rolled back.
func (e *Engine) Run(ctx context.Context, id target.ID) (Status, error) {
	t, ok := e.targets.Target(id)
	if !ok {
		return StatusFailed, target.UnknownTarget(fmt.Sprintf("#%d", id))
	}
	logger := ctxlog.FromContext(ctx).With("target", t.Name())

	for _, dep := range t.Dependencies() {
		status, err := e.Run(ctx, dep)
		if err != nil {
			return status, err
		}
		if !status.OK() {
			logger.Warn("Dependency finished with a non-OK status.", "dependency", e.targets.Name(dep), "status", int(status))
		}
	}

	action, ok := e.Action(t.Name())
	if !ok {
		logger.Error("No action is registered for build target.", "error", ErrNoAction)
		return StatusFailed, nil
	}

	logger.Info("▶️ Running target")
	status, err := action.Invoke(ctx, t.Name())
	if err != nil {
		logger.Error("Target action failed.", "error", err)
		return StatusFailed, &ActionError{Target: t.Name(), Err: err}
	}
	if !status.OK() {
		logger.Error("Unable to run build target.", "status", int(status))
		return status, nil
	}

	logger.Info("✅ Finished target")
	return status, nil
}

// RunByName looks up name and runs it.
func (e *Engine) RunByName(ctx context.Context, name string) (Status, error) {
	id, ok := e.targets.Get(name)
	if !ok {
		return StatusFailed, target.UnknownTarget(name)
	}
	return e.Run(ctx, id)
}

// RunTask runs the target named other on behalf of the running target self.
// It refuses to run other if other already depends, transitively, on self.
func (e *Engine) RunTask(ctx context.Context, self, other string) (Status, error) {
	selfID, ok := e.targets.Get(self)
	if !ok {
		return StatusFailed, target.UnknownTarget(self)
	}
	otherID, ok := e.targets.Get(other)
	if !ok {
		return StatusFailed, target.UnknownTarget(other)
	}

	if e.targets.HasCircularDependency(selfID, otherID) {
		return StatusFailed, &target.Error{Kind: target.ErrCircularDependency, Target: other, Dependency: self}
	}

	ctxlog.FromContext(ctx).Debug("Running nested task.", "target", self, "task", other)
	return e.Run(ctx, otherID)
}
