package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/lbuild/internal/ctxlog"
	"github.com/vk/lbuild/internal/target"
)

// Declare buffers deps as the dependency list of the target named name.
// An empty list is not buffered. A later declaration for the same name
// replaces the earlier one; lists are never merged.
func (e *Engine) Declare(ctx context.Context, name string, deps []string) {
	if len(deps) == 0 {
		return
	}
	if e.finalized {
		ctxlog.FromContext(ctx).Warn("Dependencies declared after finalize are ignored.", "target", name, "deps", deps)
		return
	}

	buffered := make([]string, len(deps))
	copy(buffered, deps)
	e.declared[name] = buffered
}

// Finalize resolves every buffered declaration into graph edges, in declared
// order per target. It must be called once, after the build script has been
// evaluated and before any target runs. The buffer is empty afterwards, even
// when resolution fails.
func (e *Engine) Finalize(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	defer func() {
		e.declared = make(map[string][]string)
		e.finalized = true
	}()

	logger.Debug("Resolving dependency declarations.", "targets", len(e.declared))
	names := make([]string, 0, len(e.declared))
	for name := range e.declared {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		deps := e.declared[name]
		id, ok := e.targets.Get(name)
		if !ok {
			logger.Error("Build target does not exist in registered targets.", "target", name)
			return target.UnknownTarget(name)
		}

		for _, dep := range deps {
			if _, ok := e.targets.Get(dep); !ok {
				logger.Warn("Ignoring dependency on unregistered target.", "target", name, "dependency", dep)
			}
			if err := e.targets.AddDependency(id, dep); err != nil {
				return fmt.Errorf("failed to resolve dependencies of %q: %w", name, err)
			}
		}
	}

	logger.Debug("Dependency declarations resolved.")
	return nil
}
