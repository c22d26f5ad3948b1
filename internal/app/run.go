package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/vk/lbuild/internal/config"
	"github.com/vk/lbuild/internal/ctxlog"
	"github.com/vk/lbuild/internal/engine"
	"github.com/vk/lbuild/internal/proc"
	"github.com/vk/lbuild/internal/script"
	"github.com/vk/lbuild/internal/style"
)

// LockFile is created in the project directory while a build runs.
const LockFile = ".lbuild.lock"

var (
	// ErrLocked is returned when another build holds the project lock.
	ErrLocked = errors.New("another build is running in this project")
	// ErrNoTarget is returned when neither a target nor a default is given.
	ErrNoTarget = errors.New("no target given and no default_target configured")
)

// StatusError reports a build that ran to completion with a non-OK status.
type StatusError struct {
	Target string
	Status engine.Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("build target %s finished with status %d", e.Target, e.Status)
}

// Run executes the main application logic: it evaluates the build script,
// resolves dependencies and runs the requested target, or lists the targets.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "dir", a.dir)

	lock := flock.New(filepath.Join(a.dir, LockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire project lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w (lock held: %s)", ErrLocked, lock.Path())
	}
	// Removed before release; getFiles never reports it.
	defer func() {
		_ = os.Remove(lock.Path())
		_ = lock.Unlock()
	}()

	scriptPath, err := config.FindScript(a.dir, a.settings.Script)
	if err != nil {
		return err
	}

	eng := engine.New()
	defer eng.Clear()

	runner := proc.NewRunner(a.dir)
	runner.Stdout = a.outW
	runner.Stderr = a.errW

	interp := script.New(eng, runner, script.Options{
		Dir:     a.dir,
		Stdout:  a.outW,
		Vars:    a.settings.Vars,
		Exclude: []string{lock.Path()},
	})

	a.logger.Info("📜 Evaluating build script", "path", scriptPath)
	if err := interp.ExecFile(ctx, scriptPath); err != nil {
		return err
	}
	if err := eng.Finalize(ctx); err != nil {
		return fmt.Errorf("failed to resolve dependencies: %w", err)
	}
	a.logger.Debug("Dependencies resolved.", "targets", eng.Registry().Len())

	if a.config.List {
		a.printer.List(listTargets(eng), a.settings.DefaultTarget)
		return nil
	}

	name := a.config.Target
	if name == "" {
		name = a.settings.DefaultTarget
	}
	if name == "" {
		return ErrNoTarget
	}

	a.logger.Info("🚀 Starting build...", "target", name)
	start := time.Now()
	status, err := eng.RunByName(ctx, name)
	elapsed := time.Since(start)
	a.printer.Summary(name, int(status), err, elapsed)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	if !status.OK() {
		return &StatusError{Target: name, Status: status}
	}

	a.logger.Info("🏁 Build finished.", "target", name, "elapsed", elapsed)
	a.logger.Debug("App.Run method finished.")
	return nil
}

// listTargets describes every registered target for the --list output.
func listTargets(eng *engine.Engine) []style.Target {
	reg := eng.Registry()
	names := reg.Names()
	targets := make([]style.Target, 0, len(names))
	for _, name := range names {
		id, _ := reg.Get(name)
		t, _ := reg.Target(id)
		var deps []string
		for _, dep := range t.Dependencies() {
			deps = append(deps, reg.Name(dep))
		}
		_, hasAction := eng.Action(name)
		targets = append(targets, style.Target{Name: name, Dependencies: deps, HasAction: hasAction})
	}
	return targets
}
