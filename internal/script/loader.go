package script

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/lbuild/internal/ctxlog"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

// CompileError reports a build script that could not be parsed or resolved.
type CompileError struct {
	Path string
	Err  error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s: %v", e.Path, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Unit is a compiled build script, ready to be executed once.
type Unit struct {
	Path    string
	program *starlark.Program
}

// Compile reads and compiles the script at path.
func (i *Interpreter) Compile(path string) (*Unit, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read build script: %w", err)
	}

	_, prog, err := starlark.SourceProgramOptions(fileOptions, path, src, i.predeclared.Has)
	if err != nil {
		return nil, &CompileError{Path: path, Err: err}
	}
	return &Unit{Path: path, program: prog}, nil
}

// Execute runs the top-level statements of unit. Targets, dependency
// declarations and actions are registered in the engine as a side effect.
func (i *Interpreter) Execute(ctx context.Context, unit *Unit) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Evaluating build script.", "path", unit.Path)

	restore := enter(i.thread, ctx)
	defer restore()
	stop := context.AfterFunc(ctx, func() { i.thread.Cancel(ctx.Err().Error()) })
	defer stop()

	globals, err := unit.program.Init(i.thread, i.predeclared)
	if err != nil {
		logBacktrace(ctx, err)
		return fmt.Errorf("failed to evaluate %s: %w", unit.Path, err)
	}

	logger.Debug("Build script evaluated.", "path", unit.Path, "globals", len(globals), "targets", i.engine.Registry().Len())
	return nil
}

// ExecFile compiles and executes the script at path.
func (i *Interpreter) ExecFile(ctx context.Context, path string) error {
	unit, err := i.Compile(path)
	if err != nil {
		return err
	}
	return i.Execute(ctx, unit)
}

// loadEntry caches a loaded module. A nil entry marks a load in progress.
type loadEntry struct {
	globals starlark.StringDict
	err     error
}

// loadPath resolves a load() path against the directory of the file that
// contains the load statement.
func (i *Interpreter) loadPath(thread *starlark.Thread, module string) string {
	if filepath.IsAbs(module) {
		return filepath.Clean(module)
	}
	if thread.CallStackDepth() > 0 {
		if from := thread.CallFrame(0).Pos.Filename(); from != "" {
			return filepath.Join(filepath.Dir(i.resolvePath(from)), module)
		}
	}
	return filepath.Clean(i.resolvePath(module))
}

// load implements the Starlark load statement.
func (i *Interpreter) load(thread *starlark.Thread, module string) (starlark.StringDict, error) {
	if module == "lbuild" {
		return starlark.StringDict{"lbuild": i.module}, nil
	}

	path := i.loadPath(thread, module)
	e, ok := i.loads[path]
	if ok {
		if e == nil {
			return nil, fmt.Errorf("cycle in load graph at %s", module)
		}
		return e.globals, e.err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load %s: %w", module, err)
	}

	i.loads[path] = nil
	child := i.newThread("load " + module)
	child.SetLocal(contextKey, threadContext(thread))
	globals, err := starlark.ExecFileOptions(fileOptions, child, path, src, i.predeclared)
	i.loads[path] = &loadEntry{globals: globals, err: err}
	return globals, err
}
