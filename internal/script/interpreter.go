package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vk/lbuild/internal/ctxlog"
	"github.com/vk/lbuild/internal/engine"
	"github.com/vk/lbuild/internal/proc"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// contextKey is the thread-local slot holding the context of the current call
// into the interpreter.
const contextKey = "lbuild.context"

// Options configures an Interpreter.
type Options struct {
	// Dir is the project directory; load() paths are relative to it.
	Dir string
	// Stdout receives print() output. Defaults to os.Stdout.
	Stdout io.Writer
	// Vars is exposed to scripts as the frozen dict lbuild.vars.
	Vars map[string]string
	// Predeclared adds extra global names next to lbuild.
	Predeclared starlark.StringDict
	// Exclude lists paths that lbuild.getFiles never reports.
	Exclude []string
}

// Interpreter evaluates build scripts against an engine.
// It owns a single Starlark thread; actions invoked later by the engine run
// on that same thread.
type Interpreter struct {
	engine      *engine.Engine
	runner      *proc.Runner
	dir         string
	stdout      io.Writer
	thread      *starlark.Thread
	module      *starlarkstruct.Module
	predeclared starlark.StringDict
	loads       map[string]*loadEntry
	exclude     map[string]bool
}

// New creates an Interpreter that registers targets in eng and runs external
// commands through runner.
func New(eng *engine.Engine, runner *proc.Runner, opts Options) *Interpreter {
	i := &Interpreter{
		engine:  eng,
		runner:  runner,
		dir:     opts.Dir,
		stdout:  opts.Stdout,
		loads:   make(map[string]*loadEntry),
		exclude: make(map[string]bool, len(opts.Exclude)),
	}
	for _, p := range opts.Exclude {
		i.exclude[filepath.Clean(i.resolvePath(p))] = true
	}
	if i.stdout == nil {
		i.stdout = os.Stdout
	}

	i.module = i.newModule(opts.Vars)
	i.predeclared = starlark.StringDict{"lbuild": i.module}
	for k, v := range opts.Predeclared {
		i.predeclared[k] = v
	}

	i.thread = i.newThread("lbuild")
	return i
}

func (i *Interpreter) newThread(name string) *starlark.Thread {
	return &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(i.stdout, msg)
		},
		Load: i.load,
	}
}

// enter makes ctx the current context of thread and returns a function that
// restores the previous one. Calls nest when actions run other tasks.
func enter(thread *starlark.Thread, ctx context.Context) func() {
	prev := thread.Local(contextKey)
	thread.SetLocal(contextKey, ctx)
	return func() { thread.SetLocal(contextKey, prev) }
}

// threadContext returns the context of the call currently running on thread.
func threadContext(thread *starlark.Thread) context.Context {
	if ctx, ok := thread.Local(contextKey).(context.Context); ok {
		return ctx
	}
	return context.Background()
}

// resolvePath makes a script-relative path absolute against the project dir.
func (i *Interpreter) resolvePath(p string) string {
	if filepath.IsAbs(p) || i.dir == "" {
		return p
	}
	return filepath.Join(i.dir, p)
}

// logBacktrace writes the Starlark stack of err, if it has one, at debug level.
func logBacktrace(ctx context.Context, err error) {
	if evalErr, ok := err.(*starlark.EvalError); ok {
		ctxlog.FromContext(ctx).Debug("Starlark backtrace.", "backtrace", evalErr.Backtrace())
	}
}
