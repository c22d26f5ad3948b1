package script

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/reusee/starlarkutil"
	"github.com/vk/lbuild/internal/fsutil"
	"github.com/vk/lbuild/internal/proc"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// newModule builds the lbuild module seen by scripts.
func (i *Interpreter) newModule(vars map[string]string) *starlarkstruct.Module {
	return &starlarkstruct.Module{
		Name: "lbuild",
		Members: starlark.StringDict{
			"task":     starlark.NewBuiltin("task", i.builtinTask),
			"runTask":  starlark.NewBuiltin("runTask", i.builtinRunTask),
			"getFiles": starlark.NewBuiltin("getFiles", i.builtinGetFiles),
			"exec":     starlark.NewBuiltin("exec", i.builtinExec),
			"getenv":   starlarkutil.MakeFunc("getenv", os.Getenv),
			"vars":     varsDict(vars),
		},
	}
}

// builtinTask registers a new target and returns its handle.
func (i *Interpreter) builtinTask(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &name); err != nil {
		return nil, err
	}

	if _, err := i.engine.CreateTask(name); err != nil {
		return nil, fmt.Errorf("cannot create build target %s: %w", name, err)
	}
	return &Task{name: name, interp: i}, nil
}

// builtinRunTask runs another target from inside an action. The first
// argument is the calling task; running a target that depends on the caller
// is rejected.
func (i *Interpreter) builtinRunTask(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		self *Task
		name string
	)
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &self, &name); err != nil {
		return nil, err
	}

	status, err := i.engine.RunTask(threadContext(thread), self.name, name)
	if err != nil {
		return nil, err
	}
	return starlark.MakeInt(int(status)), nil
}

// builtinGetFiles lists the entries of each directory argument. Relative
// directories are read from the project directory but reported as given, so
// paths stay valid for exec, which runs there too. Excluded paths are
// skipped.
func (i *Interpreter) builtinGetFiles(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
	}

	dirs := make([]string, 0, len(args))
	for n, arg := range args {
		dir, ok := starlark.AsString(arg)
		if !ok {
			return nil, fmt.Errorf("%s: argument %d: expected string, got %s", b.Name(), n+1, arg.Type())
		}
		dirs = append(dirs, dir)
	}

	entries, err := fsutil.ListFiles(i.dir, dirs...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	files := make([]starlark.Value, 0, len(entries))
	for _, e := range entries {
		if i.exclude[filepath.Clean(i.resolvePath(e.Path))] {
			continue
		}
		files = append(files, starlarkstruct.FromStringDict(starlark.String("file"), starlark.StringDict{
			"filename":  starlark.String(e.Filename),
			"extension": starlark.String(e.Extension),
			"path":      starlark.String(e.Path),
		}))
	}
	return starlark.NewList(files), nil
}

// builtinExec runs a command and returns its exit code. The command is either
// a single string, split on whitespace with quoted groups kept whole, or a
// list of arguments.
func (i *Interpreter) builtinExec(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var cmd starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &cmd); err != nil {
		return nil, err
	}

	argv, err := argvOf(cmd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	code := i.runner.Exec(threadContext(thread), argv)
	return starlark.MakeInt(code), nil
}

func argvOf(cmd starlark.Value) ([]string, error) {
	if s, ok := cmd.(starlark.String); ok {
		return proc.Tokenize(string(s))
	}

	seq, ok := cmd.(starlark.Indexable)
	if !ok {
		return nil, fmt.Errorf("expected string or list of strings, got %s", cmd.Type())
	}
	argv := make([]string, 0, seq.Len())
	for n := 0; n < seq.Len(); n++ {
		s, ok := starlark.AsString(seq.Index(n))
		if !ok {
			return nil, fmt.Errorf("element %d: expected string, got %s", n, seq.Index(n).Type())
		}
		argv = append(argv, s)
	}
	return argv, nil
}

// varsDict turns the configured variables into a frozen dict.
func varsDict(vars map[string]string) *starlark.Dict {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := starlark.NewDict(len(keys))
	for _, k := range keys {
		_ = d.SetKey(starlark.String(k), starlark.String(vars[k]))
	}
	d.Freeze()
	return d
}
