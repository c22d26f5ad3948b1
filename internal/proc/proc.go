// Package proc runs external commands on behalf of build actions. Commands run
// synchronously: the caller is blocked until the child process exits.
package proc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/vk/lbuild/internal/ctxlog"
)

// StatusSpawnFailed is returned by Exec when the process could not be started.
const StatusSpawnFailed = 127

// ErrSpawn marks a failure to create the child process.
var ErrSpawn = errors.New("unable to spawn process")

// Runner holds the process attributes shared by every command it runs.
type Runner struct {
	// Dir is the working directory of the child; empty means the current one.
	Dir string
	// Env is the child's environment; nil inherits the parent's.
	Env []string
	// Stdout and Stderr receive the child's output; nil means os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner creates a Runner writing to the process's own stdout and stderr.
func NewRunner(dir string) *Runner {
	return &Runner{
		Dir:    dir,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Exec runs argv and waits for it to finish, returning the exit code.
//
// A failure to start the process is not returned as an error: it is logged
// and reported as StatusSpawnFailed so the calling action can decide what to
// do next.
func (r *Runner) Exec(ctx context.Context, argv []string) int {
	logger := ctxlog.FromContext(ctx)
	if len(argv) == 0 {
		logger.Error("Unable to spawn process.", "error", fmt.Errorf("%w: empty command", ErrSpawn))
		return StatusSpawnFailed
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir
	cmd.Env = r.Env
	cmd.Stdout = orDefault(r.Stdout, os.Stdout)
	cmd.Stderr = orDefault(r.Stderr, os.Stderr)

	logger.Debug("Spawning process.", "argv", strings.Join(argv, " "), "dir", r.Dir)
	if err := cmd.Start(); err != nil {
		logger.Error("Unable to spawn process.", "command", argv[0], "error", fmt.Errorf("%w: %w", ErrSpawn, err))
		return StatusSpawnFailed
	}

	err := cmd.Wait()
	code := cmd.ProcessState.ExitCode()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		logger.Warn("Process wait failed.", "command", argv[0], "error", err)
	}
	logger.Debug("Process exited.", "command", argv[0], "exit_code", code)
	return code
}

func orDefault(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}
