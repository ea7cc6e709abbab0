// Package shell provides a shell-based executor for running tasks.
package shell

import (
	"context"
	"errors"
	"io"
	"maps"
	"os"
	"os/exec"
	"runtime"
	"slices"
	"strings"

	"go.trai.ch/manifold/internal/core/domain"
	"go.trai.ch/manifold/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor by handing the task command to the system shell.
type Executor struct{}

var _ ports.Executor = (*Executor)(nil)

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute runs the task's command and waits for it to complete.
// Alias tasks have no command and succeed immediately.
func (e *Executor) Execute(ctx context.Context, task *domain.Task, env []string, stdout, stderr io.Writer) error {
	if task.IsAlias() {
		return nil
	}

	name, args := shellCommand(task.Command)
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // user provided command
	cmd.Dir = task.WorkingDir
	cmd.Env = resolveEnvironment(os.Environ(), env, task.Environment)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		err = zerr.Wrap(err, domain.ErrTaskExecutionFailed.Error())
		err = zerr.With(err, "task", task.Name.String())
		return zerr.With(err, "exit_code", exitCode)
	}

	return nil
}

// shellCommand returns the program and arguments that run command in the platform shell.
func shellCommand(command string) (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", command}
	}
	return "sh", []string{"-c", command}
}

// resolveEnvironment merges the process environment, the environment provided
// by the caller and the task's own variables, later sources winning.
// The result is sorted by name.
func resolveEnvironment(sysEnv, extraEnv []string, taskEnv map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(extraEnv)+len(taskEnv))
	applyEnv(envMap, sysEnv)
	applyEnv(envMap, extraEnv)
	maps.Copy(envMap, taskEnv)

	result := make([]string, 0, len(envMap))
	for _, k := range slices.Sorted(maps.Keys(envMap)) {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

func applyEnv(envMap map[string]string, entries []string) {
	for _, entry := range entries {
		if k, v, ok := strings.Cut(entry, "="); ok && k != "" {
			envMap[k] = v
		}
	}
}
