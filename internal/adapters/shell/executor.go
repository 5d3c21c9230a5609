// Package shell provides the executor that runs external commands.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/cleanbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec.
// Stdout and stderr are captured separately and stored on the invocation.
type Executor struct {
	now func() time.Time
}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{now: time.Now}
}

// Run launches inv and blocks until it exits.
// The inherited environment is merged with inv.Environment; a PATH override
// is prepended to the inherited PATH.
func (e *Executor) Run(ctx context.Context, inv *domain.Invocation) error {
	if len(inv.Args) == 0 {
		return domain.ErrEmptyCommand
	}

	name := inv.Args[0]
	cmdEnv := resolveEnvironment(os.Environ(), inv.Environment)

	// Resolve against the merged PATH so environment overrides can pick the tool.
	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, inv.Args[1:]...) //nolint:gosec // user provided command
	cmd.Args[0] = name
	cmd.Dir = inv.Dir
	cmd.Env = cmdEnv

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	inv.StartTime = e.now()
	err := cmd.Run()
	inv.EndTime = e.now()
	inv.Stdout = stdout.String()
	inv.Stderr = stderr.String()

	if err == nil {
		inv.ExitCode = 0
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		inv.ExitCode = -1
		return zerr.With(zerr.Wrap(ctxErr, "command interrupted"), "command", inv.CommandLine())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		inv.ExitCode = exitErr.ExitCode()
		if inv.ExitCode == 0 {
			inv.ExitCode = -1
		}
		return zerr.With(
			zerr.Wrap(domain.ErrInvocationFailed, fmt.Sprintf("%s exited with status %d", name, inv.ExitCode)),
			"exit_code", inv.ExitCode,
		)
	}

	// The process never started: missing executable, bad working directory.
	inv.ExitCode = -1
	if inv.Stderr == "" {
		inv.Stderr = err.Error()
	}
	return zerr.With(zerr.Wrap(domain.ErrInvocationStartFailed, err.Error()), "command", inv.CommandLine())
}

// resolveEnvironment merges the inherited environment with overrides.
// The result is sorted so identical inputs produce identical environments.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}

	for k, v := range overrides {
		if k == "PATH" {
			if sysPath := envMap["PATH"]; sysPath != "" && v != "" {
				envMap[k] = v + string(os.PathListSeparator) + sysPath
				continue
			}
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
