package shell_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cleanbuild/internal/adapters/shell"
	"go.trai.ch/cleanbuild/internal/core/domain"
)

func TestExecutor_Run_CapturesStreamsSeparately(t *testing.T) {
	executor := shell.NewExecutor()

	inv := domain.NewInvocation("sh", "-c", "echo out1; echo err1 >&2; echo out2")

	err := executor.Run(context.Background(), inv)
	require.NoError(t, err)

	assert.Equal(t, "out1\nout2\n", inv.Stdout)
	assert.Equal(t, "err1\n", inv.Stderr)
	assert.Equal(t, 0, inv.ExitCode)
	assert.True(t, inv.Succeeded())
	assert.False(t, inv.StartTime.IsZero())
	assert.False(t, inv.EndTime.Before(inv.StartTime))
}

func TestExecutor_Run_WorkingDirectory(t *testing.T) {
	executor := shell.NewExecutor()
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "marker.txt"), []byte("x"), 0o600))

	inv := domain.NewInvocation("ls").InDir(tmpDir)

	require.NoError(t, executor.Run(context.Background(), inv))
	assert.Equal(t, "marker.txt\n", inv.Stdout)
}

func TestExecutor_Run_EnvironmentOverrides(t *testing.T) {
	executor := shell.NewExecutor()

	inv := domain.NewInvocation("sh", "-c", "echo $CLEANBUILD_TEST_VAR")
	inv.Environment = map[string]string{"CLEANBUILD_TEST_VAR": "test-value-123"}

	require.NoError(t, executor.Run(context.Background(), inv))
	assert.Equal(t, "test-value-123\n", inv.Stdout)
}

func TestExecutor_Run_PathOverrideIsPrepended(t *testing.T) {
	executor := shell.NewExecutor()
	binDir := t.TempDir()

	script := "#!/bin/sh\necho fake-tool\n"
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "fake-tool"), []byte(script), 0o700)) //nolint:gosec // test script

	inv := domain.NewInvocation("fake-tool")
	inv.Environment = map[string]string{"PATH": binDir}

	require.NoError(t, executor.Run(context.Background(), inv))
	assert.Equal(t, "fake-tool\n", inv.Stdout)
}

func TestExecutor_Run_NonZeroExit(t *testing.T) {
	executor := shell.NewExecutor()

	inv := domain.NewInvocation("sh", "-c", "echo partial; echo broken >&2; exit 42")

	err := executor.Run(context.Background(), inv)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrInvocationFailed)
	assert.Contains(t, err.Error(), "sh exited with status 42")

	assert.Equal(t, 42, inv.ExitCode)
	assert.Equal(t, "partial\n", inv.Stdout)
	assert.Equal(t, "broken\n", inv.Stderr)
	assert.False(t, inv.Succeeded())
}

func TestExecutor_Run_MissingExecutable(t *testing.T) {
	executor := shell.NewExecutor()

	inv := domain.NewInvocation("nonexistent-command-xyz123")

	err := executor.Run(context.Background(), inv)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrInvocationStartFailed)
	assert.Equal(t, -1, inv.ExitCode)
	assert.Contains(t, inv.Stderr, "nonexistent-command-xyz123")
}

func TestExecutor_Run_MissingWorkingDirectory(t *testing.T) {
	executor := shell.NewExecutor()

	inv := domain.NewInvocation("true").InDir(filepath.Join(t.TempDir(), "missing"))

	err := executor.Run(context.Background(), inv)
	require.ErrorIs(t, err, domain.ErrInvocationStartFailed)
	assert.Equal(t, -1, inv.ExitCode)
}

func TestExecutor_Run_EmptyCommand(t *testing.T) {
	executor := shell.NewExecutor()

	err := executor.Run(context.Background(), domain.NewInvocation())
	require.ErrorIs(t, err, domain.ErrEmptyCommand)
}

func TestExecutor_Run_Cancelled(t *testing.T) {
	executor := shell.NewExecutor()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inv := domain.NewInvocation("sleep", "5")

	err := executor.Run(ctx, inv)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, -1, inv.ExitCode)
}
