package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cleanbuild/cmd/cleanbuild/commands"
	"go.trai.ch/cleanbuild/internal/app"
	"go.trai.ch/cleanbuild/internal/build"
)

type mockApp struct {
	runFunc   func(ctx context.Context, opts app.RunOptions) error
	planFunc  func(ctx context.Context, opts app.RunOptions) error
	cleanFunc func(ctx context.Context, opts app.RunOptions) error
}

func (m *mockApp) Run(ctx context.Context, opts app.RunOptions) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Plan(ctx context.Context, opts app.RunOptions) error {
	if m.planFunc != nil {
		return m.planFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Clean(ctx context.Context, opts app.RunOptions) error {
	if m.cleanFunc != nil {
		return m.cleanFunc(ctx, opts)
	}
	return nil
}

type recordingFormatter struct {
	calls []bool
}

func (r *recordingFormatter) SetJSON(enable bool) {
	r.calls = append(r.calls, enable)
}

func TestCommands_Root(t *testing.T) {
	t.Run("runs pipeline without arguments", func(t *testing.T) {
		var captured app.RunOptions
		called := false
		mock := &mockApp{
			runFunc: func(_ context.Context, opts app.RunOptions) error {
				captured = opts
				called = true
				return nil
			},
		}

		cli := commands.New(mock, nil)
		cli.SetArgs([]string{})
		require.NoError(t, cli.Execute(context.Background()))

		assert.True(t, called)
		assert.Equal(t, app.RunOptions{}, captured)
	})

	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.RunOptions
		mock := &mockApp{
			runFunc: func(_ context.Context, opts app.RunOptions) error {
				captured = opts
				return nil
			},
		}

		cli := commands.New(mock, nil)
		cli.SetArgs([]string{"-C", "/src/project", "-c", "ci.yaml", "--dry-run", "--report", "out.json"})
		require.NoError(t, cli.Execute(context.Background()))

		assert.Equal(t, app.RunOptions{
			Root:       "/src/project",
			ConfigPath: "ci.yaml",
			ReportPath: "out.json",
			DryRun:     true,
		}, captured)
	})

	t.Run("returns error on run failure", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ app.RunOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock, nil)
		cli.SetArgs([]string{})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("rejects positional arguments", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ app.RunOptions) error {
				panic("should not be called")
			},
		}

		cli := commands.New(mock, nil)
		cli.SetArgs([]string{"target"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		require.Error(t, cli.Execute(context.Background()))
	})
}

func TestCommands_LogFormat(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		formatter := &recordingFormatter{}
		cli := commands.New(&mockApp{}, formatter)
		cli.SetArgs([]string{"--log-format", "json"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, []bool{true}, formatter.calls)
	})

	t.Run("pretty by default", func(t *testing.T) {
		formatter := &recordingFormatter{}
		cli := commands.New(&mockApp{}, formatter)
		cli.SetArgs([]string{"plan"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, []bool{false}, formatter.calls)
	})

	t.Run("unsupported", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ app.RunOptions) error {
				panic("should not be called")
			},
		}
		cli := commands.New(mock, nil)
		cli.SetArgs([]string{"--log-format", "xml"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported log format")
	})
}

func TestCommands_Plan(t *testing.T) {
	var captured app.RunOptions
	mock := &mockApp{
		planFunc: func(_ context.Context, opts app.RunOptions) error {
			captured = opts
			return nil
		},
	}

	cli := commands.New(mock, nil)
	cli.SetArgs([]string{"plan", "--root", "/src", "--config", "x.yaml"})
	require.NoError(t, cli.Execute(context.Background()))

	assert.Equal(t, "/src", captured.Root)
	assert.Equal(t, "x.yaml", captured.ConfigPath)
}

func TestCommands_Clean(t *testing.T) {
	called := false
	mock := &mockApp{
		cleanFunc: func(_ context.Context, opts app.RunOptions) error {
			called = true
			assert.Equal(t, "/src", opts.Root)
			return nil
		},
		runFunc: func(_ context.Context, _ app.RunOptions) error {
			panic("should not be called")
		},
	}

	cli := commands.New(mock, nil)
	cli.SetArgs([]string{"-C", "/src", "clean"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, called)
}

func TestCommands_Version(t *testing.T) {
	cli := commands.New(&mockApp{}, nil)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, buf.String(), "cleanbuild version "+build.Version)
}

func TestCommands_VersionFlag(t *testing.T) {
	cli := commands.New(&mockApp{}, nil)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"--version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, buf.String(), build.Version)
}
