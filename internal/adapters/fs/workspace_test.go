package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cleanbuild/internal/adapters/fs"
	"go.trai.ch/cleanbuild/internal/core/domain"
)

func TestWorkspace_Prepare_CreatesMissingDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "build")

	require.NoError(t, fs.NewWorkspace().Prepare(context.Background(), dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWorkspace_Prepare_WipesExistingContents(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "build")
	nested := filepath.Join(dir, "CMakeFiles", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CMakeCache.txt"), []byte("stale"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "obj.o"), []byte("stale"), 0o600))

	ws := fs.NewWorkspace()
	require.NoError(t, ws.Prepare(context.Background(), dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Idempotent.
	require.NoError(t, ws.Prepare(context.Background(), dir))
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWorkspace_Prepare_ReplacesFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "build")
	require.NoError(t, os.WriteFile(dir, []byte("not a directory"), 0o600))

	require.NoError(t, fs.NewWorkspace().Prepare(context.Background(), dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWorkspace_Prepare_CreateFails(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("file"), 0o600))

	err := fs.NewWorkspace().Prepare(context.Background(), filepath.Join(blocker, "build"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrWorkspaceCreateFailed.Error())
}

func TestWorkspace_Remove(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "build")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o750))

	ws := fs.NewWorkspace()
	require.NoError(t, ws.Remove(context.Background(), dir))
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))

	// Missing directory is fine.
	require.NoError(t, ws.Remove(context.Background(), dir))
}

func TestWorkspace_Remove_ParentIsFile(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("file"), 0o600))

	require.NoError(t, fs.NewWorkspace().Remove(context.Background(), filepath.Join(blocker, "build")))
}

func TestWorkspace_RejectsUnsafePaths(t *testing.T) {
	ws := fs.NewWorkspace()

	for _, dir := range []string{"", "relative/build", string(filepath.Separator)} {
		err := ws.Remove(context.Background(), dir)
		require.Error(t, err, "path %q", dir)
		assert.Contains(t, err.Error(), domain.ErrInvalidBuildDir.Error())
	}
}

func TestWorkspace_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fs.NewWorkspace().Prepare(ctx, filepath.Join(t.TempDir(), "build"))
	require.ErrorIs(t, err, context.Canceled)
}
