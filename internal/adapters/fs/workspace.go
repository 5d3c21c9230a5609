// Package fs implements filesystem adapters.
package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"go.trai.ch/cleanbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// Workspace implements ports.Workspace on the local filesystem.
type Workspace struct{}

// NewWorkspace creates a new Workspace.
func NewWorkspace() *Workspace {
	return &Workspace{}
}

// Prepare removes dir recursively if it exists and recreates it empty.
func (w *Workspace) Prepare(ctx context.Context, dir string) error {
	if err := w.Remove(ctx, dir); err != nil {
		return err
	}

	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWorkspaceCreateFailed.Error()), "path", dir)
	}
	return nil
}

// Remove deletes dir and everything below it. A missing dir is not an error.
func (w *Workspace) Remove(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkDisposable(dir); err != nil {
		return err
	}

	if _, err := os.Lstat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrWorkspaceCleanFailed.Error()), "path", dir)
	}

	if err := os.RemoveAll(dir); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWorkspaceCleanFailed.Error()), "path", dir)
	}
	return nil
}

// checkDisposable rejects paths that can never be a build output directory.
func checkDisposable(dir string) error {
	if dir == "" || !filepath.IsAbs(dir) {
		return zerr.With(domain.ErrInvalidBuildDir, "path", dir)
	}
	clean := filepath.Clean(dir)
	if filepath.Dir(clean) == clean {
		return zerr.With(domain.ErrInvalidBuildDir, "path", dir)
	}
	return nil
}
