package ports

import "context"

// Workspace manages the disposable build output directory.
//
//go:generate mockgen -source=workspace.go -destination=mocks/mock_workspace.go -package=mocks
type Workspace interface {
	// Prepare deletes dir with all its contents if it exists and recreates it empty.
	Prepare(ctx context.Context, dir string) error

	// Remove deletes dir with all its contents. A missing dir is not an error.
	Remove(ctx context.Context, dir string) error
}
