// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/cleanbuild/internal/core/domain"
)

// Executor defines the interface for running external commands.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Run launches the command described by inv and waits for it to exit.
	//
	// On return inv holds the captured stdout, stderr, exit code and timing,
	// including when the command fails. A non-zero exit wraps domain.ErrInvocationFailed;
	// a command that cannot be started wraps domain.ErrInvocationStartFailed.
	Run(ctx context.Context, inv *domain.Invocation) error
}
