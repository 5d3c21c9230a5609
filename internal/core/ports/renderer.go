package ports

import (
	"context"
	"time"

	"go.trai.ch/cleanbuild/internal/core/domain"
)

// Renderer is the abstraction for output rendering.
// Phase lifecycle events arrive through the telemetry bridge,
// invocation events come straight from the pipeline.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	Start(ctx context.Context) error

	// Stop flushes any buffered output. No events are accepted afterwards.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnPlanEmit is called once before the first phase runs.
	OnPlanEmit(phases []string, buildDir string)

	// OnPhaseStart is called when a phase begins.
	OnPhaseStart(spanID, name string, startTime time.Time)

	// OnInvocationStart is called right before a command is launched.
	OnInvocationStart(inv *domain.Invocation)

	// OnInvocationComplete is called once the command has exited, or failed to start.
	OnInvocationComplete(inv *domain.Invocation)

	// OnWorkspaceFailure is called when the build directory cannot be prepared.
	OnWorkspaceFailure(buildDir string, err error)

	// OnPhaseComplete is called when a phase finishes. err is nil on success.
	OnPhaseComplete(spanID string, endTime time.Time, err error)
}
