package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cleanbuild/internal/core/ports"
)

// WorkspaceNodeID is the unique identifier for the workspace Graft node.
const WorkspaceNodeID graft.ID = "adapter.fs.workspace"

func init() {
	graft.Register(graft.Node[ports.Workspace]{
		ID:        WorkspaceNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Workspace, error) {
			return NewWorkspace(), nil
		},
	})
}
