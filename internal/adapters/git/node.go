package git

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/memo/internal/core/ports"
)

// NodeID is the unique identifier for the provenance Graft node.
const NodeID graft.ID = "adapter.git"

func init() {
	graft.Register(graft.Node[ports.Provenance]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Provenance, error) {
			return NewProvenance(""), nil
		},
	})
}
