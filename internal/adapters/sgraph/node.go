package sgraph

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/strata/internal/core/ports"
)

// NodeID is the unique identifier for the model loader Graft node.
const NodeID graft.ID = "adapter.sgraph.loader"

func init() {
	graft.Register(graft.Node[ports.ModelLoader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ModelLoader, error) {
			return NewLoader(), nil
		},
	})
}
