package store

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/manifold/internal/core/ports"
)

// NodeID is the unique identifier for the intent store Graft node.
const NodeID graft.ID = "adapter.intent_store"

func init() {
	graft.Register(graft.Node[ports.IntentStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.IntentStore, error) {
			return NewStore(), nil
		},
	})
}
