package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/rl1809/cart-store/internal/port"
)

const cartKeyPrefix = "cart:"

func CartKey(sessionID string) string {
	return cartKeyPrefix + sessionID
}

// CartRegistry hands out one CartStore per session. Stores stay cached until
// Evict drops them.
type CartRegistry struct {
	*registry[*CartStore]
}

func NewCartRegistry(snapshots port.SnapshotRepository, logger *zap.Logger, opts ...RegistryOption) *CartRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	open := func(ctx context.Context, key string) (*CartStore, error) {
		return NewCartStore(ctx, snapshots, key, logger)
	}
	return &CartRegistry{newRegistry("cart", cartKeyPrefix, open, logger, opts)}
}
