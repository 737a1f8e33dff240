package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/cart-store/internal/core/domain"
	"github.com/rl1809/cart-store/internal/port"
)

var ErrAlreadyInWishlist = errors.New("product already in wishlist")

// WishlistStore holds one session's wishlist: a set of products kept in the
// order they were added. Like CartStore, a change is saved before it is
// applied.
type WishlistStore struct {
	key       string
	snapshots port.SnapshotRepository
	logger    *zap.Logger

	mu        sync.Mutex
	items     []domain.WishlistItem
	persisted time.Time
}

func NewWishlistStore(ctx context.Context, snapshots port.SnapshotRepository, key string, logger *zap.Logger) (*WishlistStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &WishlistStore{
		key:       key,
		snapshots: snapshots,
		logger:    logger.With(zap.String("wishlist_key", key)),
	}

	data, err := snapshots.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load wishlist %s: %w", key, err)
	}

	if data != nil {
		items, err := decodeWishlist(data)
		if err != nil {
			s.logger.Warn("discarding malformed wishlist snapshot", zap.Error(err))
		} else {
			s.items = items
		}
	}

	s.persisted = time.Now()
	return s, nil
}

// Add appends product. It fails with ErrAlreadyInWishlist if the product is
// already listed.
func (s *WishlistStore) Add(ctx context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(product.ID) >= 0 {
		return ErrAlreadyInWishlist
	}

	next := make([]domain.WishlistItem, len(s.items), len(s.items)+1)
	copy(next, s.items)
	next = append(next, domain.WishlistItem{Product: product, AddedAt: time.Now().UnixMilli()})
	return s.save(ctx, "add", next)
}

// Remove drops the product. Removing an unlisted product does nothing.
func (s *WishlistStore) Remove(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return nil
	}

	next := make([]domain.WishlistItem, 0, len(s.items)-1)
	next = append(next, s.items[:i]...)
	next = append(next, s.items[i+1:]...)
	return s.save(ctx, "remove", next)
}

func (s *WishlistStore) Contains(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(productID) >= 0
}

func (s *WishlistStore) View() domain.WishlistView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.NewWishlistView(s.items)
}

func (s *WishlistStore) watching() int {
	return 0
}

func (s *WishlistStore) persistedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persisted
}

// save must be called with mu held.
func (s *WishlistStore) save(ctx context.Context, op string, next []domain.WishlistItem) error {
	data, err := encodeWishlist(next)
	if err != nil {
		return fmt.Errorf("%s: encode wishlist: %w", op, err)
	}
	if err := s.snapshots.Save(ctx, s.key, data); err != nil {
		s.logger.Error("failed to save wishlist", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: save wishlist: %w", op, err)
	}

	if len(next) == 0 {
		next = nil
	}
	s.items = next
	s.persisted = time.Now()
	return nil
}

func (s *WishlistStore) indexOf(productID int64) int {
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}
