package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/cart-store/internal/core/domain"
	"github.com/rl1809/cart-store/internal/port"
)

const DefaultQuantity = 1

// CartStore is the single source of truth for one cart. Every mutation is
// written to the snapshot repository before it becomes visible, and observers
// registered with Watch receive the resulting view in the same step.
type CartStore struct {
	key       string
	snapshots port.SnapshotRepository
	logger    *zap.Logger

	mu        sync.Mutex
	items     []domain.LineItem
	view      domain.CartView
	watchers  map[uint64]chan domain.CartView
	nextID    uint64
	persisted time.Time
}

// NewCartStore restores the cart saved under key. A missing or unreadable
// snapshot yields an empty cart; only storage failures are returned.
func NewCartStore(ctx context.Context, snapshots port.SnapshotRepository, key string, logger *zap.Logger) (*CartStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &CartStore{
		key:       key,
		snapshots: snapshots,
		logger:    logger.With(zap.String("cart_key", key)),
		watchers:  make(map[uint64]chan domain.CartView),
	}

	data, err := snapshots.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", key, err)
	}

	if data != nil {
		items, err := decodeSnapshot(data)
		if err != nil {
			s.logger.Warn("discarding malformed cart snapshot", zap.Error(err))
		} else {
			s.items = items
		}
	}

	s.view = domain.NewCartView(s.items)
	s.persisted = time.Now()
	return s, nil
}

func (s *CartStore) Key() string {
	return s.key
}

// AddItem increments the quantity of product's line, creating it if needed.
// Non-positive quantities are ignored.
func (s *CartStore) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	return s.apply(ctx, "add item", func(items []domain.LineItem) ([]domain.LineItem, bool) {
		if quantity <= 0 {
			return items, false
		}
		if i := indexOf(items, product.ID); i >= 0 {
			items[i].Quantity += quantity
			return items, true
		}
		return append(items, domain.LineItem{Product: product, Quantity: quantity}), true
	})
}

func (s *CartStore) RemoveItem(ctx context.Context, productID int64) error {
	return s.apply(ctx, "remove item", func(items []domain.LineItem) ([]domain.LineItem, bool) {
		return removeLine(items, productID)
	})
}

// UpdateQuantity replaces the quantity of an existing line. A quantity of
// zero or less removes the line.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	return s.apply(ctx, "update quantity", func(items []domain.LineItem) ([]domain.LineItem, bool) {
		if quantity <= 0 {
			return removeLine(items, productID)
		}
		i := indexOf(items, productID)
		if i < 0 || items[i].Quantity == quantity {
			return items, false
		}
		items[i].Quantity = quantity
		return items, true
	})
}

func (s *CartStore) Clear(ctx context.Context) error {
	return s.apply(ctx, "clear", func([]domain.LineItem) ([]domain.LineItem, bool) {
		return nil, true
	})
}

// Items returns a copy of the current line items.
func (s *CartStore) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// View returns a copy of the current view.
func (s *CartStore) View() domain.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Clone()
}

func (s *CartStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Count
}

func (s *CartStore) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Total
}

// Watch returns a channel that immediately holds the current view and then
// always holds the latest one. Views a slow reader did not pick up in time
// are replaced, never queued. The channel is closed once ctx is done.
func (s *CartStore) Watch(ctx context.Context) <-chan domain.CartView {
	ch := make(chan domain.CartView, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = ch
	ch <- s.view.Clone()
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

func (s *CartStore) watching() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watchers)
}

func (s *CartStore) persistedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persisted
}

// apply runs fn against a copy of the items. The result replaces the current
// state only after it has been saved, so memory never runs ahead of storage.
func (s *CartStore) apply(ctx context.Context, op string, fn func([]domain.LineItem) ([]domain.LineItem, bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := fn(cloneItems(s.items))
	if !changed {
		return nil
	}

	data, err := encodeSnapshot(next)
	if err != nil {
		return fmt.Errorf("%s: encode cart: %w", op, err)
	}
	if err := s.snapshots.Save(ctx, s.key, data); err != nil {
		s.logger.Error("failed to save cart", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: save cart: %w", op, err)
	}

	s.items = next
	s.view = domain.NewCartView(next)
	s.persisted = time.Now()
	s.publish()

	s.logger.Debug("cart updated",
		zap.String("op", op),
		zap.Int("lines", len(next)),
		zap.Int("count", s.view.Count),
		zap.String("total", s.view.Total.String()),
	)
	return nil
}

// publish must be called with mu held.
func (s *CartStore) publish() {
	for _, ch := range s.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- s.view.Clone()
	}
}

func indexOf(items []domain.LineItem, productID int64) int {
	for i := range items {
		if items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func removeLine(items []domain.LineItem, productID int64) ([]domain.LineItem, bool) {
	i := indexOf(items, productID)
	if i < 0 {
		return items, false
	}
	return append(items[:i], items[i+1:]...), true
}

func cloneItems(items []domain.LineItem) []domain.LineItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]domain.LineItem, len(items))
	copy(out, items)
	return out
}
