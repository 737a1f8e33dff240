package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/rl1809/cart-store/internal/core/domain"
	"github.com/rl1809/cart-store/internal/port"
)

const wishlistKeyPrefix = "wishlist:"

func WishlistKey(sessionID string) string {
	return wishlistKeyPrefix + sessionID
}

type WishlistRegistry struct {
	*registry[*WishlistStore]
}

func NewWishlistRegistry(snapshots port.SnapshotRepository, logger *zap.Logger, opts ...RegistryOption) *WishlistRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	open := func(ctx context.Context, key string) (*WishlistStore, error) {
		return NewWishlistStore(ctx, snapshots, key, logger)
	}
	return &WishlistRegistry{newRegistry("wishlist", wishlistKeyPrefix, open, logger, opts)}
}

type WishlistService struct {
	wishlists *WishlistRegistry
	products  port.ProductRepository
	logger    *zap.Logger
}

func NewWishlistService(wishlists *WishlistRegistry, products port.ProductRepository, logger *zap.Logger) *WishlistService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WishlistService{
		wishlists: wishlists,
		products:  products,
		logger:    logger,
	}
}

func (s *WishlistService) View(ctx context.Context, sessionID string) (domain.WishlistView, error) {
	wishlist, err := s.open(ctx, sessionID)
	if err != nil {
		return domain.WishlistView{}, err
	}
	return wishlist.View(), nil
}

// Add looks the product up in the catalog and lists it.
func (s *WishlistService) Add(ctx context.Context, sessionID string, productID int64) (domain.WishlistView, error) {
	wishlist, err := s.open(ctx, sessionID)
	if err != nil {
		return domain.WishlistView{}, err
	}

	product, err := lookupProduct(ctx, s.products, productID)
	if err != nil {
		return domain.WishlistView{}, err
	}

	if err := wishlist.Add(ctx, *product); err != nil {
		return domain.WishlistView{}, err
	}

	s.logger.Info("added to wishlist",
		zap.String("session_id", sessionID),
		zap.Int64("product_id", productID),
	)
	return wishlist.View(), nil
}

// Remove unlists the product without consulting the catalog, so products
// that have since left the catalog can still be removed.
func (s *WishlistService) Remove(ctx context.Context, sessionID string, productID int64) (domain.WishlistView, error) {
	wishlist, err := s.open(ctx, sessionID)
	if err != nil {
		return domain.WishlistView{}, err
	}
	if err := wishlist.Remove(ctx, productID); err != nil {
		return domain.WishlistView{}, err
	}
	return wishlist.View(), nil
}

func (s *WishlistService) Contains(ctx context.Context, sessionID string, productID int64) (bool, error) {
	wishlist, err := s.open(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return wishlist.Contains(productID), nil
}

func (s *WishlistService) open(ctx context.Context, sessionID string) (*WishlistStore, error) {
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	return s.wishlists.Open(ctx, sessionID)
}
