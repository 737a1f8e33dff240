package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rl1809/cart-store/internal/core/domain"
	"github.com/rl1809/cart-store/internal/port"
)

var (
	ErrInvalidSession  = errors.New("invalid session")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrProductNotFound = errors.New("product not found")
)

type CartService struct {
	carts    *CartRegistry
	products port.ProductRepository
	logger   *zap.Logger
}

func NewCartService(carts *CartRegistry, products port.ProductRepository, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		carts:    carts,
		products: products,
		logger:   logger,
	}
}

// AddProduct looks the product up in the catalog and adds it to the
// session's cart.
func (s *CartService) AddProduct(ctx context.Context, sessionID string, productID int64, quantity int) (domain.CartView, error) {
	if quantity <= 0 {
		return domain.CartView{}, ErrInvalidQuantity
	}

	cart, err := s.open(ctx, sessionID)
	if err != nil {
		return domain.CartView{}, err
	}

	product, err := s.Product(ctx, productID)
	if err != nil {
		return domain.CartView{}, err
	}

	if err := cart.AddItem(ctx, *product, quantity); err != nil {
		return domain.CartView{}, err
	}

	s.logger.Info("added to cart",
		zap.String("session_id", sessionID),
		zap.Int64("product_id", productID),
		zap.Int("quantity", quantity),
	)
	return cart.View(), nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, productID int64, quantity int) (domain.CartView, error) {
	cart, err := s.open(ctx, sessionID)
	if err != nil {
		return domain.CartView{}, err
	}
	if err := cart.UpdateQuantity(ctx, productID, quantity); err != nil {
		return domain.CartView{}, err
	}
	return cart.View(), nil
}

func (s *CartService) RemoveProduct(ctx context.Context, sessionID string, productID int64) (domain.CartView, error) {
	cart, err := s.open(ctx, sessionID)
	if err != nil {
		return domain.CartView{}, err
	}
	if err := cart.RemoveItem(ctx, productID); err != nil {
		return domain.CartView{}, err
	}
	return cart.View(), nil
}

func (s *CartService) Clear(ctx context.Context, sessionID string) (domain.CartView, error) {
	cart, err := s.open(ctx, sessionID)
	if err != nil {
		return domain.CartView{}, err
	}
	if err := cart.Clear(ctx); err != nil {
		return domain.CartView{}, err
	}
	s.logger.Info("cleared cart", zap.String("session_id", sessionID))
	return cart.View(), nil
}

func (s *CartService) View(ctx context.Context, sessionID string) (domain.CartView, error) {
	cart, err := s.open(ctx, sessionID)
	if err != nil {
		return domain.CartView{}, err
	}
	return cart.View(), nil
}

// Watch streams the session's cart views until ctx is done.
func (s *CartService) Watch(ctx context.Context, sessionID string) (<-chan domain.CartView, error) {
	cart, err := s.open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return cart.Watch(ctx), nil
}

func (s *CartService) Product(ctx context.Context, productID int64) (*domain.Product, error) {
	return lookupProduct(ctx, s.products, productID)
}

func (s *CartService) Products(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error) {
	filter = filter.Normalize()
	page, err := s.products.ListProducts(ctx, filter)
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("list products: %w", err)
	}
	return page, nil
}

func (s *CartService) open(ctx context.Context, sessionID string) (*CartStore, error) {
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	return s.carts.Open(ctx, sessionID)
}

func lookupProduct(ctx context.Context, products port.ProductRepository, productID int64) (*domain.Product, error) {
	product, err := products.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", productID, err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}
