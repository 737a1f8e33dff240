package port

import (
	"context"

	"github.com/rl1809/cart-store/internal/core/domain"
)

type ProductRepository interface {
	// GetProduct retrieves a product by ID, returns nil if it does not exist
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)

	// ListProducts returns one page of products matching the filter
	ListProducts(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error)
}
