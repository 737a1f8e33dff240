package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/rl1809/cart-store/internal/core/domain"
)

// PostgresAdapter serves the same catalog as MySQLAdapter from Postgres.
type PostgresAdapter struct {
	db *sql.DB
}

func NewPostgresAdapter(db *sql.DB) *PostgresAdapter {
	return &PostgresAdapter{db: db}
}

func (p *PostgresAdapter) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}

	return &product, nil
}

func (p *PostgresAdapter) ListProducts(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error) {
	return listProducts(ctx, p.db, filter, dollarN)
}
