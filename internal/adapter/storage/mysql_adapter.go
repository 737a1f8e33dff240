package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/cart-store/internal/core/domain"
)

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	row := m.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}

	return &p, nil
}

func (m *MySQLAdapter) ListProducts(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error) {
	return listProducts(ctx, m.db, filter, questionMark)
}

func listProducts(ctx context.Context, db *sql.DB, filter domain.ProductFilter, ph placeholder) (domain.ProductPage, error) {
	q := buildProductQueries(filter, ph)

	var total int
	if err := db.QueryRowContext(ctx, q.count, q.args...).Scan(&total); err != nil {
		return domain.ProductPage{}, fmt.Errorf("count products: %w", err)
	}

	args := append(append([]interface{}{}, q.args...), filter.Size, filter.Offset())
	rows, err := db.QueryContext(ctx, q.list, args...)
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("query products: %w", err)
	}

	products, err := collectProducts(rows)
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("scan products: %w", err)
	}

	return domain.NewProductPage(products, total, filter), nil
}
