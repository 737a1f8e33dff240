package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/rl1809/cart-store/internal/port"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Statements returns the catalog schema and seed data for driver, one
// statement per element.
func Statements(driver string) ([]string, error) {
	data, err := migrations.ReadFile("migrations/" + driver + ".sql")
	if err != nil {
		return nil, fmt.Errorf("no migrations for driver %q: %w", driver, err)
	}

	var stmts []string
	for _, stmt := range strings.Split(string(data), ";\n") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, strings.TrimSuffix(stmt, ";"))
		}
	}
	return stmts, nil
}

// Migrate creates the products table and seeds it. It is safe to run more
// than once.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	stmts, err := Statements(driver)
	if err != nil {
		return err
	}

	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement %d: %w", i+1, err)
		}
	}
	return nil
}

// NewProductRepository picks the catalog adapter for driver.
func NewProductRepository(driver string, db *sql.DB) (port.ProductRepository, error) {
	switch driver {
	case DriverMySQL:
		return NewMySQLAdapter(db), nil
	case DriverPostgres:
		return NewPostgresAdapter(db), nil
	}
	return nil, fmt.Errorf("unsupported catalog driver %q", driver)
}
