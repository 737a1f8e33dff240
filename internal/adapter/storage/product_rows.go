package storage

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/rl1809/cart-store/internal/core/domain"
)

const productColumns = `id, code, name, description, image, category, price, quantity,
		internal_reference, shell_id, inventory_status, rating, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p                            domain.Product
		description, image, category sql.NullString
		internalRef, inventoryStatus sql.NullString
		shellID, rating              sql.NullInt64
		createdAt, updatedAt         sql.NullInt64
	)

	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &description, &image, &category, &p.Price, &p.Quantity,
		&internalRef, &shellID, &inventoryStatus, &rating, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}

	p.Description = description.String
	p.Image = image.String
	p.Category = category.String
	p.InternalReference = internalRef.String
	p.ShellID = int(shellID.Int64)
	p.InventoryStatus = domain.InventoryStatus(inventoryStatus.String)
	p.Rating = int(rating.Int64)
	p.CreatedAt = createdAt.Int64
	p.UpdatedAt = updatedAt.Int64
	return p, nil
}

// placeholder renders the n-th (1-based) bind parameter for a SQL dialect.
type placeholder func(n int) string

func questionMark(int) string { return "?" }

func dollarN(n int) string { return "$" + strconv.Itoa(n) }

type productQueries struct {
	count string
	list  string
	args  []interface{}
}

func buildProductQueries(f domain.ProductFilter, ph placeholder) productQueries {
	var (
		conds []string
		args  []interface{}
	)
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, "category = "+ph(len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, "inventory_status = "+ph(len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	return productQueries{
		count: "SELECT COUNT(*) FROM products" + where,
		list: "SELECT " + productColumns + " FROM products" + where +
			" ORDER BY id LIMIT " + ph(len(args)+1) + " OFFSET " + ph(len(args)+2),
		args: args,
	}
}

func collectProducts(rows *sql.Rows) ([]domain.Product, error) {
	defer rows.Close()

	out := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
