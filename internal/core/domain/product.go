package domain

import "github.com/shopspring/decimal"

type InventoryStatus string

const (
	InventoryStatusInStock    InventoryStatus = "INSTOCK"
	InventoryStatusLowStock   InventoryStatus = "LOWSTOCK"
	InventoryStatusOutOfStock InventoryStatus = "OUTOFSTOCK"
)

func (s InventoryStatus) Valid() bool {
	switch s {
	case InventoryStatusInStock, InventoryStatusLowStock, InventoryStatusOutOfStock:
		return true
	}
	return false
}

type Product struct {
	ID                int64           `json:"id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Image             string          `json:"image"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	Quantity          int             `json:"quantity"` // stock on hand, not cart quantity
	InternalReference string          `json:"internalReference"`
	ShellID           int             `json:"shellId"`
	InventoryStatus   InventoryStatus `json:"inventoryStatus"`
	Rating            int             `json:"rating"`
	CreatedAt         int64           `json:"createdAt"` // epoch millis
	UpdatedAt         int64           `json:"updatedAt"`
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type ProductFilter struct {
	Category string
	Status   InventoryStatus
	Page     int
	Size     int
}

// Normalize clamps paging to sane bounds.
func (f ProductFilter) Normalize() ProductFilter {
	if f.Page < 0 {
		f.Page = 0
	}
	if f.Size <= 0 {
		f.Size = DefaultPageSize
	}
	if f.Size > MaxPageSize {
		f.Size = MaxPageSize
	}
	return f
}

func (f ProductFilter) Offset() int {
	return f.Page * f.Size
}

type ProductPage struct {
	Content       []Product `json:"content"`
	TotalElements int       `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
	Size          int       `json:"size"`
	Number        int       `json:"number"`
}

func NewProductPage(content []Product, total int, f ProductFilter) ProductPage {
	pages := 0
	if f.Size > 0 {
		pages = (total + f.Size - 1) / f.Size
	}
	if content == nil {
		content = []Product{}
	}
	return ProductPage{
		Content:       content,
		TotalElements: total,
		TotalPages:    pages,
		Size:          f.Size,
		Number:        f.Page,
	}
}
