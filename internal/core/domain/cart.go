package domain

import "github.com/shopspring/decimal"

type LineItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (l LineItem) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartView is an immutable snapshot of a cart handed to observers.
type CartView struct {
	Items []LineItem      `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

func NewCartView(items []LineItem) CartView {
	view := CartView{
		Items: make([]LineItem, len(items)),
		Total: decimal.Zero,
	}
	copy(view.Items, items)
	for _, item := range items {
		view.Count += item.Quantity
		view.Total = view.Total.Add(item.Subtotal())
	}
	return view
}

// Clone returns a view whose Items can be modified without affecting v.
func (v CartView) Clone() CartView {
	items := make([]LineItem, len(v.Items))
	copy(items, v.Items)
	v.Items = items
	return v
}
