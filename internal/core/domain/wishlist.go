package domain

type WishlistItem struct {
	Product Product `json:"product"`
	AddedAt int64   `json:"addedAt"` // epoch millis
}

type WishlistView struct {
	Items []WishlistItem `json:"items"`
	Count int            `json:"count"`
}

func NewWishlistView(items []WishlistItem) WishlistView {
	view := WishlistView{
		Items: make([]WishlistItem, len(items)),
		Count: len(items),
	}
	copy(view.Items, items)
	return view
}
