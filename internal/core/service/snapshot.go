package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rl1809/cart-store/internal/core/domain"
)

var ErrMalformedSnapshot = errors.New("malformed cart snapshot")

func encodeSnapshot(items []domain.LineItem) ([]byte, error) {
	if items == nil {
		items = []domain.LineItem{}
	}
	return json.Marshal(items)
}

// decodeSnapshot rejects snapshots that break the cart invariants instead of
// repairing them.
func decodeSnapshot(data []byte) ([]domain.LineItem, error) {
	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: product %d has quantity %d", ErrMalformedSnapshot, item.Product.ID, item.Quantity)
		}
		if _, dup := seen[item.Product.ID]; dup {
			return nil, fmt.Errorf("%w: product %d listed twice", ErrMalformedSnapshot, item.Product.ID)
		}
		seen[item.Product.ID] = struct{}{}
	}

	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}

func encodeWishlist(items []domain.WishlistItem) ([]byte, error) {
	if items == nil {
		items = []domain.WishlistItem{}
	}
	return json.Marshal(items)
}

func decodeWishlist(data []byte) ([]domain.WishlistItem, error) {
	var items []domain.WishlistItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.Product.ID]; dup {
			return nil, fmt.Errorf("%w: product %d listed twice", ErrMalformedSnapshot, item.Product.ID)
		}
		seen[item.Product.ID] = struct{}{}
	}

	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}
