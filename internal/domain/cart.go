package domain

import "time"

type Cart struct {
	ID        string     `json:"id"`
	Enabled   bool       `json:"enabled"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
}

// CartItem is one (product, quantity) line inside a cart. A cart holds at
// most one line per product.
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}
