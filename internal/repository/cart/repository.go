package cart

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	Create(ctx context.Context) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	// SetItems replaces the cart's line items wholesale.
	SetItems(ctx context.Context, id string, items []domain.CartItem) (*domain.Cart, error)
	// SetItem upserts a single line, adding the delta to any existing quantity.
	SetItem(ctx context.Context, id, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, id, productID string) (*domain.Cart, error)
	ClearItems(ctx context.Context, id string) (*domain.Cart, error)
	Delete(ctx context.Context, id string) error
}
