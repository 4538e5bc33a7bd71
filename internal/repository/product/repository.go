package product

import (
	"context"

	"storefront/internal/domain"
)

type UpdateInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	PriceCents  *int64  `json:"priceCents,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
}

// Reservation is the outcome of an atomic stock decrement. Committed is the
// quantity actually deducted, which may be less than requested when stock ran
// short, down to zero.
type Reservation struct {
	ProductID      string
	Requested      int
	Committed      int
	UnitPriceCents int64
}

type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error)
	// ReserveStock deducts up to quantity units from the product's stock in a
	// single conditional update and reports how many units were committed.
	ReserveStock(ctx context.Context, id string, quantity int) (*Reservation, error)
	// ReleaseStock returns previously reserved units to the product's stock.
	ReleaseStock(ctx context.Context, id string, quantity int) error
}
