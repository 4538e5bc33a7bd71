package ticket

import (
	"context"
	"time"

	"storefront/internal/domain"
)

type CreateTicketInput struct {
	PurchaseDatetime time.Time
	AmountCents      int64
	Purchaser        string
}

type Repository interface {
	// Create persists a ticket, assigning it the next code from the ticket
	// code sequence.
	Create(ctx context.Context, in CreateTicketInput) (*domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	GetByCode(ctx context.Context, code string) (*domain.Ticket, error)
	// SetPaymentOutcome records the capture result after the ticket exists.
	SetPaymentOutcome(ctx context.Context, id, status, ref string) error
}
