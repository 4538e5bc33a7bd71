package domain

import "time"

// Payment states recorded on a ticket.
const (
	PaymentPaid    = "paid"
	PaymentPending = "payment_pending"
	PaymentSkipped = "skipped"
)

// Ticket is a completed purchase. Immutable once created, except for the
// payment status which tracks the capture outcome.
type Ticket struct {
	ID               string    `json:"id"`
	Code             string    `json:"code"`
	PurchaseDatetime time.Time `json:"purchaseDatetime"`
	AmountCents      int64     `json:"amountCents"`
	Purchaser        string    `json:"purchaser"`
	PaymentStatus    string    `json:"paymentStatus"`
	PaymentRef       string    `json:"paymentRef,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}
