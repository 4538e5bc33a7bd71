package ticket

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

// Create assigns the code from ticket_code_seq inside the insert itself, so
// two concurrent checkouts can never obtain the same code.
func (r *postgresRepo) Create(ctx context.Context, in CreateTicketInput) (*domain.Ticket, error) {
	const q = `
INSERT INTO tickets (code, purchase_datetime, amount_cents, purchaser, payment_status)
VALUES (nextval('ticket_code_seq')::text, $1, $2, $3, $4)
RETURNING id::text, code, purchase_datetime, amount_cents, purchaser, payment_status, COALESCE(payment_ref, ''), created_at
`
	var t domain.Ticket
	err := r.pool.QueryRow(ctx, q, in.PurchaseDatetime, in.AmountCents, in.Purchaser, domain.PaymentSkipped).Scan(
		&t.ID, &t.Code, &t.PurchaseDatetime, &t.AmountCents, &t.Purchaser, &t.PaymentStatus, &t.PaymentRef, &t.CreatedAt)
	if err != nil {
		r.logger.Printf("ticket repo: create purchaser=%s error=%v", in.Purchaser, err)
		return nil, err
	}
	r.logger.Printf("ticket repo: created code=%s amount_cents=%d purchaser=%s", t.Code, t.AmountCents, t.Purchaser)
	return &t, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Ticket, error) {
	const q = `
SELECT id::text, code, purchase_datetime, amount_cents, purchaser, payment_status, COALESCE(payment_ref, ''), created_at
FROM tickets
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("ticket repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.Code, &t.PurchaseDatetime, &t.AmountCents, &t.Purchaser, &t.PaymentStatus, &t.PaymentRef, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("ticket repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	const q = `
SELECT id::text, code, purchase_datetime, amount_cents, purchaser, payment_status, COALESCE(payment_ref, ''), created_at
FROM tickets
WHERE code = $1
`
	var t domain.Ticket
	err := r.pool.QueryRow(ctx, q, code).Scan(
		&t.ID, &t.Code, &t.PurchaseDatetime, &t.AmountCents, &t.Purchaser, &t.PaymentStatus, &t.PaymentRef, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("ticket repo: get code=%s error=%v", code, err)
		return nil, err
	}
	return &t, nil
}

func (r *postgresRepo) SetPaymentOutcome(ctx context.Context, id, status, ref string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE tickets
SET payment_status = $2,
    payment_ref = NULLIF($3, '')
WHERE id = $1
`, id, status, ref)
	if err != nil {
		r.logger.Printf("ticket repo: set payment outcome id=%s status=%s error=%v", id, status, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
