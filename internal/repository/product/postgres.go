package product

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

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id::text, name, COALESCE(description, ''), price_cents, stock, created_at
FROM products
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT id::text, name, COALESCE(description, ''), price_cents, stock, created_at
FROM products
WHERE id = $1
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, name, description, price_cents, stock)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, NULLIF($3, ''), $4, $5)
RETURNING id::text, created_at
`
	res := p
	err := r.pool.QueryRow(ctx, q, p.ID, p.Name, p.Description, p.PriceCents, p.Stock).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: create name=%q error=%v", p.Name, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%s name=%q", res.ID, res.Name)
	return &res, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error) {
	const q = `
UPDATE products
SET name        = COALESCE($2, name),
    description = COALESCE($3, description),
    price_cents = COALESCE($4, price_cents),
    stock       = COALESCE($5, stock)
WHERE id = $1
RETURNING id::text, name, COALESCE(description, ''), price_cents, stock, created_at
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, id, in.Name, in.Description, in.PriceCents, in.Stock).Scan(
		&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: update id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

// ReserveStock performs the decrement and the floor check in one statement so
// that concurrent checkouts can never deduct more units than the product has.
func (r *postgresRepo) ReserveStock(ctx context.Context, id string, quantity int) (*Reservation, error) {
	const q = `
WITH current AS (
	SELECT id, LEAST(stock, $2::int) AS take, price_cents
	FROM products
	WHERE id = $1
	FOR UPDATE
)
UPDATE products p
SET stock = p.stock - current.take
FROM current
WHERE p.id = current.id
RETURNING current.take, current.price_cents
`
	res := Reservation{ProductID: id, Requested: quantity}
	err := r.pool.QueryRow(ctx, q, id, quantity).Scan(&res.Committed, &res.UnitPriceCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: reserve id=%s qty=%d error=%v", id, quantity, err)
		return nil, err
	}
	r.logger.Printf("product repo: reserved id=%s requested=%d committed=%d", id, quantity, res.Committed)
	return &res, nil
}

func (r *postgresRepo) ReleaseStock(ctx context.Context, id string, quantity int) error {
	const q = `
UPDATE products
SET stock = stock + $2
WHERE id = $1
`
	cmd, err := r.pool.Exec(ctx, q, id, quantity)
	if err != nil {
		r.logger.Printf("product repo: release id=%s qty=%d error=%v", id, quantity, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("product repo: released id=%s qty=%d", id, quantity)
	return nil
}
