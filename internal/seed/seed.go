package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Name        string
	Description string
	PriceCents  int64
	Stock       int
}

// Apply inserts basic seed data for manual testing. Re-running it does not
// duplicate products.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Name:        "Demo T-Shirt",
			Description: "Soft cotton tee for demo purposes",
			PriceCents:  1999,
			Stock:       25,
		},
		{
			Name:        "Demo Mug",
			Description: "Ceramic mug with demo logo",
			PriceCents:  1299,
			Stock:       40,
		},
		{
			Name:        "Demo Poster",
			Description: "A2 matte poster",
			PriceCents:  899,
			Stock:       0,
		},
	}

	for _, p := range products {
		if err := insertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("insert product %s: %w", p.Name, err)
		}
	}

	return nil
}

func insertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (name, description, price_cents, stock)
SELECT $1, $2, $3, $4
WHERE NOT EXISTS (SELECT 1 FROM products WHERE name = $1)
`
	_, err := pool.Exec(ctx, q, p.Name, p.Description, p.PriceCents, p.Stock)
	return err
}
