package ticket

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/domain"
	"storefront/internal/migrate"
)

func TestPostgres_CreateAssignsSequentialCodes(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	for _, want := range []string{"1", "2", "3"} {
		created, err := repo.Create(ctx, CreateTicketInput{
			PurchaseDatetime: time.Now().UTC(),
			AmountCents:      1000,
			Purchaser:        "ada@example.com",
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if created.Code != want {
			t.Fatalf("expected code %s, got %s", want, created.Code)
		}
		if created.PaymentStatus != domain.PaymentSkipped {
			t.Fatalf("expected initial payment status skipped, got %s", created.PaymentStatus)
		}
	}
}

func TestPostgres_SetPaymentOutcome(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	created, err := repo.Create(ctx, CreateTicketInput{
		PurchaseDatetime: time.Now().UTC(),
		AmountCents:      2500,
		Purchaser:        "ada@example.com",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.SetPaymentOutcome(ctx, created.ID, domain.PaymentPaid, "pi_123"); err != nil {
		t.Fatalf("SetPaymentOutcome: %v", err)
	}

	fetched, err := repo.GetByCode(ctx, created.Code)
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if fetched.PaymentStatus != domain.PaymentPaid || fetched.PaymentRef != "pi_123" {
		t.Fatalf("unexpected ticket %+v", fetched)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE cart_items, carts, tickets, products RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	if _, err := pool.Exec(ctx, `ALTER SEQUENCE ticket_code_seq RESTART WITH 1`); err != nil {
		t.Fatalf("restart sequence: %v", err)
	}
}
