package cart

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
	"storefront/internal/migrate"
)

func TestPostgres_CreateGetAndClaim(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	sessionCartID := uuid.NewString()

	created, err := repo.Create(ctx, CreateCartInput{
		SessionCartID: sessionCartID,
		Items:         []domain.CartItem{{ProductID: uuid.NewString(), Name: "Tee", Slug: "tee", Price: "40.00", Qty: 1}},
		ItemsPrice:    "40.00",
		ShippingPrice: "10.00",
		TaxPrice:      "6.00",
		TotalPrice:    "56.00",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.UserID != nil || created.SessionCartID != sessionCartID {
		t.Fatalf("unexpected cart %+v", created)
	}
	if created.Version != 1 {
		t.Fatalf("expected version 1, got %d", created.Version)
	}

	fetched, err := repo.GetBySessionCartID(ctx, sessionCartID)
	if err != nil {
		t.Fatalf("GetBySessionCartID: %v", err)
	}
	if fetched.ID != created.ID || len(fetched.Items) != 1 || fetched.TotalPrice != "56.00" {
		t.Fatalf("fetched mismatch %+v", fetched)
	}

	var userID string
	err = pool.QueryRow(ctx, `INSERT INTO users (name, email) VALUES ('Ann', 'ann@example.com') RETURNING id::text`).Scan(&userID)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}

	if err := repo.Claim(ctx, created.ID, userID); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	// A second claim must find no unclaimed cart.
	if err := repo.Claim(ctx, created.ID, userID); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound on re-claim, got %v", err)
	}

	byUser, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if byUser.ID != created.ID || !byUser.Claimed() {
		t.Fatalf("claimed cart mismatch %+v", byUser)
	}
}

func TestPostgres_UpdateItemsVersioning(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	created, err := repo.Create(ctx, CreateCartInput{
		SessionCartID: uuid.NewString(),
		Items:         []domain.CartItem{},
		ItemsPrice:    "0.00",
		ShippingPrice: "10.00",
		TaxPrice:      "0.00",
		TotalPrice:    "10.00",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	update := UpdateItemsInput{
		CartID:        created.ID,
		Items:         []domain.CartItem{{ProductID: uuid.NewString(), Name: "Tee", Slug: "tee", Price: "40.00", Qty: 2}},
		ItemsPrice:    "80.00",
		ShippingPrice: "10.00",
		TaxPrice:      "12.00",
		TotalPrice:    "102.00",
		Version:       created.Version,
	}
	if err := repo.UpdateItems(ctx, update); err != nil {
		t.Fatalf("UpdateItems: %v", err)
	}
	// Replaying with the stale version loses the race.
	if err := repo.UpdateItems(ctx, update); err != domain.ErrConflict {
		t.Fatalf("expected ErrConflict on stale version, got %v", err)
	}

	fetched, err := repo.GetBySessionCartID(ctx, created.SessionCartID)
	if err != nil {
		t.Fatalf("GetBySessionCartID: %v", err)
	}
	if fetched.Version != created.Version+1 || fetched.ItemsPrice != "80.00" {
		t.Fatalf("unexpected cart after update %+v", fetched)
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
	if _, err := pool.Exec(ctx, `TRUNCATE carts, products, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
