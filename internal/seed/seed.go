package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Slug        string
	Name        string
	Description string
	Image       string
	Price       string
	Stock       int
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Slug:        "polo-classic-tee",
			Name:        "Polo Classic Tee",
			Description: "Soft cotton tee in classic fit",
			Image:       "/images/polo-classic-tee.jpg",
			Price:       "23.99",
			Stock:       12,
		},
		{
			Slug:        "brooks-brothers-shirt",
			Name:        "Brooks Brothers Long Sleeve Shirt",
			Description: "Non-iron dress shirt",
			Image:       "/images/brooks-brothers-shirt.jpg",
			Price:       "85.90",
			Stock:       6,
		},
		{
			Slug:        "calvin-klein-slim-jeans",
			Name:        "Calvin Klein Slim Fit Jeans",
			Description: "Stretch denim, slim fit",
			Image:       "/images/calvin-klein-slim-jeans.jpg",
			Price:       "49.95",
			Stock:       1,
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}

	if err := ensureUser(ctx, pool, "Demo User", "demo@example.com", "secret123"); err != nil {
		return fmt.Errorf("ensure demo user: %w", err)
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (slug, name, description, image, price, stock)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (slug) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    image = EXCLUDED.image,
    price = EXCLUDED.price,
    stock = EXCLUDED.stock
`
	_, err := pool.Exec(ctx, q, p.Slug, p.Name, p.Description, p.Image, p.Price, p.Stock)
	return err
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, name, email, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (name, email, password, role)
VALUES ($1, $2, $3, 'user')
ON CONFLICT (lower(email)) DO NOTHING
`
	_, err = pool.Exec(ctx, q, name, email, string(hashed))
	return err
}
