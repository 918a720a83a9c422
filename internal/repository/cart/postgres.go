package cart

import (
	"context"
	"encoding/json"
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

const cartColumns = `id::text, user_id::text, session_cart_id, items,
       items_price::text, shipping_price::text, tax_price::text, total_price::text, version, created_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error) {
	itemsJSON, err := json.Marshal(in.Items)
	if err != nil {
		return nil, err
	}
	const q = `
INSERT INTO carts (user_id, session_cart_id, items, items_price, shipping_price, tax_price, total_price)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + cartColumns
	return r.scanCart(r.pool.QueryRow(ctx, q,
		in.UserID,
		in.SessionCartID,
		itemsJSON,
		in.ItemsPrice,
		in.ShippingPrice,
		in.TaxPrice,
		in.TotalPrice,
	))
}

func (r *postgresRepo) GetByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT 1
`
	return r.scanCart(r.pool.QueryRow(ctx, q, userID))
}

func (r *postgresRepo) GetBySessionCartID(ctx context.Context, sessionCartID string) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE session_cart_id = $1
ORDER BY created_at DESC
LIMIT 1
`
	return r.scanCart(r.pool.QueryRow(ctx, q, sessionCartID))
}

func (r *postgresRepo) UpdateItems(ctx context.Context, in UpdateItemsInput) error {
	itemsJSON, err := json.Marshal(in.Items)
	if err != nil {
		return err
	}
	const q = `
UPDATE carts
SET items = $1,
    items_price = $2,
    shipping_price = $3,
    tax_price = $4,
    total_price = $5,
    version = version + 1
WHERE id = $6 AND version = $7
`
	cmd, err := r.pool.Exec(ctx, q,
		itemsJSON,
		in.ItemsPrice,
		in.ShippingPrice,
		in.TaxPrice,
		in.TotalPrice,
		in.CartID,
		in.Version,
	)
	if err != nil {
		r.logger.Printf("cart repo: update items cart_id=%s error=%v", in.CartID, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *postgresRepo) Claim(ctx context.Context, cartID, userID string) error {
	const q = `
UPDATE carts
SET user_id = $1
WHERE id = $2 AND user_id IS NULL
`
	cmd, err := r.pool.Exec(ctx, q, userID, cartID)
	if err != nil {
		r.logger.Printf("cart repo: claim cart_id=%s error=%v", cartID, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) scanCart(row pgx.Row) (*domain.Cart, error) {
	var cart domain.Cart
	var userID *string
	var itemsJSON []byte
	err := row.Scan(
		&cart.ID,
		&userID,
		&cart.SessionCartID,
		&itemsJSON,
		&cart.ItemsPrice,
		&cart.ShippingPrice,
		&cart.TaxPrice,
		&cart.TotalPrice,
		&cart.Version,
		&cart.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("cart repo: scan error=%v", err)
		return nil, err
	}
	cart.UserID = userID
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &cart.Items); err != nil {
			r.logger.Printf("cart repo: decode items id=%s err=%v", cart.ID, err)
			return nil, err
		}
	}
	return &cart, nil
}
