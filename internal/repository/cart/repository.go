package cart

import (
	"context"

	"storefront/internal/domain"
)

type CreateCartInput struct {
	UserID        *string
	SessionCartID string
	Items         []domain.CartItem
	ItemsPrice    string
	ShippingPrice string
	TaxPrice      string
	TotalPrice    string
}

// UpdateItemsInput replaces a cart's item list and derived prices. Version
// must match the version read; a mismatch means a concurrent writer won and
// the update is rejected with domain.ErrConflict.
type UpdateItemsInput struct {
	CartID        string
	Items         []domain.CartItem
	ItemsPrice    string
	ShippingPrice string
	TaxPrice      string
	TotalPrice    string
	Version       int
}

type Repository interface {
	Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Cart, error)
	GetBySessionCartID(ctx context.Context, sessionCartID string) (*domain.Cart, error)
	UpdateItems(ctx context.Context, in UpdateItemsInput) error
	// Claim ties an unclaimed cart to a user. Returns domain.ErrNotFound when
	// the cart is missing or already claimed.
	Claim(ctx context.Context, cartID, userID string) error
}
