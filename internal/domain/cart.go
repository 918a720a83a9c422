package domain

import "time"

type Cart struct {
	ID            string     `json:"id"`
	UserID        *string    `json:"userId,omitempty"`
	SessionCartID string     `json:"sessionCartId"`
	Items         []CartItem `json:"items"`
	ItemsPrice    string     `json:"itemsPrice"`
	ShippingPrice string     `json:"shippingPrice"`
	TaxPrice      string     `json:"taxPrice"`
	TotalPrice    string     `json:"totalPrice"`
	Version       int        `json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// CartItem is a single line in a cart. Price is the unit price snapshot taken
// when the line was added, rendered with two decimal places.
type CartItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Image     string `json:"image,omitempty"`
	Price     string `json:"price"`
	Qty       int    `json:"qty"`
}

// OwnerKind discriminates the two cart ownership modes.
type OwnerKind int

const (
	OwnerAnonymous OwnerKind = iota
	OwnerAuthenticated
)

// CartOwner identifies whose cart a lookup or mutation targets. An
// authenticated owner always takes precedence over the anonymous
// session-cart identifier.
type CartOwner struct {
	Kind OwnerKind
	ID   string
}

func AnonymousOwner(sessionCartID string) CartOwner {
	return CartOwner{Kind: OwnerAnonymous, ID: sessionCartID}
}

func AuthenticatedOwner(userID string) CartOwner {
	return CartOwner{Kind: OwnerAuthenticated, ID: userID}
}

// Claimed reports whether the cart has been tied to a user.
func (c *Cart) Claimed() bool {
	return c.UserID != nil && *c.UserID != ""
}

// FindItem returns the line for productID, or nil when absent.
func (c *Cart) FindItem(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}
