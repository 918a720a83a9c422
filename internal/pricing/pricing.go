// Package pricing derives the monetary totals of a cart from its line items.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

var (
	freeShippingOver = decimal.NewFromInt(100)
	shippingFlat     = decimal.NewFromInt(10)
	taxRate          = decimal.RequireFromString("0.15")
)

// Totals holds the four derived price fields, rendered with two decimals.
type Totals struct {
	ItemsPrice    string
	ShippingPrice string
	TaxPrice      string
	TotalPrice    string
}

// Calculate turns a line-item list into rounded totals. Shipping is free once
// the item subtotal exceeds 100, otherwise a flat 10; tax is 15% of the item
// subtotal. Deterministic and side-effect free; the only failure mode is a
// line carrying a non-numeric price.
func Calculate(items []domain.CartItem) (Totals, error) {
	sum := decimal.Zero
	for _, item := range items {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return Totals{}, fmt.Errorf("invalid price %q for product %s: %w", item.Price, item.ProductID, err)
		}
		sum = sum.Add(price.Mul(decimal.NewFromInt(int64(item.Qty))))
	}

	itemsPrice := sum.Round(2)
	shippingPrice := shippingFlat
	if itemsPrice.GreaterThan(freeShippingOver) {
		shippingPrice = decimal.Zero
	}
	taxPrice := itemsPrice.Mul(taxRate).Round(2)
	totalPrice := itemsPrice.Add(shippingPrice).Add(taxPrice).Round(2)

	return Totals{
		ItemsPrice:    itemsPrice.StringFixed(2),
		ShippingPrice: shippingPrice.StringFixed(2),
		TaxPrice:      taxPrice.StringFixed(2),
		TotalPrice:    totalPrice.StringFixed(2),
	}, nil
}
