// Package cart resolves the current shopper's cart and applies stock-aware
// line mutations, recomputing derived prices on every write.
package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"storefront/internal/domain"
	"storefront/internal/pricing"
	cartrepo "storefront/internal/repository/cart"
)

const (
	msgNoCartSession  = "Cart Session not found"
	msgProductMissing = "Product not found"
	msgCartMissing    = "Cart not found"
	msgItemMissing    = "Item not found"
	msgNoStock        = "Not enough stock"
	msgConflict       = "Cart was modified concurrently, please try again"
)

type Service struct {
	repo     cartRepository
	products productRepo
	views    viewCache
	logger   *log.Logger
}

type cartRepository interface {
	Create(ctx context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Cart, error)
	GetBySessionCartID(ctx context.Context, sessionCartID string) (*domain.Cart, error)
	UpdateItems(ctx context.Context, in cartrepo.UpdateItemsInput) error
	Claim(ctx context.Context, cartID, userID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// viewCache invalidates cached product detail renderings after a mutation.
type viewCache interface {
	Delete(ctx context.Context, key string) error
}

func New(repo cartrepo.Repository, products productRepo, views viewCache, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, products: products, views: views, logger: logger}
}

// GetMyCart resolves the current cart. With no session-cart cookie there is
// no cart to resolve, which is not an error. An authenticated identity wins
// over the anonymous session-cart identifier; a missing cart reports (nil, nil).
func (s *Service) GetMyCart(ctx context.Context, identity *domain.Identity, sessionCartID string) (*domain.Cart, error) {
	if sessionCartID == "" {
		return nil, nil
	}
	owner := domain.AnonymousOwner(sessionCartID)
	if identity != nil {
		owner = domain.AuthenticatedOwner(identity.ID)
	}
	cart, err := s.getByOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return cart, nil
}

func (s *Service) getByOwner(ctx context.Context, owner domain.CartOwner) (*domain.Cart, error) {
	switch owner.Kind {
	case domain.OwnerAuthenticated:
		return s.repo.GetByUserID(ctx, owner.ID)
	case domain.OwnerAnonymous:
		return s.repo.GetBySessionCartID(ctx, owner.ID)
	default:
		return nil, domain.ErrNotFound
	}
}

// AddItem adds exactly one unit of the referenced product to the current
// cart, creating the cart on first use. Stock is a constraint, not a
// counter: it is checked, never decremented.
func (s *Service) AddItem(ctx context.Context, identity *domain.Identity, sessionCartID string, item domain.CartItem) ActionResult {
	if sessionCartID == "" {
		return fail(ErrorNoCartSession, msgNoCartSession)
	}
	if item.ProductID == "" {
		return fail(ErrorInvalidInput, "Invalid input")
	}

	product, err := s.products.GetByID(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fail(ErrorProductNotFound, msgProductMissing)
		}
		return s.internal("add item: load product", err)
	}

	cart, err := s.GetMyCart(ctx, identity, sessionCartID)
	if err != nil {
		return s.internal("add item: load cart", err)
	}

	if cart == nil {
		if product.Stock < 1 {
			return fail(ErrorNotEnoughStock, msgNoStock)
		}
		line := lineFromProduct(product)
		totals, err := pricing.Calculate([]domain.CartItem{line})
		if err != nil {
			return s.internal("add item: price new cart", err)
		}
		var userID *string
		if identity != nil {
			userID = &identity.ID
		}
		if _, err := s.repo.Create(ctx, cartrepo.CreateCartInput{
			UserID:        userID,
			SessionCartID: sessionCartID,
			Items:         []domain.CartItem{line},
			ItemsPrice:    totals.ItemsPrice,
			ShippingPrice: totals.ShippingPrice,
			TaxPrice:      totals.TaxPrice,
			TotalPrice:    totals.TotalPrice,
		}); err != nil {
			return s.internal("add item: create cart", err)
		}
		s.invalidateProduct(ctx, product.Slug)
		return ok("Item added")
	}

	existing := cart.FindItem(item.ProductID)
	if existing != nil {
		if product.Stock < existing.Qty+1 {
			return fail(ErrorNotEnoughStock, msgNoStock)
		}
		existing.Qty++
	} else {
		if product.Stock < 1 {
			return fail(ErrorNotEnoughStock, msgNoStock)
		}
		cart.Items = append(cart.Items, lineFromProduct(product))
	}

	if res := s.persist(ctx, cart); !res.Success {
		return res
	}
	s.invalidateProduct(ctx, product.Slug)
	if existing != nil {
		return ok(fmt.Sprintf("%s updated", product.Name))
	}
	return ok(fmt.Sprintf("%s added", product.Name))
}

// RemoveItem takes one unit of the product out of the cart, dropping the
// line entirely when its quantity reaches zero.
func (s *Service) RemoveItem(ctx context.Context, identity *domain.Identity, sessionCartID, productID string) ActionResult {
	if sessionCartID == "" {
		return fail(ErrorNoCartSession, msgNoCartSession)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fail(ErrorProductNotFound, msgProductMissing)
		}
		return s.internal("remove item: load product", err)
	}

	cart, err := s.GetMyCart(ctx, identity, sessionCartID)
	if err != nil {
		return s.internal("remove item: load cart", err)
	}
	if cart == nil {
		return fail(ErrorCartNotFound, msgCartMissing)
	}

	existing := cart.FindItem(productID)
	if existing == nil {
		return fail(ErrorItemNotFound, msgItemMissing)
	}

	if existing.Qty <= 1 {
		kept := cart.Items[:0]
		for _, line := range cart.Items {
			if line.ProductID != productID {
				kept = append(kept, line)
			}
		}
		cart.Items = kept
	} else {
		existing.Qty--
	}

	if res := s.persist(ctx, cart); !res.Success {
		return res
	}
	s.invalidateProduct(ctx, product.Slug)
	return ok("Updated cart")
}

// MergeAnonymousCart claims the anonymous session cart for the newly
// authenticated user, if that cart exists and is still unclaimed. Idempotent:
// a missing or already-claimed cart is silently skipped. Item lists are never
// combined; a pre-existing user cart simply leaves the anonymous one behind.
func (s *Service) MergeAnonymousCart(ctx context.Context, identity domain.Identity, sessionCartID string) error {
	if sessionCartID == "" {
		return nil
	}
	cart, err := s.repo.GetBySessionCartID(ctx, sessionCartID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if cart.Claimed() {
		return nil
	}
	if err := s.repo.Claim(ctx, cart.ID, identity.ID); err != nil {
		// A concurrent sign-in may have claimed it first; that is still a merge.
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

func (s *Service) persist(ctx context.Context, cart *domain.Cart) ActionResult {
	totals, err := pricing.Calculate(cart.Items)
	if err != nil {
		return s.internal("persist: price cart", err)
	}
	err = s.repo.UpdateItems(ctx, cartrepo.UpdateItemsInput{
		CartID:        cart.ID,
		Items:         cart.Items,
		ItemsPrice:    totals.ItemsPrice,
		ShippingPrice: totals.ShippingPrice,
		TaxPrice:      totals.TaxPrice,
		TotalPrice:    totals.TotalPrice,
		Version:       cart.Version,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return fail(ErrorConflict, msgConflict)
		}
		return s.internal("persist: update items", err)
	}
	return ActionResult{Success: true}
}

func (s *Service) invalidateProduct(ctx context.Context, slug string) {
	if s.views == nil {
		return
	}
	_ = s.views.Delete(ctx, ProductViewKey(slug))
}

func (s *Service) internal(op string, err error) ActionResult {
	s.logger.Printf("cart service: %s: %v", op, err)
	return fail(ErrorInternal, err.Error())
}

// ProductViewKey is the cache key for a product's rendered detail view.
func ProductViewKey(slug string) string {
	return "product:" + slug
}

func lineFromProduct(p *domain.Product) domain.CartItem {
	return domain.CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Slug:      p.Slug,
		Image:     p.Image,
		Price:     p.Price,
		Qty:       1,
	}
}
