package httpserver

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
	authsvc "storefront/internal/service/auth"
	cartsvc "storefront/internal/service/cart"
	"storefront/internal/service/session"
)

// Deps carries the services the router wires handlers to.
type Deps struct {
	AuthSvc    authService
	CartSvc    cartService
	ProductSvc productRepo
	Sessions   *session.Manager
	Views      viewCache
}

type authService interface {
	SignIn(ctx context.Context, in authsvc.SignInInput, sessionCartID string) (string, error)
	SignUp(ctx context.Context, in authsvc.SignUpInput, sessionCartID string) (string, error)
}

type cartService interface {
	GetMyCart(ctx context.Context, identity *domain.Identity, sessionCartID string) (*domain.Cart, error)
	AddItem(ctx context.Context, identity *domain.Identity, sessionCartID string, item domain.CartItem) cartsvc.ActionResult
	RemoveItem(ctx context.Context, identity *domain.Identity, sessionCartID, productID string) cartsvc.ActionResult
}

type productRepo interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
}

type viewCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.Sessions == nil {
		return nil, errors.New("session manager required")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(authGate(deps.Sessions))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/sign-in", signInHandler(deps.AuthSvc, deps.Sessions))
	router.POST("/sign-up", signUpHandler(deps.AuthSvc, deps.Sessions))
	router.POST("/sign-out", signOutHandler())

	router.GET("/products", listProductsHandler(deps.ProductSvc))
	router.GET("/products/:slug", productDetailHandler(deps.ProductSvc, deps.Views))

	router.GET("/cart", getCartHandler(deps.CartSvc))
	router.POST("/cart/items", addItemHandler(deps.CartSvc))
	router.DELETE("/cart/items/:productId", removeItemHandler(deps.CartSvc))

	router.GET("/user/profile", profileHandler())
	router.GET("/admin/products", listProductsHandler(deps.ProductSvc))

	return router, nil
}
