package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
)

const productViewTTL = 5 * time.Minute

func listProductsHandler(repo productRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

// productDetailHandler serves the product detail view, cached per slug. Cart
// mutations invalidate the entry so stock shown here tracks cart activity.
func productDetailHandler(repo productRepo, views viewCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")
		key := cartsvc.ProductViewKey(slug)
		ctx := c.Request.Context()

		if views != nil {
			if cached, _ := views.Get(ctx, key); len(cached) > 0 {
				c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
				return
			}
		}

		product, err := repo.GetBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
			return
		}

		body, err := json.Marshal(product)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render product"})
			return
		}
		if views != nil {
			_ = views.Set(ctx, key, body, productViewTTL)
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
	}
}
