package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
)

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Qty       int    `json:"qty"`
}

func getCartHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.GetMyCart(c.Request.Context(), currentIdentity(c), sessionCartID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
			return
		}
		if cart == nil {
			c.JSON(http.StatusOK, gin.H{"cart": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

func addItemHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in addItemRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, actionResponse{Success: false, Message: "Invalid input"})
			return
		}
		res := svc.AddItem(c.Request.Context(), currentIdentity(c), sessionCartID(c), domain.CartItem{
			ProductID: in.ProductID,
			Qty:       in.Qty,
		})
		c.JSON(statusForResult(res), actionResponse{Success: res.Success, Message: res.Message})
	}
}

func removeItemHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := svc.RemoveItem(c.Request.Context(), currentIdentity(c), sessionCartID(c), c.Param("productId"))
		c.JSON(statusForResult(res), actionResponse{Success: res.Success, Message: res.Message})
	}
}

func statusForResult(res cartsvc.ActionResult) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.Kind {
	case cartsvc.ErrorNoCartSession, cartsvc.ErrorInvalidInput:
		return http.StatusBadRequest
	case cartsvc.ErrorProductNotFound, cartsvc.ErrorCartNotFound, cartsvc.ErrorItemNotFound:
		return http.StatusNotFound
	case cartsvc.ErrorNotEnoughStock:
		return http.StatusUnprocessableEntity
	case cartsvc.ErrorConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
