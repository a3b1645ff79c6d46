package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/middlewares"
	"marketplace-service/models"
	"marketplace-service/services"
)

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// ownerOrAdmin guards routes that name a user in the path.
func ownerOrAdmin(c *gin.Context, userID string) bool {
	if userID == middlewares.CurrentUserID(c) || middlewares.CurrentRole(c) == models.RoleAdmin {
		return true
	}
	respondError(c, services.Forbidden("You are not allowed to access this resource"))
	return false
}

// AddToCart POST /api/cart/add
func AddToCart(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		cart, err := svc.AddItem(c.Request.Context(), middlewares.CurrentUserID(c), req.ProductID, req.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Item added to cart", cart)
	}
}

// RemoveFromCart DELETE /api/cart/remove/:productId
func RemoveFromCart(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.RemoveItem(c.Request.Context(), middlewares.CurrentUserID(c), c.Param("productId"))
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Item removed from cart", cart)
	}
}

// GetCart GET /api/cart/:userId
func GetCart(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		if !ownerOrAdmin(c, userID) {
			return
		}
		cart, err := svc.GetCart(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "User cart get successfully", cart)
	}
}
