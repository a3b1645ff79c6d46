package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/middlewares"
	"marketplace-service/services"
)

type wishlistRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// AddToWishlist POST /api/wishlist/add
func AddToWishlist(svc *services.WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req wishlistRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		w, err := svc.Add(c.Request.Context(), middlewares.CurrentUserID(c), req.ProductID)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Item added to wishlist", w)
	}
}

// RemoveFromWishlist DELETE /api/wishlist/remove/:productId
func RemoveFromWishlist(svc *services.WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		w, err := svc.Remove(c.Request.Context(), middlewares.CurrentUserID(c), c.Param("productId"))
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Item removed from wishlist", w)
	}
}

// GetWishlist GET /api/wishlist/:userId
func GetWishlist(svc *services.WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		if !ownerOrAdmin(c, userID) {
			return
		}
		w, err := svc.Get(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "User wishlist get successfully", w)
	}
}
