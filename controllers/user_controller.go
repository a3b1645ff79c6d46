package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/middlewares"
	"marketplace-service/services"
)

type profileRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
}

// UpdateProfile PUT /api/users/profile/update
func UpdateProfile(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req profileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		user, err := svc.UpdateProfile(c.Request.Context(), middlewares.CurrentUserID(c), services.ProfileInput(req))
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "User profile updated successfully", user)
	}
}
