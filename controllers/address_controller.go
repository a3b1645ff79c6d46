package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/middlewares"
	"marketplace-service/services"
)

type addressRequest struct {
	AddressID    string `json:"addressId"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	PhoneNumber  string `json:"phoneNumber"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

// CreateOrUpdateAddress POST /api/user-address/create-or-update
func CreateOrUpdateAddress(svc *services.AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		addr, created, err := svc.CreateOrUpdate(c.Request.Context(), middlewares.CurrentUserID(c), services.AddressInput(req))
		if err != nil {
			respondError(c, err)
			return
		}
		msg := "Address updated successfully"
		if created {
			msg = "Address created successfully"
		}
		respond(c, http.StatusOK, msg, addr)
	}
}

// GetAddresses GET /api/user-address
func GetAddresses(svc *services.AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.ListByUser(c.Request.Context(), middlewares.CurrentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "User address get successful", list)
	}
}
