package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/middlewares"
	"marketplace-service/models"
	"marketplace-service/services"
)

type createOrderRequest struct {
	OrderID         string                 `json:"orderId"`
	ShippingAddress *string                `json:"shippingAddress"`
	PaymentMethod   *string                `json:"paymentMethod"`
	TotalAmount     *float64               `json:"totalAmount"`
	PaymentDetails  *models.PaymentDetails `json:"paymentDetails"`
}

// CreateOrUpdateOrder POST /api/order
func CreateOrUpdateOrder(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
			middlewares.RecordOrderOperation("create_or_update", status)
		}()

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		order, err := svc.CreateOrUpdate(c.Request.Context(), middlewares.CurrentUserID(c), services.OrderInput{
			OrderID:         req.OrderID,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			TotalAmount:     req.TotalAmount,
			PaymentDetails:  req.PaymentDetails,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Order created or updated successfully", order)
	}
}

// GetUserOrders GET /api/order
func GetUserOrders(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
			middlewares.RecordOrderOperation("list", status)
		}()

		orders, err := svc.GetOrdersByUser(c.Request.Context(), middlewares.CurrentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Order fetched successfully by user id", orders)
	}
}

// GetOrderDetails GET /api/order/:id
func GetOrderDetails(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
			middlewares.RecordOrderOperation("get", status)
		}()

		order, err := svc.GetOrderByID(c.Request.Context(), c.Param("id"), middlewares.CurrentUserID(c), middlewares.CurrentRole(c))
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Order fetched successfully", order)
	}
}
