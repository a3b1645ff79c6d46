package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace-service/middlewares"
	"marketplace-service/services"
)

// parseDateRange reads startDate and endDate as RFC 3339 timestamps or plain
// dates. A plain endDate covers the whole day.
func parseDateRange(c *gin.Context) (from, to *time.Time, err error) {
	parse := func(v string, endOfDay bool) (*time.Time, error) {
		if v == "" {
			return nil, nil
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return &t, nil
		}
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return nil, services.InvalidOperation("Invalid date, expected YYYY-MM-DD")
		}
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, nil
	}
	if from, err = parse(c.Query("startDate"), false); err != nil {
		return nil, nil, err
	}
	if to, err = parse(c.Query("endDate"), true); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// GetDashboardStats GET /api/admin/dashboard-stats
func GetDashboardStats(svc *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.DashboardStats(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Dashboard statistics fetched successfully", stats)
	}
}

// GetPayableOrders GET /api/admin/orders
func GetPayableOrders(svc *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, err := parseDateRange(c)
		if err != nil {
			respondError(c, err)
			return
		}
		orders, err := svc.ListPayableOrders(c.Request.Context(), c.Query("status"), from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Order fetched successfully", orders)
	}
}

type updateOrderRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

// UpdateOrderStatus PUT /api/admin/orders/:id
func UpdateOrderStatus(svc *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
			middlewares.RecordOrderOperation("update_status", status)
		}()

		var req updateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		order, err := svc.UpdateOrder(c.Request.Context(), c.Param("id"), req.Status, req.PaymentStatus)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Order updated successfully", order)
	}
}

type sellerPaymentRequest struct {
	ProductID     string  `json:"productId"`
	PaymentMethod string  `json:"paymentMethod"`
	Amount        float64 `json:"amount"`
	Notes         string  `json:"notes"`
}

// ProcessSellerPayment POST /api/admin/process-seller-payment/:orderId
func ProcessSellerPayment(svc *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
			middlewares.RecordOrderOperation("seller_payout", status)
		}()

		var req sellerPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		payout, err := svc.ProcessSellerPayment(c.Request.Context(), middlewares.CurrentUserID(c), c.Param("orderId"), services.PayoutInput{
			ProductID:     req.ProductID,
			Amount:        req.Amount,
			PaymentMethod: req.PaymentMethod,
			Notes:         req.Notes,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Payment to seller processed successfully", payout)
	}
}

// GetSellerPayments GET /api/admin/seller-payments
func GetSellerPayments(svc *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, err := parseDateRange(c)
		if err != nil {
			respondError(c, err)
			return
		}
		payouts, err := svc.ListSellerPayments(c.Request.Context(), services.SellerPaymentQuery{
			SellerID:      c.Query("sellerId"),
			Status:        c.Query("status"),
			PaymentMethod: c.Query("paymentMethod"),
			From:          from,
			To:            to,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Seller payment fetched successfully", payouts)
	}
}
