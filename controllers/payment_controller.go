package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/middlewares"
	"marketplace-service/payment"
	"marketplace-service/services"
)

// webhook bodies are small JSON documents
const maxWebhookBody = 1 << 20

type paymentRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}

// CreatePayment POST /api/payment/razorpay
func CreatePayment(svc *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
			middlewares.RecordOrderOperation("payment_intent", status)
		}()

		var req paymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		intent, err := svc.CreatePaymentIntent(c.Request.Context(), req.OrderID)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Razorpay order and payment created successfully", gin.H{"order": intent})
	}
}

// PaymentWebhook POST /api/payment/razorpay-webhook
//
// The signature covers the exact bytes sent, so the body is read raw and
// never re-encoded.
func PaymentWebhook(svc *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			badRequest(c, err)
			return
		}

		outcome, err := svc.HandleWebhook(c.Request.Context(), body, c.GetHeader(payment.SignatureHeader))
		middlewares.RecordWebhook(string(outcome))
		if err != nil {
			respondError(c, err)
			return
		}
		if outcome == services.WebhookRejected {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
			return
		}
		respond(c, http.StatusOK, "Webhook processed successfully", nil)
	}
}
