package payment

import (
	"encoding/json"
	"fmt"
)

// EventPaymentFailed is the only webhook event that does not confirm payment.
const EventPaymentFailed = "payment.failed"

// WebhookEvent is the subset of a Razorpay webhook body the service reads.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
				Order   struct {
					ID string `json:"id"`
				} `json:"order"`
			} `json:"entity"`
		} `json:"payment"`
		Order struct {
			Entity struct {
				ID      string `json:"id"`
				Receipt string `json:"receipt"`
			} `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

func ParseWebhook(body []byte) (*WebhookEvent, error) {
	var evt WebhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, fmt.Errorf("decode webhook: %w", err)
	}
	return &evt, nil
}

// PaymentID is the gateway payment being confirmed.
func (e *WebhookEvent) PaymentID() string { return e.Payload.Payment.Entity.ID }

// GatewayOrderID is the gateway order the payment belongs to.
func (e *WebhookEvent) GatewayOrderID() string {
	ent := e.Payload.Payment.Entity
	switch {
	case ent.OrderID != "":
		return ent.OrderID
	case ent.Order.ID != "":
		return ent.Order.ID
	}
	return e.Payload.Order.Entity.ID
}

// Receipt is our own order id as sent when the intent was created.
func (e *WebhookEvent) Receipt() string { return e.Payload.Order.Entity.Receipt }
