package payment

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	"marketplace-service/models"
)

// Razorpay creates gateway orders through the Razorpay orders API.
type Razorpay struct {
	client *razorpay.Client
}

func NewRazorpay(key, secret string) *Razorpay {
	return &Razorpay{client: razorpay.NewClient(key, secret)}
}

func (r *Razorpay) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*models.PaymentIntent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := r.client.Order.Create(map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}

	intent := &models.PaymentIntent{Amount: amount, Currency: currency, Receipt: receipt}
	intent.ID, _ = body["id"].(string)
	intent.Status, _ = body["status"].(string)
	if v, ok := body["amount"].(float64); ok {
		intent.Amount = int64(v)
	}
	if intent.ID == "" {
		return nil, fmt.Errorf("razorpay create order: response without id")
	}
	return intent, nil
}
