package services

import (
	"context"
	"io"
	"time"

	"marketplace-service/models"
)

// EventPublisher sends order lifecycle events to the broker. A nil publisher
// disables events.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, evt models.OrderEvent, priority uint8) error
	PublishDelayedEvent(ctx context.Context, evt models.OrderEvent, delay time.Duration) error
}

// Mailer delivers transactional email.
type Mailer interface {
	SendVerification(ctx context.Context, to, name, link string) error
	SendPasswordReset(ctx context.Context, to, name, link string) error
	SendOrderConfirmation(ctx context.Context, to, name string, order *models.Order) error
	SendStatusUpdate(ctx context.Context, to, name string, order *models.Order) error
}

// ImageUploader stores a product image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// PaymentGateway creates gateway-side orders. Amounts are in minor units.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*models.PaymentIntent, error)
}
