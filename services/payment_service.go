package services

import (
	"context"
	"errors"
	"log/slog"

	"marketplace-service/models"
	"marketplace-service/payment"
	"marketplace-service/repository"
)

// WebhookOutcome is what happened to one webhook delivery.
type WebhookOutcome string

const (
	WebhookRejected  WebhookOutcome = "rejected"
	WebhookApplied   WebhookOutcome = "applied"
	WebhookDuplicate WebhookOutcome = "duplicate"
	WebhookIgnored   WebhookOutcome = "ignored"
)

type PaymentService struct {
	store         *repository.Store
	gateway       PaymentGateway
	events        EventPublisher
	currency      string
	webhookSecret string
}

func NewPaymentService(store *repository.Store, gateway PaymentGateway, events EventPublisher, currency, webhookSecret string) *PaymentService {
	return &PaymentService{
		store:         store,
		gateway:       gateway,
		events:        events,
		currency:      currency,
		webhookSecret: webhookSecret,
	}
}

// CreatePaymentIntent opens a gateway order for the order total. The order
// itself is not modified.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, orderID string) (*models.PaymentIntent, error) {
	order, err := s.store.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, lookup(err, "Order not found")
	}
	amount := payment.ToMinorUnits(order.TotalAmount)
	intent, err := s.gateway.CreateOrder(ctx, amount, s.currency, order.ID)
	if err != nil {
		return nil, Internal("Failed to create payment", err)
	}
	slog.Info("Payment intent created", "order_id", order.ID, "gateway_order_id", intent.ID, "amount", amount)
	return intent, nil
}

// HandleWebhook verifies and applies a gateway callback. A bad signature is
// reported as WebhookRejected, not as an error, and changes nothing.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) (WebhookOutcome, error) {
	if !payment.VerifySignature(body, signature, s.webhookSecret) {
		slog.Warn("Webhook signature mismatch")
		return WebhookRejected, nil
	}
	evt, err := payment.ParseWebhook(body)
	if err != nil {
		return WebhookRejected, InvalidOperation("Malformed webhook payload")
	}
	if evt.Event == payment.EventPaymentFailed {
		slog.Info("Ignoring failed payment webhook", "gateway_order_id", evt.GatewayOrderID())
		return WebhookIgnored, nil
	}

	var (
		order   *models.Order
		outcome = WebhookIgnored
	)
	err = s.store.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.findWebhookOrder(ctx, evt)
		if errors.Is(err, repository.ErrNotFound) {
			order = nil
			return nil
		}
		if err != nil {
			return err
		}

		firstCompletion := order.PaymentStatus != models.PaymentStatusComplete
		pd := models.PaymentDetails{}
		if order.PaymentDetails != nil {
			pd = *order.PaymentDetails
		}
		if pd.RazorpayOrderID == "" {
			pd.RazorpayOrderID = evt.GatewayOrderID()
		}
		pd.RazorpayPaymentID = evt.PaymentID()
		order.PaymentDetails = &pd
		order.PaymentStatus = models.PaymentStatusComplete
		order.Status = models.OrderStatusProcessing
		if err := s.store.Orders.Update(ctx, order); err != nil {
			return err
		}

		outcome = WebhookDuplicate
		if firstCompletion {
			if err := s.store.Carts.ClearItems(ctx, order.UserID); err != nil {
				return err
			}
			outcome = WebhookApplied
		}
		return nil
	})
	if err != nil {
		return WebhookIgnored, Internal("Failed to apply webhook", err)
	}

	if order == nil {
		slog.Warn("Webhook for unknown order", "gateway_order_id", evt.GatewayOrderID(), "receipt", evt.Receipt())
		return WebhookIgnored, nil
	}
	slog.Info("Webhook applied", "order_id", order.ID, "payment_id", evt.PaymentID(), "outcome", outcome)
	if outcome == WebhookApplied {
		publish(ctx, s.events, newEvent(order, models.EventOrderPaid), priorityFor(order.TotalAmount))
	}
	return outcome, nil
}

// findWebhookOrder matches on the stored gateway order id first and falls
// back to the receipt, which carries our order id.
func (s *PaymentService) findWebhookOrder(ctx context.Context, evt *payment.WebhookEvent) (*models.Order, error) {
	order, err := s.store.Orders.GetByGatewayOrderID(ctx, evt.GatewayOrderID())
	if err == nil || !errors.Is(err, repository.ErrNotFound) {
		return order, err
	}
	if evt.Receipt() == "" {
		return nil, repository.ErrNotFound
	}
	return s.store.Orders.GetByID(ctx, evt.Receipt())
}
