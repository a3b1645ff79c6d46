package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"marketplace-service/models"
	"marketplace-service/repository"
)

const (
	defaultPriority uint8 = 5
	highPriority    uint8 = 9
	// orders above this total jump the queue
	highValueTotal = 1000
)

func priorityFor(total float64) uint8 {
	if total > highValueTotal {
		return highPriority
	}
	return defaultPriority
}

func newEvent(o *models.Order, eventType string) models.OrderEvent {
	return models.OrderEvent{
		OrderID:       o.ID,
		UserID:        o.UserID,
		Type:          eventType,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		Total:         o.TotalAmount,
		Occurred:      time.Now().UTC(),
	}
}

// publish is best effort: the order is already committed, so a broker
// failure is logged and swallowed.
func publish(ctx context.Context, p EventPublisher, evt models.OrderEvent, priority uint8) {
	if p == nil {
		return
	}
	if err := p.PublishOrderEvent(ctx, evt, priority); err != nil {
		slog.Error("Failed to publish order event", "order_id", evt.OrderID, "type", evt.Type, "err", err)
	}
}

func publishDelayed(ctx context.Context, p EventPublisher, evt models.OrderEvent, delay time.Duration) {
	if p == nil || delay <= 0 {
		return
	}
	if err := p.PublishDelayedEvent(ctx, evt, delay); err != nil {
		slog.Error("Failed to publish delayed order event", "order_id", evt.OrderID, "type", evt.Type, "err", err)
	}
}

// OrderEventHandler reacts to order events taken off the queue.
type OrderEventHandler struct {
	store  *repository.Store
	mailer Mailer
}

// NewOrderEventHandler builds the consumer side. mailer may be nil.
func NewOrderEventHandler(store *repository.Store, mailer Mailer) *OrderEventHandler {
	return &OrderEventHandler{store: store, mailer: mailer}
}

// Handle processes one event. A returned error means the delivery should be
// dead-lettered.
func (h *OrderEventHandler) Handle(ctx context.Context, evt models.OrderEvent) error {
	slog.Info("Processing order event", "order_id", evt.OrderID, "type", evt.Type)

	switch evt.Type {
	case models.EventOrderCreated:
		return nil
	case models.EventOrderPaid:
		return h.notify(ctx, evt.OrderID, func(to, name string, o *models.Order) error {
			return h.mailer.SendOrderConfirmation(ctx, to, name, o)
		})
	case models.EventStatusUpdated:
		if evt.Status != models.OrderStatusShipped && evt.Status != models.OrderStatusDelivered {
			return nil
		}
		return h.notify(ctx, evt.OrderID, func(to, name string, o *models.Order) error {
			return h.mailer.SendStatusUpdate(ctx, to, name, o)
		})
	case models.EventPaymentCheck:
		return h.cancelIfUnpaid(ctx, evt.OrderID)
	default:
		slog.Warn("Unknown order event type", "type", evt.Type)
		return nil
	}
}

func (h *OrderEventHandler) notify(ctx context.Context, orderID string, send func(to, name string, o *models.Order) error) error {
	if h.mailer == nil {
		return nil
	}
	order, err := h.store.Orders.GetByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		slog.Warn("Order event for unknown order", "order_id", orderID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load order %s: %w", orderID, err)
	}
	user, err := h.store.Users.GetByID(ctx, order.UserID)
	if err != nil {
		return fmt.Errorf("load user %s: %w", order.UserID, err)
	}
	if err := send(user.Email, user.Name, order); err != nil {
		return fmt.Errorf("send order email: %w", err)
	}
	return nil
}

// cancelIfUnpaid cancels an order that is still waiting for payment.
func (h *OrderEventHandler) cancelIfUnpaid(ctx context.Context, orderID string) error {
	return h.store.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		order, err := h.store.Orders.GetByID(ctx, orderID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load order %s: %w", orderID, err)
		}
		if order.PaymentStatus != models.PaymentStatusPending || order.Status != models.OrderStatusPending {
			return nil
		}
		order.Status = models.OrderStatusCancelled
		order.PaymentStatus = models.PaymentStatusFailed
		if err := h.store.Orders.Update(ctx, order); err != nil {
			return fmt.Errorf("cancel order %s: %w", orderID, err)
		}
		slog.Info("Auto-cancelled order due to non-payment", "order_id", orderID)
		return nil
	})
}
