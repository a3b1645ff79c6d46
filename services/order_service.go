package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"marketplace-service/models"
	"marketplace-service/repository"
)

// OrderInput carries the create-or-update fields of an order. Nil pointers
// mean "not provided".
type OrderInput struct {
	OrderID         string
	ShippingAddress *string
	PaymentMethod   *string
	TotalAmount     *float64
	PaymentDetails  *models.PaymentDetails
}

type OrderService struct {
	store          *repository.Store
	assemble       assembler
	events         EventPublisher
	paymentTimeout time.Duration
}

// NewOrderService wires the order lifecycle. events may be nil; paymentTimeout
// is how long a pending order waits before the unpaid check runs.
func NewOrderService(store *repository.Store, events EventPublisher, paymentTimeout time.Duration) *OrderService {
	return &OrderService{
		store:          store,
		assemble:       newAssembler(store),
		events:         events,
		paymentTimeout: paymentTimeout,
	}
}

// CreateOrUpdate patches the order named by in.OrderID, or checks out the
// user's cart into a new order when no such order exists. Supplying payment
// details marks the order paid and empties the cart in the same transaction.
func (s *OrderService) CreateOrUpdate(ctx context.Context, userID string, in OrderInput) (*models.Order, error) {
	var (
		order   *models.Order
		created bool
		paid    bool
	)
	err := s.store.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		cart, err := s.store.Carts.GetByUser(ctx, userID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return Internal("Failed to load cart", err)
		}
		if cart.IsEmpty() {
			return InvalidOperation("Cart is empty")
		}

		if in.OrderID != "" {
			order, err = s.store.Orders.GetByID(ctx, in.OrderID)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				order = nil
			case err != nil:
				return Internal("Failed to load order", err)
			case order.UserID != userID:
				return Unauthorized("Order does not belong to this user")
			}
		}
		if err := s.validateInput(ctx, userID, in); err != nil {
			return err
		}

		if order != nil {
			applyOrderInput(order, in)
			if err := s.store.Orders.Update(ctx, order); err != nil {
				return Internal("Failed to update order", err)
			}
		} else {
			order = &models.Order{
				UserID:        userID,
				Items:         cart.Snapshot(),
				PaymentStatus: models.PaymentStatusPending,
				Status:        models.OrderStatusPending,
			}
			applyOrderInput(order, in)
			if in.TotalAmount == nil {
				total, err := s.snapshotTotal(ctx, order.Items)
				if err != nil {
					return err
				}
				order.TotalAmount = total
			}
			if err := s.store.Orders.Create(ctx, order); err != nil {
				return Internal("Failed to create order", err)
			}
			created = true
		}

		if in.PaymentDetails != nil {
			if err := s.store.Carts.ClearItems(ctx, userID); err != nil {
				return Internal("Failed to clear cart", err)
			}
			paid = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		slog.Info("Order created", "order_id", order.ID, "user_id", userID, "total", order.TotalAmount)
		publish(ctx, s.events, newEvent(order, models.EventOrderCreated), priorityFor(order.TotalAmount))
		if !paid {
			publishDelayed(ctx, s.events, newEvent(order, models.EventPaymentCheck), s.paymentTimeout)
		}
	}
	if paid {
		publish(ctx, s.events, newEvent(order, models.EventOrderPaid), priorityFor(order.TotalAmount))
	}
	return order, nil
}

// validateInput rejects non-positive totals and shipping addresses the user
// does not own.
func (s *OrderService) validateInput(ctx context.Context, userID string, in OrderInput) error {
	if in.TotalAmount != nil && *in.TotalAmount <= 0 {
		return InvalidOperation("Total amount must be greater than zero")
	}
	if in.ShippingAddress != nil && *in.ShippingAddress != "" {
		addr, err := s.store.Addresses.GetByID(ctx, *in.ShippingAddress)
		if err != nil {
			return lookup(err, "Address not found")
		}
		if addr.UserID != userID {
			return InvalidOperation("Address does not belong to this user")
		}
	}
	return nil
}

func applyOrderInput(o *models.Order, in OrderInput) {
	if in.ShippingAddress != nil {
		o.ShippingAddress = *in.ShippingAddress
	}
	if in.PaymentMethod != nil {
		o.PaymentMethod = *in.PaymentMethod
	}
	if in.TotalAmount != nil {
		o.TotalAmount = *in.TotalAmount
	}
	if in.PaymentDetails != nil {
		pd := *in.PaymentDetails
		o.PaymentDetails = &pd
		o.PaymentStatus = models.PaymentStatusComplete
		o.Status = models.OrderStatusProcessing
	}
}

// snapshotTotal sums finalPrice × quantity over the item snapshot.
func (s *OrderService) snapshotTotal(ctx context.Context, items []models.OrderItem) (float64, error) {
	total := decimal.Zero
	for _, it := range items {
		p, err := s.store.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return 0, lookup(err, "Product not found")
		}
		line := decimal.NewFromFloat(p.FinalPrice).Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
	}
	return total.Round(2).InexactFloat64(), nil
}

// GetOrderByID returns the order with its user, address and products
// resolved. Only the owner or an admin may read it.
func (s *OrderService) GetOrderByID(ctx context.Context, id, userID string, role models.Role) (*models.OrderResponse, error) {
	order, err := s.store.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "Order not found")
	}
	if order.UserID != userID && role != models.RoleAdmin {
		return nil, Forbidden("You are not allowed to view this order")
	}
	resp, err := s.assemble.order(ctx, order, false)
	if err != nil {
		return nil, Internal("Failed to load order", err)
	}
	return resp, nil
}

// GetOrdersByUser lists the user's orders newest first.
func (s *OrderService) GetOrdersByUser(ctx context.Context, userID string) ([]models.OrderResponse, error) {
	orders, err := s.store.Orders.List(ctx, repository.OrderFilter{UserID: userID})
	if err != nil {
		return nil, Internal("Failed to load orders", err)
	}
	resp, err := s.assemble.orders(ctx, orders, false)
	if err != nil {
		return nil, Internal("Failed to load orders", err)
	}
	return resp, nil
}
