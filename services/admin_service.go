package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"marketplace-service/models"
	"marketplace-service/repository"
)

const recentOrdersLimit = 5

// PayoutInput is one seller payout request for a product of an order.
type PayoutInput struct {
	ProductID     string
	Amount        float64
	PaymentMethod string
	Notes         string
}

// SellerPaymentQuery filters payouts; "all" or empty means no filter.
type SellerPaymentQuery struct {
	SellerID      string
	Status        string
	PaymentMethod string
	From          *time.Time
	To            *time.Time
}

type AdminService struct {
	store    *repository.Store
	assemble assembler
	events   EventPublisher
}

func NewAdminService(store *repository.Store, events EventPublisher) *AdminService {
	return &AdminService{store: store, assemble: newAssembler(store), events: events}
}

// ListPayableOrders returns paid orders that have no seller payout yet,
// newest first, with sellers resolved for every item.
func (s *AdminService) ListPayableOrders(ctx context.Context, status string, from, to *time.Time) ([]models.OrderResponse, error) {
	f := repository.OrderFilter{
		PaymentStatus:  models.PaymentStatusComplete,
		From:           from,
		To:             to,
		ExcludePaidOut: true,
	}
	if status != "" && status != "all" {
		st := models.OrderStatus(status)
		if !st.Valid() {
			return nil, InvalidOperation("Invalid order status")
		}
		f.Status = st
	}
	orders, err := s.store.Orders.List(ctx, f)
	if err != nil {
		return nil, Internal("Failed to load orders", err)
	}
	resp, err := s.assemble.orders(ctx, orders, true)
	if err != nil {
		return nil, Internal("Failed to load orders", err)
	}
	return resp, nil
}

// ProcessSellerPayment records a payout of one product of a paid order to its
// seller. The order is left untouched.
func (s *AdminService) ProcessSellerPayment(ctx context.Context, adminID, orderID string, in PayoutInput) (*models.SellerPayment, error) {
	if in.ProductID == "" || strings.TrimSpace(in.PaymentMethod) == "" || in.Amount <= 0 {
		return nil, InvalidOperation("Missing required fields")
	}

	order, err := s.store.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, lookup(err, "Order not found")
	}
	if !order.HasProduct(in.ProductID) {
		return nil, NotFound("Product not found in the order")
	}
	if order.PaymentStatus != models.PaymentStatusComplete {
		return nil, InvalidOperation("Order payment is not complete")
	}
	product, err := s.store.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, lookup(err, "Product not found")
	}

	payout := &models.SellerPayment{
		SellerID:      product.SellerID,
		OrderID:       order.ID,
		ProductID:     product.ID,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: models.PaymentStatusComplete,
		ProcessedBy:   adminID,
		Notes:         in.Notes,
	}
	if err := s.store.SellerPayments.Create(ctx, payout); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, InvalidOperation("Payment already processed for this product")
		}
		return nil, Internal("Failed to process payment", err)
	}
	slog.Info("Seller payment processed", "order_id", order.ID, "product_id", product.ID, "seller_id", product.SellerID, "amount", in.Amount)
	return payout, nil
}

// ListSellerPayments returns payouts newest first with their references
// resolved.
func (s *AdminService) ListSellerPayments(ctx context.Context, q SellerPaymentQuery) ([]models.SellerPaymentResponse, error) {
	f := repository.SellerPaymentFilter{From: q.From, To: q.To}
	if q.SellerID != "all" {
		f.SellerID = q.SellerID
	}
	if q.Status != "all" {
		f.Status = models.PaymentStatus(q.Status)
	}
	if q.PaymentMethod != "all" {
		f.PaymentMethod = q.PaymentMethod
	}

	payouts, err := s.store.SellerPayments.List(ctx, f)
	if err != nil {
		return nil, Internal("Failed to load seller payments", err)
	}

	out := make([]models.SellerPaymentResponse, 0, len(payouts))
	for _, p := range payouts {
		r := models.SellerPaymentResponse{SellerPayment: p}
		if seller, err := s.assemble.user(ctx, p.SellerID); err != nil {
			return nil, Internal("Failed to load seller payments", err)
		} else if seller != nil {
			r.Seller = seller.SellerSummary()
		}
		if admin, err := s.assemble.user(ctx, p.ProcessedBy); err != nil {
			return nil, Internal("Failed to load seller payments", err)
		} else if admin != nil {
			r.ProcessedBy = admin.Summary()
		}
		if o, err := s.store.Orders.GetByID(ctx, p.OrderID); err == nil {
			r.Order = o
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, Internal("Failed to load seller payments", err)
		}
		if pr, err := s.store.Products.GetByID(ctx, p.ProductID); err == nil {
			r.Product = pr
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, Internal("Failed to load seller payments", err)
		}
		out = append(out, r)
	}
	return out, nil
}

// UpdateOrder sets the fulfillment and/or payment status of an order.
func (s *AdminService) UpdateOrder(ctx context.Context, id string, status, paymentStatus string) (*models.Order, error) {
	var order *models.Order
	err := s.store.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.store.Orders.GetByID(ctx, id)
		if err != nil {
			return lookup(err, "Order not found")
		}
		if status != "" {
			st := models.OrderStatus(status)
			if !st.Valid() {
				return InvalidOperation("Invalid order status")
			}
			order.Status = st
		}
		if paymentStatus != "" {
			ps := models.PaymentStatus(paymentStatus)
			if !ps.Valid() {
				return InvalidOperation("Invalid payment status")
			}
			order.PaymentStatus = ps
		}
		if err := s.store.Orders.Update(ctx, order); err != nil {
			return Internal("Failed to update order", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if status != "" {
		publish(ctx, s.events, newEvent(order, models.EventStatusUpdated), defaultPriority)
	}
	return order, nil
}

// DashboardStats aggregates the admin overview. The queries are independent
// and run concurrently.
func (s *AdminService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var (
		stats = &models.DashboardStats{
			OrderByStatus: map[models.OrderStatus]int64{
				models.OrderStatusProcessing: 0,
				models.OrderStatusShipped:    0,
				models.OrderStatusDelivered:  0,
				models.OrderStatusCancelled:  0,
			},
		}
		byStatus map[models.OrderStatus]int64
		recent   []models.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Counts.Orders, err = s.store.Orders.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Counts.Users, err = s.store.Users.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Counts.Products, err = s.store.Products.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Counts.Revenue, err = s.store.Orders.Revenue(gctx)
		return err
	})
	g.Go(func() (err error) {
		byStatus, err = s.store.Orders.CountByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.store.Orders.List(gctx, repository.OrderFilter{Limit: recentOrdersLimit})
		return err
	})
	g.Go(func() (err error) {
		stats.MonthlySales, err = s.store.Orders.MonthlySales(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, Internal("Failed to load dashboard statistics", err)
	}

	for st := range stats.OrderByStatus {
		stats.OrderByStatus[st] = byStatus[st]
	}
	stats.RecentOrders = make([]models.RecentOrder, 0, len(recent))
	for _, o := range recent {
		ro := models.RecentOrder{ID: o.ID, TotalAmount: o.TotalAmount, Status: o.Status, CreatedAt: o.CreatedAt}
		u, err := s.assemble.user(ctx, o.UserID)
		if err != nil {
			return nil, Internal("Failed to load dashboard statistics", err)
		}
		if u != nil {
			ro.User = u.Summary()
		}
		stats.RecentOrders = append(stats.RecentOrders, ro)
	}
	return stats, nil
}
