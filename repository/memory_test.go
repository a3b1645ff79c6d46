package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace-service/models"
)

func TestCartSaveAndClear(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	c := &models.Cart{UserID: "u1"}
	c.Add("p1", 2)
	c.Add("p1", 3)
	if err := s.Carts.Save(ctx, c); err != nil {
		t.Fatal(err)
	}
	got, err := s.Carts.GetByUser(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 1 || got.Items[0].Quantity != 5 {
		t.Fatalf("items %+v", got.Items)
	}

	// callers get a copy
	got.Items[0].Quantity = 99
	again, _ := s.Carts.GetByUser(ctx, "u1")
	if again.Items[0].Quantity != 5 {
		t.Fatalf("store mutated through returned cart")
	}

	if err := s.Carts.ClearItems(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	cleared, _ := s.Carts.GetByUser(ctx, "u1")
	if len(cleared.Items) != 0 || cleared.ID != c.ID {
		t.Fatalf("cart not cleared in place: %+v", cleared)
	}
	if err := s.Carts.ClearItems(ctx, "nobody"); err != nil {
		t.Fatalf("clearing a missing cart: %v", err)
	}
}

func TestTransactionRollback(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	o := &models.Order{UserID: "u1", Status: models.OrderStatusPending, PaymentStatus: models.PaymentStatusPending}
	if err := s.Orders.Create(ctx, o); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		o.Status = models.OrderStatusProcessing
		if err := s.Orders.Update(ctx, o); err != nil {
			return err
		}
		if err := s.Orders.Create(ctx, &models.Order{UserID: "u2"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, _ := s.Orders.GetByID(ctx, o.ID)
	if got.Status != models.OrderStatusPending {
		t.Fatalf("update survived rollback: %s", got.Status)
	}
	if n, _ := s.Orders.Count(ctx); n != 1 {
		t.Fatalf("create survived rollback: %d orders", n)
	}
}

func TestOrderUpdateKeepsItems(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	o := &models.Order{UserID: "u1", Items: []models.OrderItem{{ProductID: "p1", Quantity: 2}}}
	_ = s.Orders.Create(ctx, o)

	o.Items = nil
	o.ShippingAddress = "a1"
	if err := s.Orders.Update(ctx, o); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Orders.GetByID(ctx, o.ID)
	if len(got.Items) != 1 || got.ShippingAddress != "a1" {
		t.Fatalf("order %+v", got)
	}
	if err := s.Orders.Update(ctx, &models.Order{ID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListExcludesPaidOutOrders(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	paid := func() *models.Order {
		o := &models.Order{
			UserID:        "u1",
			Items:         []models.OrderItem{{ProductID: "p1", Quantity: 1}},
			PaymentStatus: models.PaymentStatusComplete,
			Status:        models.OrderStatusProcessing,
		}
		if err := s.Orders.Create(ctx, o); err != nil {
			t.Fatal(err)
		}
		return o
	}
	a, b := paid(), paid()
	_ = s.Orders.Create(ctx, &models.Order{UserID: "u1", PaymentStatus: models.PaymentStatusPending})

	if err := s.SellerPayments.Create(ctx, &models.SellerPayment{OrderID: a.ID, ProductID: "p1", Amount: 10}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Orders.List(ctx, OrderFilter{PaymentStatus: models.PaymentStatusComplete, ExcludePaidOut: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("payable orders %+v", got)
	}

	all, _ := s.Orders.List(ctx, OrderFilter{PaymentStatus: models.PaymentStatusComplete})
	if len(all) != 2 {
		t.Fatalf("expected 2 paid orders, got %d", len(all))
	}
}

func TestListDateRange(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	old := &models.Order{UserID: "u1", CreatedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)}
	recent := &models.Order{UserID: "u1", CreatedAt: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)}
	_ = s.Orders.Create(ctx, old)
	_ = s.Orders.Create(ctx, recent)

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	got, _ := s.Orders.List(ctx, OrderFilter{From: &from})
	if len(got) != 1 || got[0].ID != recent.ID {
		t.Fatalf("from filter %+v", got)
	}
	to := from
	got, _ = s.Orders.List(ctx, OrderFilter{To: &to})
	if len(got) != 1 || got[0].ID != old.ID {
		t.Fatalf("to filter %+v", got)
	}
	got, _ = s.Orders.List(ctx, OrderFilter{Limit: 1})
	if len(got) != 1 || got[0].ID != recent.ID {
		t.Fatalf("limit should keep newest, got %+v", got)
	}
}

func TestDuplicateSellerPayment(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	if err := s.SellerPayments.Create(ctx, &models.SellerPayment{OrderID: "o1", ProductID: "p1"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SellerPayments.Create(ctx, &models.SellerPayment{OrderID: "o1", ProductID: "p1"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := s.SellerPayments.Create(ctx, &models.SellerPayment{OrderID: "o1", ProductID: "p2"}); err != nil {
		t.Fatalf("other product of the same order: %v", err)
	}
}

func TestUserLookups(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	u := &models.User{Email: "a@example.com", VerificationToken: "tok"}
	if err := s.Users.Create(ctx, u); err != nil {
		t.Fatal(err)
	}
	if err := s.Users.Create(ctx, &models.User{Email: "A@example.com"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected duplicate email, got %v", err)
	}
	if _, err := s.Users.GetByVerificationToken(ctx, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty token must not match")
	}

	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	u.ResetPasswordToken = "reset"
	u.ResetPasswordExpires = &past
	_ = s.Users.Update(ctx, u)
	if _, err := s.Users.GetByResetToken(ctx, "reset", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired reset token matched")
	}
}

func TestMonthlySalesOnlyCountsPaid(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	jan := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	_ = s.Orders.Create(ctx, &models.Order{TotalAmount: 100, PaymentStatus: models.PaymentStatusComplete, CreatedAt: feb})
	_ = s.Orders.Create(ctx, &models.Order{TotalAmount: 50, PaymentStatus: models.PaymentStatusComplete, CreatedAt: jan})
	_ = s.Orders.Create(ctx, &models.Order{TotalAmount: 70, PaymentStatus: models.PaymentStatusPending, CreatedAt: jan})

	sales, _ := s.Orders.MonthlySales(ctx)
	if len(sales) != 2 || sales[0].Month != 1 || sales[0].Total != 50 || sales[1].Total != 100 {
		t.Fatalf("sales %+v", sales)
	}
	if rev, _ := s.Orders.Revenue(ctx); rev != 150 {
		t.Fatalf("revenue %v", rev)
	}
}
