package services

import (
	"context"
	"testing"
	"time"

	"marketplace-service/models"
)

func TestPaymentCheckCancelsUnpaidOrder(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	h := NewOrderEventHandler(f.store, nil)
	order, err := f.svc.CreateOrUpdate(ctx, f.buyer.ID, OrderInput{})
	if err != nil {
		t.Fatal(err)
	}

	if err := h.Handle(ctx, newEvent(order, models.EventPaymentCheck)); err != nil {
		t.Fatal(err)
	}
	got, _ := f.store.Orders.GetByID(ctx, order.ID)
	if got.Status != models.OrderStatusCancelled || got.PaymentStatus != models.PaymentStatusFailed {
		t.Fatalf("status %s/%s", got.Status, got.PaymentStatus)
	}
}

func TestPaymentCheckLeavesPaidOrder(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	h := NewOrderEventHandler(f.store, nil)
	order := paidOrder(t, f)

	if err := h.Handle(ctx, newEvent(order, models.EventPaymentCheck)); err != nil {
		t.Fatal(err)
	}
	got, _ := f.store.Orders.GetByID(ctx, order.ID)
	if got.Status != models.OrderStatusProcessing {
		t.Fatalf("paid order touched: %s", got.Status)
	}
	if err := h.Handle(ctx, models.OrderEvent{OrderID: "gone", Type: models.EventPaymentCheck}); err != nil {
		t.Fatalf("missing order: %v", err)
	}
}

func TestEventEmails(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	mail := &fakeMailer{}
	h := NewOrderEventHandler(f.store, mail)
	order := paidOrder(t, f)

	if err := h.Handle(ctx, newEvent(order, models.EventOrderPaid)); err != nil {
		t.Fatal(err)
	}
	order.Status = models.OrderStatusProcessing
	if err := h.Handle(ctx, newEvent(order, models.EventStatusUpdated)); err != nil {
		t.Fatal(err)
	}
	order.Status = models.OrderStatusShipped
	if err := h.Handle(ctx, newEvent(order, models.EventStatusUpdated)); err != nil {
		t.Fatal(err)
	}
	if err := h.Handle(ctx, newEvent(order, models.EventOrderCreated)); err != nil {
		t.Fatal(err)
	}

	if len(mail.sent) != 2 || mail.sent[0].Kind != "confirmation" || mail.sent[1].Kind != "status" {
		t.Fatalf("mails %+v", mail.sent)
	}
	if mail.sent[0].To != f.buyer.Email {
		t.Fatalf("mail to %q", mail.sent[0].To)
	}
}

func TestPriorityFor(t *testing.T) {
	if priorityFor(1000) != defaultPriority || priorityFor(1000.01) != highPriority {
		t.Fatalf("priority threshold")
	}
	evt := newEvent(&models.Order{ID: "o1", TotalAmount: 5}, models.EventOrderCreated)
	if evt.OrderID != "o1" || evt.Occurred.IsZero() || time.Since(evt.Occurred) > time.Minute {
		t.Fatalf("event %+v", evt)
	}
}
