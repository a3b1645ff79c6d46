package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"marketplace-service/models"
	"marketplace-service/repository"
)

type publishedEvent struct {
	models.OrderEvent
	Priority uint8
	Delay    time.Duration
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) PublishOrderEvent(_ context.Context, evt models.OrderEvent, priority uint8) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{OrderEvent: evt, Priority: priority})
	return nil
}

func (p *fakePublisher) PublishDelayedEvent(_ context.Context, evt models.OrderEvent, delay time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{OrderEvent: evt, Delay: delay})
	return nil
}

func (p *fakePublisher) ofType(t string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type sentMail struct {
	Kind, To, Link string
	Order          *models.Order
}

type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []sentMail
}

func (m *fakeMailer) record(s sentMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, s)
	return nil
}

func (m *fakeMailer) SendVerification(_ context.Context, to, _, link string) error {
	return m.record(sentMail{Kind: "verify", To: to, Link: link})
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, _, link string) error {
	return m.record(sentMail{Kind: "reset", To: to, Link: link})
}

func (m *fakeMailer) SendOrderConfirmation(_ context.Context, to, _ string, o *models.Order) error {
	return m.record(sentMail{Kind: "confirmation", To: to, Order: o})
}

func (m *fakeMailer) SendStatusUpdate(_ context.Context, to, _ string, o *models.Order) error {
	return m.record(sentMail{Kind: "status", To: to, Order: o})
}

type fakeGateway struct {
	amount   int64
	currency string
	receipt  string
	err      error
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*models.PaymentIntent, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.amount, g.currency, g.receipt = amount, currency, receipt
	return &models.PaymentIntent{ID: "order_gw_1", Amount: amount, Currency: currency, Receipt: receipt, Status: "created"}, nil
}

type fakeUploader struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (u *fakeUploader) Upload(_ context.Context, filename string, r io.Reader) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++
	if u.fail {
		return "", errors.New("upload failed")
	}
	return "https://img.example.com/" + filename, nil
}

func seedUser(t *testing.T, s *repository.Store, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Name: "User " + email, Email: email, Role: role, IsVerified: true}
	if err := s.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedProduct(t *testing.T, s *repository.Store, sellerID string, finalPrice float64) *models.Product {
	t.Helper()
	p := &models.Product{
		Title:       "Calculus",
		Price:       finalPrice + 100,
		FinalPrice:  finalPrice,
		SellerID:    sellerID,
		PaymentMode: models.PaymentModeUPI,
		PaymentDetails: models.SellerPaymentDetails{
			UPIID: "seller@upi",
		},
		Images: []string{"https://img.example.com/1.jpg"},
	}
	if err := s.Products.Create(context.Background(), p); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func assertKind(t *testing.T, err error, want Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := KindOf(err); got != want {
		t.Fatalf("expected %s error, got %s: %v", want, got, err)
	}
}

func strPtr(s string) *string { return &s }
