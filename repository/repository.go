package repository

import (
	"context"
	"errors"
	"time"

	"marketplace-service/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique key would be violated.
	ErrDuplicate = errors.New("duplicate")
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*models.User, error)
	// GetByResetToken only matches tokens that expire after now.
	GetByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Count(ctx context.Context) (int64, error)
}

type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Count(ctx context.Context) (int64, error)
}

type CartRepository interface {
	GetByUser(ctx context.Context, userID string) (*models.Cart, error)
	// Save upserts the cart of c.UserID together with its items.
	Save(ctx context.Context, c *models.Cart) error
	// ClearItems empties the cart of userID if one exists.
	ClearItems(ctx context.Context, userID string) error
}

// OrderFilter narrows order listings. Zero values mean "any".
type OrderFilter struct {
	UserID         string
	Status         models.OrderStatus
	PaymentStatus  models.PaymentStatus
	From           *time.Time
	To             *time.Time
	ExcludePaidOut bool
	Limit          int
}

type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error)
	// Update persists the mutable fields of an order. Items are never rewritten.
	Update(ctx context.Context, o *models.Order) error
	// List returns matching orders newest first.
	List(ctx context.Context, f OrderFilter) ([]models.Order, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error)
	Revenue(ctx context.Context) (float64, error)
	MonthlySales(ctx context.Context) ([]models.MonthlySales, error)
}

type AddressRepository interface {
	Create(ctx context.Context, a *models.Address) error
	GetByID(ctx context.Context, id string) (*models.Address, error)
	Update(ctx context.Context, a *models.Address) error
	ListByUser(ctx context.Context, userID string) ([]models.Address, error)
}

type WishlistRepository interface {
	GetByUser(ctx context.Context, userID string) (*models.Wishlist, error)
	Save(ctx context.Context, w *models.Wishlist) error
}

// SellerPaymentFilter narrows payout listings. Zero values mean "any".
type SellerPaymentFilter struct {
	SellerID      string
	Status        models.PaymentStatus
	PaymentMethod string
	From          *time.Time
	To            *time.Time
}

type SellerPaymentRepository interface {
	// Create fails with ErrDuplicate when the (order, product) pair is already paid out.
	Create(ctx context.Context, p *models.SellerPayment) error
	List(ctx context.Context, f SellerPaymentFilter) ([]models.SellerPayment, error)
}

// TxManager runs fn so that every repository call made with the ctx it
// receives commits or rolls back together.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store bundles every repository of one backend.
type Store struct {
	Users          UserRepository
	Products       ProductRepository
	Carts          CartRepository
	Orders         OrderRepository
	Addresses      AddressRepository
	Wishlists      WishlistRepository
	SellerPayments SellerPaymentRepository
	Tx             TxManager
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
