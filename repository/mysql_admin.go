package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"marketplace-service/models"
)

type mysqlAddresses struct{ s *MySQLStore }

const addressColumns = `id, user_id, address_line1, address_line2, phone_number, city, state, pincode,
	created_at, updated_at`

func scanAddress(row interface{ Scan(...any) error }) (*models.Address, error) {
	var a models.Address
	if err := row.Scan(&a.ID, &a.UserID, &a.AddressLine1, &a.AddressLine2, &a.PhoneNumber,
		&a.City, &a.State, &a.Pincode, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r mysqlAddresses) Create(ctx context.Context, a *models.Address) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	stamp(&a.CreatedAt, &a.UpdatedAt)
	_, err := r.s.q(ctx).ExecContext(ctx, `
		INSERT INTO addresses (`+addressColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.AddressLine1, a.AddressLine2, a.PhoneNumber,
		a.City, a.State, a.Pincode, a.CreatedAt, a.UpdatedAt,
	)
	return translate(err)
}

func (r mysqlAddresses) GetByID(ctx context.Context, id string) (*models.Address, error) {
	return scanAddress(r.s.q(ctx).QueryRowContext(ctx, "SELECT "+addressColumns+" FROM addresses WHERE id = ?", id))
}

func (r mysqlAddresses) Update(ctx context.Context, a *models.Address) error {
	a.UpdatedAt = now()
	res, err := r.s.q(ctx).ExecContext(ctx, `
		UPDATE addresses SET address_line1 = ?, address_line2 = ?, phone_number = ?, city = ?,
			state = ?, pincode = ?, updated_at = ?
		WHERE id = ?`,
		a.AddressLine1, a.AddressLine2, a.PhoneNumber, a.City,
		a.State, a.Pincode, a.UpdatedAt,
		a.ID,
	)
	if err != nil {
		return translate(err)
	}
	return requireRow(ctx, r.s, res, "addresses", a.ID)
}

func (r mysqlAddresses) ListByUser(ctx context.Context, userID string) ([]models.Address, error) {
	rows, err := r.s.q(ctx).QueryContext(ctx,
		"SELECT "+addressColumns+" FROM addresses WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

type mysqlSellerPayments struct{ s *MySQLStore }

const sellerPaymentColumns = `id, seller_id, order_id, product_id, amount, payment_method, payment_status,
	processed_by, notes, created_at, updated_at`

func (r mysqlSellerPayments) Create(ctx context.Context, p *models.SellerPayment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	stamp(&p.CreatedAt, &p.UpdatedAt)
	_, err := r.s.q(ctx).ExecContext(ctx, `
		INSERT INTO seller_payments (`+sellerPaymentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.SellerID, p.OrderID, p.ProductID, p.Amount, p.PaymentMethod, p.PaymentStatus,
		p.ProcessedBy, p.Notes, p.CreatedAt, p.UpdatedAt,
	)
	return translate(err)
}

func (r mysqlSellerPayments) List(ctx context.Context, f SellerPaymentFilter) ([]models.SellerPayment, error) {
	var (
		where []string
		args  []any
	)
	if f.SellerID != "" {
		where = append(where, "seller_id = ?")
		args = append(args, f.SellerID)
	}
	if f.Status != "" {
		where = append(where, "payment_status = ?")
		args = append(args, f.Status)
	}
	if f.PaymentMethod != "" {
		where = append(where, "payment_method = ?")
		args = append(args, f.PaymentMethod)
	}
	if f.From != nil {
		where = append(where, "created_at >= ?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		where = append(where, "created_at <= ?")
		args = append(args, *f.To)
	}

	query := "SELECT " + sellerPaymentColumns + " FROM seller_payments"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.SellerPayment, 0)
	for rows.Next() {
		var p models.SellerPayment
		if err := rows.Scan(&p.ID, &p.SellerID, &p.OrderID, &p.ProductID, &p.Amount, &p.PaymentMethod,
			&p.PaymentStatus, &p.ProcessedBy, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var (
	_ UserRepository          = mysqlUsers{}
	_ ProductRepository       = mysqlProducts{}
	_ CartRepository          = mysqlCarts{}
	_ OrderRepository         = mysqlOrders{}
	_ AddressRepository       = mysqlAddresses{}
	_ WishlistRepository      = mysqlWishlists{}
	_ SellerPaymentRepository = mysqlSellerPayments{}
	_ TxManager               = (*MySQLStore)(nil)
)
