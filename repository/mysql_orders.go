package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"marketplace-service/models"
)

type mysqlOrders struct{ s *MySQLStore }

const orderColumns = `o.id, o.user_id, o.total_amount, o.shipping_address_id, o.payment_method,
	o.payment_status, o.status, o.razorpay_order_id, o.razorpay_payment_id, o.razorpay_signature,
	o.created_at, o.updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var (
		o  models.Order
		pd models.PaymentDetails
	)
	if err := row.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.ShippingAddress, &o.PaymentMethod,
		&o.PaymentStatus, &o.Status, &pd.RazorpayOrderID, &pd.RazorpayPaymentID, &pd.RazorpaySignature,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	if pd != (models.PaymentDetails{}) {
		o.PaymentDetails = &pd
	}
	o.Items = []models.OrderItem{}
	return &o, nil
}

func paymentColumns(o *models.Order) (string, string, string) {
	if o.PaymentDetails == nil {
		return "", "", ""
	}
	return o.PaymentDetails.RazorpayOrderID, o.PaymentDetails.RazorpayPaymentID, o.PaymentDetails.RazorpaySignature
}

func (r mysqlOrders) Create(ctx context.Context, o *models.Order) error {
	return r.s.WithTransaction(ctx, func(ctx context.Context) error {
		q := r.s.q(ctx)
		if o.ID == "" {
			o.ID = uuid.NewString()
		}
		stamp(&o.CreatedAt, &o.UpdatedAt)
		gwOrder, gwPayment, gwSignature := paymentColumns(o)
		if _, err := q.ExecContext(ctx, `
			INSERT INTO orders (id, user_id, total_amount, shipping_address_id, payment_method,
				payment_status, status, razorpay_order_id, razorpay_payment_id, razorpay_signature,
				created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			o.ID, o.UserID, o.TotalAmount, o.ShippingAddress, o.PaymentMethod,
			o.PaymentStatus, o.Status, gwOrder, gwPayment, gwSignature,
			o.CreatedAt, o.UpdatedAt,
		); err != nil {
			return translate(err)
		}
		for i, it := range o.Items {
			if _, err := q.ExecContext(ctx,
				"INSERT INTO order_items (order_id, product_id, quantity, position) VALUES (?, ?, ?, ?)",
				o.ID, it.ProductID, it.Quantity, i,
			); err != nil {
				return translate(err)
			}
		}
		return nil
	})
}

// loadItems fills the item snapshots of orders with a single query.
func (r mysqlOrders) loadItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*models.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	rows, err := r.s.q(ctx).QueryContext(ctx,
		"SELECT order_id, product_id, quantity FROM order_items WHERE order_id IN ("+placeholders(len(ids))+") ORDER BY order_id, position",
		toArgs(ids)...,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			it      models.OrderItem
		)
		if err := rows.Scan(&orderID, &it.ProductID, &it.Quantity); err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

func (r mysqlOrders) getOne(ctx context.Context, where string, arg any) (*models.Order, error) {
	o, err := scanOrder(r.s.q(ctx).QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders o WHERE "+where, arg))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, []*models.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r mysqlOrders) GetByID(ctx context.Context, id string) (*models.Order, error) {
	return r.getOne(ctx, "o.id = ?", id)
}

func (r mysqlOrders) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	if gatewayOrderID == "" {
		return nil, ErrNotFound
	}
	return r.getOne(ctx, "o.razorpay_order_id = ? LIMIT 1", gatewayOrderID)
}

func (r mysqlOrders) Update(ctx context.Context, o *models.Order) error {
	o.UpdatedAt = now()
	gwOrder, gwPayment, gwSignature := paymentColumns(o)
	res, err := r.s.q(ctx).ExecContext(ctx, `
		UPDATE orders SET total_amount = ?, shipping_address_id = ?, payment_method = ?,
			payment_status = ?, status = ?, razorpay_order_id = ?, razorpay_payment_id = ?,
			razorpay_signature = ?, updated_at = ?
		WHERE id = ?`,
		o.TotalAmount, o.ShippingAddress, o.PaymentMethod,
		o.PaymentStatus, o.Status, gwOrder, gwPayment,
		gwSignature, o.UpdatedAt,
		o.ID,
	)
	if err != nil {
		return translate(err)
	}
	return requireRow(ctx, r.s, res, "orders", o.ID)
}

func (r mysqlOrders) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != "" {
		where = append(where, "o.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.Status != "" {
		where = append(where, "o.status = ?")
		args = append(args, f.Status)
	}
	if f.PaymentStatus != "" {
		where = append(where, "o.payment_status = ?")
		args = append(args, f.PaymentStatus)
	}
	if f.From != nil {
		where = append(where, "o.created_at >= ?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		where = append(where, "o.created_at <= ?")
		args = append(args, *f.To)
	}
	if f.ExcludePaidOut {
		where = append(where, "NOT EXISTS (SELECT 1 FROM seller_payments sp WHERE sp.order_id = o.id)")
	}

	query := "SELECT " + orderColumns + " FROM orders o"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY o.created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var orders []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, *o)
	}
	return out, nil
}

func (r mysqlOrders) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.s.q(ctx), "orders")
}

func (r mysqlOrders) CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error) {
	rows, err := r.s.q(ctx).QueryContext(ctx, "SELECT status, COUNT(*) FROM orders GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.OrderStatus]int64)
	for rows.Next() {
		var (
			status models.OrderStatus
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r mysqlOrders) Revenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.s.q(ctx).QueryRowContext(ctx,
		"SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE payment_status = ?",
		models.PaymentStatusComplete,
	).Scan(&total)
	return total, err
}

func (r mysqlOrders) MonthlySales(ctx context.Context) ([]models.MonthlySales, error) {
	rows, err := r.s.q(ctx).QueryContext(ctx, `
		SELECT YEAR(created_at) AS y, MONTH(created_at) AS m, SUM(total_amount), COUNT(*)
		FROM orders
		WHERE payment_status = ?
		GROUP BY y, m
		ORDER BY y, m`,
		models.PaymentStatusComplete,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.MonthlySales, 0)
	for rows.Next() {
		var ms models.MonthlySales
		if err := rows.Scan(&ms.Year, &ms.Month, &ms.Total, &ms.Count); err != nil {
			return nil, err
		}
		out = append(out, ms)
	}
	return out, rows.Err()
}
