package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"marketplace-service/models"
)

type mysqlProducts struct{ s *MySQLStore }

const productColumns = `id, title, subject, category, item_condition, class_type, price, author, edition,
	description, final_price, shipping_charge, seller_id, payment_mode, payment_details, images,
	created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var (
		p              models.Product
		paymentDetails []byte
		images         []byte
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Subject, &p.Category, &p.Condition, &p.ClassType, &p.Price,
		&p.Author, &p.Edition, &p.Description, &p.FinalPrice, &p.ShippingCharge, &p.SellerID,
		&p.PaymentMode, &paymentDetails, &images, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	if len(paymentDetails) > 0 {
		if err := json.Unmarshal(paymentDetails, &p.PaymentDetails); err != nil {
			return nil, fmt.Errorf("decode product %s payment details: %w", p.ID, err)
		}
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return nil, fmt.Errorf("decode product %s images: %w", p.ID, err)
		}
	}
	return &p, nil
}

func (r mysqlProducts) Create(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	stamp(&p.CreatedAt, &p.UpdatedAt)
	paymentDetails, err := json.Marshal(p.PaymentDetails)
	if err != nil {
		return fmt.Errorf("encode payment details: %w", err)
	}
	images, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("encode images: %w", err)
	}
	_, err = r.s.q(ctx).ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Subject, p.Category, p.Condition, p.ClassType, p.Price, p.Author, p.Edition,
		p.Description, p.FinalPrice, p.ShippingCharge, p.SellerID, p.PaymentMode, paymentDetails, images,
		p.CreatedAt, p.UpdatedAt,
	)
	return translate(err)
}

func (r mysqlProducts) GetByID(ctx context.Context, id string) (*models.Product, error) {
	row := r.s.q(ctx).QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id)
	return scanProduct(row)
}

func (r mysqlProducts) List(ctx context.Context) ([]models.Product, error) {
	rows, err := r.s.q(ctx).QueryContext(ctx, "SELECT "+productColumns+" FROM products ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r mysqlProducts) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.s.q(ctx), "products")
}
