package repository

import (
	"context"

	"github.com/google/uuid"

	"marketplace-service/models"
)

type mysqlCarts struct{ s *MySQLStore }

func (r mysqlCarts) GetByUser(ctx context.Context, userID string) (*models.Cart, error) {
	q := r.s.q(ctx)
	var c models.Cart
	err := q.QueryRowContext(ctx,
		"SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = ?", userID,
	).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}

	rows, err := q.QueryContext(ctx,
		"SELECT product_id, quantity FROM cart_items WHERE cart_id = ? ORDER BY position", c.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	c.Items = []models.CartItem{}
	for rows.Next() {
		var it models.CartItem
		if err := rows.Scan(&it.ProductID, &it.Quantity); err != nil {
			return nil, err
		}
		c.Items = append(c.Items, it)
	}
	return &c, rows.Err()
}

func (r mysqlCarts) Save(ctx context.Context, c *models.Cart) error {
	return r.s.WithTransaction(ctx, func(ctx context.Context) error {
		q := r.s.q(ctx)
		stamp(&c.CreatedAt, &c.UpdatedAt)
		if _, err := q.ExecContext(ctx, `
			INSERT INTO carts (id, user_id, created_at, updated_at) VALUES (?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE updated_at = VALUES(updated_at)`,
			uuid.NewString(), c.UserID, c.CreatedAt, c.UpdatedAt,
		); err != nil {
			return translate(err)
		}
		if err := q.QueryRowContext(ctx,
			"SELECT id, created_at FROM carts WHERE user_id = ?", c.UserID,
		).Scan(&c.ID, &c.CreatedAt); err != nil {
			return translate(err)
		}

		if _, err := q.ExecContext(ctx, "DELETE FROM cart_items WHERE cart_id = ?", c.ID); err != nil {
			return err
		}
		for i, it := range c.Items {
			if _, err := q.ExecContext(ctx,
				"INSERT INTO cart_items (cart_id, product_id, quantity, position) VALUES (?, ?, ?, ?)",
				c.ID, it.ProductID, it.Quantity, i,
			); err != nil {
				return translate(err)
			}
		}
		return nil
	})
}

func (r mysqlCarts) ClearItems(ctx context.Context, userID string) error {
	return r.s.WithTransaction(ctx, func(ctx context.Context) error {
		q := r.s.q(ctx)
		if _, err := q.ExecContext(ctx, `
			DELETE ci FROM cart_items ci JOIN carts c ON c.id = ci.cart_id WHERE c.user_id = ?`, userID,
		); err != nil {
			return err
		}
		_, err := q.ExecContext(ctx, "UPDATE carts SET updated_at = ? WHERE user_id = ?", now(), userID)
		return err
	})
}

type mysqlWishlists struct{ s *MySQLStore }

func (r mysqlWishlists) GetByUser(ctx context.Context, userID string) (*models.Wishlist, error) {
	q := r.s.q(ctx)
	w := models.Wishlist{UserID: userID}
	if err := q.QueryRowContext(ctx, "SELECT id FROM wishlists WHERE user_id = ?", userID).Scan(&w.ID); err != nil {
		return nil, translate(err)
	}

	rows, err := q.QueryContext(ctx,
		"SELECT product_id FROM wishlist_items WHERE wishlist_id = ? ORDER BY position", w.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	w.ProductIDs = []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		w.ProductIDs = append(w.ProductIDs, id)
	}
	return &w, rows.Err()
}

func (r mysqlWishlists) Save(ctx context.Context, w *models.Wishlist) error {
	return r.s.WithTransaction(ctx, func(ctx context.Context) error {
		q := r.s.q(ctx)
		if _, err := q.ExecContext(ctx,
			"INSERT IGNORE INTO wishlists (id, user_id) VALUES (?, ?)", uuid.NewString(), w.UserID,
		); err != nil {
			return translate(err)
		}
		if err := q.QueryRowContext(ctx, "SELECT id FROM wishlists WHERE user_id = ?", w.UserID).Scan(&w.ID); err != nil {
			return translate(err)
		}
		if _, err := q.ExecContext(ctx, "DELETE FROM wishlist_items WHERE wishlist_id = ?", w.ID); err != nil {
			return err
		}
		for i, id := range w.ProductIDs {
			if _, err := q.ExecContext(ctx,
				"INSERT INTO wishlist_items (wishlist_id, product_id, position) VALUES (?, ?, ?)", w.ID, id, i,
			); err != nil {
				return translate(err)
			}
		}
		return nil
	})
}
