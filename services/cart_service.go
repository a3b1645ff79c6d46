package services

import (
	"context"
	"errors"
	"log/slog"

	"marketplace-service/models"
	"marketplace-service/repository"
)

type CartService struct {
	products repository.ProductRepository
	carts    repository.CartRepository
}

func NewCartService(store *repository.Store) *CartService {
	return &CartService{products: store.Products, carts: store.Carts}
}

// AddItem puts quantity of productID into the user's cart, creating the cart
// on first use. A product already in the cart has its quantity increased.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, InvalidOperation("Quantity must be at least 1")
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, lookup(err, "Product not found")
	}
	if product.SellerID == userID {
		return nil, InvalidOperation("You cannot add your own product to cart")
	}

	cart, err := s.carts.GetByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	} else if err != nil {
		return nil, Internal("Failed to load cart", err)
	}

	cart.Add(productID, quantity)
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, Internal("Failed to save cart", err)
	}
	slog.Info("Item added to cart", "user_id", userID, "product_id", productID, "quantity", quantity)
	return cart, nil
}

// RemoveItem drops productID from the user's cart. Removing a product that is
// not in the cart leaves it unchanged.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, lookup(err, "Cart not found")
	}
	cart.Remove(productID)
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, Internal("Failed to save cart", err)
	}
	return cart, nil
}

// GetCart returns the cart with products resolved, or an empty cart.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &models.Cart{Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, Internal("Failed to load cart", err)
	}

	for i := range cart.Items {
		p, err := s.products.GetByID(ctx, cart.Items[i].ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, Internal("Failed to load cart", err)
		}
		cart.Items[i].Product = p
	}
	return cart, nil
}
