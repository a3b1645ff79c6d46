package services

import (
	"context"
	"errors"

	"marketplace-service/models"
	"marketplace-service/repository"
)

type WishlistService struct {
	products  repository.ProductRepository
	wishlists repository.WishlistRepository
}

func NewWishlistService(store *repository.Store) *WishlistService {
	return &WishlistService{products: store.Products, wishlists: store.Wishlists}
}

// Add wishes for productID; adding it twice keeps a single entry.
func (s *WishlistService) Add(ctx context.Context, userID, productID string) (*models.Wishlist, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, lookup(err, "Product not found")
	}
	w, err := s.wishlists.GetByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		w = &models.Wishlist{UserID: userID}
	} else if err != nil {
		return nil, Internal("Failed to load wishlist", err)
	}
	if !w.Contains(productID) {
		w.ProductIDs = append(w.ProductIDs, productID)
		if err := s.wishlists.Save(ctx, w); err != nil {
			return nil, Internal("Failed to save wishlist", err)
		}
	}
	return s.resolve(ctx, w)
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID string) (*models.Wishlist, error) {
	w, err := s.wishlists.GetByUser(ctx, userID)
	if err != nil {
		return nil, lookup(err, "Wishlist not found for this user")
	}
	w.Remove(productID)
	if err := s.wishlists.Save(ctx, w); err != nil {
		return nil, Internal("Failed to save wishlist", err)
	}
	return s.resolve(ctx, w)
}

// Get returns the wishlist with products resolved, or an empty one.
func (s *WishlistService) Get(ctx context.Context, userID string) (*models.Wishlist, error) {
	w, err := s.wishlists.GetByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &models.Wishlist{Products: []models.Product{}}, nil
	}
	if err != nil {
		return nil, Internal("Failed to load wishlist", err)
	}
	return s.resolve(ctx, w)
}

func (s *WishlistService) resolve(ctx context.Context, w *models.Wishlist) (*models.Wishlist, error) {
	w.Products = make([]models.Product, 0, len(w.ProductIDs))
	for _, id := range w.ProductIDs {
		p, err := s.products.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, Internal("Failed to load wishlist", err)
		}
		w.Products = append(w.Products, *p)
	}
	return w, nil
}
