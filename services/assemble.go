package services

import (
	"context"
	"errors"

	"marketplace-service/models"
	"marketplace-service/repository"
)

// assembler resolves the id references of orders for display. Missing
// references are left empty rather than failing the whole read.
type assembler struct {
	users     repository.UserRepository
	products  repository.ProductRepository
	addresses repository.AddressRepository
}

func newAssembler(store *repository.Store) assembler {
	return assembler{users: store.Users, products: store.Products, addresses: store.Addresses}
}

func (a assembler) user(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, nil
	}
	u, err := a.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

func (a assembler) product(ctx context.Context, id string, withSeller bool) (*models.ProductDetail, error) {
	p, err := a.products.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d := &models.ProductDetail{Product: *p}
	if withSeller {
		seller, err := a.user(ctx, p.SellerID)
		if err != nil {
			return nil, err
		}
		if seller != nil {
			d.Seller = seller.SellerSummary()
		}
	}
	return d, nil
}

func (a assembler) order(ctx context.Context, o *models.Order, withSellers bool) (*models.OrderResponse, error) {
	resp := &models.OrderResponse{
		ID:             o.ID,
		Items:          make([]models.OrderItemDetail, 0, len(o.Items)),
		TotalAmount:    o.TotalAmount,
		PaymentMethod:  o.PaymentMethod,
		PaymentStatus:  o.PaymentStatus,
		Status:         o.Status,
		PaymentDetails: o.PaymentDetails,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}

	u, err := a.user(ctx, o.UserID)
	if err != nil {
		return nil, err
	}
	if u != nil {
		resp.User = u.Summary()
	}

	if o.ShippingAddress != "" {
		addr, err := a.addresses.GetByID(ctx, o.ShippingAddress)
		switch {
		case err == nil:
			resp.ShippingAddress = addr
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}

	for _, it := range o.Items {
		p, err := a.product(ctx, it.ProductID, withSellers)
		if err != nil {
			return nil, err
		}
		resp.Items = append(resp.Items, models.OrderItemDetail{ProductID: it.ProductID, Product: p, Quantity: it.Quantity})
	}
	return resp, nil
}

func (a assembler) orders(ctx context.Context, orders []models.Order, withSellers bool) ([]models.OrderResponse, error) {
	out := make([]models.OrderResponse, 0, len(orders))
	for i := range orders {
		r, err := a.order(ctx, &orders[i], withSellers)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}
