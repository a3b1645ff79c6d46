package services

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"marketplace-service/models"
	"marketplace-service/repository"
)

const maxProductImages = 4

// ImageFile is one uploaded image, opened lazily so uploads can run in
// parallel.
type ImageFile struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

type ProductService struct {
	products repository.ProductRepository
	uploader ImageUploader
}

func NewProductService(store *repository.Store, uploader ImageUploader) *ProductService {
	return &ProductService{products: store.Products, uploader: uploader}
}

func validatePayoutDetails(p *models.Product) error {
	switch p.PaymentMode {
	case models.PaymentModeUPI:
		if strings.TrimSpace(p.PaymentDetails.UPIID) == "" {
			return InvalidOperation("UPI id is required for payment")
		}
	case models.PaymentModeBank:
		b := p.PaymentDetails.BankDetails
		if b == nil || b.AccountNumber == "" || b.IFSCCode == "" || b.BankName == "" {
			return InvalidOperation("Bank account details are required for payment")
		}
	default:
		return InvalidOperation("Payment mode must be UPI or Bank Account")
	}
	return nil
}

// Create uploads the images and lists the product for sellerID.
func (s *ProductService) Create(ctx context.Context, sellerID string, p models.Product, images []ImageFile) (*models.Product, error) {
	if len(images) == 0 {
		return nil, InvalidOperation("Image is required")
	}
	if len(images) > maxProductImages {
		return nil, InvalidOperation("At most 4 images are allowed")
	}
	if strings.TrimSpace(p.Title) == "" {
		return nil, InvalidOperation("Title is required")
	}
	if p.Price < 0 || p.FinalPrice < 0 {
		return nil, InvalidOperation("Price cannot be negative")
	}
	if err := validatePayoutDetails(&p); err != nil {
		return nil, err
	}

	urls := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			rc, err := img.Open()
			if err != nil {
				return err
			}
			defer rc.Close()
			urls[i], err = s.uploader.Upload(gctx, img.Filename, rc)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Internal("Failed to upload images", err)
	}

	p.ID = ""
	p.SellerID = sellerID
	p.Images = urls
	if err := s.products.Create(ctx, &p); err != nil {
		return nil, Internal("Failed to create product", err)
	}
	slog.Info("Product created", "product_id", p.ID, "seller_id", sellerID, "images", len(urls))
	return &p, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "Product not found")
	}
	return p, nil
}

// List returns every product newest first.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, Internal("Failed to load products", err)
	}
	return products, nil
}
