package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"marketplace-service/models"
	"marketplace-service/repository"
)

func images(n int) []ImageFile {
	out := make([]ImageFile, n)
	for i := range out {
		out[i] = ImageFile{
			Filename: "img.jpg",
			Open: func() (io.ReadCloser, error) {
				return io.NopCloser(strings.NewReader("jpeg bytes")), nil
			},
		}
	}
	return out
}

func upiProduct() models.Product {
	return models.Product{
		Title:          "Physics",
		Price:          400,
		FinalPrice:     350,
		PaymentMode:    models.PaymentModeUPI,
		PaymentDetails: models.SellerPaymentDetails{UPIID: "me@upi"},
	}
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	up := &fakeUploader{}
	svc := NewProductService(store, up)

	p, err := svc.Create(ctx, "seller-1", upiProduct(), images(3))
	if err != nil {
		t.Fatal(err)
	}
	if p.SellerID != "seller-1" || len(p.Images) != 3 || up.calls != 3 {
		t.Fatalf("product %+v, uploads %d", p, up.calls)
	}
	got, err := svc.Get(ctx, p.ID)
	if err != nil || got.Title != "Physics" {
		t.Fatalf("get %+v, %v", got, err)
	}
	list, _ := svc.List(ctx)
	if len(list) != 1 {
		t.Fatalf("list %d", len(list))
	}
	_, err = svc.Get(ctx, "missing")
	assertKind(t, err, KindNotFound)
}

func TestCreateProductValidation(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	up := &fakeUploader{}
	svc := NewProductService(store, up)

	noUPI := upiProduct()
	noUPI.PaymentDetails.UPIID = ""
	bank := upiProduct()
	bank.PaymentMode = models.PaymentModeBank
	bank.PaymentDetails = models.SellerPaymentDetails{BankDetails: &models.BankDetails{AccountNumber: "1"}}
	noMode := upiProduct()
	noMode.PaymentMode = ""

	cases := map[string]struct {
		p      models.Product
		images int
	}{
		"no images":       {upiProduct(), 0},
		"too many images": {upiProduct(), 5},
		"missing upi id":  {noUPI, 1},
		"incomplete bank": {bank, 1},
		"no payment mode": {noMode, 1},
	}
	for name, c := range cases {
		_, err := svc.Create(ctx, "seller-1", c.p, images(c.images))
		if KindOf(err) != KindInvalidOperation || err == nil {
			t.Errorf("%s: got %v", name, err)
		}
	}
	if up.calls != 0 {
		t.Fatalf("invalid products must not upload, got %d uploads", up.calls)
	}
	if n, _ := store.Products.Count(ctx); n != 0 {
		t.Fatalf("invalid product stored")
	}
}

func TestCreateProductUploadFailure(t *testing.T) {
	store := repository.NewMemory()
	svc := NewProductService(store, &fakeUploader{fail: true})
	_, err := svc.Create(context.Background(), "seller-1", upiProduct(), images(2))
	assertKind(t, err, KindInternal)
	if n, _ := store.Products.Count(context.Background()); n != 0 {
		t.Fatalf("product stored after failed upload")
	}
}
