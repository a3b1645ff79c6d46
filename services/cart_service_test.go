package services

import (
	"context"
	"errors"
	"testing"

	"marketplace-service/models"
	"marketplace-service/repository"
)

func TestAddItemSumsQuantity(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	seller := seedUser(t, store, "seller@example.com", models.RoleUser)
	buyer := seedUser(t, store, "buyer@example.com", models.RoleUser)
	p := seedProduct(t, store, seller.ID, 500)
	svc := NewCartService(store)

	if _, err := svc.AddItem(ctx, buyer.ID, p.ID, 1); err != nil {
		t.Fatal(err)
	}
	cart, err := svc.AddItem(ctx, buyer.ID, p.ID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 3 {
		t.Fatalf("items %+v", cart.Items)
	}

	got, err := svc.GetCart(ctx, buyer.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Items[0].Product == nil || got.Items[0].Product.ID != p.ID {
		t.Fatalf("product not resolved: %+v", got.Items[0])
	}
}

func TestAddItemRejects(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	seller := seedUser(t, store, "seller@example.com", models.RoleUser)
	p := seedProduct(t, store, seller.ID, 500)
	svc := NewCartService(store)

	_, err := svc.AddItem(ctx, seller.ID, p.ID, 1)
	assertKind(t, err, KindInvalidOperation)

	_, err = svc.AddItem(ctx, "buyer", p.ID, 0)
	assertKind(t, err, KindInvalidOperation)

	_, err = svc.AddItem(ctx, "buyer", "missing", 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if MessageOf(err) != "Product not found" {
		t.Fatalf("message %q", MessageOf(err))
	}
}

func TestRemoveItemAndEmptyCart(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	seller := seedUser(t, store, "seller@example.com", models.RoleUser)
	p := seedProduct(t, store, seller.ID, 500)
	svc := NewCartService(store)

	_, err := svc.RemoveItem(ctx, "buyer", p.ID)
	assertKind(t, err, KindNotFound)

	empty, err := svc.GetCart(ctx, "buyer")
	if err != nil || empty.Items == nil || len(empty.Items) != 0 {
		t.Fatalf("empty cart %+v, %v", empty, err)
	}

	_, _ = svc.AddItem(ctx, "buyer", p.ID, 1)
	cart, err := svc.RemoveItem(ctx, "buyer", "not-in-cart")
	if err != nil || len(cart.Items) != 1 {
		t.Fatalf("removing an absent product changed the cart: %+v, %v", cart, err)
	}
	cart, err = svc.RemoveItem(ctx, "buyer", p.ID)
	if err != nil || len(cart.Items) != 0 {
		t.Fatalf("cart %+v, %v", cart, err)
	}
}
