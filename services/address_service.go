package services

import (
	"context"
	"strings"

	"marketplace-service/models"
	"marketplace-service/repository"
)

type AddressInput struct {
	AddressID    string
	AddressLine1 string
	AddressLine2 string
	PhoneNumber  string
	City         string
	State        string
	Pincode      string
}

type AddressService struct {
	addresses repository.AddressRepository
}

func NewAddressService(store *repository.Store) *AddressService {
	return &AddressService{addresses: store.Addresses}
}

// CreateOrUpdate saves a new address, or rewrites the user's address named by
// in.AddressID.
func (s *AddressService) CreateOrUpdate(ctx context.Context, userID string, in AddressInput) (*models.Address, bool, error) {
	for _, v := range []string{in.AddressLine1, in.PhoneNumber, in.City, in.State, in.Pincode} {
		if strings.TrimSpace(v) == "" {
			return nil, false, InvalidOperation("All fields are required")
		}
	}

	if in.AddressID != "" {
		a, err := s.addresses.GetByID(ctx, in.AddressID)
		if err != nil {
			return nil, false, lookup(err, "Address not found")
		}
		if a.UserID != userID {
			return nil, false, NotFound("Address not found")
		}
		a.AddressLine1, a.AddressLine2 = in.AddressLine1, in.AddressLine2
		a.PhoneNumber, a.City, a.State, a.Pincode = in.PhoneNumber, in.City, in.State, in.Pincode
		if err := s.addresses.Update(ctx, a); err != nil {
			return nil, false, Internal("Failed to update address", err)
		}
		return a, false, nil
	}

	a := &models.Address{
		UserID:       userID,
		AddressLine1: in.AddressLine1,
		AddressLine2: in.AddressLine2,
		PhoneNumber:  in.PhoneNumber,
		City:         in.City,
		State:        in.State,
		Pincode:      in.Pincode,
	}
	if err := s.addresses.Create(ctx, a); err != nil {
		return nil, false, Internal("Failed to create address", err)
	}
	return a, true, nil
}

func (s *AddressService) ListByUser(ctx context.Context, userID string) ([]models.Address, error) {
	list, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, Internal("Failed to load addresses", err)
	}
	if len(list) == 0 {
		return nil, NotFound("User Address not found")
	}
	return list, nil
}
