package services

import (
	"context"
	"errors"
	"strings"

	"marketplace-service/models"
	"marketplace-service/repository"
)

type ProfileInput struct {
	Name        *string
	Email       *string
	PhoneNumber *string
}

type UserService struct {
	users repository.UserRepository
}

func NewUserService(store *repository.Store) *UserService {
	return &UserService{users: store.Users}
}

// UpdateProfile changes the contact fields of userID that are provided.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookup(err, "User not found")
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, InvalidOperation("Name cannot be empty")
		}
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email == "" {
			return nil, InvalidOperation("Email cannot be empty")
		}
		user.Email = email
	}
	if in.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
	}
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, InvalidOperation("Email is already in use")
		}
		return nil, Internal("Failed to update profile", err)
	}
	return user, nil
}
