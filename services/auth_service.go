package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"marketplace-service/models"
	"marketplace-service/repository"
)

const resetTokenTTL = time.Hour

type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	AgreeTerms *bool
}

type AuthService struct {
	users       repository.UserRepository
	mailer      Mailer
	frontendURL string
}

// NewAuthService wires account management. mailer may be nil, in which case
// links are only logged.
func NewAuthService(store *repository.Store, mailer Mailer, frontendURL string) *AuthService {
	return &AuthService{users: store.Users, mailer: mailer, frontendURL: strings.TrimRight(frontendURL, "/")}
}

func randomToken() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified account and mails a verification link.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	if strings.TrimSpace(in.Name) == "" || email == "" || in.Password == "" || in.AgreeTerms == nil {
		return nil, InvalidOperation("All fields are required")
	}
	if !*in.AgreeTerms {
		return nil, InvalidOperation("You must agree to the terms and conditions")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, InvalidOperation("User already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, Internal("Failed to register user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, Internal("Failed to register user", err)
	}
	token, err := randomToken()
	if err != nil {
		return nil, Internal("Failed to register user", err)
	}

	user := &models.User{
		Name:              strings.TrimSpace(in.Name),
		Email:             email,
		PasswordHash:      string(hash),
		AgreeTerms:        true,
		VerificationToken: token,
		Role:              models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, InvalidOperation("User already exists")
		}
		return nil, Internal("Failed to register user", err)
	}

	link := s.frontendURL + "/verify-email/" + token
	if s.mailer == nil {
		slog.Info("Mailer disabled, verification link", "email", email, "link", link)
	} else if err := s.mailer.SendVerification(ctx, user.Email, user.Name, link); err != nil {
		// the account exists either way; the user can ask for a reset link
		slog.Error("Failed to send verification email", "email", email, "err", err)
	}
	return user, nil
}

// VerifyEmail consumes a verification token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, NotFound("User not found")
	}
	user, err := s.users.GetByVerificationToken(ctx, token)
	if err != nil {
		return nil, lookup(err, "User not found")
	}
	user.IsVerified = true
	user.VerificationToken = ""
	if err := s.users.Update(ctx, user); err != nil {
		return nil, Internal("Failed to verify email", err)
	}
	return user, nil
}

// Login checks credentials of a verified account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, InvalidOperation("All fields are required")
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, Internal("Failed to login", err)
	}
	if user == nil || user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, InvalidOperation("Invalid email or password")
	}
	if !user.IsVerified {
		return nil, InvalidOperation("Please verify your email before login. Check your email inbox to verify")
	}
	return user, nil
}

// ForgotPassword issues a one hour reset token and mails the link.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return InvalidOperation("Email is required")
	}
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return InvalidOperation("No account found with this email")
	}
	if err != nil {
		return Internal("Failed to send reset link", err)
	}

	token, err := randomToken()
	if err != nil {
		return Internal("Failed to send reset link", err)
	}
	expires := time.Now().UTC().Add(resetTokenTTL)
	user.ResetPasswordToken = token
	user.ResetPasswordExpires = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return Internal("Failed to send reset link", err)
	}

	link := s.frontendURL + "/reset-password/" + token
	if s.mailer == nil {
		slog.Info("Mailer disabled, reset link", "email", email, "link", link)
		return nil
	}
	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, link); err != nil {
		return Internal("Error sending email", err)
	}
	return nil
}

// ResetPassword replaces the password of the account holding an unexpired
// reset token. The token is single use.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return InvalidOperation("New password is required")
	}
	user, err := s.users.GetByResetToken(ctx, token, time.Now().UTC())
	if errors.Is(err, repository.ErrNotFound) || token == "" {
		return InvalidOperation("Invalid or expired reset password token")
	}
	if err != nil {
		return Internal("Failed to reset password", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return Internal("Failed to reset password", err)
	}
	user.PasswordHash = string(hash)
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = nil
	if err := s.users.Update(ctx, user); err != nil {
		return Internal("Failed to reset password", err)
	}
	return nil
}

// CurrentUser returns the account behind an authenticated request.
func (s *AuthService) CurrentUser(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, Unauthorized("Unauthorized please login to access")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "User not found")
	}
	return user, nil
}

// GoogleLogin finds the account linked to a Google identity, links an
// existing account with the same email, or creates a verified one.
func (s *AuthService) GoogleLogin(ctx context.Context, p models.GoogleProfile) (*models.User, error) {
	if p.ID == "" {
		return nil, Unauthorized("Google authentication failed")
	}
	user, err := s.users.GetByGoogleID(ctx, p.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, Internal("Failed to login with Google", err)
	}

	email := normalizeEmail(p.Email)
	if email == "" {
		return nil, Unauthorized("Google account has no email address")
	}
	user, err = s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		user.GoogleID = p.ID
		user.IsVerified = true
		if user.ProfilePicture == "" {
			user.ProfilePicture = p.Picture
		}
		if err := s.users.Update(ctx, user); err != nil {
			return nil, Internal("Failed to login with Google", err)
		}
		return user, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, Internal("Failed to login with Google", err)
	}

	user = &models.User{
		Name:           p.Name,
		Email:          email,
		GoogleID:       p.ID,
		ProfilePicture: p.Picture,
		IsVerified:     true,
		AgreeTerms:     true,
		Role:           models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, Internal("Failed to login with Google", err)
	}
	slog.Info("Created account from Google login", "user_id", user.ID)
	return user, nil
}
