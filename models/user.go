package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"-"`
	GoogleID             string     `json:"googleId,omitempty"`
	ProfilePicture       string     `json:"profilePicture,omitempty"`
	PhoneNumber          string     `json:"phoneNumber,omitempty"`
	IsVerified           bool       `json:"isVerified"`
	VerificationToken    string     `json:"-"`
	ResetPasswordToken   string     `json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`
	AgreeTerms           bool       `json:"agreeTerms"`
	Role                 Role       `json:"role"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// SellerSummary is what the admin needs to pay a seller out.
type SellerSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

func (u *User) SellerSummary() *SellerSummary {
	return &SellerSummary{ID: u.ID, Name: u.Name, Email: u.Email, PhoneNumber: u.PhoneNumber}
}

// GoogleProfile is the identity returned by the Google userinfo endpoint.
type GoogleProfile struct {
	ID      string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}
