package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"marketplace-service/models"
)

type mysqlUsers struct{ s *MySQLStore }

const userColumns = `id, name, email, password_hash, google_id, profile_picture, phone_number,
	is_verified, verification_token, reset_password_token, reset_password_expires,
	agree_terms, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var (
		u       models.User
		expires sql.NullTime
		role    string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.GoogleID, &u.ProfilePicture,
		&u.PhoneNumber, &u.IsVerified, &u.VerificationToken, &u.ResetPasswordToken, &expires,
		&u.AgreeTerms, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	if expires.Valid {
		t := expires.Time
		u.ResetPasswordExpires = &t
	}
	u.Role = models.Role(role)
	return &u, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func (r mysqlUsers) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	stamp(&u.CreatedAt, &u.UpdatedAt)
	_, err := r.s.q(ctx).ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.GoogleID, u.ProfilePicture, u.PhoneNumber,
		u.IsVerified, u.VerificationToken, u.ResetPasswordToken, nullTime(u.ResetPasswordExpires),
		u.AgreeTerms, string(u.Role), u.CreatedAt, u.UpdatedAt,
	)
	return translate(err)
}

func (r mysqlUsers) getOne(ctx context.Context, where string, args ...any) (*models.User, error) {
	row := r.s.q(ctx).QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+where+" LIMIT 1", args...)
	return scanUser(row)
}

func (r mysqlUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r mysqlUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email = ?", email)
}

func (r mysqlUsers) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	if googleID == "" {
		return nil, ErrNotFound
	}
	return r.getOne(ctx, "google_id = ?", googleID)
}

func (r mysqlUsers) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return r.getOne(ctx, "verification_token = ?", token)
}

func (r mysqlUsers) GetByResetToken(ctx context.Context, token string, at time.Time) (*models.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return r.getOne(ctx, "reset_password_token = ? AND reset_password_expires > ?", token, at)
}

func (r mysqlUsers) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = now()
	res, err := r.s.q(ctx).ExecContext(ctx, `
		UPDATE users SET name = ?, email = ?, password_hash = ?, google_id = ?, profile_picture = ?,
			phone_number = ?, is_verified = ?, verification_token = ?, reset_password_token = ?,
			reset_password_expires = ?, agree_terms = ?, role = ?, updated_at = ?
		WHERE id = ?`,
		u.Name, u.Email, u.PasswordHash, u.GoogleID, u.ProfilePicture, u.PhoneNumber, u.IsVerified,
		u.VerificationToken, u.ResetPasswordToken, nullTime(u.ResetPasswordExpires), u.AgreeTerms,
		string(u.Role), u.UpdatedAt, u.ID,
	)
	if err != nil {
		return translate(err)
	}
	return requireRow(ctx, r.s, res, "users", u.ID)
}

func (r mysqlUsers) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.s.q(ctx), "users")
}

// requireRow distinguishes "no such id" from "nothing changed", since MySQL
// reports zero affected rows for both.
func requireRow(ctx context.Context, s *MySQLStore, res sql.Result, table, id string) error {
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	var exists int
	err := s.q(ctx).QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&exists)
	return translate(err)
}
