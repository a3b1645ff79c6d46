package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"marketplace-service/models"
	"marketplace-service/repository"
)

func boolPtr(b bool) *bool { return &b }

func TestRegisterVerifyLogin(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	mail := &fakeMailer{}
	svc := NewAuthService(store, mail, "http://shop.example.com/")

	user, err := svc.Register(ctx, RegisterInput{Name: "Asha", Email: " Asha@Example.com ", Password: "s3cret", AgreeTerms: boolPtr(true)})
	if err != nil {
		t.Fatal(err)
	}
	if user.Email != "asha@example.com" || user.IsVerified || user.PasswordHash == "s3cret" {
		t.Fatalf("user %+v", user)
	}
	if len(mail.sent) != 1 || !strings.HasPrefix(mail.sent[0].Link, "http://shop.example.com/verify-email/") {
		t.Fatalf("verification mail %+v", mail.sent)
	}

	_, err = svc.Login(ctx, "asha@example.com", "s3cret")
	assertKind(t, err, KindInvalidOperation)
	if !strings.Contains(MessageOf(err), "verify your email") {
		t.Fatalf("message %q", MessageOf(err))
	}

	token := strings.TrimPrefix(mail.sent[0].Link, "http://shop.example.com/verify-email/")
	if _, err := svc.VerifyEmail(ctx, token); err != nil {
		t.Fatal(err)
	}
	_, err = svc.VerifyEmail(ctx, token)
	assertKind(t, err, KindNotFound)

	if _, err := svc.Login(ctx, "ASHA@example.com", "s3cret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	_, err = svc.Login(ctx, "asha@example.com", "wrong")
	if MessageOf(err) != "Invalid email or password" {
		t.Fatalf("wrong password: %v", err)
	}
	_, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	if MessageOf(err) != "Invalid email or password" {
		t.Fatalf("unknown email: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	svc := NewAuthService(store, nil, "http://shop.example.com")

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "x"})
	assertKind(t, err, KindInvalidOperation)
	_, err = svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "x", AgreeTerms: boolPtr(false)})
	assertKind(t, err, KindInvalidOperation)

	if _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "x", AgreeTerms: boolPtr(true)}); err != nil {
		t.Fatalf("register without mailer: %v", err)
	}
	_, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "A@example.com", Password: "y", AgreeTerms: boolPtr(true)})
	if MessageOf(err) != "User already exists" {
		t.Fatalf("duplicate: %v", err)
	}
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	store := repository.NewMemory()
	svc := NewAuthService(store, &fakeMailer{err: errors.New("smtp down")}, "http://shop.example.com")
	if _, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@example.com", Password: "x", AgreeTerms: boolPtr(true)}); err != nil {
		t.Fatalf("register: %v", err)
	}
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	mail := &fakeMailer{}
	svc := NewAuthService(store, mail, "http://shop.example.com")
	_, _ = svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "old", AgreeTerms: boolPtr(true)})

	err := svc.ForgotPassword(ctx, "missing@example.com")
	assertKind(t, err, KindInvalidOperation)

	if err := svc.ForgotPassword(ctx, "a@example.com"); err != nil {
		t.Fatal(err)
	}
	reset := mail.sent[len(mail.sent)-1]
	if reset.Kind != "reset" {
		t.Fatalf("mail %+v", reset)
	}
	token := strings.TrimPrefix(reset.Link, "http://shop.example.com/reset-password/")

	err = svc.ResetPassword(ctx, "bogus", "new")
	assertKind(t, err, KindInvalidOperation)
	if err := svc.ResetPassword(ctx, token, "new"); err != nil {
		t.Fatal(err)
	}
	err = svc.ResetPassword(ctx, token, "again")
	assertKind(t, err, KindInvalidOperation)

	u, _ := store.Users.GetByEmail(ctx, "a@example.com")
	u.IsVerified = true
	_ = store.Users.Update(ctx, u)
	if _, err := svc.Login(ctx, "a@example.com", "new"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestResetTokenExpires(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	svc := NewAuthService(store, &fakeMailer{}, "http://shop.example.com")
	past := time.Now().UTC().Add(-time.Second)
	u := &models.User{Email: "a@example.com", ResetPasswordToken: "tok", ResetPasswordExpires: &past}
	_ = store.Users.Create(ctx, u)

	err := svc.ResetPassword(ctx, "tok", "new")
	assertKind(t, err, KindInvalidOperation)
}

func TestForgotPasswordMailFailure(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	seedUser(t, store, "a@example.com", models.RoleUser)
	svc := NewAuthService(store, &fakeMailer{err: errors.New("smtp down")}, "http://shop.example.com")
	err := svc.ForgotPassword(ctx, "a@example.com")
	assertKind(t, err, KindInternal)
	if MessageOf(err) != "Error sending email" {
		t.Fatalf("message %q", MessageOf(err))
	}
}

func TestGoogleLogin(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	svc := NewAuthService(store, nil, "http://shop.example.com")
	existing := &models.User{Name: "Ravi", Email: "ravi@example.com", Role: models.RoleUser}
	_ = store.Users.Create(ctx, existing)

	linked, err := svc.GoogleLogin(ctx, models.GoogleProfile{ID: "g-1", Email: "Ravi@example.com", Picture: "pic"})
	if err != nil {
		t.Fatal(err)
	}
	if linked.ID != existing.ID || linked.GoogleID != "g-1" || !linked.IsVerified {
		t.Fatalf("linked %+v", linked)
	}
	again, err := svc.GoogleLogin(ctx, models.GoogleProfile{ID: "g-1"})
	if err != nil || again.ID != existing.ID {
		t.Fatalf("lookup by google id: %+v, %v", again, err)
	}

	created, err := svc.GoogleLogin(ctx, models.GoogleProfile{ID: "g-2", Email: "new@example.com", Name: "New"})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == existing.ID || !created.IsVerified || created.Role != models.RoleUser {
		t.Fatalf("created %+v", created)
	}

	_, err = svc.GoogleLogin(ctx, models.GoogleProfile{ID: "g-3"})
	assertKind(t, err, KindUnauthorized)
	_, err = svc.GoogleLogin(ctx, models.GoogleProfile{})
	assertKind(t, err, KindUnauthorized)
}
