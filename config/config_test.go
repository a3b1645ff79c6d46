package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("PAYMENT_TIMEOUT", "")
	t.Setenv("APP_ENV", "")
	cfg := LoadConfig()
	if cfg.Port != "8080" {
		t.Fatalf("port %q", cfg.Port)
	}
	if cfg.PaymentTimeout != 30*time.Minute {
		t.Fatalf("payment timeout %v", cfg.PaymentTimeout)
	}
	if cfg.PaymentCurrency != "INR" {
		t.Fatalf("currency %q", cfg.PaymentCurrency)
	}
	if cfg.IsProduction() {
		t.Fatalf("default env must not be production")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("COOKIE_SECURE", "true")
	cfg := LoadConfig()
	if !cfg.IsProduction() {
		t.Fatalf("expected production")
	}
	if cfg.SMTPPort != 2525 || cfg.TokenTTL != 2*time.Hour || !cfg.CookieSecure {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestSecretFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(path, []byte("from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("JWT_SECRET_FILE", path)
	if got := LoadConfig().JWTSecret; got != "from-file" {
		t.Fatalf("secret %q", got)
	}

	t.Setenv("JWT_SECRET_FILE", filepath.Join(t.TempDir(), "missing"))
	if got := LoadConfig().JWTSecret; got != "from-env" {
		t.Fatalf("fallback secret %q", got)
	}
}
