package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	Port        string
	FrontendURL string

	DBDriver   string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	JWTSecret    string
	TokenTTL     time.Duration
	CookieSecure bool

	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	RazorpayKey           string
	RazorpaySecret        string
	RazorpayWebhookSecret string
	PaymentCurrency       string
	PaymentTimeout        time.Duration

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	RabbitMQURL     string
	OrderExchange   string
	OrderQueue      string
	DeadLetterQueue string
	DelayExchange   string
	MaxPriority     int
}

// LoadConfig reads the process environment. A .env file in the working
// directory is applied first and never overrides variables already set.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:         getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: getEnvFromFile("DB_PASSWORD_FILE", "DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBName:     getEnv("DB_NAME", "marketplace"),

		JWTSecret:    getEnvFromFile("JWT_SECRET_FILE", "JWT_SECRET", "change-me"),
		TokenTTL:     getDuration("TOKEN_TTL", 24*time.Hour),
		CookieSecure: getBool("COOKIE_SECURE", false),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnvFromFile("GOOGLE_CLIENT_SECRET_FILE", "GOOGLE_CLIENT_SECRET", ""),
		GoogleCallbackURL:  getEnv("GOOGLE_CALLBACK_URL", "http://localhost:8080/api/auth/google/callback"),

		RazorpayKey:           getEnv("RAZORPAY_KEY", ""),
		RazorpaySecret:        getEnvFromFile("RAZORPAY_SECRET_FILE", "RAZORPAY_SECRET", ""),
		RazorpayWebhookSecret: getEnvFromFile("RAZORPAY_WEBHOOK_SECRET_FILE", "RAZORPAY_WEBHOOK_SECRET", ""),
		PaymentCurrency:       getEnv("PAYMENT_CURRENCY", "INR"),
		PaymentTimeout:        getDuration("PAYMENT_TIMEOUT", 30*time.Minute),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnvFromFile("CLOUDINARY_API_SECRET_FILE", "CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "marketplace/products"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("EMAIL_USER", ""),
		SMTPPassword: getEnvFromFile("EMAIL_PASS_FILE", "EMAIL_PASS", ""),
		MailFrom:     getEnv("MAIL_FROM", ""),

		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
		OrderExchange:   getEnv("ORDER_EXCHANGE", "orders_exchange"),
		OrderQueue:      getEnv("ORDER_QUEUE", "orders_queue"),
		DeadLetterQueue: getEnv("DEAD_LETTER_QUEUE", "dead_letter_queue"),
		DelayExchange:   getEnv("DELAY_EXCHANGE", "delay_exchange"),
		MaxPriority:     10,
	}
}

// IsProduction reports whether error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFromFile(fileKey, envKey, defaultValue string) string {
	if filePath := os.Getenv(fileKey); filePath != "" {
		if content, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return getEnv(envKey, defaultValue)
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
