package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace-service/auth"
	"marketplace-service/config"
	"marketplace-service/consumers"
	"marketplace-service/controllers"
	"marketplace-service/database"
	"marketplace-service/mailer"
	"marketplace-service/payment"
	"marketplace-service/rabbitmq"
	"marketplace-service/repository"
	"marketplace-service/routes"
	"marketplace-service/services"
	"marketplace-service/storage"
)

func setupLogger(cfg *config.Config) {
	var h slog.Handler
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(h))
}

func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}

func main() {
	// 加载配置
	cfg := config.LoadConfig()
	setupLogger(cfg)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化数据库
	var store *repository.Store
	switch cfg.DBDriver {
	case "memory":
		slog.Warn("Using in-memory store, data is lost on restart")
		store = repository.NewMemory()
	default:
		if err := database.InitDB(cfg); err != nil {
			fatal("Database initialization failed", err)
		}
		defer database.CloseDB()
		store = repository.NewMySQL(database.DB)
	}

	var m services.Mailer
	if cfg.SMTPUser != "" {
		m = mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	} else {
		slog.Warn("EMAIL_USER not set, emails are logged instead of sent")
	}

	// 初始化RabbitMQ
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		rmq, err := rabbitmq.NewRabbitMQ(cfg)
		if err != nil {
			fatal("RabbitMQ initialization failed", err)
		}
		defer rmq.Close()
		if err := rmq.SetupQueues(); err != nil {
			fatal("Failed to setup RabbitMQ queues", err)
		}
		// 启动消息消费者
		handler := services.NewOrderEventHandler(store, m)
		if err := consumers.StartOrderConsumer(ctx, rmq.Channel, cfg, handler); err != nil {
			fatal("Failed to start order consumer", err)
		}
		events = rmq
	} else {
		slog.Warn("RABBITMQ_URL not set, order events are disabled")
	}

	var uploader services.ImageUploader
	if cld, err := storage.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder); err != nil {
		slog.Warn("Image uploads unavailable", "err", err)
		uploader = storage.Unavailable{Err: err}
	} else {
		uploader = cld
	}

	var google controllers.GoogleIdentity
	if cfg.GoogleClientID != "" {
		google = auth.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)
	}

	router := routes.SetupRouter(routes.Deps{
		Config:   cfg,
		Auth:     services.NewAuthService(store, m, cfg.FrontendURL),
		Google:   google,
		Products: services.NewProductService(store, uploader),
		Carts:    services.NewCartService(store),
		Wishlist: services.NewWishlistService(store),
		Address:  services.NewAddressService(store),
		Users:    services.NewUserService(store),
		Orders:   services.NewOrderService(store, events, cfg.PaymentTimeout),
		Payments: services.NewPaymentService(store, payment.NewRazorpay(cfg.RazorpayKey, cfg.RazorpaySecret), events, cfg.PaymentCurrency, cfg.RazorpayWebhookSecret),
		Admin:    services.NewAdminService(store, events),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Marketplace service starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("Failed to start server", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown error", "err", err)
	}
}
