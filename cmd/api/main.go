package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ghbuys/marketplace-backend/api/routes"
	"github.com/ghbuys/marketplace-backend/internal/auth"
	"github.com/ghbuys/marketplace-backend/internal/notifications"
	"github.com/ghbuys/marketplace-backend/internal/orders"
	"github.com/ghbuys/marketplace-backend/internal/payments"
	"github.com/ghbuys/marketplace-backend/internal/payouts"
	"github.com/ghbuys/marketplace-backend/internal/products"
	"github.com/ghbuys/marketplace-backend/internal/users"
	"github.com/ghbuys/marketplace-backend/internal/vendors"
	paystackwebhook "github.com/ghbuys/marketplace-backend/internal/webhooks/paystack"
	"github.com/ghbuys/marketplace-backend/pkg/config"
	"github.com/ghbuys/marketplace-backend/pkg/db"
	"github.com/ghbuys/marketplace-backend/pkg/logger"
	"github.com/ghbuys/marketplace-backend/pkg/metrics"
	"github.com/ghbuys/marketplace-backend/pkg/migrate"
	"github.com/ghbuys/marketplace-backend/pkg/paystack"
	"github.com/ghbuys/marketplace-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	paystackClient, err := paystack.NewClient(context.Background(), cfg.Paystack, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap paystack client", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	vendorRepo := vendors.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	paymentRepo := payments.NewRepository(dbClient.DB())
	payoutRepo := payouts.NewRepository(dbClient.DB())
	webhookEventRepo := paystackwebhook.NewEventRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:        userRepo,
		VendorAdminRepo: vendorRepo,
		JWTConfig:       cfg.JWT,
		PasswordConfig:  cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	mailer, err := notifications.NewMailer(notifications.NewLogSender(logg), cfg.Email)
	if err != nil {
		logg.Error(context.Background(), "failed to create mailer", err)
		os.Exit(1)
	}

	vendorService, err := vendors.NewService(vendors.ServiceParams{
		Repo:              vendorRepo,
		Users:             userRepo,
		TransactionRunner: dbClient,
		Mailer:            mailer,
		PasswordConfig:    cfg.Password,
		Logger:            logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create vendor service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orderRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	paymentService, err := payments.NewService(payments.ServiceParams{
		Repo:              paymentRepo,
		Orders:            orderRepo,
		Gateway:           paystackClient,
		TransactionRunner: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	payoutService, err := payouts.NewService(payouts.ServiceParams{
		Repo:    payoutRepo,
		Vendors: vendorRepo,
		Gateway: paystackClient,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payout service", err)
		os.Exit(1)
	}

	webhookService, err := paystackwebhook.NewService(paystackwebhook.ServiceParams{
		Payments:          paymentRepo,
		Orders:            orderRepo,
		PayoutRepo:        payoutRepo,
		PayoutFanOut:      payoutService,
		Events:            webhookEventRepo,
		TransactionRunner: dbClient,
		Logger:            logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	webhookGuard, err := paystackwebhook.NewIdempotencyGuard(redisClient, cfg.Paystack.EventGuardTTL, "paystack-webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:           cfg,
			Logger:           logg,
			DB:               dbClient,
			Redis:            redisClient,
			AuthService:      authService,
			VendorService:    vendorService,
			OrderService:     orderService,
			PaymentService:   paymentService,
			PayoutService:    payoutService,
			ProductService:   productService,
			WebhookService:   webhookService,
			WebhookGuard:     webhookGuard,
			WebhookEventRepo: webhookEventRepo,
			PaystackClient:   paystackClient,
			VendorRepo:       vendorRepo,
			PaymentRepo:      paymentRepo,
			HTTPMetrics:      metrics.NewHTTPMetrics(prometheus.DefaultRegisterer),
			MetricsHandler:   metrics.Handler(prometheus.DefaultGatherer),
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
