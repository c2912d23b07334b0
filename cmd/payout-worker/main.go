package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ghbuys/marketplace-backend/internal/cron"
	"github.com/ghbuys/marketplace-backend/internal/orders"
	"github.com/ghbuys/marketplace-backend/internal/payments"
	"github.com/ghbuys/marketplace-backend/internal/payouts"
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

const lockKeyFormat = "ghb:payout-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "payout-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "payout-worker"

	logg = logger.New(logger.Options{
		ServiceName: "payout-worker",
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

	paymentRepo := payments.NewRepository(dbClient.DB())
	payoutRepo := payouts.NewRepository(dbClient.DB())
	vendorRepo := vendors.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	webhookEventRepo := paystackwebhook.NewEventRepository(dbClient.DB())

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

	dispatchJob, err := cron.NewPayoutDispatchJob(cron.PayoutDispatchJobParams{
		Logger:     logg,
		Dispatcher: payoutService,
		BatchSize:  cfg.Payouts.BatchSize,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payout dispatch job", err)
		os.Exit(1)
	}

	reconcileJob, err := cron.NewPaymentReconcileJob(cron.PaymentReconcileJobParams{
		Logger:   logg,
		Stale:    paymentRepo,
		Verifier: paymentService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payment reconcile job", err)
		os.Exit(1)
	}

	retentionJob, err := cron.NewWebhookRetentionJob(cron.WebhookRetentionJobParams{
		Logger:     logg,
		Repository: webhookEventRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook retention job", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 2*cfg.Payouts.PollInterval)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker lock", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry(dispatchJob, reconcileJob, retentionJob)
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Payouts.PollInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting payout worker")

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(prometheus.DefaultGatherer))
		if err := http.ListenAndServe(cfg.Payouts.MetricsAddr, mux); err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "metrics server stopped unexpectedly", err)
		}
	}()

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "payout worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "payout worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
