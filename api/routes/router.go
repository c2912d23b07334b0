package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghbuys/marketplace-backend/api/controllers"
	webhookcontrollers "github.com/ghbuys/marketplace-backend/api/controllers/webhooks"
	"github.com/ghbuys/marketplace-backend/api/middleware"
	"github.com/ghbuys/marketplace-backend/internal/auth"
	"github.com/ghbuys/marketplace-backend/internal/orders"
	"github.com/ghbuys/marketplace-backend/internal/payments"
	"github.com/ghbuys/marketplace-backend/internal/payouts"
	"github.com/ghbuys/marketplace-backend/internal/products"
	"github.com/ghbuys/marketplace-backend/internal/vendors"
	paystackwebhook "github.com/ghbuys/marketplace-backend/internal/webhooks/paystack"
	"github.com/ghbuys/marketplace-backend/pkg/config"
	"github.com/ghbuys/marketplace-backend/pkg/db"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
	"github.com/ghbuys/marketplace-backend/pkg/logger"
	"github.com/ghbuys/marketplace-backend/pkg/metrics"
	"github.com/ghbuys/marketplace-backend/pkg/paystack"
	"github.com/ghbuys/marketplace-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	AuthService auth.Service

	VendorService  vendors.Service
	OrderService   orders.Service
	PaymentService payments.Service
	PayoutService  payouts.Service
	ProductService products.Service

	WebhookService   *paystackwebhook.Service
	WebhookGuard     *paystackwebhook.IdempotencyGuard
	WebhookEventRepo paystackwebhook.EventRepository
	PaystackClient   *paystack.Client

	VendorRepo  vendors.Repository
	PaymentRepo payments.Repository

	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(),
	)

	if p.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", p.MetricsHandler)
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.DB, p.Redis, logg))
	})

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/paystack", webhookcontrollers.PaystackWebhook(p.WebhookService, p.PaystackClient, p.WebhookGuard, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.AuthRegister(p.AuthService, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AdminAuthLogin(p.AuthService, logg))
	})

	r.Route("/api/v1/reference", func(r chi.Router) {
		r.Get("/regions", controllers.ReferenceRegions())
		r.Get("/momo-providers", controllers.ReferenceMomoProviders())
		r.Get("/banks", controllers.ReferenceBanks())
		r.Get("/categories", controllers.ReferenceCategories())
	})

	r.Route("/api/v1/vendors", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.VendorRegister(p.VendorService, logg))
		r.Get("/", controllers.VendorList(p.VendorService, logg))
		r.Get("/{handle}", controllers.VendorGet(p.VendorService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(p.ProductService, logg))
		r.Get("/{slug}", controllers.ProductDetail(p.ProductService, logg))
	})

	// Guest checkout: orders and payment initiation do not require a
	// signed-in customer, only the webhook signature protects state.
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.With(middleware.Idempotency(p.Redis, logg)).Post("/", controllers.OrderCreate(p.OrderService, logg))
		r.Get("/{orderId}", controllers.OrderGet(p.OrderService, logg))
	})

	r.Route("/api/v1/payments", func(r chi.Router) {
		r.With(middleware.Idempotency(p.Redis, logg)).Post("/initialize", controllers.PaymentInitialize(p.PaymentService, logg))
		r.With(middleware.Idempotency(p.Redis, logg)).Post("/mobile-money", controllers.PaymentMomo(p.PaymentService, logg))
		r.Get("/verify/{reference}", controllers.PaymentVerify(p.PaymentService, logg))
		r.Get("/mobile-money/providers", controllers.ReferenceMomoProviders())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(p.Redis, logg))

		r.Get("/v1/me/orders", controllers.OrderList(p.OrderService, logg))

		r.Route("/v1/vendor", func(r chi.Router) {
			r.Use(middleware.RequireVendorContext(logg))
			r.Get("/orders", controllers.VendorOrderList(p.OrderService, logg))
			r.Get("/payouts", controllers.VendorPayoutList(p.PayoutService, logg))
			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.VendorProductList(p.ProductService, logg))
				r.Post("/", controllers.VendorProductCreate(p.ProductService, logg))
				r.Put("/{productId}", controllers.VendorProductUpdate(p.ProductService, logg))
			})
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
		r.Use(middleware.Idempotency(p.Redis, logg))

		r.Route("/v1/vendors", func(r chi.Router) {
			r.Get("/pending", controllers.AdminVendorsPending(p.VendorService, logg))
			r.Post("/{vendorId}/verify", controllers.AdminVendorVerify(p.VendorService, logg))
		})
		r.Route("/v1/payouts", func(r chi.Router) {
			r.Get("/", controllers.AdminPayoutList(p.PayoutService, logg))
		})
		r.Route("/v1/payments", func(r chi.Router) {
			r.Get("/", controllers.PaymentHistory(p.PaymentService, logg))
			r.Post("/{reference}/refund", controllers.AdminPaymentRefund(p.PaymentService, logg))
		})
		r.Route("/v1/webhooks", func(r chi.Router) {
			r.Get("/unmatched", controllers.AdminWebhookUnmatched(p.WebhookEventRepo, logg))
		})
		r.Get("/v1/stats", controllers.AdminStats(p.VendorRepo, p.PaymentRepo, logg))
	})

	return r
}
