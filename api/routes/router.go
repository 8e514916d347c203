package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/snackstand/snackstand-backend/api/controllers"
	"github.com/snackstand/snackstand-backend/api/middleware"
	internalauth "github.com/snackstand/snackstand-backend/internal/auth"
	"github.com/snackstand/snackstand-backend/internal/cart"
	"github.com/snackstand/snackstand-backend/internal/catalog"
	"github.com/snackstand/snackstand-backend/internal/checkout"
	"github.com/snackstand/snackstand-backend/internal/feedback"
	"github.com/snackstand/snackstand-backend/internal/orders"
	"github.com/snackstand/snackstand-backend/internal/reports"
	"github.com/snackstand/snackstand-backend/pkg/auth/session"
	"github.com/snackstand/snackstand-backend/pkg/config"
	"github.com/snackstand/snackstand-backend/pkg/db"
	"github.com/snackstand/snackstand-backend/pkg/enums"
	"github.com/snackstand/snackstand-backend/pkg/logger"
	pkgredis "github.com/snackstand/snackstand-backend/pkg/redis"
)

// Services bundles everything the router hands to controllers.
type Services struct {
	Auth     internalauth.Service
	Catalog  catalog.Service
	Cart     cart.Service
	Checkout checkout.Service
	Orders   orders.Service
	Feedback feedback.Service
	Reports  reports.Service
}

// NewRouter assembles the HTTP surface: public health and catalog routes,
// rate-limited auth routes, and the authenticated API behind bearer tokens.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	cache *pkgredis.Client,
	sessions *session.Manager,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Logging(logg))
	r.Use(middleware.CORS())

	r.Get("/health/live", controllers.HealthLive(cfg))
	r.Get("/health/ready", controllers.HealthReady(cfg, logg, database, cache))

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
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

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, cache, logg), middleware.Idempotency(cache, logg)).
				Post("/register", controllers.AuthRegister(svcs.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, cache, logg)).
				Post("/login", controllers.AuthLogin(svcs.Auth, logg))
			r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(svcs.Auth, cfg.JWT, logg))
		})

		r.Get("/snacks", controllers.SnackList(svcs.Catalog, logg))
		r.Get("/snacks/{snackId}", controllers.SnackGet(svcs.Catalog, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Use(middleware.Idempotency(cache, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartSummary(svcs.Cart, logg))
				r.Get("/count", controllers.CartCount(svcs.Cart, logg))
				r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
				r.Patch("/items/{snackId}", controllers.CartUpdateItem(svcs.Cart, logg))
			})

			r.Post("/checkout", controllers.CheckoutConfirm(svcs.Checkout, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/latest", controllers.LatestOrders(svcs.Orders, logg))
				r.Get("/{orderId}", controllers.OrderGet(svcs.Orders, logg))
				r.Get("/{orderId}/status", controllers.OrderStatus(svcs.Orders, logg))
			})

			r.Post("/feedback", controllers.FeedbackSubmit(svcs.Feedback, logg))
			r.Delete("/account", controllers.AccountDelete(svcs.Auth, cfg.JWT, logg))

			r.Route("/owner", func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.ActorRoleOwner), logg))

				r.Post("/snacks", controllers.SnackCreate(svcs.Catalog, logg))
				r.Put("/snacks/{snackId}", controllers.SnackUpdate(svcs.Catalog, logg))
				r.Delete("/snacks/{snackId}", controllers.SnackDelete(svcs.Catalog, logg))
				r.Post("/snacks/{snackId}/stock", controllers.SnackAdjustStock(svcs.Catalog, logg))

				r.Get("/orders", controllers.OwnerTodaysOrders(svcs.Orders, logg))
				r.Post("/orders/{orderId}/status", controllers.OwnerSetOrderStatus(svcs.Orders, logg))
				r.Get("/payments", controllers.OwnerTodaysPayments(svcs.Orders, logg))
				r.Post("/payments/{paymentId}/status", controllers.OwnerSetPaymentStatus(svcs.Orders, logg))

				r.Get("/feedback", controllers.FeedbackList(svcs.Feedback, logg))
				r.Delete("/feedback/{feedbackId}", controllers.FeedbackDelete(svcs.Feedback, logg))

				r.Route("/reports", func(r chi.Router) {
					r.Get("/dashboard", controllers.ReportsDashboard(svcs.Reports, logg))
					r.Get("/revenue", controllers.ReportsRevenue(svcs.Reports, logg))
					r.Get("/popular-snacks", controllers.ReportsPopularSnacks(svcs.Reports, logg))
				})
			})
		})
	})

	return r
}
