// File: internal/infra/web/server.go
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"adobe-subscription-store/internal/config"
	"adobe-subscription-store/internal/domain/ports/adapter"
	"adobe-subscription-store/internal/infra/analytics"
	"adobe-subscription-store/internal/infra/captcha"
	"adobe-subscription-store/internal/infra/payment"
	red "adobe-subscription-store/internal/infra/redis"
	"adobe-subscription-store/internal/usecase"
)

type Server struct {
	cfg *config.Config

	catalogUC    usecase.CatalogUseCase
	reconcileUC  usecase.ReconcileUseCase
	orderUC      usecase.OrderUseCase
	statsUC      usecase.StatsUseCase
	broadcastUC  usecase.BroadcastUseCase
	redemptionUC usecase.RedemptionUseCase
	profileUC    usecase.ProfileUseCase

	intents       adapter.PaymentIntents
	checkout      adapter.CheckoutOrders
	stripeWebhook *payment.StripeWebhook
	captcha       *captcha.Verifier
	tracker       *analytics.Tracker
	limiter       *red.RateLimiter

	validate *validator.Validate
	log      *zerolog.Logger
}

type ServerDeps struct {
	Catalog    usecase.CatalogUseCase
	Reconcile  usecase.ReconcileUseCase
	Orders     usecase.OrderUseCase
	Stats      usecase.StatsUseCase
	Broadcast  usecase.BroadcastUseCase
	Redemption usecase.RedemptionUseCase
	Profiles   usecase.ProfileUseCase

	Intents       adapter.PaymentIntents
	Checkout      adapter.CheckoutOrders
	StripeWebhook *payment.StripeWebhook
	Captcha       *captcha.Verifier
	Tracker       *analytics.Tracker
	Limiter       *red.RateLimiter
}

func NewServer(cfg *config.Config, deps ServerDeps, logger *zerolog.Logger) *Server {
	return &Server{
		cfg:           cfg,
		catalogUC:     deps.Catalog,
		reconcileUC:   deps.Reconcile,
		orderUC:       deps.Orders,
		statsUC:       deps.Stats,
		broadcastUC:   deps.Broadcast,
		redemptionUC:  deps.Redemption,
		profileUC:     deps.Profiles,
		intents:       deps.Intents,
		checkout:      deps.Checkout,
		stripeWebhook: deps.StripeWebhook,
		captcha:       deps.Captcha,
		tracker:       deps.Tracker,
		limiter:       deps.Limiter,
		validate:      validator.New(),
		log:           logger,
	}
}

// Handler builds the full route tree. The webhook route reads the raw body
// for signature verification, so no body-rewriting middleware may sit in
// front of it.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/track.gif", s.handleTrack)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", s.handleProducts)

		r.Group(func(r chi.Router) {
			r.Use(RateLimit(s.limiter, "order", s.cfg.RateLimit.OrderLimit, s.cfg.RateLimit.OrderWindow, s.log))
			r.Post("/checkout/paypal/orders", s.handlePayPalCreate)
			r.Post("/checkout/paypal/orders/{orderID}/capture", s.handlePayPalCapture)
			r.Post("/checkout/stripe/intent", s.handleStripeIntent)
		})

		r.Post("/webhooks/stripe", s.handleStripeWebhook)

		r.Group(func(r chi.Router) {
			r.Use(RateLimit(s.limiter, "auth", s.cfg.RateLimit.AuthLimit, s.cfg.RateLimit.AuthWindow, s.log))
			r.Use(SupabaseAuth(s.cfg.Secrets.SupabaseJWTSecret, s.log))
			r.Get("/dashboard/orders", s.handleDashboardOrders)
			r.Get("/dashboard/profile", s.handleProfileGet)
			r.Patch("/dashboard/profile", s.handleProfileRename)
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminKey(s.cfg.Secrets.AdminKey, s.log))
			r.Get("/admin/stats", s.handleAdminStats)
			r.Get("/admin/pageviews", s.handleAdminPageViews)
			r.Post("/admin/broadcast", s.handleBroadcast)
			r.Get("/admin/broadcast/{jobID}", s.handleBroadcastReport)
			r.Get("/admin/redemptions", s.handleRedemptionList)
			r.Post("/admin/redemptions/{orderID}/deliver", s.handleRedemptionDeliver)
			r.Get("/admin/orders/{orderID}", s.handleAdminOrder)
			r.Post("/admin/products", s.handleProductSave)
			r.Delete("/admin/products/{productID}", s.handleProductDelete)
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Admin-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return Chain(r,
		TraceID(),
		Recover(s.log),
		RequestLog(s.log),
		Timeout(s.cfg.Server.RequestTimeout),
		func(next http.Handler) http.Handler { return c.Handler(next) },
	)
}
