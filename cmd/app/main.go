// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"adobe-subscription-store/internal/config"
	"adobe-subscription-store/internal/domain/ports/adapter"
	"adobe-subscription-store/internal/infra/analytics"
	"adobe-subscription-store/internal/infra/captcha"
	pg "adobe-subscription-store/internal/infra/db/postgres"
	"adobe-subscription-store/internal/infra/email"
	"adobe-subscription-store/internal/infra/logging"
	"adobe-subscription-store/internal/infra/metrics"
	"adobe-subscription-store/internal/infra/payment"
	red "adobe-subscription-store/internal/infra/redis"
	"adobe-subscription-store/internal/infra/sched"
	"adobe-subscription-store/internal/infra/web"
	"adobe-subscription-store/internal/infra/worker"
	"adobe-subscription-store/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (unsigned webhooks, verbose logs)")
	flag.Parse()

	// .env is for local development; hosted deploys set real env vars.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled; webhook signatures may be bypassed")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, int32(cfg.Database.PoolSize))
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	tracker := analytics.NewTracker(redisClient, 30*time.Second, logger)

	// ---- Repositories ----
	txManager := pg.NewTxManager(pool)
	orderRepo := pg.NewOrderRepo(pool)
	productRepo := pg.NewProductRepoCacheDecorator(pg.NewProductRepo(pool), redisClient, cfg.Redis.CacheTTL)
	profileRepo := pg.NewProfileRepo(pool)

	// ---- Adapters ----
	var mailer adapter.Mailer
	if cfg.EmailEnabled() {
		mailer = email.NewResendMailer(cfg.Secrets.ResendAPIKey, cfg.Email.From, logger)
	} else {
		logger.Warn().Msg("RESEND_API_KEY not set; transactional email disabled")
	}

	var intents adapter.PaymentIntents
	if cfg.StripeEnabled() {
		intents = payment.NewStripeGateway(cfg.Secrets.StripeSecretKey, logger)
	} else {
		logger.Warn().Msg("STRIPE_SECRET_KEY not set; card checkout disabled")
	}
	stripeWebhook := payment.NewStripeWebhook(cfg.Secrets.StripeWebhookSecret, cfg.Runtime.Dev)

	var checkout adapter.CheckoutOrders
	if cfg.PayPalEnabled() {
		checkout = payment.NewPayPalGateway(cfg.Secrets.PayPalClientID, cfg.Secrets.PayPalClientSecret, cfg.PayPal.Sandbox, logger)
	} else {
		logger.Warn().Msg("PayPal credentials not set; PayPal checkout disabled")
	}

	captchaVerifier := captcha.NewVerifier(cfg.Secrets.RecaptchaSecretKey, logger)

	// ---- Worker pool ----
	pool4 := worker.NewPool(4, logger)
	pool4.Start(ctx)
	defer pool4.Stop()

	// ---- Use cases ----
	catalogUC := usecase.NewCatalogUseCase(productRepo, logger)
	notifUC := usecase.NewNotificationUseCase(mailer, logger)
	reconcileUC := usecase.NewReconcileUseCase(orderRepo, catalogUC, notifUC, logger)
	orderUC := usecase.NewOrderUseCase(orderRepo, logger)
	statsUC := usecase.NewStatsUseCase(orderRepo, profileRepo, logger)
	broadcastUC := usecase.NewBroadcastUseCase(orderRepo, notifUC, pool4, cfg.Email.BatchMinDelay, logger)
	redemptionUC := usecase.NewRedemptionUseCase(orderRepo, txManager, logger)
	profileUC := usecase.NewProfileUseCase(profileRepo)

	// ---- Expiry worker ----
	expiry := sched.NewExpiryWorker(cfg.Scheduler.ExpirySweepInterval, 500, orderUC, logger)
	go func() { _ = expiry.Run(ctx) }()

	// ---- HTTP server ----
	srv := web.NewServer(cfg, web.ServerDeps{
		Catalog:       catalogUC,
		Reconcile:     reconcileUC,
		Orders:        orderUC,
		Stats:         statsUC,
		Broadcast:     broadcastUC,
		Redemption:    redemptionUC,
		Profiles:      profileUC,
		Intents:       intents,
		Checkout:      checkout,
		StripeWebhook: stripeWebhook,
		Captcha:       captchaVerifier,
		Tracker:       tracker,
		Limiter:       rateLimiter,
	}, logger)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Handler(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}
	cancel()
}
