package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/starconnect/starconnect-backend/api/routes"
	"github.com/starconnect/starconnect-backend/internal/auth"
	"github.com/starconnect/starconnect-backend/internal/billing"
	"github.com/starconnect/starconnect-backend/internal/bookings"
	"github.com/starconnect/starconnect-backend/internal/chat"
	"github.com/starconnect/starconnect-backend/internal/media"
	"github.com/starconnect/starconnect-backend/internal/stars"
	"github.com/starconnect/starconnect-backend/internal/users"
	stripewebhook "github.com/starconnect/starconnect-backend/internal/webhooks/stripe"
	"github.com/starconnect/starconnect-backend/pkg/auth/session"
	"github.com/starconnect/starconnect-backend/pkg/config"
	"github.com/starconnect/starconnect-backend/pkg/db"
	"github.com/starconnect/starconnect-backend/pkg/logger"
	"github.com/starconnect/starconnect-backend/pkg/metrics"
	"github.com/starconnect/starconnect-backend/pkg/migrate"
	"github.com/starconnect/starconnect-backend/pkg/redis"
	"github.com/starconnect/starconnect-backend/pkg/storage/gcs"
	"github.com/starconnect/starconnect-backend/pkg/stripe"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	starsRepo := stars.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		StarRepo:       starsRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	var googleProvider *auth.GoogleProvider
	var googleLogin auth.GoogleLoginService
	if cfg.Google.Enabled() {
		googleProvider, err = auth.NewGoogleProvider(cfg.Google)
		if err != nil {
			logg.Error(context.Background(), "failed to create google provider", err)
			os.Exit(1)
		}
		googleLogin, err = auth.NewGoogleLoginService(auth.GoogleLoginParams{
			Provider: googleProvider,
			UserRepo: usersRepo,
			Sessions: authService,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create google login service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "google sign-in disabled: client credentials not configured")
	}

	starsService, err := stars.NewService(stars.ServiceParams{Repo: starsRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create stars service", err)
		os.Exit(1)
	}

	chatService, err := chat.NewService(chat.ServiceParams{
		Transactor: dbClient,
		Reader:     chat.NewRepository(dbClient.DB()),
		Users:      usersRepo,
		Stars:      starsRepo,
		Publisher:  redisClient,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create chat service", err)
		os.Exit(1)
	}

	chatHub, err := chat.NewHub(redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create chat hub", err)
		os.Exit(1)
	}

	bookingsService, err := bookings.NewService(bookings.ServiceParams{
		Repo:   bookings.NewRepository(dbClient.DB()),
		Stars:  starsRepo,
		Config: cfg.Booking,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create bookings service", err)
		os.Exit(1)
	}

	var stripeClient *stripe.Client
	var billingService billing.Service
	var webhookService *stripewebhook.Service
	var webhookGuard *stripewebhook.IdempotencyGuard
	if cfg.Stripe.APIKey != "" {
		stripeClient, err = stripe.NewClient(context.Background(), cfg.Stripe, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create stripe client", err)
			os.Exit(1)
		}
		paymentClient, err := billing.NewStripeClient(stripeClient)
		if err != nil {
			logg.Error(context.Background(), "failed to create stripe payment client", err)
			os.Exit(1)
		}
		billingService, err = billing.NewService(billing.ServiceParams{
			Stripe:        paymentClient,
			Stars:         starsRepo,
			BookingConfig: cfg.Booking,
			StripeConfig:  cfg.Stripe,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create billing service", err)
			os.Exit(1)
		}
		webhookService, err = stripewebhook.NewService(stripewebhook.ServiceParams{
			TransactionRunner: dbClient,
			Logger:            logg,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create stripe webhook service", err)
			os.Exit(1)
		}
		webhookGuard, err = stripewebhook.NewIdempotencyGuard(redisClient, cfg.Stripe.WebhookEventTTL, "stripe-webhook")
		if err != nil {
			logg.Error(context.Background(), "failed to create webhook idempotency guard", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "stripe disabled: API key not configured")
	}

	var gcsClient *gcs.Client
	var mediaService media.Service
	if cfg.GCS.BucketName != "" {
		gcsClient, err = gcs.NewClient(context.Background(), cfg.GCS, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create gcs client", err)
			os.Exit(1)
		}
		mediaService, err = media.NewService(gcsClient, cfg.GCS)
		if err != nil {
			logg.Error(context.Background(), "failed to create media service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "media uploads disabled: GCS bucket not configured")
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go chatHub.Run(runCtx)

	deps := routes.Deps{
		Config:  cfg,
		Logger:  logg,
		Metrics: httpMetrics,

		DB:    dbClient,
		Redis: redisClient,

		Sessions: sessionManager,

		AuthService:     authService,
		RegisterService: registerService,
		GoogleProvider:  googleProvider,
		GoogleLogin:     googleLogin,

		StarsService:    starsService,
		BookingsService: bookingsService,
		ChatService:     chatService,
		ChatHub:         chatHub,
		MediaService:    mediaService,
		BillingService:  billingService,

		StripeClient:  stripeClient,
		StripeWebhook: webhookService,
		WebhookGuard:  webhookGuard,
	}
	if gcsClient != nil {
		deps.GCS = gcsClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(runCtx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received, draining")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
