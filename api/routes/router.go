package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/starconnect/starconnect-backend/api/controllers"
	billingcontrollers "github.com/starconnect/starconnect-backend/api/controllers/billing"
	webhookcontrollers "github.com/starconnect/starconnect-backend/api/controllers/webhooks"
	"github.com/starconnect/starconnect-backend/api/middleware"
	"github.com/starconnect/starconnect-backend/internal/auth"
	"github.com/starconnect/starconnect-backend/internal/billing"
	"github.com/starconnect/starconnect-backend/internal/bookings"
	"github.com/starconnect/starconnect-backend/internal/chat"
	"github.com/starconnect/starconnect-backend/internal/media"
	"github.com/starconnect/starconnect-backend/internal/stars"
	stripewebhook "github.com/starconnect/starconnect-backend/internal/webhooks/stripe"
	"github.com/starconnect/starconnect-backend/pkg/auth/session"
	"github.com/starconnect/starconnect-backend/pkg/config"
	"github.com/starconnect/starconnect-backend/pkg/db"
	"github.com/starconnect/starconnect-backend/pkg/logger"
	"github.com/starconnect/starconnect-backend/pkg/metrics"
	"github.com/starconnect/starconnect-backend/pkg/redis"
	"github.com/starconnect/starconnect-backend/pkg/stripe"
)

// Deps carries everything the HTTP surface needs. Optional integrations
// (Google sign-in, Stripe, GCS) may be nil; their routes degrade to 500s
// with a clear message instead of panicking at startup.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.HTTPMetrics

	DB    db.Pinger
	Redis *redis.Client
	GCS   controllers.Pinger

	Sessions session.AccessSessionChecker

	AuthService     auth.Service
	RegisterService auth.RegisterService
	GoogleProvider  *auth.GoogleProvider
	GoogleLogin     auth.GoogleLoginService

	StarsService    stars.Service
	BookingsService bookings.Service
	ChatService     chat.Service
	ChatHub         *chat.Hub
	MediaService    media.Service
	BillingService  billing.Service

	StripeClient  *stripe.Client
	StripeWebhook *stripewebhook.Service
	WebhookGuard  *stripewebhook.IdempotencyGuard
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(d.Metrics),
	)

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
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": d.DB,
			"redis":    d.Redis,
			"storage":  d.GCS,
		}))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(d.StripeWebhook, d.StripeClient, d.WebhookGuard, d.Metrics, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.Register(d.RegisterService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.Login(d.AuthService, logg))
		r.Post("/refresh", controllers.Refresh(d.AuthService, logg))
		r.Post("/logout", controllers.Logout(d.AuthService, logg))

		if d.GoogleProvider != nil {
			r.Get("/google/url", controllers.GoogleAuthURL(d.GoogleProvider, logg))
		} else {
			r.Get("/google/url", controllers.GoogleAuthURL(nil, logg))
		}
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/google/callback", controllers.GoogleCallback(d.GoogleLogin, logg))
	})

	// Catalog reads are public; everything that acts on behalf of an
	// identity lives behind the auth middleware below.
	r.Route("/api/v1/stars", func(r chi.Router) {
		r.Get("/", controllers.ListStars(d.StarsService, logg))
		r.Get("/categories", controllers.StarCategories(d.StarsService, logg))
		r.Get("/{id}", controllers.GetStar(d.StarsService, logg))
		r.Get("/{id}/quote", controllers.BookingQuote(d.BookingsService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
			r.Post("/", controllers.BecomeStar(d.StarsService, logg))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))

		r.Route("/api/v1/profile", func(r chi.Router) {
			r.Get("/", controllers.MyStarProfile(d.StarsService, logg))
			r.Patch("/", controllers.UpdateStarProfile(d.StarsService, logg))
		})

		r.Route("/api/v1/bookings", func(r chi.Router) {
			r.Post("/", controllers.CreateBooking(d.BookingsService, logg))
			r.Get("/", controllers.MyBookings(d.BookingsService, logg))
			r.Get("/star", controllers.StarBookings(d.BookingsService, logg))
		})

		r.Route("/api/v1/chat", func(r chi.Router) {
			r.Get("/", controllers.ListChats(d.ChatService, logg))
			r.Get("/messages", controllers.ListMessages(d.ChatService, logg))
			r.Post("/messages", controllers.SendMessage(d.ChatService, logg))
			r.Get("/ws", controllers.ChatWebSocket(d.ChatService, d.ChatHub, d.Metrics, logg))
		})

		r.Route("/api/v1/media", func(r chi.Router) {
			r.Post("/presign-upload", controllers.PresignUpload(d.MediaService, logg))
			r.Get("/presign-download", controllers.PresignDownload(d.MediaService, logg))
		})

		r.Route("/api/v1/billing", func(r chi.Router) {
			r.Post("/payment-intent", billingcontrollers.CreateUpgradeIntent(d.BillingService, logg))
			r.Get("/plan", billingcontrollers.PlanStatus(d.BillingService, logg))
		})
	})

	return r
}
