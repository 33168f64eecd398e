package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Google   GoogleOAuthConfig
	GCS      GCSConfig
	Stripe   StripeConfig
	Booking  BookingConfig
	Flags    FeatureFlagsConfig
	CORS     CORSConfig

	AuthRateLimit AuthRateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STARCONNECT_APP_ENV" required:"true"`
	Port         string `envconfig:"STARCONNECT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STARCONNECT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STARCONNECT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STARCONNECT_DB_DSN"`
	Driver string `envconfig:"STARCONNECT_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"STARCONNECT_DB_HOST"`
	Port     int    `envconfig:"STARCONNECT_DB_PORT" default:"5432"`
	User     string `envconfig:"STARCONNECT_DB_USER"`
	Password string `envconfig:"STARCONNECT_DB_PASSWORD"`
	Name     string `envconfig:"STARCONNECT_DB_NAME"`
	SSLMode  string `envconfig:"STARCONNECT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STARCONNECT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STARCONNECT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STARCONNECT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STARCONNECT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either STARCONNECT_DB_DSN or host/user/name parts are required")
	}
	d.DSN = fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, url.QueryEscape(d.Password), d.Name, d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"STARCONNECT_REDIS_URL"`
	Address      string        `envconfig:"STARCONNECT_REDIS_ADDR"`
	Password     string        `envconfig:"STARCONNECT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STARCONNECT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STARCONNECT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STARCONNECT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STARCONNECT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STARCONNECT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STARCONNECT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"STARCONNECT_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"STARCONNECT_JWT_ISSUER" default:"starconnect"`
	ExpirationMinutes      int    `envconfig:"STARCONNECT_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"STARCONNECT_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STARCONNECT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STARCONNECT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STARCONNECT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STARCONNECT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STARCONNECT_ARGON_KEY_LEN" default:"32"`
}

type GoogleOAuthConfig struct {
	ClientID     string `envconfig:"STARCONNECT_GOOGLE_CLIENT_ID"`
	ClientSecret string `envconfig:"STARCONNECT_GOOGLE_CLIENT_SECRET"`
	CallbackURL  string `envconfig:"STARCONNECT_GOOGLE_CALLBACK_URL"`
}

func (g GoogleOAuthConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

type GCSConfig struct {
	BucketName        string        `envconfig:"STARCONNECT_GCS_BUCKET_NAME"`
	UploadURLExpiry   time.Duration `envconfig:"STARCONNECT_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"STARCONNECT_GCS_DOWNLOAD_URL_EXPIRY" default:"1h"`
	CredentialsJSON   string        `envconfig:"STARCONNECT_GCP_CREDENTIALS_JSON"`
	CredentialsFile   string        `envconfig:"STARCONNECT_GOOGLE_APPLICATION_CREDENTIALS"`
	MaxUploadMB       int           `envconfig:"STARCONNECT_MAX_UPLOAD_MB" default:"50"`
}

type StripeConfig struct {
	APIKey         string `envconfig:"STARCONNECT_STRIPE_API_KEY"`
	WebhookSecret  string `envconfig:"STARCONNECT_STRIPE_WEBHOOK_SECRET"`
	PublishableKey string `envconfig:"STARCONNECT_STRIPE_PUBLISHABLE_KEY"`
	Env            string `envconfig:"STARCONNECT_STRIPE_ENV" default:"test"`

	WebhookEventTTL time.Duration `envconfig:"STARCONNECT_STRIPE_WEBHOOK_EVENT_TTL" default:"720h"`
}

func (s StripeConfig) Environment() string {
	return s.Env
}

type BookingConfig struct {
	// ServiceFeePercent is applied on top of the star's hourly rate.
	ServiceFeePercent int `envconfig:"STARCONNECT_BOOKING_SERVICE_FEE_PERCENT" default:"10"`
	PremiumPriceCents int64 `envconfig:"STARCONNECT_PREMIUM_PRICE_CENTS" default:"4900"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STARCONNECT_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STARCONNECT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

// AuthRateLimitConfig throttles credential-guessing traffic. A zero window
// disables the corresponding policy.
type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"STARCONNECT_AUTH_RL_LOGIN_WINDOW" default:"5m"`
	LoginIPLimit    int           `envconfig:"STARCONNECT_AUTH_RL_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit int           `envconfig:"STARCONNECT_AUTH_RL_LOGIN_EMAIL_LIMIT" default:"10"`

	RegisterWindow     time.Duration `envconfig:"STARCONNECT_AUTH_RL_REGISTER_WINDOW" default:"15m"`
	RegisterIPLimit    int           `envconfig:"STARCONNECT_AUTH_RL_REGISTER_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"STARCONNECT_AUTH_RL_REGISTER_EMAIL_LIMIT" default:"5"`
}
