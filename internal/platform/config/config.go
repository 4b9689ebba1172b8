package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full server configuration, grouped by concern.
type Config struct {
	Server    Server
	Auth      Auth
	Database  Database
	Redis     RedisConfig
	Kafka     Kafka
	Screening Screening
	Webhook   Webhook
	RateLimit RateLimit
	Audit     Audit
	Log       Log
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	RegulatedMode   bool
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Auth configures bearer-token validation and the operator token. An empty
// signing key disables bearer auth. AdminTokenHash (bcrypt) takes precedence
// over AdminToken; with neither set /admin is open.
type Auth struct {
	JWTSigningKey  string
	Issuer         string
	AdminToken     string
	AdminTokenHash string
}

// Database selects the PostgreSQL record store. An empty URL keeps records in memory.
type Database struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig configures the webhook event log backend. An empty URL keeps the log in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka configures the webhook event sink. No brokers disables publishing.
type Kafka struct {
	Brokers         []string
	WebhookTopic    string
	DeliveryTimeout time.Duration
}

// Screening holds matching and decisioning parameters.
type Screening struct {
	MinScore          int
	Workers           int
	DefaultAutoAccept int
	DefaultAutoReject int
	// Routing applied when a search names none. Empty fields fall back to
	// the built-in compliance team assignment.
	DefaultDivision  string
	DefaultAssignees []string
}

// Webhook holds the outbound signing configuration.
type Webhook struct {
	Secret string
	Host   string
	Path   string
}

// RateLimit bounds API requests per reviewer, or per client IP for anonymous
// callers. Zero requests disables limiting.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// Audit sizes the operational event queue. Events beyond it are dropped.
type Audit struct {
	OpsQueueSize int
}

// Log selects the slog handler.
type Log struct {
	Level  string
	Format string
}

// Dev-only fallbacks, rejected in regulated mode.
const (
	devWebhookSecret = "dev-webhook-secret-change-me"
	devWebhookHost   = "localhost:8080"
	devWebhookPath   = "/webhooks/receive"
)

// FromEnv builds the config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var errs []error
	intVar := func(key string, def int) int {
		v, err := envInt(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}
	durVar := func(key string, def time.Duration) time.Duration {
		v, err := envDuration(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	regulated := os.Getenv("REGULATED_MODE") == "true"

	webhook := Webhook{
		Secret: os.Getenv("WEBHOOK_SECRET"),
		Host:   os.Getenv("WEBHOOK_HOST"),
		Path:   os.Getenv("WEBHOOK_PATH"),
	}
	if !regulated {
		webhook.Secret = withDefault(webhook.Secret, devWebhookSecret)
		webhook.Host = withDefault(webhook.Host, devWebhookHost)
		webhook.Path = withDefault(webhook.Path, devWebhookPath)
	}

	cfg := Config{
		Server: Server{
			Addr:            withDefault(os.Getenv("WARDEN_ADDR"), ":8080"),
			RegulatedMode:   regulated,
			ReadTimeout:     durVar("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    durVar("HTTP_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     durVar("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: durVar("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Auth: Auth{
			JWTSigningKey:  os.Getenv("JWT_SIGNING_KEY"),
			Issuer:         os.Getenv("JWT_ISSUER"),
			AdminToken:     os.Getenv("ADMIN_TOKEN"),
			AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
		},
		Database: Database{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: intVar("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: intVar("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intVar("REDIS_POOL_SIZE", 10),
			MinIdleConns: intVar("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durVar("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durVar("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durVar("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers:         splitList(os.Getenv("KAFKA_BROKERS")),
			WebhookTopic:    withDefault(os.Getenv("KAFKA_WEBHOOK_TOPIC"), "warden.webhook.events"),
			DeliveryTimeout: durVar("KAFKA_DELIVERY_TIMEOUT", 10*time.Second),
		},
		Screening: Screening{
			MinScore:          intVar("SCREENING_MIN_SCORE", 25),
			Workers:           intVar("SCREENING_WORKERS", 8),
			DefaultAutoAccept: intVar("SCREENING_AUTO_ACCEPT", 30),
			DefaultAutoReject: intVar("SCREENING_AUTO_REJECT", 90),
			DefaultDivision:   os.Getenv("SCREENING_DEFAULT_DIVISION"),
			DefaultAssignees:  splitList(os.Getenv("SCREENING_DEFAULT_ASSIGNEES")),
		},
		Webhook: webhook,
		RateLimit: RateLimit{
			Requests: intVar("RATE_LIMIT_REQUESTS", 120),
			Window:   durVar("RATE_LIMIT_WINDOW", time.Minute),
		},
		Audit: Audit{
			OpsQueueSize: intVar("AUDIT_OPS_QUEUE_SIZE", 1024),
		},
		Log: Log{
			Level:  withDefault(os.Getenv("LOG_LEVEL"), "info"),
			Format: withDefault(os.Getenv("LOG_FORMAT"), "json"),
		},
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	var errs []error
	if c.Screening.MinScore < 0 || c.Screening.MinScore > 100 {
		errs = append(errs, fmt.Errorf("SCREENING_MIN_SCORE must be within [0,100], got %d", c.Screening.MinScore))
	}
	if c.Screening.Workers < 1 {
		errs = append(errs, fmt.Errorf("SCREENING_WORKERS must be positive, got %d", c.Screening.Workers))
	}
	if t := c.Screening; t.DefaultAutoAccept < 0 || t.DefaultAutoReject > 100 || t.DefaultAutoAccept > t.DefaultAutoReject {
		errs = append(errs, fmt.Errorf("SCREENING_AUTO_ACCEPT and SCREENING_AUTO_REJECT must satisfy 0 <= accept <= reject <= 100, got %d and %d",
			t.DefaultAutoAccept, t.DefaultAutoReject))
	}
	if c.RateLimit.Requests < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_REQUESTS must not be negative, got %d", c.RateLimit.Requests))
	}
	if c.RateLimit.Requests > 0 && c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	if c.Webhook.Secret == "" || c.Webhook.Host == "" || c.Webhook.Path == "" {
		errs = append(errs, errors.New("WEBHOOK_SECRET, WEBHOOK_HOST and WEBHOOK_PATH are required"))
	}
	if c.Server.RegulatedMode {
		if c.Webhook.Secret == devWebhookSecret {
			errs = append(errs, errors.New("development webhook secret is not allowed in regulated mode"))
		}
		if c.Auth.JWTSigningKey == "" {
			errs = append(errs, errors.New("JWT_SIGNING_KEY is required in regulated mode"))
		}
		if c.Auth.AdminToken == "" && c.Auth.AdminTokenHash == "" {
			errs = append(errs, errors.New("ADMIN_TOKEN or ADMIN_TOKEN_HASH is required in regulated mode"))
		}
	}
	return errors.Join(errs...)
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
