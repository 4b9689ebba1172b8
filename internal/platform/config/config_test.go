package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("REGULATED_MODE", "")
	t.Setenv("WEBHOOK_SECRET", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 25, cfg.Screening.MinScore)
	assert.Equal(t, 30, cfg.Screening.DefaultAutoAccept)
	assert.Equal(t, 90, cfg.Screening.DefaultAutoReject)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, devWebhookSecret, cfg.Webhook.Secret)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, 10*time.Second, cfg.Kafka.DeliveryTimeout)
	assert.Equal(t, 120, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func TestFromEnvParsesLists(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " broker-1:9092, ,broker-2:9092 ")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
}

func TestFromEnvRejectsMalformedNumbers(t *testing.T) {
	t.Setenv("SCREENING_MIN_SCORE", "high")
	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCREENING_MIN_SCORE")
}

func TestRegulatedModeRequiresExplicitSigningConfig(t *testing.T) {
	t.Setenv("REGULATED_MODE", "true")
	t.Setenv("WEBHOOK_SECRET", "")
	t.Setenv("JWT_SIGNING_KEY", "k")
	t.Setenv("ADMIN_TOKEN", "op")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEBHOOK_SECRET")

	t.Setenv("WEBHOOK_SECRET", "s3cret")
	t.Setenv("WEBHOOK_HOST", "hooks.example.com")
	t.Setenv("WEBHOOK_PATH", "/in")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "hooks.example.com", cfg.Webhook.Host)
}

func TestValidateRejectsOutOfRangeScreening(t *testing.T) {
	cfg := Config{
		Screening: Screening{MinScore: 101, Workers: 0},
		Webhook:   Webhook{Secret: "s", Host: "h", Path: "/p"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCREENING_MIN_SCORE")
	assert.Contains(t, err.Error(), "SCREENING_WORKERS")
}

func TestValidateRateLimit(t *testing.T) {
	base := Config{
		Screening: Screening{MinScore: 25, Workers: 1},
		Webhook:   Webhook{Secret: "s", Host: "h", Path: "/p"},
	}

	disabled := base
	assert.NoError(t, disabled.Validate())

	negative := base
	negative.RateLimit = RateLimit{Requests: -1, Window: time.Minute}
	require.Error(t, negative.Validate())

	noWindow := base
	noWindow.RateLimit = RateLimit{Requests: 10}
	err := noWindow.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_WINDOW")
}

func TestRegulatedModeAcceptsAdminTokenHash(t *testing.T) {
	t.Setenv("REGULATED_MODE", "true")
	t.Setenv("WEBHOOK_SECRET", "s3cret")
	t.Setenv("WEBHOOK_HOST", "hooks.example.com")
	t.Setenv("WEBHOOK_PATH", "/in")
	t.Setenv("JWT_SIGNING_KEY", "k")
	t.Setenv("ADMIN_TOKEN", "")
	t.Setenv("ADMIN_TOKEN_HASH", "$2a$10$abcdefghijklmnopqrstuuN7Kx7QqgM1m3tb8uXhZpNdMOfkbB9tG")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Auth.AdminTokenHash)
}

func TestValidateRejectsInvertedThresholds(t *testing.T) {
	cfg := Config{
		Screening: Screening{MinScore: 25, Workers: 1, DefaultAutoAccept: 95, DefaultAutoReject: 90},
		Webhook:   Webhook{Secret: "s", Host: "h", Path: "/p"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCREENING_AUTO_ACCEPT")
}
