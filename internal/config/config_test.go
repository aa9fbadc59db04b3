package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JOBBOARD_AUTH_JWTSECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 10, cfg.Listings.DefaultPageSize)
	assert.Equal(t, 100, cfg.Listings.MaxPageSize)
	assert.Equal(t, "listing-events", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.False(t, cfg.BootstrapEnabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JOBBOARD_AUTH_JWTSECRET", "secret")
	t.Setenv("JOBBOARD_AUTH_TOKENTTL", "2h")
	t.Setenv("JOBBOARD_LISTINGS_MAXPAGESIZE", "50")
	t.Setenv("JOBBOARD_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("JOBBOARD_AUTH_BOOTSTRAP_USERNAME", "root")
	t.Setenv("JOBBOARD_AUTH_BOOTSTRAP_PASSWORD", "changeme123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 50, cfg.Listings.MaxPageSize)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.BootstrapEnabled())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JOBBOARD_AUTH_JWTSECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "jwt secret")
}

func TestValidatePageSizes(t *testing.T) {
	var cfg Config
	cfg.Auth.JWTSecret = "secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Listings.DefaultPageSize = 20
	cfg.Listings.MaxPageSize = 10

	assert.Error(t, cfg.Validate())

	cfg.Listings.MaxPageSize = 100
	assert.NoError(t, cfg.Validate())
}
