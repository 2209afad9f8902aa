package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.AppPort)
	assert.Equal(t, StoreJSON, cfg.StoreDriver)
	assert.Equal(t, "db.json", cfg.StorePath)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.SeedData)
	assert.Equal(t, EventsNone, cfg.EventsDriver)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "storefront_events", cfg.KafkaTopic)
	assert.Empty(t, cfg.AdminToken)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", ":9000")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("DATABASE_DSN", "file:test.db")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("SEED_DATA", "false")
	t.Setenv("EVENTS_DRIVER", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("ADMIN_TOKEN", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.AppPort)
	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, "file:test.db", cfg.DatabaseDSN)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.False(t, cfg.SeedData)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "s3cret", cfg.AdminToken)
}

func TestValidate(t *testing.T) {
	base := Config{StoreDriver: StoreJSON, StorePath: "db.json", JWTSecret: "s", TokenTTL: time.Hour, EventsDriver: EventsNone}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown store", func(c *Config) { c.StoreDriver = "mongo" }},
		{"postgres without dsn", func(c *Config) { c.StoreDriver = StorePostgres }},
		{"unknown events", func(c *Config) { c.EventsDriver = "nats" }},
		{"kafka without brokers", func(c *Config) { c.EventsDriver = EventsKafka }},
		{"empty secret", func(c *Config) { c.JWTSecret = "" }},
		{"zero ttl", func(c *Config) { c.TokenTTL = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadClient(t *testing.T) {
	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", cfg.APIURL)
	assert.Equal(t, "session.db", cfg.SessionPath)
	assert.Equal(t, "es", cfg.Lang)
	assert.Equal(t, 10*time.Second, cfg.Timeout)

	t.Setenv("API_URL", "http://api.test")
	t.Setenv("APP_LANG", "EN")
	t.Setenv("API_TIMEOUT", "2s")
	cfg, err = LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "http://api.test", cfg.APIURL)
	assert.Equal(t, "en", cfg.Lang)
	assert.Equal(t, 2*time.Second, cfg.Timeout)

	t.Setenv("API_TIMEOUT", "0s")
	_, err = LoadClient()
	assert.Error(t, err)
}
