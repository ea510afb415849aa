package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("ORDER_NUMBER_RETRIES", "")

	cfg := FromEnv()

	assert.Equal(t, 3, cfg.Order.NumberRetries)
	assert.Equal(t, 5*time.Minute, cfg.Order.TaxCacheTTL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "marketplace.orders", cfg.Kafka.Topic)
	require.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("ORDER_NUMBER_RETRIES", "5")
	t.Setenv("ORDER_DEFAULT_TAX", "VAT")
	t.Setenv("SERVER_REQUEST_TIMEOUT", "3s")
	t.Setenv("APP_ENV", "production")

	cfg := FromEnv()

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 5, cfg.Order.NumberRetries)
	assert.Equal(t, "VAT", cfg.Order.DefaultTaxName)
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("JWT_ACCESS_EXPIRE", "forever")

	cfg := FromEnv()

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenExpiry)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"short jwt secret", func(c *Config) { c.JWT.Secret = "short" }, "JWT_SECRET"},
		{"missing db host", func(c *Config) { c.Database.Host = "" }, "DB_HOST"},
		{"missing redis host", func(c *Config) { c.Redis.Host = "" }, "REDIS_HOST"},
		{"zero retries", func(c *Config) { c.Order.NumberRetries = 0 }, "ORDER_NUMBER_RETRIES"},
		{"brokers without topic", func(c *Config) {
			c.Kafka.Brokers = []string{"localhost:9092"}
			c.Kafka.Topic = ""
		}, "KAFKA_ORDER_TOPIC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := FromEnv()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDSNAndRedisAddr(t *testing.T) {
	cfg := FromEnv()
	cfg.Database.Host = "db"
	cfg.Database.Port = "5433"
	cfg.Redis.Host = "cache"
	cfg.Redis.Port = "6380"

	assert.Contains(t, cfg.GetDatabaseDSN(), "host=db port=5433")
	assert.Equal(t, "cache:6380", cfg.GetRedisAddr())
}
