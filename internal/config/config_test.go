package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("KAFKA_TOPIC_INTERACTIONS", "")
	t.Setenv("KAFKA_CONSUMER_GROUP", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("SECURE_COOKIES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "marketplace-interactions", cfg.Kafka.Topic)
	assert.Equal(t, "marketplace-interactions-analytics", cfg.Kafka.ConsumerGroup)
	assert.Equal(t, 5*time.Minute, cfg.Redis.ArtisanCacheTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.False(t, cfg.SecureCookies)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "7")
	t.Setenv("KAFKA_IDEMPOTENT", "false")
	t.Setenv("ARTISAN_CACHE_TTL", "30s")
	t.Setenv("POSTGRES_MAX_IDLE_CONNS", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://market.example, https://admin.market.example,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 7, cfg.Postgres.MaxOpenConns)
	assert.Equal(t, 5, cfg.Postgres.MaxIdleConns)
	assert.False(t, cfg.Kafka.IdempotentWrites)
	assert.Equal(t, 30*time.Second, cfg.Redis.ArtisanCacheTTL)
	assert.Equal(t, []string{"https://market.example", "https://admin.market.example"}, cfg.CORSOrigins)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)

	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestPostgresDSN(t *testing.T) {
	c := PostgresConfig{
		Host: "db", Port: "5432", Username: "u", Password: "p", Database: "marketplace", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=marketplace sslmode=disable", c.PostgresDSN())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Environment: "development",
			Kafka:       KafkaConfig{Brokers: []string{"localhost:9092"}},
			Redis:       RedisConfig{ArtisanCacheTTL: time.Minute},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"no brokers", func(c *Config) { c.Kafka.Brokers = nil }, ErrNoKafkaBrokers},
		{"zero ttl", func(c *Config) { c.Redis.ArtisanCacheTTL = 0 }, ErrInvalidCacheTTL},
		{"production without secret", func(c *Config) { c.Environment = "production" }, ErrMissingJWTSecret},
		{"development wildcard cors", func(c *Config) { c.CORSOrigins = []string{"*"} }, nil},
		{"production wildcard cors", func(c *Config) {
			c.Environment = "production"
			c.Auth.JWTSecret = "s3cret"
			c.CORSOrigins = []string{"https://market.example", "*"}
		}, ErrWildcardCORS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad_BlankBrokerListIsRejected(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("KAFKA_BROKERS", " , ")

	_, err := Load()
	assert.ErrorIs(t, err, ErrNoKafkaBrokers)
}
