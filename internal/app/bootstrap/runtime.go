package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/shivraj110504/RuralCare/internal/config"
	"github.com/shivraj110504/RuralCare/internal/conversation"
	"github.com/shivraj110504/RuralCare/internal/orders"
	"github.com/shivraj110504/RuralCare/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildTranscriptStore returns the Redis transcript mirror, or nil without
// Redis. The nil interface matters: Dependencies checks Transcript != nil.
func BuildTranscriptStore(redisClient *redis.Client) conversation.TranscriptStore {
	if redisClient == nil {
		return nil
	}
	return conversation.NewRedisTranscriptStore(redisClient)
}

// BuildOrderStore opens the Postgres order store when DATABASE_URL is set and
// falls back to the in-memory store otherwise. The returned close func is
// never nil.
func BuildOrderStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (orders.Store, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg == nil || strings.TrimSpace(cfg.DatabaseURL) == "" {
		logger.Warn("DATABASE_URL not set; orders are kept in memory")
		return orders.NewMemoryStore(), func() {}, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, func() {}, fmt.Errorf("bootstrap: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, func() {}, fmt.Errorf("bootstrap: ping postgres: %w", err)
	}
	logger.Info("order store ready", "backend", "postgres")
	return orders.NewPostgresStore(pool), pool.Close, nil
}
