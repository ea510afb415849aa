package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
)

// Client is the shared cache connection. It backs the rate limiter and the
// default tax cache, both of which only need redis.Cmdable.
type Client struct {
	*redis.Client
}

// Options maps the redis section of the config onto go-redis options.
// Pool waits are bounded by the same deadline as reads and writes.
func Options(cfg *config.Config) *redis.Options {
	return &redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.IOTimeout,
		WriteTimeout: cfg.Redis.IOTimeout,
		PoolTimeout:  cfg.Redis.IOTimeout,
	}
}

// NewConnection dials redis and pings it once. The client is closed again
// when the ping fails so callers can fall back to running without a cache.
func NewConnection(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Client, error) {
	opts := Options(cfg)
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	log.WithFields(logrus.Fields{
		"addr":      opts.Addr,
		"db":        opts.DB,
		"pool_size": opts.PoolSize,
	}).Info("redis connection established")

	return &Client{Client: rdb}, nil
}
