package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/pkg/logger"
	"github.com/your-org/marketplace-backend/internal/pkg/testutil"
)

func TestOptionsFollowConfig(t *testing.T) {
	cfg := testutil.Config()
	cfg.Redis.Host = "cache.internal"
	cfg.Redis.Port = "6380"
	cfg.Redis.DB = 2
	cfg.Redis.PoolSize = 20
	cfg.Redis.DialTimeout = 2 * time.Second
	cfg.Redis.IOTimeout = 500 * time.Millisecond

	opts := Options(cfg)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 20, opts.PoolSize)
	assert.Equal(t, 2*time.Second, opts.DialTimeout)
	assert.Equal(t, 500*time.Millisecond, opts.ReadTimeout)
	assert.Equal(t, 500*time.Millisecond, opts.WriteTimeout)
	assert.Equal(t, 500*time.Millisecond, opts.PoolTimeout)
}

func TestNewConnectionFailsWhenRedisIsDown(t *testing.T) {
	cfg := testutil.Config()
	cfg.Redis.Host = "127.0.0.1"
	cfg.Redis.Port = "1"
	cfg.Redis.DialTimeout = 200 * time.Millisecond
	cfg.Redis.IOTimeout = 200 * time.Millisecond

	start := time.Now()
	client, err := NewConnection(context.Background(), cfg, logger.Discard())
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
	assert.Less(t, time.Since(start), 5*time.Second)
}
