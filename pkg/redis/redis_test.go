package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/superinvestor/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)

	assert.False(t, client.Enabled())
	assert.Nil(t, client.Redis())
	assert.NoError(t, client.Close())
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")
	ctx := context.Background()

	// When Redis is disabled, cache operations are no-ops
	require.NoError(t, cache.Set(ctx, "listing", []string{"AAPL"}, time.Hour))

	var result []string
	found, err := cache.Get(ctx, "listing", &result)
	require.NoError(t, err)
	assert.False(t, found)

	n, err := cache.Purge(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCache_FullKey(t *testing.T) {
	cache := NewCache(disabledClient(t), "screener")
	assert.Equal(t, "screener:cache:quote:AAPL", cache.fullKey("quote:AAPL"))
	assert.Equal(t, "screener:cache:*", cache.fullKey("*"), "purge pattern stays inside the prefix")
}

func TestNewClient_Unreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network test")
	}

	_, err := New(&config.Config{Redis: config.RedisConfig{
		Enabled: true,
		Host:    "127.0.0.1",
		Port:    "1", // nothing listens here
	}})
	assert.Error(t, err)
}
