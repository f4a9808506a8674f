package hubapi_test

import (
	"context"
	"testing"
	"time"

	"github.com/spiderhub-io/hubapi/pkg/hubapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCacheFromConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *hubapi.CacheConfig
		wantErr error
	}{
		{name: "nil config defaults to memory", config: nil},
		{name: "memory", config: &hubapi.CacheConfig{Type: hubapi.CacheTypeMemory}},
		{name: "none", config: &hubapi.CacheConfig{Type: hubapi.CacheTypeNone}},
		{
			name:    "nats without config",
			config:  &hubapi.CacheConfig{Type: hubapi.CacheTypeNATS},
			wantErr: hubapi.ErrNATSConfigRequired,
		},
		{
			name:    "unsupported type",
			config:  &hubapi.CacheConfig{Type: hubapi.CacheType("redis")},
			wantErr: hubapi.ErrUnsupportedCacheType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cache, err := hubapi.NewCacheFromConfig(tt.config)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, cache)
		})
	}
}

func TestCacheChainGetPopulatesEarlierLayers(t *testing.T) {
	t.Parallel()

	l1 := hubapi.NewMemoryCache(10)
	l2 := hubapi.NewMemoryCache(10)
	chain := hubapi.NewCacheChain(l1, l2)
	ctx := context.Background()

	entry := &hubapi.CacheEntry{
		Data:      []byte("value"),
		ExpiresAt: time.Now().Add(time.Minute),
	}

	// Only the second layer has the value.
	require.NoError(t, l2.Set(ctx, "key", entry))
	assert.False(t, l1.Has(ctx, "key"))

	got, err := chain.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, got.Data)

	// The hit was promoted to the first layer.
	assert.True(t, l1.Has(ctx, "key"))
}

func TestCacheChainMiss(t *testing.T) {
	t.Parallel()

	chain := hubapi.NewCacheChain(hubapi.NewMemoryCache(10), hubapi.NewMemoryCache(10))

	_, err := chain.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, hubapi.ErrKeyNotFoundInAnyCache)
}

func TestCacheChainSetDeleteClear(t *testing.T) {
	t.Parallel()

	l1 := hubapi.NewMemoryCache(10)
	l2 := hubapi.NewMemoryCache(10)
	chain := hubapi.NewCacheChain(l1, l2)
	ctx := context.Background()

	entry := &hubapi.CacheEntry{ExpiresAt: time.Now().Add(time.Minute)}

	require.NoError(t, chain.Set(ctx, "key", entry))
	assert.True(t, l1.Has(ctx, "key"))
	assert.True(t, l2.Has(ctx, "key"))
	assert.True(t, chain.Has(ctx, "key"))

	require.NoError(t, chain.Delete(ctx, "key"))
	assert.False(t, l1.Has(ctx, "key"))
	assert.False(t, l2.Has(ctx, "key"))

	require.NoError(t, chain.Set(ctx, "other", entry))
	require.NoError(t, chain.Clear(ctx))
	assert.False(t, chain.Has(ctx, "other"))
}
