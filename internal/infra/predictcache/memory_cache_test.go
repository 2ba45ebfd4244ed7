package predictcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/neo-hazard/internal/domain/prediction"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	cache := NewMemoryCache()
	want := prediction.Result{IsHazardous: true, TrueProbability: 0.7, FalseProbability: 0.3, ObservationStart: "1996-04-19"}

	_, ok, err := cache.Get(context.Background(), "id:1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, cache.Set(context.Background(), "id:1", want, time.Minute))
	got, ok, err := cache.Get(context.Background(), "id:1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Set(context.Background(), "id:1", prediction.Result{}, time.Minute))
	require.NoError(t, cache.Set(context.Background(), "id:2", prediction.Result{}, 0))

	now = now.Add(2 * time.Minute)
	_, ok, err := cache.Get(context.Background(), "id:1")
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, _ = cache.Get(context.Background(), "id:2")
	require.True(t, ok)
	require.Len(t, cache.entries, 1)
}
