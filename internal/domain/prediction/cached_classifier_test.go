package prediction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/neo-hazard/pkg/errors"
)

func TestCachedClassifierServesRepeatRequests(t *testing.T) {
	next := &stubClassifier{result: Result{IsHazardous: true, TrueProbability: 0.9, FalseProbability: 0.1}}
	cache := newMapCache()
	rec := &stubRecorder{}
	cc := NewCachedClassifier(next, cache, time.Hour, rec, newTestLogger())

	req := Request{ID: "3542519"}
	first, err := cc.Predict(context.Background(), req)
	require.NoError(t, err)
	second, err := cc.Predict(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, next.callCount())
	require.Equal(t, 1, rec.hits)
	require.Equal(t, time.Hour, cache.ttls["id:3542519"])
}

func TestCachedClassifierSkipsFailures(t *testing.T) {
	next := &stubClassifier{err: apperrors.Wrap(CodeCapacityExceeded, "cuh", nil)}
	cache := newMapCache()
	cc := NewCachedClassifier(next, cache, time.Hour, nil, newTestLogger())

	_, err := cc.Predict(context.Background(), Request{ID: "3542519"})
	require.True(t, apperrors.IsCode(err, CodeCapacityExceeded))
	_, err = cc.Predict(context.Background(), Request{ID: "3542519"})
	require.Error(t, err)

	require.Equal(t, 2, next.callCount())
	require.Empty(t, cache.items)
}

func TestCachedClassifierIgnoresCacheErrors(t *testing.T) {
	next := &stubClassifier{result: Result{FalseProbability: 1}}
	cache := newMapCache()
	cache.err = errors.New("valkey unavailable")
	cc := NewCachedClassifier(next, cache, time.Minute, nil, newTestLogger())

	res, err := cc.Predict(context.Background(), Request{ID: "3542519"})
	require.NoError(t, err)
	require.Equal(t, 1.0, res.FalseProbability)
}

type mapCache struct {
	items map[string]Result
	ttls  map[string]time.Duration
	err   error
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string]Result), ttls: make(map[string]time.Duration)}
}

func (m *mapCache) Get(_ context.Context, key string) (Result, bool, error) {
	if m.err != nil {
		return Result{}, false, m.err
	}
	res, ok := m.items[key]
	return res, ok, nil
}

func (m *mapCache) Set(_ context.Context, key string, result Result, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.items[key] = result
	m.ttls[key] = ttl
	return nil
}
