package prediction

import (
	"context"
	"log/slog"
	"time"
)

// Cache stores successful results keyed by Request.Key.
type Cache interface {
	Get(ctx context.Context, key string) (Result, bool, error)
	Set(ctx context.Context, key string, result Result, ttl time.Duration) error
}

// CachedClassifier serves repeated requests from a Cache. Only successes
// are stored; cache errors fall through to the wrapped classifier.
type CachedClassifier struct {
	next     Classifier
	cache    Cache
	ttl      time.Duration
	recorder Recorder
	logger   *slog.Logger
}

// NewCachedClassifier decorates next with cache.
func NewCachedClassifier(next Classifier, cache Cache, ttl time.Duration, recorder Recorder, logger *slog.Logger) *CachedClassifier {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &CachedClassifier{
		next:     next,
		cache:    cache,
		ttl:      ttl,
		recorder: recorder,
		logger:   logger.With("component", "prediction.cache"),
	}
}

// Predict implements Classifier.
func (c *CachedClassifier) Predict(ctx context.Context, req Request) (Result, error) {
	key := req.Key()
	if cached, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("prediction cache read failed", "key", key, "error", err)
	} else if ok {
		c.recorder.CacheHit()
		c.logger.Debug("prediction cache hit", "key", key)
		return cached, nil
	}

	result, err := c.next.Predict(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if err := c.cache.Set(ctx, key, result, c.ttl); err != nil {
		c.logger.Warn("prediction cache write failed", "key", key, "error", err)
	}
	return result, nil
}

var _ Classifier = (*CachedClassifier)(nil)
