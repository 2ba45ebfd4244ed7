package predictcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/neo-hazard/internal/domain/prediction"
)

// ValkeyCache shares predictions across instances through a Valkey-compatible server.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache namespaced under prefix.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "neo"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

// Get implements prediction.Cache.
func (c *ValkeyCache) Get(ctx context.Context, key string) (prediction.Result, bool, error) {
	payload, err := c.client.Do(ctx, c.client.B().Get().Key(c.entryKey(key)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return prediction.Result{}, false, nil
		}
		return prediction.Result{}, false, err
	}
	var result prediction.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return prediction.Result{}, false, err
	}
	return result, true, nil
}

// Set implements prediction.Cache.
func (c *ValkeyCache) Set(ctx context.Context, key string, result prediction.Result, ttl time.Duration) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) entryKey(key string) string {
	return c.prefix + ":prediction:" + key
}

var _ prediction.Cache = (*ValkeyCache)(nil)
