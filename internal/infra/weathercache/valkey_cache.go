package weathercache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/outfit-advisor/internal/domain/weather"
)

const defaultKey = "weather:current"

// ValkeyCache shares the weather slot across replicas. The key never expires
// so that an old snapshot stays available when upstream is down.
type ValkeyCache struct {
	client valkey.Client
	key    string
}

// NewValkeyCache constructs a cache stored under key.
func NewValkeyCache(client valkey.Client, key string) *ValkeyCache {
	if key == "" {
		key = defaultKey
	}
	return &ValkeyCache{client: client, key: key}
}

// Load implements weather.Cache.
func (c *ValkeyCache) Load(ctx context.Context) (weather.CacheEntry, bool, error) {
	payload, err := c.client.Do(ctx, c.client.B().Get().Key(c.key).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return weather.CacheEntry{}, false, nil
		}
		return weather.CacheEntry{}, false, err
	}
	entry, err := decodeEntry(payload)
	if err != nil {
		return weather.CacheEntry{}, false, err
	}
	return entry, true, nil
}

// Store implements weather.Cache.
func (c *ValkeyCache) Store(ctx context.Context, entry weather.CacheEntry) error {
	payload, err := encodeEntry(entry)
	if err != nil {
		return err
	}
	return c.client.Do(ctx, c.client.B().Set().Key(c.key).Value(payload).Build()).Error()
}

func encodeEntry(entry weather.CacheEntry) (string, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("encode weather entry: %w", err)
	}
	return string(data), nil
}

func decodeEntry(payload string) (weather.CacheEntry, error) {
	var entry weather.CacheEntry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return weather.CacheEntry{}, fmt.Errorf("decode weather entry: %w", err)
	}
	if entry.FetchedAt.IsZero() {
		return weather.CacheEntry{}, fmt.Errorf("decode weather entry: missing fetchedAt")
	}
	return entry, nil
}

var _ weather.Cache = (*ValkeyCache)(nil)
