package weather

import (
	"context"
	"sync/atomic"
	"time"
)

// CacheEntry pairs a snapshot with where and when it was fetched.
type CacheEntry struct {
	Snapshot  Snapshot    `json:"snapshot"`
	Location  Coordinates `json:"location"`
	FetchedAt time.Time   `json:"fetchedAt"`
}

// Age returns how long ago the entry was fetched.
func (e CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}

// Fresh reports whether the entry may be served without refetching.
func (e CacheEntry) Fresh(now time.Time, ttl time.Duration) bool {
	return e.Age(now) < ttl
}

// Cache is the single shared weather slot. The last writer wins.
type Cache interface {
	Load(ctx context.Context) (CacheEntry, bool, error)
	Store(ctx context.Context, entry CacheEntry) error
}

// MemoryCache keeps the slot in process memory.
type MemoryCache struct {
	slot atomic.Pointer[CacheEntry]
}

// NewMemoryCache returns an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

// Load implements Cache.
func (c *MemoryCache) Load(context.Context) (CacheEntry, bool, error) {
	entry := c.slot.Load()
	if entry == nil {
		return CacheEntry{}, false, nil
	}
	return *entry, true, nil
}

// Store implements Cache.
func (c *MemoryCache) Store(_ context.Context, entry CacheEntry) error {
	c.slot.Store(&entry)
	return nil
}

var _ Cache = (*MemoryCache)(nil)
