package market

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores serialized values with a per-entry TTL. Losing every entry
// is always safe: a miss cascades to a live fetch, never an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
}

// NewCache returns a Redis-backed cache when redisURL is set and the
// server answers a ping, otherwise an in-process memory cache. The
// fallback is silent: a single process does not need shared state.
func NewCache(redisURL string) Cache {
	if redisURL == "" {
		return NewMemoryCache()
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("cache: invalid REDIS_URL, using memory cache: %v", err)
		return NewMemoryCache()
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("cache: redis unreachable, using memory cache: %v", err)
		return NewMemoryCache()
	}
	return &redisCache{client: client}
}

// --- Memory backend ---

type memEntry struct {
	val       []byte
	expiresAt time.Time
}

// MemoryCache is a map-backed cache with lazy expiry: stale entries are
// deleted on the read that finds them, not by a background sweeper. The
// entry count is bounded by the small set of distinct query shapes.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memEntry
}

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memEntry)}
}

// Get returns the value for key if present and unexpired. An expired
// entry is removed before reporting a miss.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.val, true
}

// Set stores val under key, overwriting any existing entry.
func (c *MemoryCache) Set(_ context.Context, key string, val []byte, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = memEntry{val: val, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Len reports the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// --- Redis backend ---

type redisCache struct {
	client *redis.Client
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (c *redisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, val, ttl).Err(); err != nil {
		log.Printf("cache: redis set %s: %v", key, err)
	}
}
