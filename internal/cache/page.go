package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// HomePagePrefix namespaces cached renderings of the home feed.
const HomePagePrefix = "index_page"

// HomePageKey is the cache key for one page number of the home feed.
func HomePageKey(page int) string {
	return HomePagePrefix + ":" + strconv.Itoa(page)
}

// PageCache stores rendered responses for a fixed time. Entries are never
// invalidated early; readers see the stored bytes until they expire.
type PageCache interface {
	// Get returns the stored bytes and whether a live entry was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put stores value under key for ttl.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisPageCache implements PageCache with plain Redis strings.
type RedisPageCache struct {
	client *redis.Client
}

func NewRedisPageCache(client *redis.Client) PageCache {
	return &RedisPageCache{client: client}
}

func (c *RedisPageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

// Put uses SET key value EX ttl.
func (c *RedisPageCache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryPageCache is a process-local PageCache used when Redis is not
// configured. Expired entries are dropped lazily on read.
type MemoryPageCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryPageCache() *MemoryPageCache {
	return NewMemoryPageCacheWithClock(time.Now)
}

func NewMemoryPageCacheWithClock(now func() time.Time) *MemoryPageCache {
	return &MemoryPageCache{entries: make(map[string]memoryEntry), now: now}
}

func (c *MemoryPageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		if current, ok := c.entries[key]; ok && current.expiresAt.Equal(entry.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (c *MemoryPageCache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	c.entries[key] = memoryEntry{value: stored, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}
