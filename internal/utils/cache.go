package utils

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheEntry struct {
	data      any
	expiresAt time.Time
}

// GlobalCache 本地 LRU 缓存，条目带 TTL。nil 缓存的所有方法都是空操作
//
// Delete 会递增 key 所在分段的代数；SetIfGeneration 在代数变化后放弃写入，
// 避免加载期间被删除的旧值重新写回。
type GlobalCache struct {
	entries *lru.Cache[string, cacheEntry]

	mu   sync.Mutex
	gens [genStripes]uint64
}

const (
	defaultCacheSize = 500
	genStripes       = 256
)

var (
	cacheInstance *GlobalCache
	cacheOnce     sync.Once
)

// NewCache creates a cache holding at most size entries; size < 1 uses the default.
func NewCache(size int) *GlobalCache {
	if size < 1 {
		size = defaultCacheSize
	}
	// lru.New 只在 size <= 0 时返回错误
	l, _ := lru.New[string, cacheEntry](size)
	return &GlobalCache{entries: l}
}

// GetCache 进程内共享实例
func GetCache() *GlobalCache {
	cacheOnce.Do(func() {
		cacheInstance = NewCache(defaultCacheSize)
	})
	return cacheInstance
}

func (c *GlobalCache) Set(key string, data any, ttl time.Duration) {
	if c == nil {
		return
	}
	c.entries.Add(key, cacheEntry{data: data, expiresAt: time.Now().Add(ttl)})
}

// Get returns nil for missing or expired keys.
func (c *GlobalCache) Get(key string) any {
	if c == nil {
		return nil
	}
	e, ok := c.entries.Get(key)
	if !ok {
		return nil
	}
	if time.Now().After(e.expiresAt) {
		c.entries.Remove(key)
		return nil
	}
	return e.data
}

func (c *GlobalCache) Delete(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[stripe(key)]++
	c.entries.Remove(key)
}

func stripe(key string) uint64 {
	return xxhash.Sum64String(key) % genStripes
}

// Generation is read before loading a value for key.
func (c *GlobalCache) Generation(key string) uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[stripe(key)]
}

// SetIfGeneration stores data only if key was not deleted since gen was read.
func (c *GlobalCache) SetIfGeneration(key string, gen uint64, data any, ttl time.Duration) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[stripe(key)] != gen {
		return false
	}
	c.entries.Add(key, cacheEntry{data: data, expiresAt: time.Now().Add(ttl)})
	return true
}

// GraphKey is the cache key of a loaded post/issue/campaign graph. The
// cached value is viewer independent; annotations are computed per request.
func GraphKey(kind, id string) string {
	return "graph:" + kind + ":" + id
}

// InvalidateGraph drops the cached graph after a vote, comment or membership change.
func (c *GlobalCache) InvalidateGraph(kind, id string) {
	c.Delete(GraphKey(kind, id))
}
