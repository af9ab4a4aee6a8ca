package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Cache is an in-process TTL cache. Values are kept JSON-encoded so callers
// never share memory with what is stored.
type Cache struct {
	mu   sync.RWMutex
	ttl  time.Duration
	m    map[string]entry
	gens map[string]uint64
	now  func() time.Time

	writes uint64
}

type entry struct {
	val []byte
	exp time.Time
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Cache{
		ttl:  ttl,
		m:    make(map[string]entry),
		gens: make(map[string]uint64),
		now:  time.Now,
	}
}

func (c *Cache) Get(key string) ([]byte, bool) {
	now := c.now()
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if now.After(e.exp) {
		c.evictExpired(key, now)
		return nil, false
	}

	return e.val, true
}

// evictExpired deletes key only if the entry is still expired under the
// write lock; a Set may have replaced it since the read.
func (c *Cache) evictExpired(key string, now time.Time) {
	c.mu.Lock()
	if cur, ok := c.m[key]; ok && now.After(cur.exp) {
		delete(c.m, key)
	}
	c.mu.Unlock()
}

// sweepEvery is how many writes pass between scans for expired entries.
// Entries are per owner and generation, so without a sweep superseded
// lists would stay resident.
const sweepEvery = 256

func (c *Cache) Set(key string, val []byte) {
	now := c.now()

	c.mu.Lock()
	c.m[key] = entry{val: val, exp: now.Add(c.ttl)}
	c.writes++
	if c.writes%sweepEvery == 0 {
		for k, e := range c.m {
			if now.After(e.exp) {
				delete(c.m, k)
			}
		}
	}
	c.mu.Unlock()
}

func (c *Cache) Load(_ context.Context, key string, dest any) (bool, error) {
	b, ok := c.Get(key)
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *Cache) Store(_ context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.Set(key, b)
	return nil
}

// Generation returns the counter stored under key, zero if never bumped.
func (c *Cache) Generation(_ context.Context, key string) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[key], nil
}

// Bump advances the counter under key. Entries written under the old
// generation are never read again and age out with the TTL.
func (c *Cache) Bump(_ context.Context, key string) error {
	c.mu.Lock()
	c.gens[key]++
	c.mu.Unlock()
	return nil
}
