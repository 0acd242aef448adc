package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"
)

// MemoryCache is a process-local Cache used when no Redis is configured.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memItem
	now   func() time.Time
}

type memItem struct {
	val     []byte
	expires time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]memItem), now: time.Now}
}

// get returns a live entry; the caller holds mu.
func (c *MemoryCache) get(key string) ([]byte, bool) {
	it, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if !it.expires.IsZero() && !c.now().Before(it.expires) {
		delete(c.items, key)
		return nil, false
	}
	return it.val, true
}

func (c *MemoryCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	b, ok := c.get(key)
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	return json.Unmarshal(b, dst) == nil, nil
}

func (c *MemoryCache) TakeJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	b, ok := c.get(key)
	delete(c.items, key)
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	return json.Unmarshal(b, dst) == nil, nil
}

func (c *MemoryCache) SetJSON(_ context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	it := memItem{val: b}
	if ttl > 0 {
		it.expires = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = it
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	if b, ok := c.get(key); ok {
		v, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return 0, err
		}
		n = v
	}
	n++
	prev := c.items[key]
	c.items[key] = memItem{val: []byte(strconv.FormatInt(n, 10)), expires: prev.expires}
	return n, nil
}

func (c *MemoryCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.items, k)
	}
	c.mu.Unlock()
	return nil
}
