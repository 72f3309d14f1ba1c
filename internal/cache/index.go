package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/sagikazarmark/slog-shim"
)

// simple cache implemented using ristretto cache library
type InMemoryCache struct {
	cache *ristretto.Cache
}

func DefaultConfig() *ristretto.Config {
	return &ristretto.Config{
		NumCounters: 100000,   // number of keys to track frequency
		MaxCost:     67108864, // maximum cost of cache (64mb).
		BufferItems: 64,       // number of keys per Get buffer.
	}
}

func NewInMemoryCache(config *ristretto.Config) (*InMemoryCache, error) {
	if config == nil {
		config = DefaultConfig()
	}

	cache, err := ristretto.NewCache(config)
	if err != nil {
		slog.Error("error initializing in-memory cache", "error", err)
		return nil, err
	}

	return &InMemoryCache{cache}, nil
}

// Set stores value with no expiry. It returns false if the write was dropped.
func (cache *InMemoryCache) Set(key string, value interface{}) bool {
	return cache.SetWithTTL(key, value, 0)
}

func (cache *InMemoryCache) SetWithTTL(key string, value interface{}, ttl time.Duration) bool {
	res := cache.cache.SetWithTTL(key, value, 1, ttl)

	// wait for value to pass through buffers
	cache.cache.Wait()
	return res
}

func (cache *InMemoryCache) Get(key string) (interface{}, bool) {
	return cache.cache.Get(key)
}

func (cache *InMemoryCache) Delete(key string) {
	cache.cache.Del(key)
}

func (cache *InMemoryCache) Close() {
	cache.cache.Close()
}
