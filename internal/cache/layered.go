package cache

// LayeredCache implements a two-layer cache (memory in front of a persistent store)
type LayeredCache struct {
	memory Cache
	store  Cache
}

// NewLayeredCache creates a layered cache over the given persistent store
func NewLayeredCache(store Cache) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(),
		store:  store,
	}
}

// Get retrieves a value from the cache (checks memory first, then the store)
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}

	if val, found := c.store.Get(key); found {
		// Promote to memory cache
		_ = c.memory.Set(key, val)
		return val, true
	}

	return nil, false
}

// Set stores a value in both layers. A store failure still leaves the memory copy.
func (c *LayeredCache) Set(key string, value []byte) error {
	if err := c.memory.Set(key, value); err != nil {
		return err
	}
	return c.store.Set(key, value)
}

// Clear removes all values from both layers
func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	return c.store.Clear()
}
