package catalog

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"credit-sync/internal/model"
)

// Cache keeps album credits fetched during one run. Entries never expire.
type Cache struct {
	mu      sync.Mutex
	entries map[string]model.AlbumCredits
	group   singleflight.Group
}

// NewCache creates an empty album credit cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]model.AlbumCredits)}
}

// Key builds the cache key of an album.
func Key(artistName, albumName string) string {
	return artistName + " - " + albumName
}

// Get returns the cached credits for key.
func (c *Cache) Get(key string) (model.AlbumCredits, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[key]
	return v, ok
}

// Put stores credits under key, replacing any previous value.
func (c *Cache) Put(key string, credits model.AlbumCredits) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = credits
}

// Len returns the number of cached albums.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// GetOrFetch returns the cached credits for key, calling fetch on a miss.
// Concurrent misses for one key share a single fetch. hit is true only when
// the value was already cached. Failed fetches are not cached.
func (c *Cache) GetOrFetch(key string, fetch func() (model.AlbumCredits, error)) (credits model.AlbumCredits, hit bool, err error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		fetched, err := fetch()
		if err != nil {
			return nil, err
		}
		c.Put(key, fetched)
		return fetched, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(model.AlbumCredits), false, nil
}
