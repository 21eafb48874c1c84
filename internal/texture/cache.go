package texture

import (
	"errors"
	"sync"

	"softrender/internal/pixbuf"
)

// ErrNotFound is returned when a texture name is not in the index.
var ErrNotFound = errors.New("texture: not found")

// Resolver resolves a texture name to a decoded image.
type Resolver interface {
	Resolve(name string) (*pixbuf.Image, error)
}

// Cache is a concurrency-safe texture cache keyed by path. Failed loads are
// cached as well so a bad file is read only once.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	index *Index
	load  func(path string) (*pixbuf.Image, error)
}

type cacheEntry struct {
	img *pixbuf.Image
	err error
}

// NewCache creates a cache backed by index. index may be nil when textures
// are only requested by path.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		index: index,
		load:  Load,
	}
}

// Resolve finds name in the index and returns the cached texture.
func (c *Cache) Resolve(name string) (*pixbuf.Image, error) {
	if c.index == nil {
		return nil, ErrNotFound
	}
	path, ok := c.index.ResolvePath(name)
	if !ok {
		return nil, ErrNotFound
	}
	return c.Get(path)
}

// Get loads path once and returns the shared image. Callers must not modify
// it.
func (c *Cache) Get(path string) (*pixbuf.Image, error) {
	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.img, entry.err
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	img, err := c.load(path)

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[path]; exists {
		return entry.img, entry.err
	}
	c.items[path] = &cacheEntry{img: img, err: err}
	return img, err
}

// Forget drops path so the next Get reloads it.
func (c *Cache) Forget(path string) {
	c.mu.Lock()
	delete(c.items, path)
	c.mu.Unlock()
}
