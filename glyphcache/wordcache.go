package glyphcache

import (
	"github.com/henrythdu/Speedy/font"
)

// DefaultCapacity is the number of rasterized words kept
const DefaultCapacity = 1000

// Key identifies one rasterization
type Key struct {
	Word string
	Size float64
}

// Rasterizer produces word masks; *font.Rasterizer satisfies it
type Rasterizer interface {
	Rasterize(word string, size float64) (*font.Word, error)
}

// Stats counts cache traffic
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// WordCache memoizes Rasterize by (word, size)
type WordCache struct {
	raster Rasterizer
	lru    *LRU[Key, *font.Word]
	stats  Stats
}

// New creates a WordCache; capacity <= 0 uses DefaultCapacity
func New(r Rasterizer, capacity int) *WordCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &WordCache{
		raster: r,
		lru:    NewLRU[Key, *font.Word](capacity),
	}
	c.lru.OnEvict(func(Key, *font.Word) { c.stats.Evictions++ })
	return c
}

// Get returns the cached mask for word at size, rasterizing on a miss.
// Failed rasterizations are not cached.
func (c *WordCache) Get(word string, size float64) (*font.Word, error) {
	key := Key{Word: word, Size: size}
	if w, ok := c.lru.Get(key); ok {
		c.stats.Hits++
		return w, nil
	}
	c.stats.Misses++
	w, err := c.raster.Rasterize(word, size)
	if err != nil {
		return nil, err
	}
	c.lru.Put(key, w)
	return w, nil
}

// Stats returns a snapshot of the counters
func (c *WordCache) Stats() Stats {
	return c.stats
}

// Len returns the number of cached words
func (c *WordCache) Len() int {
	return c.lru.Len()
}

// Reset drops every entry, used when the font or size changes
func (c *WordCache) Reset() {
	c.lru.Clear()
}
