package glyphcache

import (
	"errors"
	"image"
	"testing"

	"github.com/henrythdu/Speedy/font"
)

type countingRasterizer struct {
	calls map[Key]int
	fail  bool
}

func (r *countingRasterizer) Rasterize(word string, size float64) (*font.Word, error) {
	if r.calls == nil {
		r.calls = make(map[Key]int)
	}
	r.calls[Key{word, size}]++
	if r.fail {
		return nil, errors.New("raster failed")
	}
	return &font.Word{Text: word, Size: size, Mask: image.NewAlpha(image.Rect(0, 0, 1, 1))}, nil
}

// TestLRUEviction verifies least recently used entries leave first
func TestLRUEviction(t *testing.T) {
	c := NewLRU[string, int](2)
	var evicted []string
	c.OnEvict(func(k string, _ int) { evicted = append(evicted, k) })

	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a")
	c.Put("c", 3)

	if c.Contains("b") {
		t.Errorf("Expected b evicted")
	}
	if !c.Contains("a") || !c.Contains("c") {
		t.Errorf("Expected a and c present")
	}
	if len(evicted) != 1 || evicted[0] != "b" {
		t.Errorf("Expected evicted [b], got %v", evicted)
	}

	c.Put("a", 10)
	if v, _ := c.Get("a"); v != 10 {
		t.Errorf("Expected replaced value 10, got %d", v)
	}
	if c.Len() != 2 {
		t.Errorf("Expected len 2, got %d", c.Len())
	}

	c.Clear()
	if c.Len() != 0 || c.Contains("a") {
		t.Errorf("Expected empty cache after Clear")
	}
}

// TestLRUMinimumCapacity verifies a zero capacity still holds one entry
func TestLRUMinimumCapacity(t *testing.T) {
	c := NewLRU[int, int](0)
	c.Put(1, 1)
	c.Put(2, 2)
	if c.Cap() != 1 || c.Len() != 1 || !c.Contains(2) {
		t.Errorf("Expected single most recent entry, cap %d len %d", c.Cap(), c.Len())
	}
}

// TestWordCacheHitSkipsRasterizer verifies repeated words are rasterized once
func TestWordCacheHitSkipsRasterizer(t *testing.T) {
	r := &countingRasterizer{}
	c := New(r, 10)

	for i := 0; i < 3; i++ {
		if _, err := c.Get("the", 32); err != nil {
			t.Fatal(err)
		}
	}
	if got := r.calls[Key{"the", 32}]; got != 1 {
		t.Errorf("Expected 1 rasterization, got %d", got)
	}
	if _, err := c.Get("the", 48); err != nil {
		t.Fatal(err)
	}
	if got := r.calls[Key{"the", 48}]; got != 1 {
		t.Errorf("Expected separate entry per size, got %d calls", got)
	}

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 2 {
		t.Errorf("Expected 2 hits 2 misses, got %+v", s)
	}
}

// TestWordCacheCapacity verifies the cache never grows past capacity
func TestWordCacheCapacity(t *testing.T) {
	r := &countingRasterizer{}
	c := New(r, 3)

	for _, w := range []string{"a", "b", "c", "d", "e"} {
		c.Get(w, 10)
	}
	if c.Len() != 3 {
		t.Errorf("Expected 3 entries, got %d", c.Len())
	}
	if c.Stats().Evictions != 2 {
		t.Errorf("Expected 2 evictions, got %d", c.Stats().Evictions)
	}

	c.Get("a", 10)
	if r.calls[Key{"a", 10}] != 2 {
		t.Errorf("Expected evicted word to be rasterized again")
	}
}

// TestWordCacheErrorsNotCached verifies failures are retried
func TestWordCacheErrorsNotCached(t *testing.T) {
	r := &countingRasterizer{fail: true}
	c := New(r, 0)

	if _, err := c.Get("x", 10); err == nil {
		t.Fatal("Expected error")
	}
	if c.Len() != 0 {
		t.Errorf("Expected no entries after failure, got %d", c.Len())
	}
	r.fail = false
	if _, err := c.Get("x", 10); err != nil {
		t.Errorf("Expected retry to succeed, got %v", err)
	}
}
