package embedding

import (
	"container/list"
	"sync"
)

// EmbeddingCache keeps the most recently encoded sentences in memory. Entries are copied on the
// way in and out, so callers may normalize the returned rows in place.
type EmbeddingCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[string]*list.Element
}

type cachedSentence struct {
	text   string
	vector []float32
}

// NewEmbeddingCache creates a cache holding at most capacity sentences. A capacity <= 0 disables caching.
func NewEmbeddingCache(capacity int) *EmbeddingCache {
	return &EmbeddingCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// Get returns a copy of the cached encoding of text.
func (c *EmbeddingCache) Get(text string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[text]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return cloneVector(el.Value.(*cachedSentence).vector), true
}

// Set stores a copy of vector for text, dropping the least recently used sentence when full.
func (c *EmbeddingCache) Set(text string, vector []float32) {
	if c.capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[text]; ok {
		el.Value.(*cachedSentence).vector = cloneVector(vector)
		c.order.MoveToFront(el)
		return
	}
	c.entries[text] = c.order.PushFront(&cachedSentence{text: text, vector: cloneVector(vector)})
	for c.order.Len() > c.capacity {
		last := c.order.Back()
		c.order.Remove(last)
		delete(c.entries, last.Value.(*cachedSentence).text)
	}
}

// Len returns the number of cached sentences.
func (c *EmbeddingCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func cloneVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
