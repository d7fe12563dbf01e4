package embedding

import "sync"

// Cached memoizes another Embedder. Safe for concurrent use; concurrent
// misses on the same key compute twice and store the same vector.
type Cached struct {
	inner   Embedder
	vectors sync.Map
}

// NewCached wraps inner with a process-local cache
func NewCached(inner Embedder) *Cached {
	return &Cached{inner: inner}
}

// Dimension returns the wrapped embedder's vector size
func (c *Cached) Dimension() int {
	return c.inner.Dimension()
}

// Embed returns the cached vector for skill, computing it on first use.
// A failed embedding yields the zero vector and is retried on the next call.
func (c *Cached) Embed(skill string) []float64 {
	if v, ok := c.vectors.Load(skill); ok {
		return v.([]float64)
	}
	f, ok := c.inner.(FallibleEmbedder)
	if !ok {
		v := c.inner.Embed(skill)
		c.vectors.Store(skill, v)
		return v
	}
	v, err := f.TryEmbed(skill)
	if err != nil {
		return make([]float64, c.inner.Dimension())
	}
	c.vectors.Store(skill, v)
	return v
}
