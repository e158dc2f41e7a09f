package embed

import (
	"context"
	"fmt"
	"slices"

	"github.com/hupe1980/vecsim/internal/cache"
	"github.com/hupe1980/vecsim/internal/resource"
)

// Cached memoises another Embedder. Identical texts are embedded once while
// they stay in the LRU. Returned vectors are copies and may be modified.
type Cached struct {
	next  Embedder
	cache *cache.LRU[string, []float32]
}

var _ Embedder = (*Cached)(nil)

// NewCached wraps next with an LRU of capacity entries.
func NewCached(next Embedder, capacity int) *Cached {
	return &Cached{
		next:  next,
		cache: cache.NewLRU[string, []float32](capacity, nil, nil),
	}
}

// NewCachedWithLimit is NewCached with the cached vectors additionally
// bounded to memoryLimitBytes.
func NewCachedWithLimit(next Embedder, capacity int, memoryLimitBytes int64) *Cached {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: memoryLimitBytes})
	return &Cached{
		next:  next,
		cache: cache.NewLRU[string, []float32](capacity, vectorSize, rc),
	}
}

// Embed returns the cached embedding for text or computes it.
func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.cache.Get(text); ok {
		return slices.Clone(v), nil
	}

	v, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Set(text, slices.Clone(v))
	return v, nil
}

// EmbedBatch serves hits from the cache and embeds the misses in one call.
func (c *Cached) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	out := make([][]float32, len(texts))
	var (
		missTexts []string
		missIdx   []int
	)
	for i, t := range texts {
		if v, ok := c.cache.Get(t); ok {
			out[i] = slices.Clone(v)
			continue
		}
		missTexts = append(missTexts, t)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := c.next.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrVectorCount, len(vecs), len(missTexts))
	}
	for j, v := range vecs {
		out[missIdx[j]] = v
		c.cache.Set(missTexts[j], slices.Clone(v))
	}
	return out, nil
}

// Dimension returns the wrapped embedder's dimensionality.
func (c *Cached) Dimension() int {
	return c.next.Dimension()
}

// Stats returns cache hits and misses.
func (c *Cached) Stats() (hits, misses int64) {
	return c.cache.Stats()
}

func vectorSize(v []float32) int64 {
	return int64(len(v)) * 4
}
