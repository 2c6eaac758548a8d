package embed

import (
	"context"

	"github.com/pkoval/claimlens/internal/cache"
	"github.com/pkoval/claimlens/internal/index"
)

// CachedEmbedder wraps an Embedder with a vector cache. Identical text
// embedded under the same provider and model never hits the backend
// twice within the TTL.
type CachedEmbedder struct {
	inner Embedder
	cache cache.Cache
}

// WithCache wraps e with the given cache. A nil cache returns e
// unchanged.
func WithCache(e Embedder, c cache.Cache) Embedder {
	if c == nil {
		return e
	}
	return &CachedEmbedder{inner: e, cache: c}
}

func (e *CachedEmbedder) Provider() string { return e.inner.Provider() }
func (e *CachedEmbedder) Model() string    { return e.inner.Model() }

func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cache.EmbeddingKey(e.inner.Provider(), e.inner.Model(), text)

	if data, found := e.cache.Get(key); found {
		if vec := index.DecodeVector(data); len(vec) > 0 {
			return vec, nil
		}
	}

	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	// Cache write failures are not fatal; the vector is already in hand
	_ = e.cache.Set(key, index.EncodeVector(vec), 0)
	return vec, nil
}
