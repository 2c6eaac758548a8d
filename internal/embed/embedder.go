// Package embed turns text into vectors via a configurable backend.
package embed

import "context"

// Embedder converts text into a dense vector. Implementations are safe
// for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Provider() string
	Model() string
}

// EmbedBatch embeds texts sequentially, reporting progress every step
// items and once at the end. Local embedding servers handle one request
// at a time well; parallel fan-out buys little here.
func EmbedBatch(ctx context.Context, e Embedder, texts []string, step int, onProgress func(done, total int)) ([][]float32, error) {
	if step <= 0 {
		step = 5
	}

	vectors := make([][]float32, 0, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, vec)

		done := i + 1
		if onProgress != nil && (done%step == 0 || done == len(texts)) {
			onProgress(done, len(texts))
		}
	}
	return vectors, nil
}
