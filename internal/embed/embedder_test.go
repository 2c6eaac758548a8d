package embed

import (
	"context"
	"testing"
	"time"

	"github.com/pkoval/claimlens/internal/cache"
	"github.com/pkoval/claimlens/internal/model"
)

type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	// Deterministic per-text vector
	v := make([]float32, 4)
	for i, r := range text {
		v[i%4] += float32(r)
	}
	return v, nil
}

func (f *fakeEmbedder) Provider() string { return "fake" }
func (f *fakeEmbedder) Model() string    { return "test-model" }

func TestCachedEmbedder_HitsSkipBackend(t *testing.T) {
	fake := &fakeEmbedder{}
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	e := WithCache(fake, c)

	ctx := context.Background()
	first, err := e.Embed(ctx, "hello world")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	second, err := e.Embed(ctx, "hello world")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if fake.calls != 1 {
		t.Errorf("Expected 1 backend call, got %d", fake.calls)
	}
	if len(first) != len(second) {
		t.Fatalf("Vector lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Cached vector differs at %d: %v vs %v", i, first[i], second[i])
		}
	}

	if _, err := e.Embed(ctx, "different text"); err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if fake.calls != 2 {
		t.Errorf("Expected cache miss for new text, got %d backend calls", fake.calls)
	}
}

func TestWithCache_NilCacheIsPassthrough(t *testing.T) {
	fake := &fakeEmbedder{}
	if got := WithCache(fake, nil); got != Embedder(fake) {
		t.Error("Expected nil cache to return the inner embedder")
	}
}

func TestEmbedBatch_Progress(t *testing.T) {
	fake := &fakeEmbedder{}
	texts := []string{"a", "b", "c", "d", "e", "f", "g"}

	var reports [][2]int
	vectors, err := EmbedBatch(context.Background(), fake, texts, 3, func(done, total int) {
		reports = append(reports, [2]int{done, total})
	})
	if err != nil {
		t.Fatalf("EmbedBatch failed: %v", err)
	}

	if len(vectors) != len(texts) {
		t.Fatalf("Expected %d vectors, got %d", len(texts), len(vectors))
	}
	// Progress at 3, 6 and the final 7
	want := [][2]int{{3, 7}, {6, 7}, {7, 7}}
	if len(reports) != len(want) {
		t.Fatalf("Expected %d progress reports, got %v", len(want), reports)
	}
	for i := range want {
		if reports[i] != want[i] {
			t.Errorf("Report %d: expected %v, got %v", i, want[i], reports[i])
		}
	}
}

func TestEmbedBatch_CancelledContext(t *testing.T) {
	fake := &fakeEmbedder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := EmbedBatch(ctx, fake, []string{"a", "b"}, 1, nil); err == nil {
		t.Error("Expected error on cancelled context")
	}
	if fake.calls != 0 {
		t.Errorf("Expected no backend calls after cancel, got %d", fake.calls)
	}
}

func TestNewEmbedder_Providers(t *testing.T) {
	cfg := model.DefaultConfig().Embedder
	e, err := NewEmbedder(cfg)
	if err != nil {
		t.Fatalf("NewEmbedder failed: %v", err)
	}
	if e.Provider() != "ollama" {
		t.Errorf("Expected ollama provider, got %s", e.Provider())
	}

	cfg.Provider = "openai"
	if _, err := NewEmbedder(cfg); err == nil {
		t.Error("Expected error for openai provider without API key")
	}

	cfg.Provider = "something-else"
	if _, err := NewEmbedder(cfg); err == nil {
		t.Error("Expected error for unknown provider")
	}
}
