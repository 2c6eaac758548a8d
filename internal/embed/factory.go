package embed

import (
	"fmt"
	"time"

	"github.com/pkoval/claimlens/internal/model"
)

// NewEmbedder creates the configured embedding backend.
func NewEmbedder(cfg model.EmbedderConfig) (Embedder, error) {
	timeout := time.Duration(cfg.TimeoutS) * time.Second

	switch cfg.Provider {
	case "", "ollama":
		model := cfg.Model
		if model == "" {
			model = "nomic-embed-text"
		}
		return NewOllamaEmbedder(cfg.BaseURL, model, timeout), nil
	case "openai":
		return NewOpenAIEmbedder(cfg.APIKey, cfg.BaseURL, cfg.Model, timeout)
	default:
		return nil, fmt.Errorf("unknown embedder provider: %s (want ollama or openai)", cfg.Provider)
	}
}
