package retrieval

import (
	"context"
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
	chromem "github.com/philippgille/chromem-go"
)

// NewEmbeddingFunc builds the chromem embedding function for cfg, wrapped
// in an LRU cache when CacheSize is positive.
func NewEmbeddingFunc(cfg *EmbeddingConfig) (chromem.EmbeddingFunc, error) {
	var embed chromem.EmbeddingFunc

	switch cfg.Provider {
	case "openai":
		if cfg.BaseURL == "" {
			embed = chromem.NewEmbeddingFuncOpenAI(cfg.APIKey, chromem.EmbeddingModelOpenAI(cfg.Model))
		} else {
			embed = chromem.NewEmbeddingFuncOpenAICompat(cfg.BaseURL, cfg.APIKey, cfg.Model, nil)
		}
	case "ollama":
		embed = chromem.NewEmbeddingFuncOllama(cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}

	if cfg.CacheSize <= 0 {
		return embed, nil
	}
	return CachedEmbeddingFunc(embed, cfg.CacheSize)
}

// CachedEmbeddingFunc memoizes embed by input text. Queries repeat across
// sessions on the same topic, so the cache avoids re-embedding them.
func CachedEmbeddingFunc(embed chromem.EmbeddingFunc, size int) (chromem.EmbeddingFunc, error) {
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}

	return func(ctx context.Context, text string) ([]float32, error) {
		if cached, ok := cache.Get(text); ok {
			return slices.Clone(cached), nil
		}

		vector, err := embed(ctx, text)
		if err != nil {
			return nil, err
		}
		cache.Add(text, slices.Clone(vector))
		return vector, nil
	}, nil
}
