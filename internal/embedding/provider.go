package embedding

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_provider.go -package=mocks github.com/Kavirubc/simili-rca/internal/embedding Provider

import (
	"context"
	"fmt"

	"github.com/Kavirubc/simili-rca/internal/config"
	"github.com/Kavirubc/simili-rca/internal/logger"
)

// Provider turns texts into vectors, one per text in input order
type Provider interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Close() error
}

// NewProvider builds the configured primary provider, wrapped with the
// fallback provider when one is configured.
func NewProvider(cfg *config.EmbeddingConfig, log *logger.Logger) (Provider, error) {
	primary, err := createProvider(&cfg.Primary, cfg.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("failed to create primary provider: %w", err)
	}

	if cfg.Fallback.Provider == "" {
		return primary, nil
	}

	fallback, err := createProvider(&cfg.Fallback, cfg.Dimensions)
	if err != nil {
		log.Warn("Failed to create fallback embedding provider", "provider", cfg.Fallback.Provider, "error", err)
		return primary, nil
	}
	return NewFallbackProvider(primary, fallback, log), nil
}

// createProvider creates a provider based on config
func createProvider(cfg *config.ProviderConfig, dimensions int) (Provider, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiProvider(cfg.APIKey, cfg.Model, dimensions)
	case "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, dimensions)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// embedInBatches calls embed on consecutive slices of at most size texts and
// checks that every slice comes back complete
func embedInBatches(ctx context.Context, texts []string, size int, embed func(context.Context, []string) ([][]float32, error)) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if size <= 0 {
		size = len(texts)
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		vectors, err := embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if len(vectors) != end-start {
			return nil, fmt.Errorf("%w: sent %d texts, got %d vectors", ErrEmbeddingCount, end-start, len(vectors))
		}
		out = append(out, vectors...)
	}
	return out, nil
}
