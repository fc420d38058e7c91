package llm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_provider.go -package=mocks github.com/Kavirubc/simili-rca/internal/llm Provider

import (
	"context"
	"fmt"

	"github.com/Kavirubc/simili-rca/internal/config"
)

// Request is one single-turn generation
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Provider generates text from a request
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
	Close() error
}

// NewProvider creates the configured analysis provider
func NewProvider(cfg *config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiProvider(cfg.APIKey, cfg.Model)
	case "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
}
