package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// The embeddings endpoint takes up to 2048 inputs per request
const openAIMaxBatch = 2048

// OpenAIProvider embeds texts through the OpenAI embeddings API or any
// server speaking it (e.g. a self-hosted multilingual-e5 model)
type OpenAIProvider struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	batchSize  int
}

// NewOpenAIProvider creates an OpenAI-compatible provider.
// baseURL is optional and overrides the public API endpoint.
func NewOpenAIProvider(apiKey, baseURL, model string, dimensions int) (*OpenAIProvider, error) {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}

	embModel := openai.SmallEmbedding3
	if model != "" {
		embModel = openai.EmbeddingModel(model)
	}

	return &OpenAIProvider{
		client:     openai.NewClientWithConfig(cfg),
		model:      embModel,
		dimensions: dimensions,
		batchSize:  openAIMaxBatch,
	}, nil
}

// EmbedBatch embeds texts in request-sized slices, preserving order
func (p *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return embedInBatches(ctx, texts, p.batchSize, p.embed)
}

func (p *OpenAIProvider) embed(ctx context.Context, texts []string) ([][]float32, error) {
	req := openai.EmbeddingRequest{
		Input: texts,
		Model: p.model,
	}
	// Only text-embedding-3 models accept a requested size
	if strings.HasPrefix(string(p.model), "text-embedding-3") {
		req.Dimensions = p.dimensions
	}

	resp, err := p.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}

	// Compatible servers do not always return data in input order
	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("openai returned embedding index %d for %d inputs", d.Index, len(texts))
		}
		vectors[d.Index] = d.Embedding
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: no embedding for input %d", ErrEmbeddingCount, i)
		}
	}
	return vectors, nil
}

// Close is a no-op; the HTTP client is shared
func (p *OpenAIProvider) Close() error {
	return nil
}
