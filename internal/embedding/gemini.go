package embedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel = "gemini-embedding-001"
	// batchEmbedContents accepts at most 100 requests
	geminiMaxBatch = 100
)

// GeminiProvider embeds texts with the Gemini API
type GeminiProvider struct {
	client     *genai.Client
	model      string
	dimensions int32
}

// NewGeminiProvider connects to the Gemini API. Vectors are requested at the
// configured dimensionality so they fit the collection.
func NewGeminiProvider(apiKey, model string, dimensions int) (*GeminiProvider, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiProvider{
		client:     client,
		model:      model,
		dimensions: int32(dimensions),
	}, nil
}

// EmbedBatch embeds texts in request-sized slices, preserving order
func (p *GeminiProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return embedInBatches(ctx, texts, geminiMaxBatch, p.embed)
}

func (p *GeminiProvider) embed(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = &genai.Content{Parts: []*genai.Part{{Text: text}}}
	}

	cfg := &genai.EmbedContentConfig{}
	if p.dimensions > 0 {
		cfg.OutputDimensionality = &p.dimensions
	}

	result, err := p.client.Models.EmbedContent(ctx, p.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}

	vectors := make([][]float32, 0, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("gemini returned an empty embedding at %d", i)
		}
		vectors = append(vectors, emb.Values)
	}
	return vectors, nil
}

// Close is a no-op; the genai client holds no connections
func (p *GeminiProvider) Close() error {
	return nil
}
