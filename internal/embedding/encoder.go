package embedding

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmbeddingCount is returned when a provider answers with the wrong number of vectors
	ErrEmbeddingCount = errors.New("embedding count mismatch")
	// ErrDimensionMismatch is returned when a vector does not have the configured size
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Mode selects the textual framing of an embedding request
type Mode string

const (
	ModeQuery   Mode = "query"
	ModePassage Mode = "passage"
)

// EncoderOptions configures an Encoder
type EncoderOptions struct {
	QueryPrefix   string
	PassagePrefix string
	Dimensions    int
}

// Encoder frames texts as queries or passages, calls the provider and
// validates what comes back. It never retries or substitutes vectors.
type Encoder struct {
	provider      Provider
	queryPrefix   string
	passagePrefix string
	dims          int
}

// NewEncoder creates an encoder over provider
func NewEncoder(provider Provider, opts EncoderOptions) *Encoder {
	return &Encoder{
		provider:      provider,
		queryPrefix:   opts.QueryPrefix,
		passagePrefix: opts.PassagePrefix,
		dims:          opts.Dimensions,
	}
}

// Dimensions returns the expected vector size
func (e *Encoder) Dimensions() int {
	return e.dims
}

// Encode embeds texts with the framing of mode in a single batched call.
// Output order matches input order.
func (e *Encoder) Encode(ctx context.Context, texts []string, mode Mode) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	prefix := e.passagePrefix
	if mode == ModeQuery {
		prefix = e.queryPrefix
	}

	framed := make([]string, len(texts))
	for i, t := range texts {
		framed[i] = prefix + t
	}

	vectors, err := e.provider.EmbedBatch(ctx, framed)
	if err != nil {
		return nil, fmt.Errorf("failed to embed %d %s texts: %w", len(texts), mode, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCount, len(texts), len(vectors))
	}
	for i, v := range vectors {
		if e.dims > 0 && len(v) != e.dims {
			return nil, fmt.Errorf("%w: vector %d has size %d, expected %d", ErrDimensionMismatch, i, len(v), e.dims)
		}
	}
	return vectors, nil
}

// EncodeQuery embeds a single search query
func (e *Encoder) EncodeQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Encode(ctx, []string{text}, ModeQuery)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EncodePassages embeds document texts
func (e *Encoder) EncodePassages(ctx context.Context, texts []string) ([][]float32, error) {
	return e.Encode(ctx, texts, ModePassage)
}
