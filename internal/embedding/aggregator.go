package embedding

import (
	"context"
	"fmt"

	"github.com/Kavirubc/simili-rca/pkg/models"
)

// PassageEncoder embeds document texts in order
type PassageEncoder interface {
	EncodePassages(ctx context.Context, texts []string) ([][]float32, error)
}

// Aggregator combines chunk embeddings into one vector per issue
type Aggregator struct {
	dims int
}

// NewAggregator creates an aggregator producing vectors of size dims
func NewAggregator(dims int) *Aggregator {
	return &Aggregator{dims: dims}
}

// Dimensions returns the output vector size
func (a *Aggregator) Dimensions() int {
	return a.dims
}

// EmbedChunks encodes all chunk texts in one call and returns copies of the
// chunks with their embeddings attached. Encoder errors propagate unchanged.
func (a *Aggregator) EmbedChunks(ctx context.Context, enc PassageEncoder, chunks []models.Chunk) ([]models.Chunk, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := enc.EncodePassages(ctx, texts)
	if err != nil {
		return nil, err
	}
	return a.Attach(chunks, vectors)
}

// Attach pairs chunks with vectors produced for them, in order
func (a *Aggregator) Attach(chunks []models.Chunk, vectors [][]float32) ([]models.Chunk, error) {
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: %d chunks, %d vectors", ErrEmbeddingCount, len(chunks), len(vectors))
	}

	out := make([]models.Chunk, len(chunks))
	for i, c := range chunks {
		if len(vectors[i]) != a.dims {
			return nil, fmt.Errorf("%w: chunk %d has size %d, expected %d", ErrDimensionMismatch, i, len(vectors[i]), a.dims)
		}
		c.Embedding = vectors[i]
		out[i] = c
	}
	return out, nil
}

// WeightedAverage returns Σ(embedding × weight) / Σ(weight) over the chunks
// carrying an embedding. When there are none, or their total weight is not
// positive, it returns the zero vector.
func (a *Aggregator) WeightedAverage(chunks []models.Chunk) []float32 {
	sum := make([]float64, a.dims)
	var total float64

	for _, c := range chunks {
		if len(c.Embedding) != a.dims {
			continue
		}
		total += c.Weight
		for i, v := range c.Embedding {
			sum[i] += float64(v) * c.Weight
		}
	}

	out := make([]float32, a.dims)
	if total <= 0 {
		return out
	}
	for i, v := range sum {
		out[i] = float32(v / total)
	}
	return out
}
