// Package retrieval runs filtered nearest-neighbor queries and turns the
// candidates into threshold-filtered, ranked search results.
package retrieval

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_store.go -package=mocks github.com/Kavirubc/simili-rca/internal/retrieval Store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Kavirubc/simili-rca/pkg/models"
)

// ErrInvalidQuery is returned for queries that cannot be sent to the store
var ErrInvalidQuery = errors.New("invalid query")

// Candidate is a raw nearest-neighbor hit
type Candidate struct {
	ID       string
	Key      string
	Distance float64
	Document string
	Payload  map[string]any
}

// Store is a nearest-neighbor index. Query returns at most k candidates in
// ascending distance order; distances are expected in [0, 1].
type Store interface {
	Query(ctx context.Context, vector []float32, k int, filter *Filter) ([]Candidate, error)
}

// Query describes one search
type Query struct {
	Vector        []float32
	Filter        *Filter
	TopK          int     // candidates fetched from the store
	MinSimilarity float64 // results below are dropped
	Limit         int     // results returned after thresholding; 0 means TopK
}

// Response carries the surfaced results and pool statistics
type Response struct {
	Results []models.SearchResult
	// Candidates is the size of the unfiltered pool
	Candidates int
	// BestSimilarity is the highest similarity in the pool, kept even when
	// the threshold removed every candidate
	BestSimilarity float64
}

// Ranker applies the similarity threshold and ranking on top of a Store
type Ranker struct {
	store Store
}

// NewRanker creates a ranker over store
func NewRanker(store Store) *Ranker {
	return &Ranker{store: store}
}

// Search fetches TopK candidates, converts distance to similarity
// (1 - distance), drops everything below MinSimilarity and returns at most
// Limit results by descending similarity, ties broken by key. Store errors
// propagate; an empty pool is not an error.
func (r *Ranker) Search(ctx context.Context, q Query) (*Response, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	limit := q.Limit
	if limit <= 0 {
		limit = q.TopK
	}

	candidates, err := r.store.Query(ctx, q.Vector, q.TopK, q.Filter)
	if err != nil {
		return nil, fmt.Errorf("vector store query failed: %w", err)
	}

	resp := &Response{Candidates: len(candidates)}
	results := make([]models.SearchResult, 0, len(candidates))
	seen := false
	for _, c := range candidates {
		// Candidates outside the filter are dropped even if the store returned them
		if !q.Filter.Match(c.Payload) {
			continue
		}

		similarity := 1 - c.Distance
		if math.IsNaN(similarity) {
			continue
		}
		if !seen || similarity > resp.BestSimilarity {
			resp.BestSimilarity = similarity
			seen = true
		}
		if similarity < q.MinSimilarity {
			continue
		}
		results = append(results, toResult(c, similarity))
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].Key < results[j].Key
	})
	if len(results) > limit {
		results = results[:limit]
	}
	resp.Results = results

	return resp, nil
}

func (q Query) validate() error {
	if len(q.Vector) == 0 {
		return fmt.Errorf("%w: empty vector", ErrInvalidQuery)
	}
	if q.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive", ErrInvalidQuery)
	}
	if !(q.MinSimilarity >= 0 && q.MinSimilarity <= 1) {
		return fmt.Errorf("%w: min_similarity must be between 0 and 1", ErrInvalidQuery)
	}
	if err := q.Filter.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return nil
}

// toResult projects a candidate; chunk provenance comes from the stored
// preview and is omitted when the preview is missing or malformed
func toResult(c Candidate, similarity float64) models.SearchResult {
	meta := models.MetadataFromPayload(c.Payload)
	key := c.Key
	if key == "" {
		key = meta.Key
	}

	chunks, err := models.DecodeChunkPreviews(models.PayloadString(c.Payload, models.FieldChunksPreview))
	if err != nil {
		chunks = nil
	}

	return models.SearchResult{
		Key:        key,
		Text:       c.Document,
		Similarity: similarity,
		Distance:   c.Distance,
		Metadata:   meta,
		Chunks:     chunks,
	}
}
