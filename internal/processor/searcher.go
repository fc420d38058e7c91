package processor

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kavirubc/simili-rca/internal/config"
	"github.com/Kavirubc/simili-rca/internal/logger"
	"github.com/Kavirubc/simili-rca/internal/retrieval"
)

// QueryEncoder embeds a search query
type QueryEncoder interface {
	EncodeQuery(ctx context.Context, text string) ([]float32, error)
}

// SearchOptions controls one search
type SearchOptions struct {
	TopK          int
	MinSimilarity float64
	Limit         int
	Filter        retrieval.FilterSpec
}

// DefaultSearchOptions returns the configured search settings with the
// configured status and excluded-type filter
func DefaultSearchOptions(cfg *config.SearchConfig) SearchOptions {
	return SearchOptions{
		TopK:          cfg.TopK,
		MinSimilarity: cfg.MinSimilarity,
		Limit:         cfg.FinalTopN,
		Filter: retrieval.FilterSpec{
			Statuses:     cfg.Statuses,
			ExcludeTypes: cfg.ExcludeTypes,
		},
	}
}

// Searcher handles interactive similarity searches
type Searcher struct {
	encoder QueryEncoder
	ranker  *retrieval.Ranker
	log     *logger.Logger
}

// NewSearcher creates a new searcher
func NewSearcher(encoder QueryEncoder, store retrieval.Store, log *logger.Logger) *Searcher {
	return &Searcher{
		encoder: encoder,
		ranker:  retrieval.NewRanker(store),
		log:     log.With("component", "searcher"),
	}
}

// Search embeds text as a query and returns the ranked, thresholded results
func (s *Searcher) Search(ctx context.Context, text string, opts SearchOptions) (*retrieval.Response, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty query text", retrieval.ErrInvalidQuery)
	}

	vector, err := s.encoder.EncodeQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	resp, err := s.ranker.Search(ctx, retrieval.Query{
		Vector:        vector,
		Filter:        opts.Filter.Build(),
		TopK:          opts.TopK,
		MinSimilarity: opts.MinSimilarity,
		Limit:         opts.Limit,
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("Search completed",
		"candidates", resp.Candidates,
		"results", len(resp.Results),
		"best_similarity", resp.BestSimilarity,
	)
	return resp, nil
}
