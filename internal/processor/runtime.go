package processor

import (
	"errors"
	"fmt"

	"github.com/Kavirubc/simili-rca/internal/chunking"
	"github.com/Kavirubc/simili-rca/internal/config"
	"github.com/Kavirubc/simili-rca/internal/embedding"
	"github.com/Kavirubc/simili-rca/internal/ledger"
	"github.com/Kavirubc/simili-rca/internal/logger"
	"github.com/Kavirubc/simili-rca/internal/vectordb"
)

// Runtime owns the external collaborators shared by the commands
type Runtime struct {
	Config     *config.Config
	Log        *logger.Logger
	Provider   embedding.Provider
	Encoder    *embedding.Encoder
	Aggregator *embedding.Aggregator
	DB         *vectordb.Client
	Collection *vectordb.Collection

	ledger *ledger.Ledger
}

// NewRuntime connects the embedding provider and the vector store
func NewRuntime(cfg *config.Config, log *logger.Logger) (*Runtime, error) {
	provider, err := embedding.NewProvider(&cfg.Embedding, log)
	if err != nil {
		return nil, err
	}

	db, err := vectordb.NewClient(&cfg.Qdrant, log)
	if err != nil {
		_ = provider.Close()
		return nil, err
	}

	return &Runtime{
		Config:   cfg,
		Log:      log,
		Provider: provider,
		Encoder: embedding.NewEncoder(provider, embedding.EncoderOptions{
			QueryPrefix:   cfg.Embedding.QueryPrefix,
			PassagePrefix: cfg.Embedding.PassagePrefix,
			Dimensions:    cfg.Embedding.Dimensions,
		}),
		Aggregator: embedding.NewAggregator(cfg.Embedding.Dimensions),
		DB:         db,
		Collection: db.Collection(cfg.Qdrant.Collection),
	}, nil
}

// NewChunker builds the chunking engine from configuration
func NewChunker(cfg *config.ChunkingConfig) *chunking.Engine {
	w := cfg.Weights
	return chunking.NewEngine(chunking.Options{
		MaxChunkLength: cfg.MaxChunkLength,
		Weights: chunking.Weights{
			Summary:       w.Summary,
			Description:   w.Description,
			RootCause:     w.RootCause,
			Solution:      w.Solution,
			Comments:      w.Comments,
			ReturnReasons: w.ReturnReasons,
			StatusHistory: w.StatusHistory,
			Metadata:      w.Metadata,
		},
	})
}

// Ledger opens the change ledger on first use
func (rt *Runtime) Ledger() (*ledger.Ledger, error) {
	if rt.ledger != nil {
		return rt.ledger, nil
	}
	l, err := ledger.Open(rt.Config.Indexing.LedgerPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	rt.ledger = l
	return l, nil
}

// Indexer builds an indexer writing to the configured collection
func (rt *Runtime) Indexer(force, dryRun bool) (*Indexer, error) {
	l, err := rt.Ledger()
	if err != nil {
		return nil, err
	}
	return NewIndexer(
		NewChunker(&rt.Config.Chunking),
		rt.Encoder,
		rt.Aggregator,
		rt.Collection,
		l,
		IndexerOptions{
			Collection: rt.Collection.Name(),
			Workers:    rt.Config.Indexing.Workers,
			Force:      force,
			DryRun:     dryRun,
		},
		rt.Log,
	), nil
}

// Searcher builds a searcher over the configured collection
func (rt *Runtime) Searcher() *Searcher {
	return NewSearcher(rt.Encoder, rt.Collection, rt.Log)
}

// Close releases resources
func (rt *Runtime) Close() error {
	var errs []error
	if rt.ledger != nil {
		errs = append(errs, rt.ledger.Close())
	}
	errs = append(errs, rt.Provider.Close(), rt.DB.Close())
	return errors.Join(errs...)
}
