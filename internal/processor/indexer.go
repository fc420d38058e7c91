package processor

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_point_store.go -package=mocks github.com/Kavirubc/simili-rca/internal/processor PointStore

import (
	"context"
	"fmt"
	"time"

	"github.com/Kavirubc/simili-rca/internal/chunking"
	"github.com/Kavirubc/simili-rca/internal/embedding"
	"github.com/Kavirubc/simili-rca/internal/ledger"
	"github.com/Kavirubc/simili-rca/internal/logger"
	"github.com/Kavirubc/simili-rca/internal/vectordb"
	"github.com/Kavirubc/simili-rca/pkg/models"
	"golang.org/x/sync/errgroup"
)

// PointStore receives one bulk write per batch
type PointStore interface {
	Upsert(ctx context.Context, points []vectordb.Point) error
}

// IndexerOptions configures an Indexer
type IndexerOptions struct {
	Collection string
	Workers    int
	Force      bool // ignore the ledger and re-index unchanged records
	DryRun     bool // chunk and embed but do not write
}

// Indexer handles bulk indexing of issue records
type Indexer struct {
	chunker *chunking.Engine
	encoder embedding.PassageEncoder
	agg     *embedding.Aggregator
	store   PointStore
	tracker ledger.Tracker
	opts    IndexerOptions
	log     *logger.Logger
}

// NewIndexer creates a new bulk indexer. tracker may be nil.
func NewIndexer(
	chunker *chunking.Engine,
	encoder embedding.PassageEncoder,
	agg *embedding.Aggregator,
	store PointStore,
	tracker ledger.Tracker,
	opts IndexerOptions,
	log *logger.Logger,
) *Indexer {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Indexer{
		chunker: chunker,
		encoder: encoder,
		agg:     agg,
		store:   store,
		tracker: tracker,
		opts:    opts,
		log:     log.With("component", "indexer"),
	}
}

// IndexRecords indexes records in batches of batchSize. A failing batch is
// counted as errors and the run continues; cancellation stops it.
func (idx *Indexer) IndexRecords(ctx context.Context, records []*models.IssueRecord, batchSize int) (*models.IndexStats, error) {
	start := time.Now()
	stats := &models.IndexStats{TotalIssues: len(records)}

	if batchSize <= 0 {
		batchSize = len(records)
	}

	for i := 0; i < len(records); i += batchSize {
		end := min(i+batchSize, len(records))

		batchStats, err := idx.indexBatch(ctx, records[i:end])
		if err != nil {
			if ctx.Err() != nil {
				stats.DurationMs = int(time.Since(start).Milliseconds())
				return stats, ctx.Err()
			}
			idx.log.Warn("Batch failed", "from", i, "to", end, "error", err)
			stats.Errors += end - i - batchStats.Skipped
			stats.Skipped += batchStats.Skipped
			continue
		}

		stats.Add(batchStats)
		idx.log.Info("Indexed batch", "indexed", stats.Indexed, "skipped", stats.Skipped, "total", stats.TotalIssues)
	}

	stats.DurationMs = int(time.Since(start).Milliseconds())
	return stats, nil
}

// indexBatch chunks the batch in parallel, embeds every chunk in one call and
// writes one point per record in a single upsert
func (idx *Indexer) indexBatch(ctx context.Context, batch []*models.IssueRecord) (*models.IndexStats, error) {
	stats := &models.IndexStats{}

	pending, hashes := idx.changedRecords(ctx, batch)
	stats.Skipped = len(batch) - len(pending)
	if len(pending) == 0 {
		return stats, nil
	}

	chunks := make([][]models.Chunk, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.opts.Workers)
	for i, rec := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			chunks[i] = idx.chunker.CreateChunks(rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	var texts []string
	for _, cs := range chunks {
		for _, c := range cs {
			texts = append(texts, c.Text)
		}
	}

	vectors, err := idx.encoder.EncodePassages(ctx, texts)
	if err != nil {
		return stats, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(vectors) != len(texts) {
		return stats, fmt.Errorf("%w: %d texts, %d vectors", embedding.ErrEmbeddingCount, len(texts), len(vectors))
	}

	points := make([]vectordb.Point, len(pending))
	offset := 0
	for i, rec := range pending {
		n := len(chunks[i])
		embedded, err := idx.agg.Attach(chunks[i], vectors[offset:offset+n])
		if err != nil {
			return stats, fmt.Errorf("record %s: %w", rec.Key, err)
		}
		offset += n

		point, err := buildPoint(rec, embedded, idx.agg.WeightedAverage(embedded), hashes[i])
		if err != nil {
			return stats, fmt.Errorf("record %s: %w", rec.Key, err)
		}
		points[i] = point

		stats.Chunks += n
		for _, c := range embedded {
			switch c.Type {
			case models.ChunkRootCause:
				stats.RootCauses++
			case models.ChunkSolution:
				stats.Solutions++
			}
		}
	}

	if idx.opts.DryRun {
		stats.Indexed = len(pending)
		return stats, nil
	}

	if err := idx.store.Upsert(ctx, points); err != nil {
		return stats, fmt.Errorf("failed to upsert batch: %w", err)
	}
	stats.Indexed = len(pending)

	if idx.tracker != nil {
		for i, rec := range pending {
			if err := idx.tracker.Record(ctx, idx.opts.Collection, rec.Key, hashes[i]); err != nil {
				idx.log.Warn("Failed to record indexed issue", "key", rec.Key, "error", err)
			}
		}
	}
	return stats, nil
}

// changedRecords drops records whose content hash matches the ledger
func (idx *Indexer) changedRecords(ctx context.Context, batch []*models.IssueRecord) ([]*models.IssueRecord, []string) {
	pending := make([]*models.IssueRecord, 0, len(batch))
	hashes := make([]string, 0, len(batch))

	for _, rec := range batch {
		hash := rec.ContentHash()
		if idx.tracker != nil && !idx.opts.Force {
			changed, err := idx.tracker.Changed(ctx, idx.opts.Collection, rec.Key, hash)
			if err != nil {
				idx.log.Warn("Ledger lookup failed, re-indexing", "key", rec.Key, "error", err)
				changed = true
			}
			if !changed {
				continue
			}
		}
		pending = append(pending, rec)
		hashes = append(hashes, hash)
	}
	return pending, hashes
}

func buildPoint(rec *models.IssueRecord, chunks []models.Chunk, vector []float32, hash string) (vectordb.Point, error) {
	preview, err := models.EncodeChunkPreviews(chunks)
	if err != nil {
		return vectordb.Point{}, err
	}

	payload := models.MetadataFromRecord(rec).ToPayload()
	payload[models.FieldHasChunks] = "yes"
	payload[models.FieldChunksCount] = len(chunks)
	payload[models.FieldChunksPreview] = preview
	payload[models.FieldContentHash] = hash

	return vectordb.Point{
		ID:       rec.PointID(),
		Key:      rec.Key,
		Vector:   vector,
		Document: rec.FullText(),
		Payload:  payload,
	}, nil
}
