package processor_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Kavirubc/simili-rca/internal/chunking"
	"github.com/Kavirubc/simili-rca/internal/embedding"
	embmocks "github.com/Kavirubc/simili-rca/internal/embedding/mocks"
	"github.com/Kavirubc/simili-rca/internal/ledger"
	ledgermocks "github.com/Kavirubc/simili-rca/internal/ledger/mocks"
	"github.com/Kavirubc/simili-rca/internal/logger"
	"github.com/Kavirubc/simili-rca/internal/processor"
	"github.com/Kavirubc/simili-rca/internal/processor/mocks"
	"github.com/Kavirubc/simili-rca/internal/vectordb"
	"github.com/Kavirubc/simili-rca/pkg/models"

	"go.uber.org/mock/gomock"
)

const testDims = 2

// unitVectors answers every text with the same unit vector
func unitVectors(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if !strings.HasPrefix(text, "passage: ") {
			return nil, errors.New("missing passage prefix")
		}
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func testRecords() []*models.IssueRecord {
	return []*models.IssueRecord{
		{Key: "A-1", Summary: "Login page fails", Type: "Bug", Status: "Closed", ReturnCount: 1},
		{Key: "A-2", Summary: "Export to excel is slow", Type: "Bug", Status: "Done"},
		{Key: "A-3", Comments: "The root cause was a missing index on the orders table, so every report query scanned the whole table and timed out under load."},
	}
}

func newTestIndexer(p embedding.Provider, store processor.PointStore, tracker ledger.Tracker, opts processor.IndexerOptions) *processor.Indexer {
	enc := embedding.NewEncoder(p, embedding.EncoderOptions{
		QueryPrefix:   "query: ",
		PassagePrefix: "passage: ",
		Dimensions:    testDims,
	})
	return processor.NewIndexer(
		chunking.NewEngine(chunking.Options{}),
		enc,
		embedding.NewAggregator(testDims),
		store,
		tracker,
		opts,
		logger.Nop(),
	)
}

func TestIndexer_IndexRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := embmocks.NewMockProvider(ctrl)
	store := mocks.NewMockPointStore(ctrl)
	tracker := ledgermocks.NewMockTracker(ctrl)

	tracker.EXPECT().Changed(gomock.Any(), "issues", "A-1", gomock.Any()).Return(true, nil)
	tracker.EXPECT().Changed(gomock.Any(), "issues", "A-2", gomock.Any()).Return(false, nil)
	tracker.EXPECT().Changed(gomock.Any(), "issues", "A-3", gomock.Any()).Return(true, nil)

	// One embedding call per batch with pending records
	provider.EXPECT().EmbedBatch(gomock.Any(), gomock.Any()).DoAndReturn(unitVectors).Times(2)

	var written []vectordb.Point
	store.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, points []vectordb.Point) error {
		written = append(written, points...)
		return nil
	}).Times(2)

	tracker.EXPECT().Record(gomock.Any(), "issues", "A-1", testRecords()[0].ContentHash()).Return(nil)
	tracker.EXPECT().Record(gomock.Any(), "issues", "A-3", gomock.Any()).Return(nil)

	idx := newTestIndexer(provider, store, tracker, processor.IndexerOptions{Collection: "issues", Workers: 2})
	stats, err := idx.IndexRecords(context.Background(), testRecords(), 2)
	if err != nil {
		t.Fatalf("IndexRecords() error = %v", err)
	}

	if stats.TotalIssues != 3 || stats.Indexed != 2 || stats.Skipped != 1 || stats.Errors != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.RootCauses != 1 {
		t.Errorf("RootCauses = %d, want 1", stats.RootCauses)
	}

	if len(written) != 2 {
		t.Fatalf("written %d points, want 2", len(written))
	}

	chunkTotal := 0
	for _, p := range written {
		if p.ID != models.PointID(p.Key) {
			t.Errorf("point %s: ID = %s", p.Key, p.ID)
		}
		if len(p.Vector) != testDims || p.Vector[0] != 1 || p.Vector[1] != 0 {
			t.Errorf("point %s: Vector = %v", p.Key, p.Vector)
		}
		if p.Payload[models.FieldHasChunks] != "yes" {
			t.Errorf("point %s: has_chunks = %v", p.Key, p.Payload[models.FieldHasChunks])
		}
		n, _ := p.Payload[models.FieldChunksCount].(int)
		chunkTotal += n

		previews, err := models.DecodeChunkPreviews(models.PayloadString(p.Payload, models.FieldChunksPreview))
		if err != nil || len(previews) != n {
			t.Errorf("point %s: previews = %v, %v; want %d", p.Key, previews, err, n)
		}
	}
	if chunkTotal != stats.Chunks {
		t.Errorf("chunks_count sum = %d, stats.Chunks = %d", chunkTotal, stats.Chunks)
	}

	first := written[0]
	if first.Key != "A-1" || !strings.HasPrefix(first.Document, "Summary: Login page fails") {
		t.Errorf("first point = %s %q", first.Key, first.Document)
	}
	if first.Payload[models.FieldStatus] != "Closed" || first.Payload[models.FieldContentHash] != testRecords()[0].ContentHash() {
		t.Errorf("first payload = %v", first.Payload)
	}
}

func TestIndexer_UpsertFailureSkipsLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := embmocks.NewMockProvider(ctrl)
	store := mocks.NewMockPointStore(ctrl)
	tracker := ledgermocks.NewMockTracker(ctrl)

	tracker.EXPECT().Changed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil).Times(3)
	provider.EXPECT().EmbedBatch(gomock.Any(), gomock.Any()).DoAndReturn(unitVectors)
	store.EXPECT().Upsert(gomock.Any(), gomock.Len(3)).Return(errors.New("qdrant unavailable"))
	tracker.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	idx := newTestIndexer(provider, store, tracker, processor.IndexerOptions{Collection: "issues"})
	stats, err := idx.IndexRecords(context.Background(), testRecords(), 10)
	if err != nil {
		t.Fatalf("IndexRecords() error = %v", err)
	}
	if stats.Indexed != 0 || stats.Errors != 3 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestIndexer_EmbeddingFailureCountsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := embmocks.NewMockProvider(ctrl)
	store := mocks.NewMockPointStore(ctrl)

	gomock.InOrder(
		provider.EXPECT().EmbedBatch(gomock.Any(), gomock.Any()).Return(nil, errors.New("quota exceeded")),
		provider.EXPECT().EmbedBatch(gomock.Any(), gomock.Any()).DoAndReturn(unitVectors),
	)
	store.EXPECT().Upsert(gomock.Any(), gomock.Len(1)).Return(nil)

	idx := newTestIndexer(provider, store, nil, processor.IndexerOptions{Collection: "issues"})
	stats, err := idx.IndexRecords(context.Background(), testRecords(), 2)
	if err != nil {
		t.Fatalf("IndexRecords() error = %v", err)
	}
	if stats.Indexed != 1 || stats.Errors != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestIndexer_ForceAndDryRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := embmocks.NewMockProvider(ctrl)
	store := mocks.NewMockPointStore(ctrl)
	tracker := ledgermocks.NewMockTracker(ctrl)

	// Force bypasses the ledger lookup; dry run writes nothing
	tracker.EXPECT().Changed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	tracker.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	store.EXPECT().Upsert(gomock.Any(), gomock.Any()).Times(0)
	provider.EXPECT().EmbedBatch(gomock.Any(), gomock.Any()).DoAndReturn(unitVectors)

	idx := newTestIndexer(provider, store, tracker, processor.IndexerOptions{
		Collection: "issues",
		Force:      true,
		DryRun:     true,
	})
	stats, err := idx.IndexRecords(context.Background(), testRecords(), 0)
	if err != nil {
		t.Fatalf("IndexRecords() error = %v", err)
	}
	if stats.Indexed != 3 || stats.Skipped != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestIndexer_Cancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := embmocks.NewMockProvider(ctrl)
	store := mocks.NewMockPointStore(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	idx := newTestIndexer(provider, store, nil, processor.IndexerOptions{Collection: "issues"})
	if _, err := idx.IndexRecords(ctx, testRecords(), 2); !errors.Is(err, context.Canceled) {
		t.Errorf("IndexRecords() error = %v, want context.Canceled", err)
	}
}
