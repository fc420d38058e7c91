package vectordb

import (
	"context"

	"github.com/Kavirubc/simili-rca/internal/retrieval"
)

// Collection binds a client to one collection name
type Collection struct {
	client *Client
	name   string
}

// Name returns the bound collection name
func (c *Collection) Name() string { return c.name }

// Ensure creates the collection with the given vector size if missing
func (c *Collection) Ensure(ctx context.Context, dimensions int) error {
	return c.client.EnsureCollection(ctx, c.name, dimensions)
}

// Drop deletes the collection
func (c *Collection) Drop(ctx context.Context) error {
	return c.client.DeleteCollection(ctx, c.name)
}

// Count returns the number of stored points
func (c *Collection) Count(ctx context.Context) (uint64, error) {
	return c.client.Count(ctx, c.name)
}

// Upsert writes points in one request
func (c *Collection) Upsert(ctx context.Context, points []Point) error {
	return c.client.UpsertBatch(ctx, c.name, points)
}

// Query implements retrieval.Store
func (c *Collection) Query(ctx context.Context, vector []float32, k int, filter *retrieval.Filter) ([]retrieval.Candidate, error) {
	return c.client.Query(ctx, c.name, vector, k, filter)
}

var _ retrieval.Store = (*Collection)(nil)
