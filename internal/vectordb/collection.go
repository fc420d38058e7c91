package vectordb

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kavirubc/simili-rca/pkg/models"
	"github.com/qdrant/go-client/qdrant"
)

// payloadIndexes are the filterable metadata fields
var payloadIndexes = []struct {
	field     string
	fieldType qdrant.FieldType
}{
	{models.FieldKey, qdrant.FieldType_FieldTypeKeyword},
	{models.FieldType, qdrant.FieldType_FieldTypeKeyword},
	{models.FieldStatus, qdrant.FieldType_FieldTypeKeyword},
	{models.FieldSprintID, qdrant.FieldType_FieldTypeKeyword},
	{models.FieldAssignee, qdrant.FieldType_FieldTypeKeyword},
	{models.FieldPriority, qdrant.FieldType_FieldTypeKeyword},
	{models.FieldReturnCount, qdrant.FieldType_FieldTypeInteger},
	{models.FieldHasPR, qdrant.FieldType_FieldTypeBool},
}

// ErrVectorSize is returned when an existing collection was built for
// another embedding dimensionality
var ErrVectorSize = errors.New("collection vector size mismatch")

// EnsureCollection creates the collection with cosine distance and payload
// indexes. An existing collection must have the same vector size.
func (c *Client) EnsureCollection(ctx context.Context, name string, dimensions int) error {
	exists, err := c.qdrant.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return c.checkVectorSize(ctx, name, dimensions)
	}

	err = c.qdrant.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimensions),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	for _, idx := range payloadIndexes {
		_, err = c.qdrant.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: name,
			FieldName:      idx.field,
			FieldType:      qdrant.PtrOf(idx.fieldType),
		})
		if err != nil {
			c.log.Warn("Failed to create payload index", "collection", name, "field", idx.field, "error", err)
		}
	}

	c.log.Info("Created collection", "collection", name, "dimensions", dimensions)
	return nil
}

func (c *Client) checkVectorSize(ctx context.Context, name string, dimensions int) error {
	info, err := c.qdrant.GetCollectionInfo(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to read collection info: %w", err)
	}
	size := info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()
	if size != 0 && size != uint64(dimensions) {
		return fmt.Errorf("%w: %s holds %d-dim vectors, embedding produces %d (re-index with --rebuild)",
			ErrVectorSize, name, size, dimensions)
	}
	return nil
}

// DeleteCollection removes a collection
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	if err := c.qdrant.DeleteCollection(ctx, name); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	return nil
}

// CollectionExists checks if a collection exists
func (c *Client) CollectionExists(ctx context.Context, name string) (bool, error) {
	return c.qdrant.CollectionExists(ctx, name)
}

// Count returns the exact number of points in a collection
func (c *Client) Count(ctx context.Context, name string) (uint64, error) {
	n, err := c.qdrant.Count(ctx, &qdrant.CountPoints{
		CollectionName: name,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}
	return n, nil
}
