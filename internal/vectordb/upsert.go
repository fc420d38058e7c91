package vectordb

import (
	"context"
	"fmt"

	"github.com/Kavirubc/simili-rca/pkg/models"
	"github.com/qdrant/go-client/qdrant"
)

// Point is one issue vector with its document and scalar metadata
type Point struct {
	ID       string
	Key      string
	Vector   []float32
	Document string
	Payload  map[string]any
}

// UpsertBatch inserts or updates points in a single request
func (c *Client) UpsertBatch(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		qp, err := toPointStruct(p)
		if err != nil {
			return fmt.Errorf("point %s: %w", p.Key, err)
		}
		qdrantPoints[i] = qp
	}

	_, err := c.qdrant.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("batch upsert failed: %w", err)
	}

	c.log.Debug("Upserted points", "collection", collection, "count", len(points))
	return nil
}

// toPointStruct converts a Point to a Qdrant point. The document and key are
// stored next to the metadata.
func toPointStruct(p Point) (*qdrant.PointStruct, error) {
	payload := make(map[string]any, len(p.Payload)+2)
	for k, v := range p.Payload {
		payload[k] = v
	}
	payload[models.FieldKey] = p.Key
	payload[models.FieldDocument] = p.Document

	values, err := qdrant.TryValueMap(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}

	return &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(p.ID),
		Vectors: qdrant.NewVectors(p.Vector...),
		Payload: values,
	}, nil
}
