package vectordb

import (
	"context"
	"fmt"

	"github.com/Kavirubc/simili-rca/internal/retrieval"
	"github.com/Kavirubc/simili-rca/pkg/models"
	"github.com/qdrant/go-client/qdrant"
)

// Query returns the k nearest points honoring filter. Cosine scores are
// reported as distances (1 - score).
func (c *Client) Query(ctx context.Context, collection string, vector []float32, k int, filter *retrieval.Filter) ([]retrieval.Candidate, error) {
	qf, err := buildFilter(filter)
	if err != nil {
		return nil, err
	}

	points, err := c.qdrant.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         qf,
	})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	candidates := make([]retrieval.Candidate, 0, len(points))
	for _, p := range points {
		candidates = append(candidates, toCandidate(p))
	}

	c.log.Debug("Query completed", "collection", collection, "k", k, "results", len(candidates))
	return candidates, nil
}

func toCandidate(p *qdrant.ScoredPoint) retrieval.Candidate {
	payload := convertPayloadToMap(p.GetPayload())
	return retrieval.Candidate{
		ID:       p.GetId().GetUuid(),
		Key:      models.PayloadString(payload, models.FieldKey),
		Distance: 1 - float64(p.GetScore()),
		Document: models.PayloadString(payload, models.FieldDocument),
		Payload:  payload,
	}
}

// buildFilter translates a retrieval filter into Qdrant must / must_not clauses
func buildFilter(f *retrieval.Filter) (*qdrant.Filter, error) {
	if f == nil || len(f.Conditions) == 0 {
		return nil, nil
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}

	qf := &qdrant.Filter{}
	for _, c := range f.Conditions {
		switch c.Op {
		case retrieval.OpEq:
			cond, err := matchValue(c.Field, c.Values[0])
			if err != nil {
				return nil, err
			}
			qf.Must = append(qf.Must, cond)
		case retrieval.OpNe:
			cond, err := matchValue(c.Field, c.Values[0])
			if err != nil {
				return nil, err
			}
			qf.MustNot = append(qf.MustNot, cond)
		case retrieval.OpIn:
			cond, err := matchAny(c.Field, c.Values)
			if err != nil {
				return nil, err
			}
			qf.Must = append(qf.Must, cond)
		case retrieval.OpGte:
			qf.Must = append(qf.Must, qdrant.NewRange(c.Field, &qdrant.Range{Gte: qdrant.PtrOf(c.Min)}))
		}
	}
	return qf, nil
}

// matchValue builds an equality condition. Floats become a closed range
// because integer matching never hits payloads stored as doubles.
func matchValue(field string, v any) (*qdrant.Condition, error) {
	switch t := v.(type) {
	case string:
		return qdrant.NewMatchKeyword(field, t), nil
	case bool:
		return qdrant.NewMatchBool(field, t), nil
	case float32:
		return exactRange(field, float64(t)), nil
	case float64:
		return exactRange(field, t), nil
	}
	if n, ok := asInt(v); ok {
		return qdrant.NewMatchInt(field, n), nil
	}
	return nil, fmt.Errorf("unsupported filter value %v for %s", v, field)
}

func exactRange(field string, f float64) *qdrant.Condition {
	return qdrant.NewRange(field, &qdrant.Range{Gte: qdrant.PtrOf(f), Lte: qdrant.PtrOf(f)})
}

// matchAny supports one-of over keywords or integers
func matchAny(field string, values []any) (*qdrant.Condition, error) {
	keywords := make([]string, 0, len(values))
	ints := make([]int64, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			keywords = append(keywords, s)
			continue
		}
		if n, ok := asInt(v); ok {
			ints = append(ints, n)
			continue
		}
		return nil, fmt.Errorf("unsupported one-of value %v for %s", v, field)
	}

	switch {
	case len(keywords) == len(values):
		return qdrant.NewMatchKeywords(field, keywords...), nil
	case len(ints) == len(values):
		return qdrant.NewMatchInts(field, ints...), nil
	default:
		return nil, fmt.Errorf("one-of values for %s mix strings and numbers", field)
	}
}

func asInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	}
	return 0, false
}

// convertPayloadToMap converts Qdrant payload to plain Go values
func convertPayloadToMap(payload map[string]*qdrant.Value) map[string]any {
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		if v == nil {
			continue
		}
		result[k] = convertValue(v)
	}
	return result
}

func convertValue(v *qdrant.Value) any {
	switch val := v.Kind.(type) {
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_ListValue:
		list := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			list[i] = convertValue(item)
		}
		return list
	case *qdrant.Value_StructValue:
		return convertPayloadToMap(val.StructValue.Fields)
	default:
		return nil
	}
}
