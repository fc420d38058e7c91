package chunking

import "github.com/Kavirubc/simili-rca/pkg/models"

// Weights holds the static importance of each chunk type
type Weights struct {
	Summary       float64
	Description   float64
	RootCause     float64
	Solution      float64
	Comments      float64
	ReturnReasons float64
	StatusHistory float64
	Metadata      float64
}

// FallbackWeight is the weight of the placeholder chunk of an empty record
const FallbackWeight = 0.5

// DefaultWeights returns the standard weight table
func DefaultWeights() Weights {
	return Weights{
		Summary:       3.5,
		Description:   2.5,
		RootCause:     3.0,
		Solution:      3.0,
		Comments:      2.0,
		ReturnReasons: 2.5,
		StatusHistory: 1.5,
		Metadata:      1.0,
	}
}

// For returns the base weight of a chunk type
func (w Weights) For(t models.ChunkType) float64 {
	switch t {
	case models.ChunkSummary:
		return w.Summary
	case models.ChunkDescription:
		return w.Description
	case models.ChunkRootCause:
		return w.RootCause
	case models.ChunkSolution:
		return w.Solution
	case models.ChunkComments:
		return w.Comments
	case models.ChunkReturnReasons:
		return w.ReturnReasons
	case models.ChunkStatusHistory:
		return w.StatusHistory
	case models.ChunkMetadata:
		return w.Metadata
	default:
		return 0
	}
}

// withDefaults fills unset or non-positive weights from the default table
func (w Weights) withDefaults() Weights {
	d := DefaultWeights()
	fill := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	fill(&w.Summary, d.Summary)
	fill(&w.Description, d.Description)
	fill(&w.RootCause, d.RootCause)
	fill(&w.Solution, d.Solution)
	fill(&w.Comments, d.Comments)
	fill(&w.ReturnReasons, d.ReturnReasons)
	fill(&w.StatusHistory, d.StatusHistory)
	fill(&w.Metadata, d.Metadata)
	return w
}
