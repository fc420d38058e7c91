package models

import (
	"encoding/json"
	"fmt"
)

// ChunkType is the semantic role of a chunk
type ChunkType string

const (
	ChunkSummary       ChunkType = "summary"
	ChunkDescription   ChunkType = "description"
	ChunkRootCause     ChunkType = "root_cause"
	ChunkSolution      ChunkType = "solution"
	ChunkComments      ChunkType = "comments"
	ChunkReturnReasons ChunkType = "return_reasons"
	ChunkStatusHistory ChunkType = "status_history"
	ChunkMetadata      ChunkType = "metadata"
)

// ChunkTypes lists every valid chunk type in chunking order
var ChunkTypes = []ChunkType{
	ChunkSummary,
	ChunkDescription,
	ChunkRootCause,
	ChunkSolution,
	ChunkComments,
	ChunkReturnReasons,
	ChunkStatusHistory,
	ChunkMetadata,
}

// Valid reports whether t is one of the known chunk types
func (t ChunkType) Valid() bool {
	for _, known := range ChunkTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Language is the dominant language of a chunk
type Language string

const (
	LangUzbek   Language = "uz"
	LangRussian Language = "ru"
	LangEnglish Language = "en"
	LangMixed   Language = "mixed"
)

// Chunk is a typed, weighted fragment of an issue
type Chunk struct {
	Text     string    `json:"text"`
	Type     ChunkType `json:"type"`
	Weight   float64   `json:"weight"`
	Language Language  `json:"language"`

	// Embedding is attached once the chunk has been encoded
	Embedding []float32 `json:"-"`
}

// ChunkPreview is the stored, truncated form of a chunk
type ChunkPreview struct {
	Type   ChunkType `json:"type"`
	Text   string    `json:"text"`
	Weight float64   `json:"weight"`
}

// PreviewTextLimit caps the chunk text kept in the vector store payload
const PreviewTextLimit = 200

// Preview returns the storable projection of the chunk
func (c Chunk) Preview() ChunkPreview {
	text := []rune(c.Text)
	if len(text) > PreviewTextLimit {
		text = text[:PreviewTextLimit]
	}
	return ChunkPreview{Type: c.Type, Text: string(text), Weight: c.Weight}
}

// EncodeChunkPreviews serializes chunk previews for a scalar payload field
func EncodeChunkPreviews(chunks []Chunk) (string, error) {
	previews := make([]ChunkPreview, len(chunks))
	for i, c := range chunks {
		previews[i] = c.Preview()
	}

	data, err := json.Marshal(previews)
	if err != nil {
		return "", fmt.Errorf("failed to encode chunk previews: %w", err)
	}
	return string(data), nil
}

// DecodeChunkPreviews parses a stored preview list.
// Entries with an unknown chunk type are dropped.
func DecodeChunkPreviews(data string) ([]ChunkPreview, error) {
	if data == "" {
		return nil, nil
	}

	var raw []ChunkPreview
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode chunk previews: %w", err)
	}

	previews := make([]ChunkPreview, 0, len(raw))
	for _, p := range raw {
		if !p.Type.Valid() {
			continue
		}
		previews = append(previews, p)
	}
	return previews, nil
}
