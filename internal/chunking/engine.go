// Package chunking splits issue records into typed, weighted chunks.
package chunking

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Kavirubc/simili-rca/internal/semantic"
	"github.com/Kavirubc/simili-rca/internal/textnorm"
	"github.com/Kavirubc/simili-rca/pkg/models"
)

const (
	// DefaultMaxChunkLength is used when Options.MaxChunkLength is unset
	DefaultMaxChunkLength = 1500

	minParagraphLength    = 20
	minReturnReasonLength = 10
	minStatusHistory      = 10
	maxStatusTransitions  = 10
	metadataListLimit     = 100
	decayStep             = 0.1
	decayFloor            = 0.1
	separator             = " | "
)

var statusKeywords = []string{"testing", "closed", "done", "return", "clarification"}

// Options configures an Engine
type Options struct {
	MaxChunkLength int
	Weights        Weights
}

// Engine turns records into chunks. It holds only immutable settings and
// is safe for concurrent use.
type Engine struct {
	maxLen  int
	weights Weights
}

// NewEngine creates an engine, filling unset options with defaults
func NewEngine(opts Options) *Engine {
	if opts.MaxChunkLength <= 0 {
		opts.MaxChunkLength = DefaultMaxChunkLength
	}
	return &Engine{
		maxLen:  opts.MaxChunkLength,
		weights: opts.Weights.withDefaults(),
	}
}

// MaxChunkLength returns the configured chunk length limit
func (e *Engine) MaxChunkLength() int {
	return e.maxLen
}

// Weights returns the weight table in use
func (e *Engine) Weights() Weights {
	return e.weights
}

// CreateChunks decomposes a record in fixed order: summary, description,
// comments, return reasons, status history, metadata. It always returns at
// least one chunk.
func (e *Engine) CreateChunks(r *models.IssueRecord) []models.Chunk {
	var chunks []models.Chunk

	if summary := textnorm.Clean(r.Summary); summary != "" {
		chunks = append(chunks, e.chunk(models.ChunkSummary, "Summary: ", summary))
	}

	chunks = append(chunks, e.descriptionChunks(r.Description)...)
	chunks = append(chunks, e.commentChunks(r.Comments)...)

	if c, ok := e.returnReasonsChunk(r.ReturnReasons); ok {
		chunks = append(chunks, c)
	}
	if c, ok := e.statusHistoryChunk(r.StatusHistory); ok {
		chunks = append(chunks, c)
	}
	if c, ok := e.metadataChunk(r); ok {
		chunks = append(chunks, c)
	}

	if len(chunks) == 0 {
		key := r.Key
		if strings.TrimSpace(key) == "" {
			key = "Unknown"
		}
		chunks = append(chunks, models.Chunk{
			Text:     fmt.Sprintf("Issue %s: No content available", key),
			Type:     models.ChunkMetadata,
			Weight:   FallbackWeight,
			Language: models.LangEnglish,
		})
	}

	return chunks
}

func (e *Engine) descriptionChunks(raw string) []models.Chunk {
	desc := textnorm.Clean(raw)
	if desc == "" {
		return nil
	}

	if textnorm.RuneLen(desc) <= e.maxLen {
		return []models.Chunk{e.chunk(models.ChunkDescription, "Description: ", desc)}
	}

	chunks, found := e.roleChunks(desc, "")
	if found {
		return chunks
	}

	base := e.weights.Description
	for i, para := range e.splitParagraphs(raw, desc) {
		if textnorm.RuneLen(para) <= minParagraphLength {
			continue
		}
		body := textnorm.Truncate(para, e.maxLen)
		chunks = append(chunks, models.Chunk{
			Text:     fmt.Sprintf("Description (part %d): %s", i+1, body),
			Type:     models.ChunkDescription,
			Weight:   base * decay(i),
			Language: textnorm.DetectLanguage(body),
		})
	}
	return chunks
}

func (e *Engine) commentChunks(raw string) []models.Chunk {
	comments := textnorm.Clean(raw)
	if comments == "" {
		return nil
	}

	if chunks, found := e.roleChunks(comments, "Comment - "); found {
		return chunks
	}

	comments = textnorm.Truncate(comments, e.maxLen)
	return []models.Chunk{e.chunk(models.ChunkComments, "Comments: ", comments)}
}

// roleChunks emits root-cause and solution chunks found in text
func (e *Engine) roleChunks(text, label string) ([]models.Chunk, bool) {
	var chunks []models.Chunk
	if rc := semantic.ExtractRootCause(text); rc != "" {
		chunks = append(chunks, e.chunk(models.ChunkRootCause, label+"Root Cause: ", rc))
	}
	if sol := semantic.ExtractSolution(text); sol != "" {
		chunks = append(chunks, e.chunk(models.ChunkSolution, label+"Solution: ", sol))
	}
	return chunks, len(chunks) > 0
}

// splitParagraphs splits on blank lines of the raw text. With fewer than two
// paragraphs it packs sentences of the cleaned text up to the length limit.
func (e *Engine) splitParagraphs(raw, cleaned string) []string {
	if paragraphs := textnorm.Paragraphs(raw); len(paragraphs) >= 2 {
		return paragraphs
	}

	var paragraphs []string
	var current string
	for _, sentence := range textnorm.Sentences(cleaned) {
		if textnorm.RuneLen(current)+textnorm.RuneLen(sentence) < e.maxLen {
			current += " " + sentence
			continue
		}
		if current = strings.TrimSpace(current); current != "" {
			paragraphs = append(paragraphs, current)
		}
		current = sentence
	}
	if current = strings.TrimSpace(current); current != "" {
		paragraphs = append(paragraphs, current)
	}
	return paragraphs
}

func (e *Engine) returnReasonsChunk(raw string) (models.Chunk, bool) {
	var reasons []string
	for _, line := range textnorm.Lines(raw) {
		if textnorm.RuneLen(line) > minReturnReasonLength {
			reasons = append(reasons, line)
		}
	}
	if len(reasons) == 0 {
		return models.Chunk{}, false
	}

	joined := textnorm.Truncate(strings.Join(reasons, separator), e.maxLen)
	return e.chunk(models.ChunkReturnReasons, "Return Reasons: ", joined), true
}

func (e *Engine) statusHistoryChunk(raw string) (models.Chunk, bool) {
	if textnorm.RuneLen(textnorm.Clean(raw)) < minStatusHistory {
		return models.Chunk{}, false
	}

	var transitions []string
	for _, line := range textnorm.Lines(raw) {
		if len(transitions) == maxStatusTransitions {
			break
		}
		if containsAny(strings.ToLower(line), statusKeywords) {
			transitions = append(transitions, line)
		}
	}
	if len(transitions) == 0 {
		return models.Chunk{}, false
	}

	joined := textnorm.Truncate(strings.Join(transitions, separator), e.maxLen)
	return models.Chunk{
		Text:     "Status History: " + joined,
		Type:     models.ChunkStatusHistory,
		Weight:   e.weights.StatusHistory,
		Language: models.LangMixed,
	}, true
}

func (e *Engine) metadataChunk(r *models.IssueRecord) (models.Chunk, bool) {
	var parts []string
	add := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			parts = append(parts, label+": "+value)
		}
	}

	add("Type", r.Type)
	add("Priority", r.Priority)
	add("Components", textnorm.Truncate(strings.Join(r.Components, ", "), metadataListLimit))
	add("Labels", textnorm.Truncate(strings.Join(r.Labels, ", "), metadataListLimit))
	if r.Assignee != "Unassigned" {
		add("Assignee", r.Assignee)
	}
	if r.Reporter != "Unknown" {
		add("Reporter", r.Reporter)
	}
	if r.StoryPoints != 0 {
		add("Story Points", strconv.FormatFloat(r.StoryPoints, 'f', -1, 64))
	}
	if r.ReturnCount > 0 {
		add("Return Count", strconv.Itoa(r.ReturnCount))
	}
	add("PR Status", r.PRStatus)

	if len(parts) == 0 {
		return models.Chunk{}, false
	}
	return models.Chunk{
		Text:     strings.Join(parts, separator),
		Type:     models.ChunkMetadata,
		Weight:   e.weights.Metadata,
		Language: models.LangMixed,
	}, true
}

func (e *Engine) chunk(t models.ChunkType, prefix, body string) models.Chunk {
	return models.Chunk{
		Text:     prefix + body,
		Type:     t,
		Weight:   e.weights.For(t),
		Language: textnorm.DetectLanguage(body),
	}
}

// decay lowers the weight of later description parts, never below the floor
func decay(i int) float64 {
	f := 1.0 - float64(i)*decayStep
	if f < decayFloor {
		return decayFloor
	}
	return f
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
