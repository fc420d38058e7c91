package models

// SearchResult is an issue surfaced by retrieval
type SearchResult struct {
	Key        string         `json:"key"`
	Text       string         `json:"text"`
	Similarity float64        `json:"similarity"` // 1 - distance
	Distance   float64        `json:"distance"`
	Metadata   IssueMetadata  `json:"metadata"`
	Chunks     []ChunkPreview `json:"chunks,omitempty"`
}

// IndexStats contains statistics from an indexing operation
type IndexStats struct {
	TotalIssues int `json:"total_issues"`
	Indexed     int `json:"indexed"`
	Skipped     int `json:"skipped"`
	Errors      int `json:"errors"`
	Chunks      int `json:"chunks"`
	RootCauses  int `json:"root_causes"`
	Solutions   int `json:"solutions"`
	DurationMs  int `json:"duration_ms"`
}

// Add folds the counters of another run into s
func (s *IndexStats) Add(other *IndexStats) {
	s.TotalIssues += other.TotalIssues
	s.Indexed += other.Indexed
	s.Skipped += other.Skipped
	s.Errors += other.Errors
	s.Chunks += other.Chunks
	s.RootCauses += other.RootCauses
	s.Solutions += other.Solutions
}
