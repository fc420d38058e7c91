package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// IssueRecord is a tracker issue as handed to the chunker.
// Any field may be empty; empty fields are skipped, never rejected.
type IssueRecord struct {
	Key           string   `json:"key"`
	Summary       string   `json:"summary"`
	Description   string   `json:"description"`
	Comments      string   `json:"comments"`
	ReturnReasons string   `json:"return_reasons"`
	StatusHistory string   `json:"status_history"`
	Type          string   `json:"type"`
	Status        string   `json:"status"`
	Priority      string   `json:"priority"`
	Assignee      string   `json:"assignee"`
	Reporter      string   `json:"reporter"`
	Components    []string `json:"components,omitempty"`
	Labels        []string `json:"labels,omitempty"`
	StoryPoints   float64  `json:"story_points,omitempty"`
	ReturnCount   int      `json:"return_count,omitempty"`
	PRStatus      string   `json:"pr_status,omitempty"`
	PRCount       int      `json:"pr_count,omitempty"`
	SprintID      string   `json:"sprint_id,omitempty"`
	CreatedDate   string   `json:"created_date,omitempty"`
	ResolvedDate  string   `json:"resolved_date,omitempty"`
	TestingTime   string   `json:"testing_time,omitempty"`
	LinkedIssues  []string `json:"linked_issues,omitempty"`
}

const (
	fullTextDescriptionLimit = 2000
	fullTextCommentsLimit    = 1000
	fullTextHistoryLimit     = 500
)

// PointID returns the deterministic vector point ID for the record key
func (r *IssueRecord) PointID() string {
	return PointID(r.Key)
}

// PointID generates a deterministic UUID from an issue key
func PointID(key string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

// ContentHash returns a SHA256 over the whole record for change detection
func (r *IssueRecord) ContentHash() string {
	// json.Marshal of a struct is deterministic (field order is fixed)
	data, err := json.Marshal(r)
	if err != nil {
		data = []byte(fmt.Sprintf("%+v", *r))
	}
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// FullText joins the record into the document stored next to its vector.
// Long sections are clipped so the stored document stays readable.
func (r *IssueRecord) FullText() string {
	var parts []string

	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", label, value))
		}
	}

	add("Summary", r.Summary)
	add("Description", clip(r.Description, fullTextDescriptionLimit))
	add("Type", r.Type)
	add("Status", r.Status)
	add("Assignee", r.Assignee)
	add("Priority", r.Priority)
	add("Components", strings.Join(r.Components, ", "))
	add("Labels", strings.Join(r.Labels, ", "))
	add("Comments", clip(r.Comments, fullTextCommentsLimit))
	add("Return Reasons", r.ReturnReasons)
	add("Status History", clip(r.StatusHistory, fullTextHistoryLimit))

	return strings.Join(parts, "\n\n")
}

// clip truncates s to maxRunes characters and marks the cut
func clip(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}
