package models

import (
	"strconv"
	"strings"
)

// Payload field names shared by the indexer, the vector store and the filters
const (
	FieldKey           = "key"
	FieldType          = "type"
	FieldStatus        = "status"
	FieldSprintID      = "sprint_id"
	FieldAssignee      = "assignee"
	FieldReporter      = "reporter"
	FieldPriority      = "priority"
	FieldStoryPoints   = "story_points"
	FieldCreatedDate   = "created_date"
	FieldResolvedDate  = "resolved_date"
	FieldHasComments   = "has_comments"
	FieldReturnCount   = "return_count"
	FieldLabels        = "labels"
	FieldComponents    = "components"
	FieldHasPR         = "has_pr"
	FieldPRStatus      = "pr_status"
	FieldPRCount       = "pr_count"
	FieldTestingTime   = "testing_time"
	FieldLinkedCount   = "linked_count"
	FieldDocument      = "document"
	FieldHasChunks     = "has_chunks"
	FieldChunksCount   = "chunks_count"
	FieldChunksPreview = "chunks_preview"
	FieldContentHash   = "content_hash"
)

const (
	none    = "none"
	unknown = "unknown"
)

// IssueMetadata is the flat, filterable projection of an issue
type IssueMetadata struct {
	Key          string  `json:"key"`
	Type         string  `json:"type"`
	Status       string  `json:"status"`
	SprintID     string  `json:"sprint_id"`
	Assignee     string  `json:"assignee"`
	Reporter     string  `json:"reporter"`
	Priority     string  `json:"priority"`
	StoryPoints  float64 `json:"story_points"`
	CreatedDate  string  `json:"created_date"`
	ResolvedDate string  `json:"resolved_date"`
	HasComments  bool    `json:"has_comments"`
	ReturnCount  int     `json:"return_count"`
	Labels       string  `json:"labels"`
	Components   string  `json:"components"`
	HasPR        bool    `json:"has_pr"`
	PRStatus     string  `json:"pr_status"`
	PRCount      int     `json:"pr_count"`
	TestingTime  string  `json:"testing_time"`
	LinkedCount  int     `json:"linked_count"`
}

// MetadataFromRecord extracts search metadata from a record.
// Placeholder values from trackers ("Unassigned", "Unknown", "None") become "none".
func MetadataFromRecord(r *IssueRecord) IssueMetadata {
	meta := IssueMetadata{
		Key:          r.Key,
		Type:         strings.TrimSpace(r.Type),
		Status:       strings.TrimSpace(r.Status),
		SprintID:     orDefault(r.SprintID, unknown),
		Assignee:     placeholder(r.Assignee, "Unassigned"),
		Reporter:     placeholder(r.Reporter, "Unknown"),
		Priority:     placeholder(r.Priority, "None"),
		StoryPoints:  r.StoryPoints,
		CreatedDate:  datePart(r.CreatedDate),
		ResolvedDate: datePart(r.ResolvedDate),
		HasComments:  strings.TrimSpace(r.Comments) != "",
		ReturnCount:  r.ReturnCount,
		Labels:       orDefault(strings.Join(r.Labels, ", "), none),
		Components:   orDefault(strings.Join(r.Components, ", "), none),
		HasPR:        strings.TrimSpace(r.PRStatus) != "",
		PRStatus:     orDefault(r.PRStatus, none),
		PRCount:      r.PRCount,
		TestingTime:  orDefault(r.TestingTime, none),
		LinkedCount:  len(r.LinkedIssues),
	}
	return meta
}

// ToPayload flattens the metadata into scalar payload values
func (m IssueMetadata) ToPayload() map[string]any {
	return map[string]any{
		FieldKey:          m.Key,
		FieldType:         m.Type,
		FieldStatus:       m.Status,
		FieldSprintID:     m.SprintID,
		FieldAssignee:     m.Assignee,
		FieldReporter:     m.Reporter,
		FieldPriority:     m.Priority,
		FieldStoryPoints:  m.StoryPoints,
		FieldCreatedDate:  m.CreatedDate,
		FieldResolvedDate: m.ResolvedDate,
		FieldHasComments:  m.HasComments,
		FieldReturnCount:  m.ReturnCount,
		FieldLabels:       m.Labels,
		FieldComponents:   m.Components,
		FieldHasPR:        m.HasPR,
		FieldPRStatus:     m.PRStatus,
		FieldPRCount:      m.PRCount,
		FieldTestingTime:  m.TestingTime,
		FieldLinkedCount:  m.LinkedCount,
	}
}

// MetadataFromPayload rebuilds metadata from stored payload values.
// Missing or mistyped fields are left at their zero value.
func MetadataFromPayload(p map[string]any) IssueMetadata {
	return IssueMetadata{
		Key:          PayloadString(p, FieldKey),
		Type:         PayloadString(p, FieldType),
		Status:       PayloadString(p, FieldStatus),
		SprintID:     PayloadString(p, FieldSprintID),
		Assignee:     PayloadString(p, FieldAssignee),
		Reporter:     PayloadString(p, FieldReporter),
		Priority:     PayloadString(p, FieldPriority),
		StoryPoints:  PayloadFloat(p, FieldStoryPoints),
		CreatedDate:  PayloadString(p, FieldCreatedDate),
		ResolvedDate: PayloadString(p, FieldResolvedDate),
		HasComments:  PayloadBool(p, FieldHasComments),
		ReturnCount:  int(PayloadFloat(p, FieldReturnCount)),
		Labels:       PayloadString(p, FieldLabels),
		Components:   PayloadString(p, FieldComponents),
		HasPR:        PayloadBool(p, FieldHasPR),
		PRStatus:     PayloadString(p, FieldPRStatus),
		PRCount:      int(PayloadFloat(p, FieldPRCount)),
		TestingTime:  PayloadString(p, FieldTestingTime),
		LinkedCount:  int(PayloadFloat(p, FieldLinkedCount)),
	}
}

// PayloadString reads a string payload field
func PayloadString(p map[string]any, key string) string {
	v, _ := p[key].(string)
	return v
}

// PayloadFloat reads a numeric payload field of any integer or float type
func PayloadFloat(p map[string]any, key string) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

// PayloadBool reads a boolean payload field; "yes"/"true" strings count as true
func PayloadBool(p map[string]any, key string) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		return v == "yes" || v == "true"
	default:
		return false
	}
}

func placeholder(value, placeholderValue string) string {
	value = strings.TrimSpace(value)
	if value == "" || value == placeholderValue {
		return none
	}
	return value
}

func orDefault(value, def string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	return value
}

// datePart keeps the YYYY-MM-DD prefix of a timestamp
func datePart(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || value == "None" {
		return unknown
	}
	if len(value) >= 10 {
		return value[:10]
	}
	return value
}
