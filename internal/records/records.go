// Package records loads issue records from tracker export files.
//
// Two layouts are accepted: a JSON array of objects, or JSON Lines (one object
// per line). Field names may be snake_case (`return_count`) or export column
// headers (`Return Count`). Scalars are coerced to the record field types, and
// list fields accept either arrays or comma-separated strings.
package records

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/Kavirubc/simili-rca/pkg/models"
)

const maxLineSize = 16 * 1024 * 1024

// LoadFile reads every record from path. Records without a key are dropped.
// When a record has no sprint id and the file name contains "Sprint", the
// first numeric part of the name is used.
func LoadFile(path string) ([]*models.IssueRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	recs, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	if sprint := SprintFromFilename(path); sprint != "" {
		for _, r := range recs {
			if r.SprintID == "" {
				r.SprintID = sprint
			}
		}
	}
	return recs, nil
}

// Load decodes a JSON array or JSON Lines stream
func Load(r io.Reader) ([]*models.IssueRecord, error) {
	br := bufio.NewReader(r)
	first, err := firstNonSpace(br)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var raws []map[string]any
	if first == '[' {
		if err := json.NewDecoder(br).Decode(&raws); err != nil {
			return nil, fmt.Errorf("invalid JSON array: %w", err)
		}
	} else {
		raws, err = decodeLines(br)
		if err != nil {
			return nil, err
		}
	}

	out := make([]*models.IssueRecord, 0, len(raws))
	for _, raw := range raws {
		rec := FromMap(raw)
		if rec.Key == "" {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func firstNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if !unicode.IsSpace(rune(b)) {
			return b, br.UnreadByte()
		}
	}
}

func decodeLines(r io.Reader) ([]map[string]any, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var out []map[string]any
	line := 0
	for scanner.Scan() {
		line++
		b := bytes.TrimSpace(scanner.Bytes())
		if len(b) == 0 {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lines: %w", err)
	}
	return out, nil
}

// FromMap builds a record from a loosely typed object
func FromMap(raw map[string]any) *models.IssueRecord {
	m := make(map[string]any, len(raw))
	for k, v := range raw {
		m[normalizeKey(k)] = v
	}

	return &models.IssueRecord{
		Key:           str(m["key"]),
		Summary:       str(m["summary"]),
		Description:   str(m["description"]),
		Comments:      str(m["comments"]),
		ReturnReasons: str(m["return_reasons"]),
		StatusHistory: str(m["status_history"]),
		Type:          str(m["type"]),
		Status:        str(m["status"]),
		Priority:      str(m["priority"]),
		Assignee:      str(m["assignee"]),
		Reporter:      str(m["reporter"]),
		Components:    list(m["components"]),
		Labels:        list(m["labels"]),
		StoryPoints:   num(m["story_points"]),
		ReturnCount:   int(num(m["return_count"])),
		PRStatus:      str(m["pr_status"]),
		PRCount:       int(num(m["pr_count"])),
		SprintID:      str(m["sprint_id"]),
		CreatedDate:   str(m["created_date"]),
		ResolvedDate:  str(m["resolved_date"]),
		TestingTime:   str(m["testing_time"]),
		LinkedIssues:  list(m["linked_issues"]),
	}
}

// normalizeKey maps "Return Count" and "returnCount" style names to "return_count"
func normalizeKey(k string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range strings.TrimSpace(k) {
		switch {
		case r == ' ' || r == '-' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		return strings.Join(list(t), ", ")
	default:
		return fmt.Sprint(t)
	}
}

func num(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func list(v any) []string {
	var parts []string
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			parts = append(parts, str(item))
		}
	case string:
		parts = strings.Split(t, ",")
	}

	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SprintFromFilename returns the first numeric part of a "..._Sprint_12_..." style name
func SprintFromFilename(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if !strings.Contains(name, "Sprint") {
		return ""
	}
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' || r == ' ' }) {
		if _, err := strconv.Atoi(part); err == nil {
			return part
		}
	}
	return ""
}
