package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Kavirubc/simili-rca/pkg/models"
)

const perPage = 100

// ListOptions configures issue listing
type ListOptions struct {
	State   string // "open", "closed", "all"
	PerPage int
	Page    int
	Since   time.Time
}

// ListIssues fetches one page of issues, skipping pull requests
func (c *Client) ListIssues(ctx context.Context, org, repo string, opts ListOptions) ([]Issue, int, error) {
	if opts.PerPage == 0 {
		opts.PerPage = perPage
	}
	if opts.State == "" {
		opts.State = "all"
	}
	if opts.Page == 0 {
		opts.Page = 1
	}

	params := url.Values{}
	params.Set("state", opts.State)
	params.Set("per_page", strconv.Itoa(opts.PerPage))
	params.Set("page", strconv.Itoa(opts.Page))
	params.Set("sort", "updated")
	params.Set("direction", "desc")
	if !opts.Since.IsZero() {
		params.Set("since", opts.Since.Format(time.RFC3339))
	}

	endpoint := fmt.Sprintf("repos/%s/%s/issues?%s", org, repo, params.Encode())

	var apiIssues []Issue
	if err := c.rest.DoWithContext(ctx, "GET", endpoint, nil, &apiIssues); err != nil {
		return nil, 0, fmt.Errorf("failed to list issues: %w", err)
	}

	issues := make([]Issue, 0, len(apiIssues))
	for _, ai := range apiIssues {
		if ai.isPullRequest() {
			continue
		}
		issues = append(issues, ai)
	}

	// The raw page size drives pagination, pull requests included
	return issues, len(apiIssues), nil
}

// ListComments fetches comments on an issue
func (c *Client) ListComments(ctx context.Context, org, repo string, number int) ([]Comment, error) {
	endpoint := fmt.Sprintf("repos/%s/%s/issues/%d/comments?per_page=%d", org, repo, number, perPage)

	var comments []Comment
	if err := c.rest.DoWithContext(ctx, "GET", endpoint, nil, &comments); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// FetchRecords fetches every issue of org/repo updated since the given time
// (all issues for a zero time) with its comments, as issue records
func (c *Client) FetchRecords(ctx context.Context, org, repo string, since time.Time) ([]*models.IssueRecord, error) {
	var records []*models.IssueRecord

	for page := 1; ; page++ {
		issues, raw, err := c.ListIssues(ctx, org, repo, ListOptions{
			State: "all",
			Page:  page,
			Since: since,
		})
		if err != nil {
			return nil, err
		}

		for i := range issues {
			var comments []Comment
			if issues[i].Comments > 0 {
				comments, err = c.ListComments(ctx, org, repo, issues[i].Number)
				if err != nil {
					return nil, fmt.Errorf("issue #%d: %w", issues[i].Number, err)
				}
			}
			records = append(records, issues[i].ToRecord(org, repo, comments))
		}

		if raw < perPage {
			break
		}
	}

	return records, nil
}

// IssueKey is the record key of a GitHub issue
func IssueKey(org, repo string, number int) string {
	return fmt.Sprintf("%s/%s#%d", org, repo, number)
}

// ToRecord converts an API issue and its comments to an issue record.
// The milestone is used as the sprint, labels give type and priority.
func (i *Issue) ToRecord(org, repo string, comments []Comment) *models.IssueRecord {
	labels := make([]string, len(i.Labels))
	for j, l := range i.Labels {
		labels[j] = l.Name
	}

	rec := &models.IssueRecord{
		Key:         IssueKey(org, repo, i.Number),
		Summary:     i.Title,
		Description: i.Body,
		Comments:    joinComments(comments),
		Type:        issueType(labels),
		Status:      issueStatus(i.State, i.StateReason),
		Priority:    issuePriority(labels),
		Reporter:    i.User.Login,
		Labels:      labels,
		Components:  []string{repo},
		CreatedDate: formatDate(&i.CreatedAt),
	}
	if i.Assignee != nil {
		rec.Assignee = i.Assignee.Login
	}
	if i.Milestone != nil {
		rec.SprintID = i.Milestone.Title
	}
	if i.ClosedAt != nil {
		rec.ResolvedDate = formatDate(i.ClosedAt)
	}
	return rec
}

func joinComments(comments []Comment) string {
	parts := make([]string, 0, len(comments))
	for _, c := range comments {
		body := strings.TrimSpace(c.Body)
		if body == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", c.User.Login, body))
	}
	return strings.Join(parts, "\n\n")
}

func issueType(labels []string) string {
	for _, l := range labels {
		switch strings.ToLower(l) {
		case "bug", "type: bug", "defect":
			return "Bug"
		case "enhancement", "feature", "type: feature":
			return "Feature"
		case "task", "chore":
			return "Task"
		}
	}
	return "Issue"
}

// issueStatus maps GitHub states onto tracker statuses
func issueStatus(state, reason string) string {
	if state != "closed" {
		return "Open"
	}
	if reason == "not_planned" {
		return "Won't Do"
	}
	return "Closed"
}

// issuePriority reads "priority: high" or "P1" style labels
func issuePriority(labels []string) string {
	for _, l := range labels {
		lower := strings.ToLower(l)
		if rest, ok := strings.CutPrefix(lower, "priority"); ok {
			rest = strings.TrimSpace(strings.TrimLeft(rest, ":/- "))
			if rest != "" {
				return strings.ToUpper(rest[:1]) + rest[1:]
			}
		}
		if len(lower) == 2 && lower[0] == 'p' && lower[1] >= '0' && lower[1] <= '4' {
			return strings.ToUpper(lower)
		}
	}
	return ""
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
