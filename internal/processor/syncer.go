package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/Kavirubc/simili-rca/internal/logger"
	"github.com/Kavirubc/simili-rca/pkg/models"
)

// IssueSource fetches issue records of a repository updated since a time.
// A zero since fetches everything.
type IssueSource interface {
	FetchRecords(ctx context.Context, org, repo string, since time.Time) ([]*models.IssueRecord, error)
}

// Syncer pulls issues from a source and hands them to the indexer
type Syncer struct {
	source  IssueSource
	indexer *Indexer
	log     *logger.Logger
}

// NewSyncer creates a new syncer
func NewSyncer(source IssueSource, indexer *Indexer, log *logger.Logger) *Syncer {
	return &Syncer{
		source:  source,
		indexer: indexer,
		log:     log.With("component", "syncer"),
	}
}

// SyncRepo indexes the issues of org/repo updated since the given time
func (s *Syncer) SyncRepo(ctx context.Context, org, repo string, since time.Time, batchSize int) (*models.IndexStats, error) {
	if since.IsZero() {
		s.log.Info("Fetching all issues", "repo", org+"/"+repo)
	} else {
		s.log.Info("Fetching updated issues", "repo", org+"/"+repo, "since", since.Format(time.RFC3339))
	}

	records, err := s.source.FetchRecords(ctx, org, repo, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issues: %w", err)
	}
	s.log.Info("Fetched issues", "count", len(records))

	return s.indexer.IndexRecords(ctx, records, batchSize)
}

// ParseSince parses durations like "24h" or "7d" into the time that far
// before now
func ParseSince(s string, now time.Time) (time.Time, error) {
	// Handle day suffix
	if len(s) > 1 && s[len(s)-1] == 'd' {
		days := s[:len(s)-1]
		d, err := time.ParseDuration(days + "h")
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid since duration %q: %w", s, err)
		}
		return now.Add(-d * 24), nil
	}

	// Standard duration
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid since duration %q: %w", s, err)
	}
	return now.Add(-d), nil
}
