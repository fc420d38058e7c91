package ledger

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_tracker.go -package=mocks github.com/Kavirubc/simili-rca/internal/ledger Tracker

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Tracker remembers the content hash last indexed for each issue key.
type Tracker interface {
	// Changed reports whether hash differs from the recorded one for key.
	// Unknown keys are always changed.
	Changed(ctx context.Context, collection, key, hash string) (bool, error)
	// Record stores hash for key after a successful write.
	Record(ctx context.Context, collection, key, hash string) error
	// Reset forgets every key of a collection.
	Reset(ctx context.Context, collection string) error
}

// Ledger is the SQLite-backed Tracker.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger database at path and runs migrations.
func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	l := &Ledger{db: db}
	if err := l.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

func (l *Ledger) migrate() error {
	_, err := l.db.Exec(`CREATE TABLE IF NOT EXISTS indexed_issues (
		collection TEXT NOT NULL,
		issue_key TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		indexed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (collection, issue_key)
	);`)
	if err != nil {
		return fmt.Errorf("failed to migrate ledger: %w", err)
	}
	return nil
}

// Changed implements Tracker.
func (l *Ledger) Changed(ctx context.Context, collection, key, hash string) (bool, error) {
	var stored string
	err := l.db.QueryRowContext(ctx,
		"SELECT content_hash FROM indexed_issues WHERE collection = ? AND issue_key = ?",
		collection, key,
	).Scan(&stored)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query ledger: %w", err)
	}
	return stored != hash, nil
}

// Record implements Tracker.
func (l *Ledger) Record(ctx context.Context, collection, key, hash string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO indexed_issues (collection, issue_key, content_hash, indexed_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(collection, issue_key) DO UPDATE SET
		   content_hash = excluded.content_hash,
		   indexed_at = excluded.indexed_at`,
		collection, key, hash,
	)
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", key, err)
	}
	return nil
}

// Reset implements Tracker.
func (l *Ledger) Reset(ctx context.Context, collection string) error {
	if _, err := l.db.ExecContext(ctx, "DELETE FROM indexed_issues WHERE collection = ?", collection); err != nil {
		return fmt.Errorf("failed to reset ledger: %w", err)
	}
	return nil
}

// Count returns how many keys are recorded for a collection.
func (l *Ledger) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM indexed_issues WHERE collection = ?", collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}
	return n, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}
