package ledger

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "nested", "ledger.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestLedger_ChangedAndRecord(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	changed, err := l.Changed(ctx, "issues", "DEV-1", "h1")
	if err != nil {
		t.Fatalf("Changed() error = %v", err)
	}
	if !changed {
		t.Error("unknown key should be changed")
	}

	if err := l.Record(ctx, "issues", "DEV-1", "h1"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	tests := []struct {
		collection string
		hash       string
		want       bool
	}{
		{"issues", "h1", false},
		{"issues", "h2", true},
		{"other", "h1", true},
	}
	for _, tt := range tests {
		got, err := l.Changed(ctx, tt.collection, "DEV-1", tt.hash)
		if err != nil {
			t.Fatalf("Changed() error = %v", err)
		}
		if got != tt.want {
			t.Errorf("Changed(%s, %s) = %v, want %v", tt.collection, tt.hash, got, tt.want)
		}
	}

	// Re-recording overwrites
	if err := l.Record(ctx, "issues", "DEV-1", "h2"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if got, _ := l.Changed(ctx, "issues", "DEV-1", "h2"); got {
		t.Error("hash h2 should be current after re-record")
	}
	if n, _ := l.Count(ctx, "issues"); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestLedger_Reset(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	for _, key := range []string{"A-1", "A-2"} {
		if err := l.Record(ctx, "issues", key, "h"); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	if err := l.Record(ctx, "other", "A-1", "h"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if err := l.Reset(ctx, "issues"); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if n, _ := l.Count(ctx, "issues"); n != 0 {
		t.Errorf("Count(issues) = %d, want 0", n)
	}
	if n, _ := l.Count(ctx, "other"); n != 1 {
		t.Errorf("Count(other) = %d, want 1", n)
	}
}
