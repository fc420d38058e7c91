package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Kavirubc/simili-rca/internal/retrieval"
	"github.com/Kavirubc/simili-rca/pkg/models"
)

const testConfig = `qdrant:
  url: localhost:6334
  collection: test_issues
embedding:
  primary:
    provider: gemini
    model: text-embedding-004
    api_key: test-key
  dimensions: 768
search:
  min_similarity: 0.6
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, "simili-rca version dev") {
		t.Errorf("output = %q", out)
	}
}

func TestConfigValidateCmd(t *testing.T) {
	cfgPath := writeFile(t, "simili-rca.yaml", testConfig)

	out, err := run(t, "--config", cfgPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate error = %v\n%s", err, out)
	}
	for _, want := range []string{"Configuration is valid!", "collection test_issues", "gemini", "min_similarity 0.60"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigValidateCmd_Invalid(t *testing.T) {
	cfgPath := writeFile(t, "simili-rca.yaml", "search:\n  min_similarity: 1.5\n")

	out, err := run(t, "--config", cfgPath, "config", "validate")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(out, "search.min_similarity") {
		t.Errorf("output = %q", out)
	}
}

func TestChunkCmd(t *testing.T) {
	cfgPath := writeFile(t, "simili-rca.yaml", testConfig)
	recPath := writeFile(t, "Sprint 12.json", `[
  {"key": "DEV-1", "summary": "Login page fails after password reset", "status": "Closed", "type": "Bug"},
  {"key": "DEV-2", "summary": "Export is slow"}
]`)

	out, err := run(t, "--config", cfgPath, "chunk", "--file", recPath, "--key", "DEV-1")
	if err != nil {
		t.Fatalf("chunk error = %v\n%s", err, out)
	}
	if !strings.HasPrefix(out, "DEV-1: ") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, string(models.ChunkSummary)) || !strings.Contains(out, "Login page fails") {
		t.Errorf("summary chunk missing:\n%s", out)
	}

	if _, err := run(t, "--config", cfgPath, "chunk", "--file", recPath, "--key", "DEV-9"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestPrintResults(t *testing.T) {
	tests := []struct {
		name string
		resp *retrieval.Response
		want []string
	}{
		{
			name: "empty pool",
			resp: &retrieval.Response{},
			want: []string{"No similar issues found"},
		},
		{
			name: "all below threshold",
			resp: &retrieval.Response{Candidates: 4, BestSimilarity: 0.62},
			want: []string{"No issues above 70% similarity", "best match: 62.0%", "lowering min_similarity"},
		},
		{
			name: "results",
			resp: &retrieval.Response{
				Candidates: 1,
				Results: []models.SearchResult{{
					Key:        "DEV-7",
					Similarity: 0.913,
					Text:       "Summary: Cart total wrong",
					Metadata:   models.IssueMetadata{Type: "Bug", Status: "Closed", ReturnCount: 2},
					Chunks:     []models.ChunkPreview{{Type: models.ChunkRootCause, Text: "rounding", Weight: 3}},
				}},
			},
			want: []string{"1. DEV-7 - similarity 91.3%", "Returns: 2", "[root_cause 3.00] rounding"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			printResults(&out, tt.resp, 0.7)
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestPreview(t *testing.T) {
	if got := preview("short", 10); got != "short" {
		t.Errorf("preview = %q", got)
	}
	if got := preview("абвгдеж", 3); got != "абв..." {
		t.Errorf("preview = %q", got)
	}
}
