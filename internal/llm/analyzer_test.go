package llm_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Kavirubc/simili-rca/internal/config"
	"github.com/Kavirubc/simili-rca/internal/llm"
	"github.com/Kavirubc/simili-rca/internal/llm/mocks"
	"github.com/Kavirubc/simili-rca/internal/logger"
	"github.com/Kavirubc/simili-rca/pkg/models"

	"go.uber.org/mock/gomock"
)

func sampleResults() []models.SearchResult {
	return []models.SearchResult{
		{
			Key:        "DEV-12",
			Text:       "Summary: Cart total rounding",
			Similarity: 0.912,
			Metadata: models.IssueMetadata{
				SprintID:    "12",
				Type:        "Bug",
				Status:      "Closed",
				Assignee:    "bob",
				ReturnCount: 2,
				HasPR:       true,
				PRCount:     1,
				PRStatus:    "MERGED",
			},
			Chunks: []models.ChunkPreview{
				{Type: models.ChunkRootCause, Text: "Root Cause: float rounding", Weight: 3.0},
			},
		},
		{Key: "DEV-40", Text: "Summary: Checkout refactor", Similarity: 0.75},
	}
}

func TestBuildAnalysisPrompt(t *testing.T) {
	prompt := llm.BuildAnalysisPrompt("  Totals are off by one cent  ", sampleResults())

	wants := []string{
		"PRODUCTION BUG:\nTotals are off by one cent\n",
		"TOP 2 CANDIDATE TASKS",
		"1. DEV-12 (similarity 91.2%)",
		"Returned from testing: 2 times",
		"Pull requests: 1 (MERGED)",
		"[root_cause, weight 3.00] Root Cause: float rounding",
		"2. DEV-40 (similarity 75.0%)",
		"Sprint: unknown",
		"ROOT CAUSE, TECHNICAL ANALYSIS",
	}
	for _, want := range wants {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Count(prompt, "Pull requests:") != 1 {
		t.Error("pull request line should only appear for tasks with PRs")
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := mocks.NewMockProvider(ctrl)
	analyzer := llm.NewAnalyzer(provider, logger.Nop())
	ctx := context.Background()

	provider.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.Request) (string, error) {
			if req.System == "" || !strings.Contains(req.Prompt, "DEV-12") || req.MaxTokens <= 0 {
				t.Errorf("unexpected request: %+v", req)
			}
			return "  ROOT CAUSE: DEV-12\n", nil
		})

	got, err := analyzer.Analyze(ctx, "Totals are off", sampleResults())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got != "ROOT CAUSE: DEV-12" {
		t.Errorf("Analyze() = %q", got)
	}

	if _, err := analyzer.Analyze(ctx, "Totals are off", nil); err == nil {
		t.Error("expected error without results")
	}

	providerErr := errors.New("rate limited")
	provider.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", providerErr)
	if _, err := analyzer.Analyze(ctx, "Totals are off", sampleResults()); !errors.Is(err, providerErr) {
		t.Errorf("Analyze() error = %v, want %v", err, providerErr)
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	if _, err := llm.NewProvider(&config.LLMConfig{Provider: "claude"}); err == nil {
		t.Error("expected error for unknown provider")
	}
	if _, err := llm.NewProvider(&config.LLMConfig{Provider: "openai"}); err == nil {
		t.Error("expected error for missing OpenAI key")
	}
	if _, err := llm.NewProvider(&config.LLMConfig{Provider: "openai", BaseURL: "http://localhost:8000/v1"}); err != nil {
		t.Errorf("compatible server without key: %v", err)
	}
}
