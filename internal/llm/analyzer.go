package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kavirubc/simili-rca/internal/logger"
	"github.com/Kavirubc/simili-rca/pkg/models"
)

const (
	// Root-cause reports are long
	maxOutputTokens = 4096
	temperature     = 0.3
)

const analysisSystemPrompt = `You are a senior QA and release engineer. A bug was found in production.
You receive the bug description and previously closed tasks that semantic search ranked as
the most likely cause. Be concrete: cite task keys, people, dates and technical details.`

const analysisInstructions = `
Analyze in depth:

1. Root cause identification: which task(s) most directly introduced this bug, and why technically.
2. Developer and process: who worked on it, whether returns from testing point to a weak spot,
   what testing missed.
3. Timeline: when the task was created and resolved, in which sprint phase the bug entered.
4. Component and priority: which component is fragile, whether priority was set correctly.
5. Preventive actions: review checklist items and test cases to add.

Answer with these sections:
ROOT CAUSE, TECHNICAL ANALYSIS, TIMELINE AND PROCESS, DEVELOPER AND TEAM INSIGHTS,
FIX, PREVENTIVE MEASURES, RECOMMENDATIONS.
Avoid generic advice.`

// Analyzer asks a language model for a root-cause analysis of a bug
type Analyzer struct {
	provider Provider
	log      *logger.Logger
}

// NewAnalyzer creates an analyzer over provider
func NewAnalyzer(provider Provider, log *logger.Logger) *Analyzer {
	return &Analyzer{provider: provider, log: log.With("component", "analyzer")}
}

// Analyze sends the bug and the surfaced tasks to the model
func (a *Analyzer) Analyze(ctx context.Context, bug string, results []models.SearchResult) (string, error) {
	if len(results) == 0 {
		return "", fmt.Errorf("no similar tasks to analyze")
	}

	prompt := BuildAnalysisPrompt(bug, results)
	a.log.Debug("Requesting analysis", "tasks", len(results), "prompt_chars", len(prompt))

	answer, err := a.provider.Generate(ctx, Request{
		System:      analysisSystemPrompt,
		Prompt:      prompt,
		MaxTokens:   maxOutputTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("analysis failed: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// BuildAnalysisPrompt lists the bug and every result with its metadata,
// chunk breakdown and stored text
func BuildAnalysisPrompt(bug string, results []models.SearchResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "PRODUCTION BUG:\n%s\n\n", strings.TrimSpace(bug))
	fmt.Fprintf(&sb, "TOP %d CANDIDATE TASKS (semantic search over weighted chunks):\n", len(results))

	for i, r := range results {
		m := r.Metadata
		fmt.Fprintf(&sb, "\n%d. %s (similarity %.1f%%)\n", i+1, r.Key, r.Similarity*100)
		fmt.Fprintf(&sb, "Sprint: %s\nType: %s\nStatus: %s\n", orUnknown(m.SprintID), orUnknown(m.Type), orUnknown(m.Status))
		fmt.Fprintf(&sb, "Assignee: %s\nReporter: %s\nPriority: %s\n", orUnknown(m.Assignee), orUnknown(m.Reporter), orUnknown(m.Priority))
		fmt.Fprintf(&sb, "Story Points: %g\nCreated: %s\nResolved: %s\n", m.StoryPoints, orUnknown(m.CreatedDate), orUnknown(m.ResolvedDate))
		fmt.Fprintf(&sb, "Returned from testing: %d times\n", m.ReturnCount)
		fmt.Fprintf(&sb, "Labels: %s\nComponents: %s\n", orUnknown(m.Labels), orUnknown(m.Components))
		if m.HasPR {
			fmt.Fprintf(&sb, "Pull requests: %d (%s)\n", m.PRCount, m.PRStatus)
		}

		if len(r.Chunks) > 0 {
			sb.WriteString("Matched chunks:\n")
			for _, c := range r.Chunks {
				fmt.Fprintf(&sb, "  - [%s, weight %.2f] %s\n", c.Type, c.Weight, c.Text)
			}
		}

		fmt.Fprintf(&sb, "Details:\n%s\n", r.Text)
	}

	sb.WriteString(analysisInstructions)
	return sb.String()
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}
