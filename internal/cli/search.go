package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Kavirubc/simili-rca/internal/llm"
	"github.com/Kavirubc/simili-rca/internal/processor"
	"github.com/Kavirubc/simili-rca/internal/retrieval"
	"github.com/Kavirubc/simili-rca/pkg/models"
	"github.com/spf13/cobra"
)

const previewRunes = 300

func newSearchCmd() *cobra.Command {
	var (
		limit         int
		topK          int
		minSimilarity float64
		types         []string
		statuses      []string
		sprints       []string
		assignees     []string
		priorities    []string
		excludeTypes  []string
		minReturns    int
		hasPR         bool
		analyze       bool
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "search [bug description]",
		Short: "Find closed tasks similar to a bug",
		Long: `Embed the bug description as a query, fetch the nearest issues and keep those
above the similarity threshold. With --analyze the results are sent to the LLM for a
root-cause analysis.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			query := strings.Join(args, " ")

			cfg, err := loadConfig(true)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			opts := processor.DefaultSearchOptions(&cfg.Search)
			flags := cmd.Flags()
			if flags.Changed("limit") {
				opts.Limit = limit
			}
			if flags.Changed("top-k") {
				opts.TopK = topK
			}
			if flags.Changed("min-similarity") {
				opts.MinSimilarity = minSimilarity
			}
			if flags.Changed("status") {
				opts.Filter.Statuses = statuses
			}
			if flags.Changed("exclude-type") {
				opts.Filter.ExcludeTypes = excludeTypes
			}
			if flags.Changed("has-pr") {
				opts.Filter.HasPR = &hasPR
			}
			if flags.Changed("min-returns") {
				opts.Filter.MinReturnCount = &minReturns
			}
			opts.Filter.Types = types
			opts.Filter.Sprints = sprints
			opts.Filter.Assignees = assignees
			opts.Filter.Priorities = priorities

			rt, err := processor.NewRuntime(cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			defer func() { _ = rt.Close() }()

			resp, err := rt.Searcher().Search(ctx, query, opts)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			if asJSON {
				if resp.Results == nil {
					resp.Results = []models.SearchResult{}
				}
				return writeJSON(out, resp.Results)
			}
			printResults(out, resp, opts.MinSimilarity)

			if !analyze || len(resp.Results) == 0 {
				return nil
			}

			provider, err := llm.NewProvider(&cfg.LLM)
			if err != nil {
				return fmt.Errorf("failed to create LLM provider: %w", err)
			}
			defer func() { _ = provider.Close() }()

			analysis, err := llm.NewAnalyzer(provider, log).Analyze(ctx, query, resp.Results)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nROOT-CAUSE ANALYSIS\n%s\n\n%s\n", strings.Repeat("=", 80), analysis)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results to show (default from config)")
	cmd.Flags().IntVar(&topK, "top-k", 0, "candidates fetched before thresholding (default from config)")
	cmd.Flags().Float64Var(&minSimilarity, "min-similarity", 0, "minimum similarity 0..1 (default from config)")
	cmd.Flags().StringSliceVar(&types, "type", nil, "only these issue types")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "only these statuses (default from config)")
	cmd.Flags().StringSliceVar(&sprints, "sprint", nil, "only these sprints")
	cmd.Flags().StringSliceVar(&assignees, "assignee", nil, "only these assignees")
	cmd.Flags().StringSliceVar(&priorities, "priority", nil, "only these priorities")
	cmd.Flags().StringSliceVar(&excludeTypes, "exclude-type", nil, "skip these issue types (default from config)")
	cmd.Flags().BoolVar(&hasPR, "has-pr", false, "only issues with (or, when false, without) a linked PR")
	cmd.Flags().IntVar(&minReturns, "min-returns", 0, "only issues returned from testing at least this often")
	cmd.Flags().BoolVar(&analyze, "analyze", false, "run an LLM root-cause analysis on the results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")

	return cmd
}

func printResults(out io.Writer, resp *retrieval.Response, minSimilarity float64) {
	if len(resp.Results) == 0 {
		if resp.Candidates == 0 {
			fmt.Fprintln(out, "No similar issues found")
			return
		}
		fmt.Fprintf(out, "No issues above %.0f%% similarity (best match: %.1f%% of %d candidates).\n",
			minSimilarity*100, resp.BestSimilarity*100, resp.Candidates)
		fmt.Fprintln(out, "Try lowering min_similarity or --min-similarity.")
		return
	}

	fmt.Fprintf(out, "Found %d similar issues:\n\n", len(resp.Results))
	for i, r := range resp.Results {
		m := r.Metadata
		fmt.Fprintf(out, "%d. %s - similarity %.1f%%\n", i+1, r.Key, r.Similarity*100)
		fmt.Fprintf(out, "   Type: %s | Status: %s | Sprint: %s | Assignee: %s | Returns: %d\n",
			m.Type, m.Status, m.SprintID, m.Assignee, m.ReturnCount)
		for _, c := range r.Chunks {
			fmt.Fprintf(out, "   [%s %.2f] %s\n", c.Type, c.Weight, c.Text)
		}
		fmt.Fprintf(out, "   %s\n\n", strings.ReplaceAll(preview(r.Text, previewRunes), "\n", " "))
	}
}

func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
