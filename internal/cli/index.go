package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/Kavirubc/simili-rca/internal/github"
	"github.com/Kavirubc/simili-rca/internal/processor"
	"github.com/Kavirubc/simili-rca/internal/records"
	"github.com/Kavirubc/simili-rca/pkg/models"
	"github.com/spf13/cobra"
)

func newIndexCmd() *cobra.Command {
	var (
		files     []string
		repo      string
		batchSize int
		force     bool
		rebuild   bool
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Bulk index issues from export files or a repository",
		Long: `Chunk, embed and index issue records into the vector database.
Records whose content did not change since the last run are skipped unless --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(files) == 0 && repo == "" {
				return fmt.Errorf("either --file or --repo is required")
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			cfg, err := loadConfig(true)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			if batchSize <= 0 {
				batchSize = cfg.Indexing.BatchSize
			}

			rt, err := processor.NewRuntime(cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			defer func() { _ = rt.Close() }()

			if err := prepareCollection(ctx, rt, rebuild); err != nil {
				return err
			}

			indexer, err := rt.Indexer(force || rebuild, dryRun)
			if err != nil {
				return err
			}

			total := &models.IndexStats{}
			for _, f := range files {
				recs, err := records.LoadFile(f)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Loaded %d records from %s\n", len(recs), f)

				stats, err := indexer.IndexRecords(ctx, recs, batchSize)
				if err != nil {
					return fmt.Errorf("indexing failed: %w", err)
				}
				total.Add(stats)
				total.DurationMs += stats.DurationMs
			}

			if repo != "" {
				org, name, err := github.ParseRepo(repo)
				if err != nil {
					return err
				}
				gh, err := github.NewClient()
				if err != nil {
					return err
				}

				stats, err := processor.NewSyncer(gh, indexer, log).SyncRepo(ctx, org, name, zeroTime, batchSize)
				if err != nil {
					return fmt.Errorf("indexing failed: %w", err)
				}
				total.Add(stats)
				total.DurationMs += stats.DurationMs
			}

			printStats(out, "Indexed", total)

			if !dryRun {
				if n, err := rt.Collection.Count(ctx); err == nil {
					fmt.Fprintf(out, "Collection %s now holds %d issues\n", rt.Collection.Name(), n)
				} else {
					log.Warn("Failed to count collection", "error", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "JSON or JSONL export file(s) to index")
	cmd.Flags().StringVar(&repo, "repo", "", "GitHub repository to index (owner/repo)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "records per embedding batch (default from config)")
	cmd.Flags().BoolVar(&force, "force", false, "re-index records even when unchanged")
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "drop the collection and ledger before indexing")

	return cmd
}

// prepareCollection optionally drops the collection and ledger, then makes
// sure the collection exists
func prepareCollection(ctx context.Context, rt *processor.Runtime, rebuild bool) error {
	if dryRun {
		return nil
	}

	if rebuild {
		exists, err := rt.DB.CollectionExists(ctx, rt.Collection.Name())
		if err != nil {
			return fmt.Errorf("failed to check collection: %w", err)
		}
		if exists {
			if err := rt.Collection.Drop(ctx); err != nil {
				return err
			}
		}
		l, err := rt.Ledger()
		if err != nil {
			return err
		}
		if err := l.Reset(ctx, rt.Collection.Name()); err != nil {
			return err
		}
		rt.Log.Info("Dropped collection for rebuild", "collection", rt.Collection.Name())
	}

	if err := rt.Collection.Ensure(ctx, rt.Config.Embedding.Dimensions); err != nil {
		return fmt.Errorf("failed to ensure collection: %w", err)
	}
	return nil
}

func printStats(out io.Writer, verb string, s *models.IndexStats) {
	fmt.Fprintf(out, "%s %d/%d issues (%d skipped, %d errors) in %dms\n",
		verb, s.Indexed, s.TotalIssues, s.Skipped, s.Errors, s.DurationMs)
	fmt.Fprintf(out, "Chunks: %d (root causes: %d, solutions: %d)\n", s.Chunks, s.RootCauses, s.Solutions)
}
