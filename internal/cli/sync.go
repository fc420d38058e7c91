package cli

import (
	"fmt"
	"time"

	"github.com/Kavirubc/simili-rca/internal/github"
	"github.com/Kavirubc/simili-rca/internal/processor"
	"github.com/spf13/cobra"
)

var zeroTime time.Time

func newSyncCmd() *cobra.Command {
	var (
		repo      string
		since     string
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync recently updated issues from a repository",
		Long:  `Re-index GitHub issues updated within the given window. Unchanged issues are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			org, name, err := github.ParseRepo(repo)
			if err != nil {
				return err
			}
			sinceTime, err := processor.ParseSince(since, time.Now())
			if err != nil {
				return err
			}

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

			if err := prepareCollection(ctx, rt, false); err != nil {
				return err
			}

			indexer, err := rt.Indexer(false, dryRun)
			if err != nil {
				return err
			}
			gh, err := github.NewClient()
			if err != nil {
				return err
			}

			stats, err := processor.NewSyncer(gh, indexer, log).SyncRepo(ctx, org, name, sinceTime, batchSize)
			if err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}

			printStats(cmd.OutOrStdout(), "Synced", stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "repository to sync (owner/repo)")
	cmd.Flags().StringVar(&since, "since", "24h", "sync issues updated since (e.g., 24h, 7d)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "records per embedding batch (default from config)")
	_ = cmd.MarkFlagRequired("repo")

	return cmd
}
