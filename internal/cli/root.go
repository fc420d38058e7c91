package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Kavirubc/simili-rca/internal/config"
	"github.com/Kavirubc/simili-rca/internal/logger"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	dryRun  bool
	verbose bool
	version = "dev"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simili-rca",
		Short: "Root-cause search over closed tracker issues",
		Long: `simili-rca splits issue records into weighted semantic chunks, embeds them into
one vector per issue and finds the closed tasks most likely to have caused a bug.

Uses Gemini or OpenAI-compatible embeddings + Qdrant vector DB.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	cmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "skip all writes (Qdrant + ledger)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newChunkCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the CLI until completion or interrupt
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

// loadConfig loads the config file (or environment only when none is found)
// and optionally validates it
func loadConfig(validate bool) (*config.Config, error) {
	cfg, err := config.Load(config.FindConfigPath(cfgFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if validate {
		if errs := config.Validate(cfg); len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintf(os.Stderr, "config error: %v\n", e)
			}
			return nil, fmt.Errorf("invalid configuration")
		}
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	mode := cfg.Logging.Mode
	if verbose {
		mode = "dev"
	}
	log, err := logger.New(mode)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "simili-rca version %s\n", version)
		},
	}
}
