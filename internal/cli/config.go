package cli

import (
	"fmt"

	"github.com/Kavirubc/simili-rca/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfgPath := config.FindConfigPath(cfgFile)
			if cfgPath == "" {
				fmt.Fprintln(out, "No config file found, validating environment settings")
			} else {
				fmt.Fprintf(out, "Validating config: %s\n", cfgPath)
			}

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			errs := config.Validate(cfg)
			if len(errs) > 0 {
				fmt.Fprintln(out, "\nValidation errors:")
				for _, e := range errs {
					fmt.Fprintf(out, "  - %v\n", e)
				}
				return fmt.Errorf("configuration is invalid")
			}

			fmt.Fprintln(out, "\nConfiguration is valid!")
			fmt.Fprintf(out, "  - Qdrant: %s (collection %s)\n", cfg.Qdrant.URL, cfg.Qdrant.Collection)
			fmt.Fprintf(out, "  - Primary embedding: %s (%s, %d dims)\n",
				cfg.Embedding.Primary.Provider, cfg.Embedding.Primary.Model, cfg.Embedding.Dimensions)
			if cfg.Embedding.Fallback.Provider != "" {
				fmt.Fprintf(out, "  - Fallback embedding: %s (%s)\n", cfg.Embedding.Fallback.Provider, cfg.Embedding.Fallback.Model)
			}
			fmt.Fprintf(out, "  - Search: top_k %d, min_similarity %.2f, final_top_n %d\n",
				cfg.Search.TopK, cfg.Search.MinSimilarity, cfg.Search.FinalTopN)
			fmt.Fprintf(out, "  - Analysis LLM: %s\n", cfg.LLM.Provider)

			return nil
		},
	}
}
