package cli

import (
	"fmt"
	"io"

	"github.com/Kavirubc/simili-rca/internal/processor"
	"github.com/Kavirubc/simili-rca/internal/records"
	"github.com/Kavirubc/simili-rca/pkg/models"
	"github.com/spf13/cobra"
)

func newChunkCmd() *cobra.Command {
	var (
		file   string
		key    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "chunk",
		Short: "Show the chunks of a record without calling any service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(false)
			if err != nil {
				return err
			}

			recs, err := records.LoadFile(file)
			if err != nil {
				return err
			}

			var rec *models.IssueRecord
			for _, r := range recs {
				if r.Key == key {
					rec = r
					break
				}
			}
			if rec == nil {
				return fmt.Errorf("record %s not found in %s", key, file)
			}

			chunks := processor.NewChunker(&cfg.Chunking).CreateChunks(rec)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), chunks)
			}
			printChunks(cmd.OutOrStdout(), rec.Key, chunks)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON or JSONL export file")
	cmd.Flags().StringVar(&key, "key", "", "record key")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print chunks as JSON")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func printChunks(out io.Writer, key string, chunks []models.Chunk) {
	var total float64
	for _, c := range chunks {
		total += c.Weight
	}

	fmt.Fprintf(out, "%s: %d chunks, total weight %.2f\n\n", key, len(chunks), total)
	for i, c := range chunks {
		fmt.Fprintf(out, "%d. %-15s weight %.2f  lang %s\n   %s\n\n", i+1, c.Type, c.Weight, c.Language, c.Text)
	}
}
