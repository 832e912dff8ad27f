package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mdchunk/config"
	"mdchunk/internal/adapter/lexical"
	"mdchunk/internal/adapter/store"
	"mdchunk/internal/domain"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	Long: `Print totals recorded by the last index run: documents, chunks, oversized
chunks, structural warnings and average chunk length.

Examples:
  mdchunk stats
  mdchunk stats -d /path/to/docs --json`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	rootDir := GetRootDir()

	dbPath := config.IndexDBPath(rootDir)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("no index found. Run 'mdchunk index' first")
	}

	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	stats, err := st.GetStats()
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	var lexicalCount uint64
	if cfg.Lexical.Enabled {
		if idx, err := lexical.Open(cfg.LexicalIndexPath(rootDir)); err == nil {
			if lexicalCount, err = idx.DocCount(); err != nil {
				logger.WithError(err).Warn("lexical index count unavailable")
			}
			idx.Close()
		} else {
			logger.WithError(err).Warn("lexical index unavailable")
		}
	}

	out := cmd.OutOrStdout()
	if statsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Stats          domain.Stats `json:"stats"`
			LexicalEntries uint64       `json:"lexical_entries,omitempty"`
		}{stats, lexicalCount})
	}

	fmt.Fprintf(out, "Documents:        %d\n", stats.TotalDocs)
	fmt.Fprintf(out, "Chunks:           %d\n", stats.TotalChunks)
	fmt.Fprintf(out, "Oversized chunks: %d\n", stats.OversizedCount)
	fmt.Fprintf(out, "Warnings:         %d\n", stats.WarningCount)
	fmt.Fprintf(out, "Avg chunk length: %.1f %s\n", stats.AvgChunkLen, cfg.Chunking.LengthUnit)
	if stats.LastRunID != "" {
		fmt.Fprintf(out, "Last run:         %s at %s\n", stats.LastRunID, time.Unix(stats.LastRunAt, 0).Format(time.RFC3339))
	}
	if cfg.Lexical.Enabled {
		fmt.Fprintf(out, "Lexical entries:  %d\n", lexicalCount)
	}
	return nil
}
