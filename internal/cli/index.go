package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"mdchunk/config"
	"mdchunk/internal/adapter/fs"
	"mdchunk/internal/adapter/lexical"
	"mdchunk/internal/adapter/store"
	"mdchunk/internal/port"
	"mdchunk/internal/usecase"
)

var indexNoProgress bool

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Chunk every document in a directory",
	Long: `Chunk the documents in the specified directory and store the chunks in
.mdchunk/index.db within the target directory. Unchanged files are skipped on
later runs; changing the chunking settings rebuilds the index.

Examples:
  mdchunk index .                 # Index current directory
  mdchunk index /path/to/docs     # Index specific directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVar(&indexNoProgress, "no-progress", false, "disable the progress bar")
}

func runIndex(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()
	chunks, err := newChunkUseCase(cfg)
	if err != nil {
		return err
	}

	if err := config.EnsureDataDir(path); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", config.DataDir, err)
	}

	dbPath := config.IndexDBPath(path)
	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open index store: %w", err)
	}
	defer st.Close()

	migration, err := st.CheckMigration(cfg)
	if err != nil {
		return fmt.Errorf("failed to check migration: %w", err)
	}
	if migration.NeedsRebuild {
		logger.WithField("reason", migration.Reason).Warn("index rebuild required, clearing existing index")
		if err := st.Clear(); err != nil {
			return fmt.Errorf("failed to clear index: %w", err)
		}
	} else if migration.NeedsMigration {
		logger.WithField("reason", migration.Reason).Info("running schema migration")
		if err := st.Migrate(cfg); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	var lex port.LexicalIndex
	if cfg.Lexical.Enabled {
		lexPath := cfg.LexicalIndexPath(path)
		var bl *lexical.BleveIndex
		if migration.NeedsRebuild {
			bl, err = lexical.Recreate(lexPath)
		} else {
			bl, err = lexical.Open(lexPath)
		}
		if err != nil {
			return err
		}
		defer bl.Close()
		lex = bl
	}

	walker := fs.NewWalker(cfg.Index.Includes, cfg.Index.Excludes)
	indexUC := usecase.NewIndexUseCase(st, walker, walker, chunks, lex, lengthFunc(cfg), logger)

	fmt.Fprintf(cmd.ErrOrStderr(), "Scanning %s...\n", path)

	var progress usecase.ProgressFunc
	if !indexNoProgress {
		progress = newProgress()
	}

	result, err := indexUC.Index(cmd.Context(), path, progress)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	if err := st.Migrate(cfg); err != nil {
		return fmt.Errorf("failed to update schema info: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nIndexing complete:\n")
	fmt.Fprintf(out, "  Run:            %s\n", result.RunID)
	fmt.Fprintf(out, "  Files indexed:  %d\n", result.FilesIndexed)
	fmt.Fprintf(out, "  Files skipped:  %d (unchanged)\n", result.FilesSkipped)
	fmt.Fprintf(out, "  Files deleted:  %d (removed)\n", result.FilesDeleted)
	fmt.Fprintf(out, "  Chunks created: %d\n", result.ChunksCreated)
	if result.Oversized > 0 {
		fmt.Fprintf(out, "  Oversized:      %d\n", result.Oversized)
	}
	if result.Warnings > 0 {
		fmt.Fprintf(out, "  Warnings:       %d (unterminated code fences)\n", result.Warnings)
	}

	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "\nErrors:\n")
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  - %s\n", e)
		}
	}

	fmt.Fprintf(out, "\nIndex stored at: %s\n", dbPath)
	return nil
}

// newProgress returns a callback drawing a progress bar with an ETA. The bar
// is created on the first call, once the total is known.
func newProgress() usecase.ProgressFunc {
	var (
		bar       *progressbar.ProgressBar
		barMu     sync.Mutex
		startTime time.Time
	)

	return func(processed, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Chunking[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}

		bar.Set(processed)

		if processed > 0 {
			elapsed := time.Since(startTime)
			rate := float64(processed) / elapsed.Seconds()
			if rate > 0 {
				eta := time.Duration(float64(total-processed)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Chunking[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
