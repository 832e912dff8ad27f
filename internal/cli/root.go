package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mdchunk/config"
	"mdchunk/internal/adapter/analyzer"
	"mdchunk/internal/adapter/chunker"
	"mdchunk/internal/adapter/convert"
	"mdchunk/internal/logging"
	"mdchunk/internal/usecase"
)

var (
	cfgFile  string
	cfg      *config.Config
	rootDir  string
	logLevel string
	logger   *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mdchunk",
	Short: "Hierarchical markdown chunker",
	Long: `mdchunk splits markdown documents into size-bounded, overlapping chunks that
keep the header path of the section they came from. HTML and PDF inputs are
converted to markdown first.

Example usage:
  mdchunk chunk guide.md --preview   # Chunk one file
  mdchunk sections guide.md          # Show the header structure
  mdchunk index ./docs               # Chunk a directory into .mdchunk/index.db
  mdchunk stats                      # Show index totals`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}

		return nil
	},
}

// Execute runs the root command. An interrupt cancels the running command's
// context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./mdchunk.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}

// lengthFunc returns the length measure selected by chunking.length_unit.
func lengthFunc(c *config.Config) func(string) int {
	if c.Chunking.LengthUnit == config.UnitTokens {
		return analyzer.NewTokenizer().CountTokens
	}
	return utf8.RuneCountInString
}

// newChunkUseCase validates the configuration and wires the conversion and
// chunking pipeline.
func newChunkUseCase(c *config.Config) (*usecase.ChunkUseCase, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	chkCfg := chunker.Config{
		Headers:      c.Chunking.Headers,
		ChunkSize:    c.Chunking.ChunkSize,
		ChunkOverlap: c.Chunking.ChunkOverlap,
		Workers:      c.Chunking.Workers,
		Length:       lengthFunc(c),
	}
	chk, err := chunker.New(chkCfg)
	if err != nil {
		return nil, err
	}

	return usecase.NewChunkUseCase(convert.NewRegistry(), chk, chk, logger), nil
}
