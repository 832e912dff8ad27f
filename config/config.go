package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"mdchunk/internal/domain"
)

// DataDir is the per-project directory holding the index and lexical store.
const DataDir = ".mdchunk"

// Length units accepted by chunking.length_unit.
const (
	UnitChars  = "chars"
	UnitTokens = "tokens"
)

// Config holds all configuration for mdchunk.
type Config struct {
	Chunking ChunkingConfig `yaml:"chunking"`
	Index    IndexConfig    `yaml:"index"`
	Lexical  LexicalConfig  `yaml:"lexical"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ChunkingConfig holds the header levels and size limits of the pipeline.
type ChunkingConfig struct {
	Headers      []domain.HeaderLevel `yaml:"headers"`
	ChunkSize    int                  `yaml:"chunk_size"`
	ChunkOverlap int                  `yaml:"chunk_overlap"`
	LengthUnit   string               `yaml:"length_unit"` // "chars" or "tokens"
	Workers      int                  `yaml:"workers"`
}

// IndexConfig holds file discovery configuration.
type IndexConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// LexicalConfig controls the optional full-text index fed with chunks.
type LexicalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // empty means .mdchunk/lexical.bleve
}

// OutputConfig holds chunk output configuration.
type OutputConfig struct {
	Format string `yaml:"format"` // "text", "jsonl" or "json"
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			Headers:      domain.DefaultHeaderLevels(),
			ChunkSize:    800,
			ChunkOverlap: 150,
			LengthUnit:   UnitChars,
			Workers:      4,
		},
		Index: IndexConfig{
			Includes: []string{"**/*.md", "**/*.markdown", "**/*.txt", "**/*.html", "**/*.htm", "**/*.pdf",
				"**/*.docx", "**/*.xlsx", "**/*.xlsm", "**/*.xltx", "**/*.xltm"},
			Excludes: []string{"**/node_modules/**", "**/.git/**", "**/vendor/**", "**/" + DataDir + "/**"},
		},
		Output: OutputConfig{
			Format: "text",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for mdchunk.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "mdchunk.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, DataDir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every setting the pipeline depends on. It returns a
// *domain.ConfigError on the first invalid field.
func (c *Config) Validate() error {
	ch := c.Chunking
	if len(ch.Headers) == 0 {
		return domain.NewConfigError("chunking.headers", "at least one header level is required")
	}
	if ch.ChunkSize <= 0 {
		return domain.NewConfigError("chunk_size", "must be positive, got %d", ch.ChunkSize)
	}
	if ch.ChunkOverlap < 0 {
		return domain.NewConfigError("chunk_overlap", "must not be negative, got %d", ch.ChunkOverlap)
	}
	if ch.ChunkOverlap >= ch.ChunkSize {
		return domain.NewConfigError("chunk_overlap", "must be less than chunk_size (%d), got %d", ch.ChunkSize, ch.ChunkOverlap)
	}
	switch ch.LengthUnit {
	case "", UnitChars, UnitTokens:
	default:
		return domain.NewConfigError("chunking.length_unit", "unknown unit %q", ch.LengthUnit)
	}
	if ch.Workers < 0 {
		return domain.NewConfigError("chunking.workers", "must not be negative, got %d", ch.Workers)
	}

	switch c.Output.Format {
	case "", "text", "jsonl", "json":
	default:
		return domain.NewConfigError("output.format", "unknown format %q", c.Output.Format)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return domain.NewConfigError("logging.format", "unknown format %q", c.Logging.Format)
	}
	return nil
}

// IndexDBPath returns the path to the index database.
func IndexDBPath(dir string) string {
	return filepath.Join(dir, DataDir, "index.db")
}

// LexicalIndexPath returns where the full-text index lives.
func (c *Config) LexicalIndexPath(dir string) string {
	if c.Lexical.Path != "" {
		if filepath.IsAbs(c.Lexical.Path) {
			return c.Lexical.Path
		}
		return filepath.Join(dir, c.Lexical.Path)
	}
	return filepath.Join(dir, DataDir, "lexical.bleve")
}

// EnsureDataDir ensures the .mdchunk directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, DataDir), 0755)
}
