package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mdchunk/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Chunking.ChunkSize != 800 {
		t.Errorf("expected ChunkSize=800, got %d", cfg.Chunking.ChunkSize)
	}
	if cfg.Chunking.ChunkOverlap != 150 {
		t.Errorf("expected ChunkOverlap=150, got %d", cfg.Chunking.ChunkOverlap)
	}
	if len(cfg.Chunking.Headers) != 4 {
		t.Errorf("expected 4 header levels, got %d", len(cfg.Chunking.Headers))
	}
	if cfg.Chunking.LengthUnit != UnitChars {
		t.Errorf("expected LengthUnit=chars, got %s", cfg.Chunking.LengthUnit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "mdchunk.yaml")

	content := `
chunking:
  chunk_size: 400
  chunk_overlap: 40
  length_unit: tokens
  headers:
    - marker: "#"
      label: Title
    - marker: "##"
      label: Part
lexical:
  enabled: true
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Chunking.ChunkSize != 400 {
		t.Errorf("expected ChunkSize=400, got %d", cfg.Chunking.ChunkSize)
	}
	if cfg.Chunking.LengthUnit != UnitTokens {
		t.Errorf("expected LengthUnit=tokens, got %s", cfg.Chunking.LengthUnit)
	}
	if len(cfg.Chunking.Headers) != 2 || cfg.Chunking.Headers[1].Label != "Part" {
		t.Errorf("unexpected headers: %+v", cfg.Chunking.Headers)
	}
	if !cfg.Lexical.Enabled {
		t.Error("expected lexical index to be enabled")
	}
	if cfg.Output.Format != "text" {
		t.Errorf("expected default output format to survive, got %s", cfg.Output.Format)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "mdchunk.yaml")
	if err := os.WriteFile(configPath, []byte("chunking: [oops"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected a parse error")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := EnsureDataDir(tmpDir); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, DataDir, "config.yaml")

	content := `
output:
  format: jsonl
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Output.Format != "jsonl" {
		t.Errorf("expected Format=jsonl, got %s", cfg.Output.Format)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "mdchunk.yaml")

	cfg := DefaultConfig()
	cfg.Chunking.ChunkSize = 1200
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Chunking.ChunkSize != 1200 {
		t.Errorf("expected ChunkSize=1200, got %d", loaded.Chunking.ChunkSize)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"no headers", func(c *Config) { c.Chunking.Headers = nil }, "chunking.headers"},
		{"zero size", func(c *Config) { c.Chunking.ChunkSize = 0 }, "chunk_size"},
		{"negative overlap", func(c *Config) { c.Chunking.ChunkOverlap = -1 }, "chunk_overlap"},
		{"overlap equals size", func(c *Config) { c.Chunking.ChunkOverlap = c.Chunking.ChunkSize }, "chunk_overlap"},
		{"bad unit", func(c *Config) { c.Chunking.LengthUnit = "bytes" }, "chunking.length_unit"},
		{"bad output", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"bad log format", func(c *Config) { c.Logging.Format = "logfmt" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, domain.ErrInvalidConfig) {
				t.Fatalf("expected configuration error, got %v", err)
			}
			var cfgErr *domain.ConfigError
			if errors.As(err, &cfgErr) && cfgErr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, cfgErr.Field)
			}
		})
	}
}

func TestIndexDBPath(t *testing.T) {
	path := IndexDBPath("/home/user/project")
	expected := filepath.Join("/home/user/project", ".mdchunk", "index.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}

func TestLexicalIndexPath(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.LexicalIndexPath("/p"); got != filepath.Join("/p", ".mdchunk", "lexical.bleve") {
		t.Errorf("unexpected default path %s", got)
	}

	cfg.Lexical.Path = "search/idx"
	if got := cfg.LexicalIndexPath("/p"); got != filepath.Join("/p", "search", "idx") {
		t.Errorf("unexpected relative path %s", got)
	}

	cfg.Lexical.Path = "/abs/idx"
	if got := cfg.LexicalIndexPath("/p"); got != "/abs/idx" {
		t.Errorf("unexpected absolute path %s", got)
	}
}
