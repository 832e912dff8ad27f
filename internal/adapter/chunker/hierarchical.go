package chunker

import (
	"context"
	"fmt"

	"mdchunk/internal/domain"
	"mdchunk/internal/port"
)

// Config controls the two-level chunking pipeline.
type Config struct {
	Headers      []domain.HeaderLevel
	ChunkSize    int // maximum piece length, in units of Length
	ChunkOverlap int // upper bound on overlap between neighbours
	Workers      int
	Length       func(string) int // nil means rune count
}

// DefaultConfig returns H1-H4 headers, 800/150 sizes and a single worker.
func DefaultConfig() Config {
	return Config{
		Headers:      domain.DefaultHeaderLevels(),
		ChunkSize:    800,
		ChunkOverlap: 150,
		Workers:      1,
	}
}

func (c Config) Validate() error {
	if len(c.Headers) == 0 {
		return domain.NewConfigError("headers", "at least one header level is required")
	}
	return validateSizes(c.ChunkSize, c.ChunkOverlap)
}

// HierarchicalChunker splits a document by headers, then splits every
// section into bounded, overlapping chunks.
type HierarchicalChunker struct {
	headers   *HeaderSplitter
	splitter  *RecursiveSplitter
	assembler *Assembler
}

// New validates cfg and builds the pipeline. Configuration errors are
// returned before any document is processed.
func New(cfg Config) (*HierarchicalChunker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	headers, err := NewHeaderSplitter(cfg.Headers)
	if err != nil {
		return nil, err
	}
	splitter, err := NewRecursiveSplitter(cfg.ChunkSize, cfg.ChunkOverlap, WithLengthFunc(cfg.Length))
	if err != nil {
		return nil, err
	}
	return &HierarchicalChunker{
		headers:   headers,
		splitter:  splitter,
		assembler: NewAssembler(splitter, cfg.Workers),
	}, nil
}

// Split exposes the first split level on its own.
func (c *HierarchicalChunker) Split(document string) ([]domain.Section, []domain.Warning) {
	return c.headers.Split(document)
}

func (c *HierarchicalChunker) Chunk(ctx context.Context, document string) (domain.Result, error) {
	sections, warnings := c.Split(document)

	chunks, oversized, err := c.assembler.Assemble(ctx, sections)
	if err != nil {
		return domain.Result{}, fmt.Errorf("assemble chunks: %w", err)
	}

	return domain.Result{
		Sections:       sections,
		Chunks:         chunks,
		OversizedCount: oversized,
		Warnings:       warnings,
	}, nil
}

var (
	_ port.Chunker   = (*HierarchicalChunker)(nil)
	_ port.Sectioner = (*HierarchicalChunker)(nil)
)
