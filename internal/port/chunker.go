package port

import (
	"context"

	"mdchunk/internal/domain"
)

// Sectioner partitions a markdown document along its header hierarchy.
type Sectioner interface {
	Split(document string) ([]domain.Section, []domain.Warning)
}

// TextSplitter splits text into ordered, size-bounded, overlapping pieces.
type TextSplitter interface {
	Split(text string) []string

	SplitSpans(text string) []domain.Span

	ChunkSize() int

	Length(text string) int
}

// Chunker runs the full document pipeline.
type Chunker interface {
	Chunk(ctx context.Context, document string) (domain.Result, error)
}
