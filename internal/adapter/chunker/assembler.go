package chunker

import (
	"context"

	"golang.org/x/sync/errgroup"

	"mdchunk/internal/domain"
	"mdchunk/internal/port"
)

// Assembler turns sections into the flat, globally numbered chunk list.
type Assembler struct {
	splitter port.TextSplitter
	workers  int
}

// NewAssembler creates an assembler. With workers > 1 sections are
// sub-split concurrently; numbering always happens in section order.
func NewAssembler(splitter port.TextSplitter, workers int) *Assembler {
	if workers < 1 {
		workers = 1
	}
	return &Assembler{splitter: splitter, workers: workers}
}

// Assemble returns the chunks of all sections and how many of them exceed
// the chunk size.
func (a *Assembler) Assemble(ctx context.Context, sections []domain.Section) ([]domain.Chunk, int, error) {
	spans, err := a.splitAll(ctx, sections)
	if err != nil {
		return nil, 0, err
	}

	var (
		chunks    []domain.Chunk
		oversized int
		nextID    int
	)
	for i, sec := range sections {
		path := sec.Path.Join()
		for _, sp := range spans[i] {
			text := sec.Content[sp.Start:sp.End]
			over := a.splitter.Length(text) > a.splitter.ChunkSize()
			if over {
				oversized++
			}
			chunks = append(chunks, domain.Chunk{
				ChunkID:      nextID,
				SectionIndex: sec.Index,
				SectionPath:  path,
				Text:         text,
				Start:        sp.Start,
				End:          sp.End,
				Oversized:    over,
			})
			nextID++
		}
	}
	return chunks, oversized, nil
}

func (a *Assembler) splitAll(ctx context.Context, sections []domain.Section) ([][]domain.Span, error) {
	spans := make([][]domain.Span, len(sections))

	if a.workers == 1 || len(sections) < 2 {
		for i, sec := range sections {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			spans[i] = a.splitter.SplitSpans(sec.Content)
		}
		return spans, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i := range sections {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			spans[i] = a.splitter.SplitSpans(sections[i].Content)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return spans, nil
}
