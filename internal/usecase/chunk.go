package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"mdchunk/internal/domain"
	"mdchunk/internal/port"
)

// DocumentConverter turns any supported input into markdown and reports
// the source format.
type DocumentConverter interface {
	Convert(r io.Reader, filename string) (string, string, error)
}

// ChunkUseCase converts one document and runs it through the chunking
// pipeline.
type ChunkUseCase struct {
	converter DocumentConverter
	sectioner port.Sectioner
	chunker   port.Chunker
	log       logrus.FieldLogger
}

// NewChunkUseCase creates a new chunk use case.
func NewChunkUseCase(
	converter DocumentConverter,
	sectioner port.Sectioner,
	chunker port.Chunker,
	log logrus.FieldLogger,
) *ChunkUseCase {
	return &ChunkUseCase{
		converter: converter,
		sectioner: sectioner,
		chunker:   chunker,
		log:       log,
	}
}

// ChunkFile chunks the file at path.
func (u *ChunkUseCase) ChunkFile(ctx context.Context, path string) (domain.Document, domain.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Document{}, domain.Result{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := u.Load(f, path)
	if err != nil {
		return domain.Document{}, domain.Result{}, err
	}
	if info, err := f.Stat(); err == nil {
		doc.ModTime = info.ModTime()
	}

	res, err := u.ChunkDocument(ctx, doc)
	return doc, res, err
}

// Load converts r into a Document named after filename.
func (u *ChunkUseCase) Load(r io.Reader, filename string) (domain.Document, error) {
	text, format, err := u.converter.Convert(r, filename)
	if err != nil {
		return domain.Document{}, err
	}
	return domain.Document{
		ID:      DocID(filename),
		Path:    filename,
		Format:  format,
		Content: text,
	}, nil
}

// ChunkDocument runs the pipeline over an already converted document and
// fills in its counters.
func (u *ChunkUseCase) ChunkDocument(ctx context.Context, doc domain.Document) (domain.Result, error) {
	start := time.Now()

	res, err := u.chunker.Chunk(ctx, doc.Content)
	if err != nil {
		return domain.Result{}, fmt.Errorf("failed to chunk %s: %w", doc.Path, err)
	}

	entry := u.log.WithField("doc", doc.Path)
	for _, w := range res.Warnings {
		entry.WithFields(logrus.Fields{"kind": w.Kind, "line": w.Line}).Warn(w.Message)
	}
	entry.WithFields(logrus.Fields{
		"sections":  len(res.Sections),
		"chunks":    len(res.Chunks),
		"oversized": res.OversizedCount,
		"elapsed":   time.Since(start).String(),
	}).Debug("chunked document")

	return res, nil
}

// Sections converts r and returns only the header split, for inspecting a
// document's structure.
func (u *ChunkUseCase) Sections(r io.Reader, filename string) ([]domain.Section, []domain.Warning, error) {
	doc, err := u.Load(r, filename)
	if err != nil {
		return nil, nil, err
	}
	sections, warnings := u.sectioner.Split(doc.Content)
	return sections, warnings, nil
}

// Summarize copies the result counters onto doc.
func Summarize(doc domain.Document, res domain.Result, length func(string) int) domain.Document {
	doc.Sections = len(res.Sections)
	doc.Chunks = len(res.Chunks)
	doc.Oversized = res.OversizedCount
	doc.Warnings = len(res.Warnings)
	doc.TotalChunkLen = 0
	for _, c := range res.Chunks {
		doc.TotalChunkLen += length(c.Text)
	}
	return doc
}
