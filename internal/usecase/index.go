package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"mdchunk/internal/domain"
	"mdchunk/internal/port"
)

// flushEvery bounds how many converted files are held before a store batch.
const flushEvery = 32

// ProgressFunc is called after each file with the number processed so far.
type ProgressFunc func(processed, total int, currentFile string)

// IndexUseCase handles directory indexing: convert, chunk and persist every
// matching file, skipping files that have not changed since the last run.
type IndexUseCase struct {
	store   port.IndexStore
	walker  port.FileWalker
	opener  port.FileOpener
	chunks  *ChunkUseCase
	lexical port.LexicalIndex
	length  func(string) int
	log     logrus.FieldLogger
}

// NewIndexUseCase creates a new index use case. lexical may be nil.
func NewIndexUseCase(
	store port.IndexStore,
	walker port.FileWalker,
	opener port.FileOpener,
	chunks *ChunkUseCase,
	lexical port.LexicalIndex,
	length func(string) int,
	log logrus.FieldLogger,
) *IndexUseCase {
	return &IndexUseCase{
		store:   store,
		walker:  walker,
		opener:  opener,
		chunks:  chunks,
		lexical: lexical,
		length:  length,
		log:     log,
	}
}

// IndexResult contains the results of an indexing operation.
type IndexResult struct {
	RunID         string
	FilesIndexed  int
	FilesSkipped  int
	FilesDeleted  int
	ChunksCreated int
	Oversized     int
	Warnings      int
	Errors        []string
}

// Index indexes files in the given directory. Per-file failures are
// collected in the result; store failures abort the run.
func (u *IndexUseCase) Index(ctx context.Context, root string, progress ProgressFunc) (*IndexResult, error) {
	result := &IndexResult{RunID: uuid.NewString()}
	log := u.log.WithField("run_id", result.RunID)

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	existingDocs, err := u.store.ListDocs()
	if err != nil {
		return nil, fmt.Errorf("failed to list existing docs: %w", err)
	}
	existing := make(map[string]domain.Document, len(existingDocs))
	for _, doc := range existingDocs {
		existing[doc.Path] = doc
	}

	seen := make(map[string]bool, len(files))
	var pending []port.IndexedFile

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seen[file.RelPath] = true

		if old, ok := existing[file.RelPath]; ok && old.ModTime.UnixNano() >= file.ModTime {
			result.FilesSkipped++
		} else {
			indexed, err := u.indexFile(ctx, file)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("failed to index %s: %v", file.RelPath, err))
				log.WithError(err).WithField("doc", file.RelPath).Warn("skipping file")
			} else {
				pending = append(pending, indexed)
				result.FilesIndexed++
				result.ChunksCreated += indexed.Doc.Chunks
				result.Oversized += indexed.Doc.Oversized
				result.Warnings += indexed.Doc.Warnings
			}
		}

		if len(pending) >= flushEvery {
			if err := u.flush(pending, existing); err != nil {
				return nil, err
			}
			pending = pending[:0]
		}
		if progress != nil {
			progress(i+1, len(files), file.RelPath)
		}
	}
	if err := u.flush(pending, existing); err != nil {
		return nil, err
	}

	for path, doc := range existing {
		if seen[path] {
			continue
		}
		if err := u.deleteDocument(doc); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to delete %s: %v", path, err))
			continue
		}
		result.FilesDeleted++
	}

	if err := u.updateStats(result.RunID); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"indexed": result.FilesIndexed,
		"skipped": result.FilesSkipped,
		"deleted": result.FilesDeleted,
		"chunks":  result.ChunksCreated,
	}).Info("index run complete")

	return result, nil
}

func (u *IndexUseCase) indexFile(ctx context.Context, file port.FileInfo) (port.IndexedFile, error) {
	rc, err := u.opener.Open(file.Path)
	if err != nil {
		return port.IndexedFile{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer rc.Close()

	doc, err := u.chunks.Load(rc, file.RelPath)
	if err != nil {
		return port.IndexedFile{}, err
	}
	doc.ModTime = time.Unix(0, file.ModTime)

	res, err := u.chunks.ChunkDocument(ctx, doc)
	if err != nil {
		return port.IndexedFile{}, err
	}

	doc = Summarize(doc, res, u.length)
	return port.IndexedFile{Doc: doc, Chunks: domain.StoredChunks(doc.ID, res.Chunks)}, nil
}

// flush writes a batch to the store, then mirrors it into the lexical index.
func (u *IndexUseCase) flush(batch []port.IndexedFile, previous map[string]domain.Document) error {
	if len(batch) == 0 {
		return nil
	}
	if err := u.store.BatchIndex(batch); err != nil {
		return fmt.Errorf("failed to store batch: %w", err)
	}
	if u.lexical == nil {
		return nil
	}
	for _, f := range batch {
		if old, ok := previous[f.Doc.Path]; ok && old.Chunks > f.Doc.Chunks {
			if err := u.lexical.DeleteChunks(chunkKeys(old.ID, f.Doc.Chunks, old.Chunks)); err != nil {
				return err
			}
		}
		if err := u.lexical.IndexChunks(f.Doc, f.Chunks); err != nil {
			return err
		}
	}
	return nil
}

func (u *IndexUseCase) deleteDocument(doc domain.Document) error {
	if u.lexical != nil {
		if err := u.lexical.DeleteChunks(chunkKeys(doc.ID, 0, doc.Chunks)); err != nil {
			return err
		}
	}
	if err := u.store.DeleteChunksByDoc(doc.ID); err != nil {
		return err
	}
	return u.store.DeleteDoc(doc.ID)
}

// updateStats recomputes corpus totals from the per-document counters.
func (u *IndexUseCase) updateStats(runID string) error {
	docs, err := u.store.ListDocs()
	if err != nil {
		return fmt.Errorf("failed to list docs: %w", err)
	}

	stats := domain.Stats{
		TotalDocs: len(docs),
		LastRunID: runID,
		LastRunAt: time.Now().Unix(),
	}
	totalLen := 0
	for _, doc := range docs {
		stats.TotalChunks += doc.Chunks
		stats.OversizedCount += doc.Oversized
		stats.WarningCount += doc.Warnings
		totalLen += doc.TotalChunkLen
	}
	if stats.TotalChunks > 0 {
		stats.AvgChunkLen = float64(totalLen) / float64(stats.TotalChunks)
	}

	if err := u.store.UpdateStats(stats); err != nil {
		return fmt.Errorf("failed to update stats: %w", err)
	}
	return nil
}

func chunkKeys(docID string, from, to int) []string {
	keys := make([]string, 0, to-from)
	for id := from; id < to; id++ {
		keys = append(keys, domain.ChunkKey(docID, id))
	}
	return keys
}

// DocID derives a stable document id from its path.
func DocID(path string) string {
	hash := sha256.Sum256([]byte(path))
	return hex.EncodeToString(hash[:8])
}
