package lexical

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blevesearch/bleve/v2"

	"mdchunk/internal/domain"
	"mdchunk/internal/port"
)

const batchSize = 100

// chunkDoc is the shape of a chunk inside the full-text index.
type chunkDoc struct {
	DocID       string `json:"doc_id"`
	Path        string `json:"path"`
	ChunkID     int    `json:"chunk_id"`
	SectionPath string `json:"section_path"`
	Text        string `json:"text"`
}

// BleveIndex feeds chunks into a bleve index on disk, keyed by chunk key.
type BleveIndex struct {
	index bleve.Index
}

// Open opens the index at path, creating it with the default mapping when
// it does not exist yet.
func Open(path string) (*BleveIndex, error) {
	index, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create index directory: %w", err)
		}
		index, err = bleve.New(path, bleve.NewIndexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open lexical index %s: %w", path, err)
	}
	return &BleveIndex{index: index}, nil
}

// Recreate removes any index at path and opens an empty one.
func Recreate(path string) (*BleveIndex, error) {
	if err := os.RemoveAll(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to remove old index: %w", err)
	}
	return Open(path)
}

// IndexChunks adds or replaces the chunks of one document.
func (b *BleveIndex) IndexChunks(doc domain.Document, chunks []domain.StoredChunk) error {
	batch := b.index.NewBatch()
	for _, c := range chunks {
		entry := chunkDoc{
			DocID:       doc.ID,
			Path:        doc.Path,
			ChunkID:     c.ChunkID,
			SectionPath: c.SectionPath,
			Text:        c.Text,
		}
		if err := batch.Index(c.Key, entry); err != nil {
			return fmt.Errorf("failed to add chunk %s to batch: %w", c.Key, err)
		}
		if batch.Size() >= batchSize {
			if err := b.index.Batch(batch); err != nil {
				return fmt.Errorf("failed to index batch: %w", err)
			}
			batch = b.index.NewBatch()
		}
	}
	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			return fmt.Errorf("failed to index final batch: %w", err)
		}
	}
	return nil
}

// DeleteChunks removes chunks by key. Unknown keys are ignored.
func (b *BleveIndex) DeleteChunks(keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	batch := b.index.NewBatch()
	for _, key := range keys {
		batch.Delete(key)
	}
	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	return nil
}

func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

func (b *BleveIndex) Close() error {
	return b.index.Close()
}

var _ port.LexicalIndex = (*BleveIndex)(nil)
