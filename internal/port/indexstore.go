package port

import "mdchunk/internal/domain"

type IndexStore interface {
	PutDoc(doc domain.Document) error

	GetDoc(id string) (domain.Document, error)

	DeleteDoc(id string) error

	ListDocs() ([]domain.Document, error)

	GetChunksByDoc(docID string) ([]domain.StoredChunk, error)

	DeleteChunksByDoc(docID string) error

	GetStats() (domain.Stats, error)

	UpdateStats(stats domain.Stats) error

	BatchIndex(files []IndexedFile) error

	Close() error
}

// IndexedFile is one document and its chunks, written in a single batch.
type IndexedFile struct {
	Doc    domain.Document
	Chunks []domain.StoredChunk
}

// LexicalIndex receives chunks for keyword indexing.
type LexicalIndex interface {
	IndexChunks(doc domain.Document, chunks []domain.StoredChunk) error

	DeleteChunks(keys []string) error

	DocCount() (uint64, error)

	Close() error
}
