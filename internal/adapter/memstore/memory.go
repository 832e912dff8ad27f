package memstore

import (
	"fmt"
	"sort"
	"sync"

	"mdchunk/internal/domain"
	"mdchunk/internal/port"
)

// MemoryStore is an in-memory IndexStore for tests and one-shot runs.
type MemoryStore struct {
	mu        sync.RWMutex
	docs      map[string]domain.Document
	chunks    map[string]domain.StoredChunk
	docChunks map[string][]string
	stats     domain.Stats
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:      make(map[string]domain.Document),
		chunks:    make(map[string]domain.StoredChunk),
		docChunks: make(map[string][]string),
	}
}

func (s *MemoryStore) PutDoc(doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc.Content = ""
	s.docs[doc.ID] = doc
	return nil
}

func (s *MemoryStore) GetDoc(id string) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return domain.Document{}, fmt.Errorf("document not found: %s", id)
	}
	return doc, nil
}

func (s *MemoryStore) DeleteDoc(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

// ListDocs returns documents sorted by path.
func (s *MemoryStore) ListDocs() ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

func (s *MemoryStore) GetChunksByDoc(docID string) ([]domain.StoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := s.docChunks[docID]
	chunks := make([]domain.StoredChunk, 0, len(keys))
	for _, key := range keys {
		if c, ok := s.chunks[key]; ok {
			chunks = append(chunks, c)
		}
	}
	return chunks, nil
}

func (s *MemoryStore) DeleteChunksByDoc(docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteChunks(docID)
	return nil
}

func (s *MemoryStore) deleteChunks(docID string) {
	for _, key := range s.docChunks[docID] {
		delete(s.chunks, key)
	}
	delete(s.docChunks, docID)
}

func (s *MemoryStore) GetStats() (domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats, nil
}

func (s *MemoryStore) UpdateStats(stats domain.Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
	return nil
}

func (s *MemoryStore) BatchIndex(files []port.IndexedFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, file := range files {
		s.deleteChunks(file.Doc.ID)
		doc := file.Doc
		doc.Content = ""
		s.docs[doc.ID] = doc

		keys := make([]string, 0, len(file.Chunks))
		for _, c := range file.Chunks {
			s.chunks[c.Key] = c
			keys = append(keys, c.Key)
		}
		s.docChunks[doc.ID] = keys
	}
	return nil
}

// ChunkCount returns the number of stored chunks across all documents.
func (s *MemoryStore) ChunkCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

func (s *MemoryStore) Close() error {
	return nil
}

var _ port.IndexStore = (*MemoryStore)(nil)
