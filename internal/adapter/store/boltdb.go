package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"mdchunk/internal/domain"
	"mdchunk/internal/port"
)

var (
	bucketDocs      = []byte("docs")
	bucketChunks    = []byte("chunks")
	bucketBlobs     = []byte("blobs")
	bucketStats     = []byte("stats")
	bucketDocChunks = []byte("doc_chunks")
	keyStats        = []byte("corpus_stats")
)

// ErrNotFound is returned when a document is not in the store.
var ErrNotFound = errors.New("not found")

// BoltStore persists documents and their chunks in a bbolt file. Chunk
// metadata and chunk text live in separate buckets so listing metadata never
// loads the text.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{bucketDocs, bucketChunks, bucketBlobs, bucketStats, bucketDocChunks}
		for _, b := range buckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) DB() *bbolt.DB {
	return s.db
}

func (s *BoltStore) PutDoc(doc domain.Document) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return putDoc(tx, doc)
	})
}

func putDoc(tx *bbolt.Tx, doc domain.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return tx.Bucket(bucketDocs).Put([]byte(doc.ID), data)
}

func (s *BoltStore) GetDoc(id string) (domain.Document, error) {
	var doc domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDocs).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		return json.Unmarshal(data, &doc)
	})
	return doc, err
}

func (s *BoltStore) DeleteDoc(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocs).Delete([]byte(id))
	})
}

func (s *BoltStore) ListDocs() ([]domain.Document, error) {
	var docs []domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocs).ForEach(func(k, v []byte) error {
			var doc domain.Document
			if err := json.Unmarshal(v, &doc); err != nil {
				return fmt.Errorf("decode document %s: %w", k, err)
			}
			docs = append(docs, doc)
			return nil
		})
	})
	return docs, err
}

// GetChunksByDoc returns the chunks of a document in chunk id order.
func (s *BoltStore) GetChunksByDoc(docID string) ([]domain.StoredChunk, error) {
	var chunks []domain.StoredChunk
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDocChunks).Get([]byte(docID))
		if data == nil {
			return nil
		}
		var keys []string
		if err := json.Unmarshal(data, &keys); err != nil {
			return err
		}
		chunkBucket := tx.Bucket(bucketChunks)
		blobBucket := tx.Bucket(bucketBlobs)
		for _, key := range keys {
			meta := chunkBucket.Get([]byte(key))
			if meta == nil {
				continue
			}
			var c domain.StoredChunk
			if err := json.Unmarshal(meta, &c); err != nil {
				return fmt.Errorf("decode chunk %s: %w", key, err)
			}
			c.Text = string(blobBucket.Get([]byte(key)))
			chunks = append(chunks, c)
		}
		return nil
	})
	return chunks, err
}

// DeleteChunksByDoc removes every chunk of a document.
func (s *BoltStore) DeleteChunksByDoc(docID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return deleteChunks(tx, docID)
	})
}

func deleteChunks(tx *bbolt.Tx, docID string) error {
	docChunks := tx.Bucket(bucketDocChunks)
	data := docChunks.Get([]byte(docID))
	if data == nil {
		return nil
	}
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	chunkBucket := tx.Bucket(bucketChunks)
	blobBucket := tx.Bucket(bucketBlobs)
	for _, key := range keys {
		if err := chunkBucket.Delete([]byte(key)); err != nil {
			return err
		}
		if err := blobBucket.Delete([]byte(key)); err != nil {
			return err
		}
	}
	return docChunks.Delete([]byte(docID))
}

func (s *BoltStore) GetStats() (domain.Stats, error) {
	var stats domain.Stats
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketStats).Get(keyStats)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &stats)
	})
	return stats, err
}

func (s *BoltStore) UpdateStats(stats domain.Stats) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketStats).Put(keyStats, data)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// BatchIndex replaces the stored chunks of every file in one transaction.
func (s *BoltStore) BatchIndex(files []port.IndexedFile) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		chunksBucket := tx.Bucket(bucketChunks)
		blobsBucket := tx.Bucket(bucketBlobs)
		docChunksBucket := tx.Bucket(bucketDocChunks)

		for _, file := range files {
			if err := deleteChunks(tx, file.Doc.ID); err != nil {
				return err
			}
			if err := putDoc(tx, file.Doc); err != nil {
				return err
			}

			keys := make([]string, 0, len(file.Chunks))
			for _, chunk := range file.Chunks {
				text := chunk.Text
				chunk.Text = ""
				meta, err := json.Marshal(chunk)
				if err != nil {
					return err
				}
				if err := chunksBucket.Put([]byte(chunk.Key), meta); err != nil {
					return err
				}
				if err := blobsBucket.Put([]byte(chunk.Key), []byte(text)); err != nil {
					return err
				}
				keys = append(keys, chunk.Key)
			}

			keysData, err := json.Marshal(keys)
			if err != nil {
				return err
			}
			if err := docChunksBucket.Put([]byte(file.Doc.ID), keysData); err != nil {
				return err
			}
		}
		return nil
	})
}

var _ port.IndexStore = (*BoltStore)(nil)
