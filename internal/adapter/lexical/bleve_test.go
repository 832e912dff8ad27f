package lexical

import (
	"path/filepath"
	"testing"

	"mdchunk/internal/domain"
)

func testChunks(docID string, n int) []domain.StoredChunk {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{ChunkID: i, SectionPath: "Guide > Setup", Text: "install the binary and run it"}
	}
	return domain.StoredChunks(docID, chunks)
}

func TestBleveIndex_IndexAndDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexical.bleve")
	idx, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer idx.Close()

	doc := domain.Document{ID: "d1", Path: "guide.md"}
	chunks := testChunks("d1", 250)
	if err := idx.IndexChunks(doc, chunks); err != nil {
		t.Fatalf("IndexChunks failed: %v", err)
	}

	count, err := idx.DocCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 250 {
		t.Errorf("expected 250 indexed chunks, got %d", count)
	}

	keys := []string{chunks[0].Key, chunks[1].Key, "missing"}
	if err := idx.DeleteChunks(keys); err != nil {
		t.Fatalf("DeleteChunks failed: %v", err)
	}
	count, _ = idx.DocCount()
	if count != 248 {
		t.Errorf("expected 248 chunks after delete, got %d", count)
	}
}

func TestBleveIndex_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "lexical.bleve")

	idx, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := idx.IndexChunks(domain.Document{ID: "d1"}, testChunks("d1", 3)); err != nil {
		t.Fatal(err)
	}
	if err := idx.Close(); err != nil {
		t.Fatal(err)
	}

	idx, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	count, _ := idx.DocCount()
	idx.Close()
	if count != 3 {
		t.Errorf("expected 3 chunks after reopen, got %d", count)
	}

	idx, err = Recreate(path)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	count, _ = idx.DocCount()
	if count != 0 {
		t.Errorf("expected an empty index after Recreate, got %d", count)
	}
}
