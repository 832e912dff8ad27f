package domain

import (
	"fmt"
	"strings"
	"time"
)

// PathSeparator joins header path entries into a section path.
const PathSeparator = " > "

// Document is a converted markdown document ready for chunking. Content is
// not persisted; the counters are filled in once the document is chunked.
type Document struct {
	ID            string    `json:"id"`
	Path          string    `json:"path"`
	ModTime       time.Time `json:"mod_time"`
	Format        string    `json:"format"`
	Content       string    `json:"-"`
	Sections      int       `json:"sections"`
	Chunks        int       `json:"chunks"`
	Oversized     int       `json:"oversized"`
	Warnings      int       `json:"warnings"`
	TotalChunkLen int       `json:"total_chunk_len"`
}

// HeaderLevel maps a markdown marker ("##") to a logical label ("H2").
type HeaderLevel struct {
	Marker string `yaml:"marker" json:"marker"`
	Label  string `yaml:"label" json:"label"`
}

// DefaultHeaderLevels returns the four levels # through ####.
func DefaultHeaderLevels() []HeaderLevel {
	return []HeaderLevel{
		{Marker: "#", Label: "H1"},
		{Marker: "##", Label: "H2"},
		{Marker: "###", Label: "H3"},
		{Marker: "####", Label: "H4"},
	}
}

// HeaderEntry is one element of a header path.
type HeaderEntry struct {
	Depth int    `json:"depth"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// HeaderPath is the chain of headers active at a point in a document,
// ordered by depth. Values are never mutated after a Section is created.
type HeaderPath []HeaderEntry

// With returns a new path with every entry at depth >= e.Depth removed
// and e appended. The receiver is left untouched.
func (p HeaderPath) With(e HeaderEntry) HeaderPath {
	next := make(HeaderPath, 0, len(p)+1)
	for _, cur := range p {
		if cur.Depth < e.Depth {
			next = append(next, cur)
		}
	}
	return append(next, e)
}

// Join renders the path as "A > B > C".
func (p HeaderPath) Join() string {
	if len(p) == 0 {
		return ""
	}
	texts := make([]string, len(p))
	for i, e := range p {
		texts[i] = e.Text
	}
	return strings.Join(texts, PathSeparator)
}

// Labels returns the path as a label -> text map.
func (p HeaderPath) Labels() map[string]string {
	m := make(map[string]string, len(p))
	for _, e := range p {
		m[e.Label] = e.Text
	}
	return m
}

// Section is a span of a document bounded by header lines.
type Section struct {
	Index     int
	Path      HeaderPath
	Content   string
	StartLine int // 1-based line of the first content line
}

// Span is a half-open byte range [Start, End) of a text.
type Span struct {
	Start int
	End   int
}

// Chunk is the final output unit handed to indexers and writers.
type Chunk struct {
	ChunkID      int    `json:"chunk_id"`
	SectionIndex int    `json:"section_index"`
	SectionPath  string `json:"section_path"`
	Text         string `json:"text"`
	Start        int    `json:"start"` // byte offset into the section content
	End          int    `json:"end"`
	Oversized    bool   `json:"oversized,omitempty"`
}

// WarningKind classifies non-fatal conditions found while chunking.
type WarningKind string

const (
	WarnStructuralAmbiguity WarningKind = "structural_ambiguity"
)

// Warning is an advisory signal recorded in a Result.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Line    int         `json:"line"`
	Message string      `json:"message"`
}

// Result is the output of one pipeline run over a document.
type Result struct {
	Sections       []Section
	Chunks         []Chunk
	OversizedCount int
	Warnings       []Warning
}

// StoredChunk is a chunk persisted for a given document.
type StoredChunk struct {
	Key   string `json:"key"`
	DocID string `json:"doc_id"`
	Chunk
}

// ChunkKey is the store key of a document's chunk.
func ChunkKey(docID string, chunkID int) string {
	return fmt.Sprintf("%s#%06d", docID, chunkID)
}

// StoredChunks keys the chunks of a document for persistence.
func StoredChunks(docID string, chunks []Chunk) []StoredChunk {
	out := make([]StoredChunk, len(chunks))
	for i, c := range chunks {
		out[i] = StoredChunk{Key: ChunkKey(docID, c.ChunkID), DocID: docID, Chunk: c}
	}
	return out
}

// Stats summarises a chunk store.
type Stats struct {
	TotalDocs      int     `json:"total_docs"`
	TotalChunks    int     `json:"total_chunks"`
	OversizedCount int     `json:"oversized_count"`
	WarningCount   int     `json:"warning_count"`
	AvgChunkLen    float64 `json:"avg_chunk_len"`
	LastRunID      string  `json:"last_run_id,omitempty"`
	LastRunAt      int64   `json:"last_run_at,omitempty"`
}
