package output

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"mdchunk/internal/domain"
)

// Output formats.
const (
	FormatText  = "text"
	FormatJSONL = "jsonl"
	FormatJSON  = "json"
)

const (
	ruleWidth     = 80
	previewChunks = 3
	previewRunes  = 300
)

// Write renders chunks in the given format.
func Write(w io.Writer, chunks []domain.Chunk, format string) error {
	switch format {
	case "", FormatText:
		return writeText(w, chunks)
	case FormatJSONL:
		enc := json.NewEncoder(w)
		for _, c := range chunks {
			if err := enc.Encode(c); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		if chunks == nil {
			chunks = []domain.Chunk{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(chunks)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// writeText writes one delimited record per chunk:
//
//	================ (80)
//	CHUNK_ID: 0
//	SECTION_INDEX: 0
//	SECTION_PATH: A > B
//	---------------- (80)
//	<chunk text, trimmed>
//	<blank line>
func writeText(w io.Writer, chunks []domain.Chunk) error {
	heavy := strings.Repeat("=", ruleWidth)
	light := strings.Repeat("-", ruleWidth)
	for _, c := range chunks {
		_, err := fmt.Fprintf(w, "%s\nCHUNK_ID: %d\nSECTION_INDEX: %d\nSECTION_PATH: %s\n%s\n%s\n\n",
			heavy, c.ChunkID, c.SectionIndex, c.SectionPath, light, strings.TrimSpace(c.Text))
		if err != nil {
			return err
		}
	}
	return nil
}

// WritePreview prints the first few chunks with their path and the start
// of their text.
func WritePreview(w io.Writer, chunks []domain.Chunk) error {
	if len(chunks) > previewChunks {
		chunks = chunks[:previewChunks]
	}
	for _, c := range chunks {
		text := c.Text
		if r := []rune(text); len(r) > previewRunes {
			text = string(r[:previewRunes])
		}
		if _, err := fmt.Fprintf(w, "[%d] %s\n%s\n\n\n", c.ChunkID, c.SectionPath, text); err != nil {
			return err
		}
	}
	return nil
}

// DefaultPath derives the output file from the input file by replacing its
// extension: "report.docx" becomes "report.chunks.txt".
func DefaultPath(input, format string) string {
	ext := ".txt"
	switch format {
	case FormatJSONL:
		ext = ".jsonl"
	case FormatJSON:
		ext = ".json"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".chunks" + ext
}
