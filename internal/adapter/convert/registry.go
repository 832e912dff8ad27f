package convert

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"mdchunk/internal/port"
)

// ErrUnsupported is returned when no converter accepts a file.
var ErrUnsupported = errors.New("unsupported document format")

type entry struct {
	converter  port.Converter
	extensions []string
	mimeTypes  []string
}

// Registry picks a converter by file extension, falling back to content
// sniffing when the extension is unknown or missing.
type Registry struct {
	entries []entry
}

// NewRegistry returns a registry with the markdown, HTML, PDF, DOCX and XLSX
// converters.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(NewMarkdownConverter(), []string{".md", ".markdown", ".mdown", ".txt", ".text"}, []string{"text/markdown", "text/x-markdown", "text/plain"})
	r.Register(NewHTMLConverter(), []string{".html", ".htm", ".xhtml"}, []string{"text/html", "application/xhtml+xml"})
	r.Register(NewPDFConverter(), []string{".pdf"}, []string{"application/pdf"})
	r.Register(NewDOCXConverter(), []string{".docx"}, []string{"application/vnd.openxmlformats-officedocument.wordprocessingml.document"})
	r.Register(NewXLSXConverter(), []string{".xlsx", ".xlsm", ".xltx", ".xltm"}, []string{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"})
	return r
}

// Register adds a converter. Earlier registrations win on conflicts.
func (r *Registry) Register(c port.Converter, extensions, mimeTypes []string) {
	r.entries = append(r.entries, entry{converter: c, extensions: extensions, mimeTypes: mimeTypes})
}

// Convert reads the whole input, selects a converter and returns markdown
// together with the name of the format it was converted from.
func (r *Registry) Convert(in io.Reader, filename string) (string, string, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", filename, err)
	}

	c, err := r.Select(filename, data)
	if err != nil {
		return "", "", err
	}

	text, err := c.Convert(bytes.NewReader(data), filename)
	if err != nil {
		return "", "", fmt.Errorf("convert %s as %s: %w", filename, c.Format(), err)
	}
	return text, c.Format(), nil
}

// Select returns the converter for a file, given its name and content.
func (r *Registry) Select(filename string, data []byte) (port.Converter, error) {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		for _, e := range r.entries {
			if slices.Contains(e.extensions, ext) {
				return e.converter, nil
			}
		}
	}

	mtype := mimetype.Detect(data)
	for _, e := range r.entries {
		if accepts(mtype, e.extensions, e.mimeTypes) {
			return e.converter, nil
		}
	}
	return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupported, filename, mtype.String())
}

func accepts(mtype *mimetype.MIME, extensions, mtypes []string) bool {
	if slices.Contains(extensions, mtype.Extension()) {
		return true
	}
	return slices.ContainsFunc(mtypes, mtype.Is)
}
