package port

import "io"

// Converter turns a source document into a single markdown string.
type Converter interface {
	Convert(r io.Reader, filename string) (string, error)

	Format() string
}
