package convert

import (
	"io"
	"strings"
	"unicode/utf8"
)

const bom = "\ufeff"

// MarkdownConverter passes markdown and plain text through unchanged,
// apart from a leading byte order mark.
type MarkdownConverter struct{}

func NewMarkdownConverter() *MarkdownConverter {
	return &MarkdownConverter{}
}

func (c *MarkdownConverter) Format() string {
	return "markdown"
}

func (c *MarkdownConverter) Convert(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "\uFFFD")
	}
	return strings.TrimPrefix(text, bom), nil
}
