package convert

import (
	"io"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// HTMLConverter renders HTML as markdown so headings become "#" lines the
// header splitter can see.
type HTMLConverter struct{}

func NewHTMLConverter() *HTMLConverter {
	return &HTMLConverter{}
}

func (c *HTMLConverter) Format() string {
	return "html"
}

func (c *HTMLConverter) Convert(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return htmltomarkdown.ConvertString(string(data))
}
