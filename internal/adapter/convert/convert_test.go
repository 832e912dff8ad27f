package convert

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"
	"github.com/xuri/excelize/v2"
)

func TestRegistry_SelectByExtension(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		filename string
		format   string
	}{
		{"notes.md", "markdown"},
		{"NOTES.MD", "markdown"},
		{"readme.txt", "markdown"},
		{"page.html", "html"},
		{"page.htm", "html"},
		{"paper.pdf", "pdf"},
		{"report.docx", "docx"},
		{"budget.xlsx", "xlsx"},
		{"template.xltm", "xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			c, err := r.Select(tt.filename, nil)
			if err != nil {
				t.Fatal(err)
			}
			if c.Format() != tt.format {
				t.Errorf("expected %s, got %s", tt.format, c.Format())
			}
		})
	}
}

func TestRegistry_SelectBySniffing(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name   string
		data   string
		format string
	}{
		{"plain text", "just some words\n", "markdown"},
		{"html", "<!DOCTYPE html><html><body><h1>x</h1></body></html>", "html"},
		{"pdf", "%PDF-1.4\n%\xe2\xe3\xcf\xd3\n", "pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := r.Select("stdin", []byte(tt.data))
			if err != nil {
				t.Fatal(err)
			}
			if c.Format() != tt.format {
				t.Errorf("expected %s, got %s", tt.format, c.Format())
			}
		})
	}
}

func TestRegistry_Unsupported(t *testing.T) {
	r := NewRegistry()

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	_, err := r.Select("image.png", png)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestRegistry_ConvertMarkdown(t *testing.T) {
	r := NewRegistry()

	text, format, err := r.Convert(strings.NewReader("\ufeff# Title\nbody\n"), "doc.md")
	if err != nil {
		t.Fatal(err)
	}
	if format != "markdown" {
		t.Errorf("format = %s", format)
	}
	if text != "# Title\nbody\n" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestHTMLConverter(t *testing.T) {
	c := NewHTMLConverter()

	md, err := c.Convert(strings.NewReader("<h1>Guide</h1><p>Hello <b>world</b></p><h2>Setup</h2><p>Run it.</p>"), "guide.html")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# Guide", "## Setup", "Hello **world**", "Run it."} {
		if !strings.Contains(md, want) {
			t.Errorf("expected %q in %q", want, md)
		}
	}
}

func TestPDFConverter_Invalid(t *testing.T) {
	c := NewPDFConverter()

	if _, err := c.Convert(strings.NewReader("not a pdf at all"), "broken.pdf"); err == nil {
		t.Error("expected an error for invalid PDF data")
	}
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		want  int
	}{
		{"Heading1", 1},
		{"heading 2", 2},
		{"Heading4", 4},
		{"Title", 1},
		{"Heading7", 0},
		{"Normal", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := headingLevel(tt.style); got != tt.want {
			t.Errorf("headingLevel(%q) = %d, want %d", tt.style, got, tt.want)
		}
	}
}

func docxPara(style, text string) *docx.Paragraph {
	p := &docx.Paragraph{
		Children: []interface{}{&docx.Run{Children: []interface{}{&docx.Text{Text: text}}}},
	}
	if style != "" {
		p.Properties = &docx.ParagraphProperties{Style: &docx.Style{Val: style}}
	}
	return p
}

func TestDOCXMarkdownHeadings(t *testing.T) {
	items := []interface{}{
		docxPara("Heading1", "Guide"),
		docxPara("", "Intro text."),
		docxPara("Heading2", "Setup"),
		docxPara("", "  "),
		docxPara("", "Run it."),
	}

	want := "# Guide\n\nIntro text.\n\n## Setup\n\nRun it.\n"
	if got := docxMarkdown(items); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDOCXConverter(t *testing.T) {
	w := docx.New().WithDefaultTheme()
	w.AddParagraph().AddText("first paragraph")
	w.AddParagraph().AddText("second paragraph")

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}

	text, format, err := NewRegistry().Convert(&buf, "notes.docx")
	if err != nil {
		t.Fatal(err)
	}
	if format != "docx" {
		t.Errorf("format = %s", format)
	}
	if text != "first paragraph\n\nsecond paragraph\n" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestDOCXConverter_Invalid(t *testing.T) {
	if _, err := NewDOCXConverter().Convert(strings.NewReader("not a zip"), "broken.docx"); err == nil {
		t.Error("expected an error for invalid DOCX data")
	}
}

func TestXLSXConverter(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	cells := map[string]string{"A1": "name", "B1": "price", "A2": "apple", "B2": "1|2", "A3": "pear"}
	for cell, v := range cells {
		if err := f.SetCellValue("Sheet1", cell, v); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := f.NewSheet("Empty"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.NewSheet("Notes"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue("Notes", "A1", "todo"); err != nil {
		t.Fatal(err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	text, format, err := NewRegistry().Convert(buf, "prices.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	if format != "xlsx" {
		t.Errorf("format = %s", format)
	}

	want := "## Sheet1\n\n" +
		"| name | price |\n" +
		"| --- | --- |\n" +
		"| apple | 1\\|2 |\n" +
		"| pear |  |\n" +
		"\n## Notes\n\n" +
		"| todo |\n" +
		"| --- |\n"
	if text != want {
		t.Errorf("got:\n%s\nwant:\n%s", text, want)
	}
}
