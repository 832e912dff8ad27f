package chunker

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"mdchunk/internal/domain"
)

func testSections(n int) []domain.Section {
	sections := make([]domain.Section, n)
	var path domain.HeaderPath
	for i := range sections {
		path = path.With(domain.HeaderEntry{Depth: 1 + i%2, Label: "H", Text: fmt.Sprintf("S%d", i)})
		sections[i] = domain.Section{
			Index:   i,
			Path:    path,
			Content: strings.Repeat(fmt.Sprintf("sentence %d goes here. ", i), 10+i),
		}
	}
	return sections
}

func TestAssemblerNumbering(t *testing.T) {
	splitter := newSplitter(t, 60, 15)
	a := NewAssembler(splitter, 1)

	sections := testSections(5)
	chunks, _, err := a.Assemble(context.Background(), sections)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) <= len(sections) {
		t.Fatalf("expected sections to be sub-split, got %d chunks", len(chunks))
	}

	lastSection := -1
	for i, c := range chunks {
		if c.ChunkID != i {
			t.Errorf("chunk %d has id %d", i, c.ChunkID)
		}
		if c.SectionIndex < lastSection {
			t.Errorf("chunk %d goes back to section %d", i, c.SectionIndex)
		}
		lastSection = c.SectionIndex

		sec := sections[c.SectionIndex]
		if c.SectionPath != sec.Path.Join() {
			t.Errorf("chunk %d path = %q, want %q", i, c.SectionPath, sec.Path.Join())
		}
		if sec.Content[c.Start:c.End] != c.Text {
			t.Errorf("chunk %d offsets do not match its text", i)
		}
	}
}

func TestAssemblerSkipsEmptySections(t *testing.T) {
	splitter := newSplitter(t, 100, 10)
	a := NewAssembler(splitter, 1)

	sections := []domain.Section{
		{Index: 0, Content: "first"},
		{Index: 1, Content: ""},
		{Index: 2, Content: "  \n"},
		{Index: 3, Content: "last"},
	}
	chunks, _, err := a.Assemble(context.Background(), sections)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[1].ChunkID != 1 || chunks[1].SectionIndex != 3 {
		t.Errorf("unexpected second chunk: %+v", chunks[1])
	}
}

func TestAssemblerOversized(t *testing.T) {
	splitter := newSplitter(t, 10, 0)
	a := NewAssembler(splitter, 1)

	sections := []domain.Section{
		{Index: 0, Content: "short"},
		{Index: 1, Content: strings.Repeat("z", 40)},
	}
	chunks, oversized, err := a.Assemble(context.Background(), sections)
	if err != nil {
		t.Fatal(err)
	}
	if oversized != 1 {
		t.Errorf("expected 1 oversized chunk, got %d", oversized)
	}
	if chunks[0].Oversized || !chunks[1].Oversized {
		t.Errorf("oversized flags = %v, %v", chunks[0].Oversized, chunks[1].Oversized)
	}
}

func TestAssemblerParallelMatchesSequential(t *testing.T) {
	splitter := newSplitter(t, 80, 20)
	sections := testSections(12)

	seq, seqOver, err := NewAssembler(splitter, 1).Assemble(context.Background(), sections)
	if err != nil {
		t.Fatal(err)
	}
	par, parOver, err := NewAssembler(splitter, 4).Assemble(context.Background(), sections)
	if err != nil {
		t.Fatal(err)
	}

	if seqOver != parOver {
		t.Errorf("oversized counts differ: %d vs %d", seqOver, parOver)
	}
	if !reflect.DeepEqual(seq, par) {
		t.Error("parallel assembly differs from sequential assembly")
	}
}

func TestAssemblerCanceled(t *testing.T) {
	splitter := newSplitter(t, 80, 20)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		_, _, err := NewAssembler(splitter, workers).Assemble(ctx, testSections(6))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: expected context.Canceled, got %v", workers, err)
		}
	}
}
