package chunker

import (
	"strings"
	"unicode/utf8"

	"mdchunk/internal/domain"
	"mdchunk/internal/port"
)

// atom is a unit produced by the cascade: small enough to pack, or
// unsplittable. level is the first separator that may still refine it.
type atom struct {
	domain.Span
	level int
	n     int
}

// RecursiveSplitter splits text into overlapping pieces no longer than the
// chunk size, cutting at the coarsest natural boundary available.
type RecursiveSplitter struct {
	size    int
	overlap int
	seps    []Separator
	length  func(string) int
}

type SplitterOption func(*RecursiveSplitter)

// WithSeparators replaces the default cascade.
func WithSeparators(seps []Separator) SplitterOption {
	return func(s *RecursiveSplitter) {
		s.seps = seps
	}
}

// WithLengthFunc measures pieces with fn instead of rune count.
func WithLengthFunc(fn func(string) int) SplitterOption {
	return func(s *RecursiveSplitter) {
		if fn != nil {
			s.length = fn
		}
	}
}

func NewRecursiveSplitter(chunkSize, chunkOverlap int, opts ...SplitterOption) (*RecursiveSplitter, error) {
	if err := validateSizes(chunkSize, chunkOverlap); err != nil {
		return nil, err
	}
	s := &RecursiveSplitter{
		size:    chunkSize,
		overlap: chunkOverlap,
		seps:    DefaultSeparators(),
		length:  utf8.RuneCountInString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func validateSizes(chunkSize, chunkOverlap int) error {
	if chunkSize <= 0 {
		return domain.NewConfigError("chunk_size", "must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 {
		return domain.NewConfigError("chunk_overlap", "must not be negative, got %d", chunkOverlap)
	}
	if chunkOverlap >= chunkSize {
		return domain.NewConfigError("chunk_overlap", "must be less than chunk_size (%d), got %d", chunkSize, chunkOverlap)
	}
	return nil
}

func (s *RecursiveSplitter) ChunkSize() int {
	return s.size
}

func (s *RecursiveSplitter) Length(text string) int {
	return s.length(text)
}

// Split returns the pieces of text in order. Every piece is a substring of
// text; consecutive pieces may share an overlap region.
func (s *RecursiveSplitter) Split(text string) []string {
	spans := s.SplitSpans(text)
	if len(spans) == 0 {
		return nil
	}
	pieces := make([]string, len(spans))
	for i, sp := range spans {
		pieces[i] = text[sp.Start:sp.End]
	}
	return pieces
}

// SplitSpans is Split expressed as byte ranges of text. Ranges are ordered,
// cover all non-blank text, and piece k+1 starts no later than piece k ends.
func (s *RecursiveSplitter) SplitSpans(text string) []domain.Span {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	atoms := s.atomize(text, domain.Span{Start: 0, End: len(text)}, 0, nil)

	var (
		out    []domain.Span
		window []atom
		winLen int
	)
	for _, a := range atoms {
		if len(window) > 0 && winLen+a.n > s.size {
			out = append(out, domain.Span{Start: window[0].Start, End: window[len(window)-1].End})

			last := window[len(window)-1]
			for len(window) > 0 && (winLen > s.overlap || winLen+a.n > s.size) {
				winLen -= window[0].n
				window = window[1:]
			}
			if len(window) == 0 {
				if seed, ok := s.overlapTail(text, last, min(s.overlap, s.size-a.n)); ok {
					window = append(window, seed)
					winLen = seed.n
				}
			}
		}
		window = append(window, a)
		winLen += a.n
	}
	if len(window) > 0 {
		out = append(out, domain.Span{Start: window[0].Start, End: window[len(window)-1].End})
	}
	return out
}

// atomize breaks sp down until every unit fits the chunk size or no finer
// separator remains.
func (s *RecursiveSplitter) atomize(text string, sp domain.Span, from int, atoms []atom) []atom {
	n := s.length(text[sp.Start:sp.End])
	if n <= s.size {
		return append(atoms, atom{Span: sp, level: from, n: n})
	}

	parts, level := cut(text, sp, s.seps, from)
	if parts == nil {
		return append(atoms, atom{Span: sp, level: len(s.seps), n: n})
	}
	for _, p := range parts {
		atoms = s.atomize(text, p, level+1, atoms)
	}
	return atoms
}

// overlapTail finds the longest suffix of a, built from whole finer units,
// whose length stays within budget.
func (s *RecursiveSplitter) overlapTail(text string, a atom, budget int) (atom, bool) {
	if budget <= 0 {
		return atom{}, false
	}
	start := s.tailStart(text, a.Span, a.level, budget)
	if start >= a.End || isBlank(text[start:a.End]) {
		return atom{}, false
	}
	return atom{
		Span:  domain.Span{Start: start, End: a.End},
		level: a.level,
		n:     s.length(text[start:a.End]),
	}, true
}

func (s *RecursiveSplitter) tailStart(text string, sp domain.Span, from, budget int) int {
	parts, level := cut(text, sp, s.seps, from)
	if parts == nil {
		return sp.End
	}

	start, used := sp.End, 0
	for i := len(parts) - 1; i >= 0; i-- {
		n := s.length(text[parts[i].Start:parts[i].End])
		if used+n > budget {
			if start == sp.End {
				return s.tailStart(text, parts[i], level+1, budget)
			}
			break
		}
		used += n
		start = parts[i].Start
	}
	return start
}

var _ port.TextSplitter = (*RecursiveSplitter)(nil)
