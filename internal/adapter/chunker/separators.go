package chunker

import (
	"regexp"
	"strings"

	"mdchunk/internal/domain"
)

// Separator is one step of the split cascade. Text is cut right after every
// match, so the separator stays attached to the part it ends.
type Separator struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultSeparators runs from coarsest to finest. There is no character
// level: a unit with no internal break is kept whole.
func DefaultSeparators() []Separator {
	return []Separator{
		{Name: "paragraph", Pattern: regexp.MustCompile(`\n(?:[ \t]*\n)+`)},
		{Name: "line", Pattern: regexp.MustCompile(`\n`)},
		{Name: "sentence", Pattern: regexp.MustCompile(`[.!?]+[ \t]+`)},
		{Name: "word", Pattern: regexp.MustCompile(`[ \t]+`)},
	}
}

// cut divides sp with the coarsest separator, starting at level from, that
// yields at least two non-blank parts. It returns the parts and the level
// used, or nil when no separator applies.
func cut(text string, sp domain.Span, seps []Separator, from int) ([]domain.Span, int) {
	segment := text[sp.Start:sp.End]
	for level := from; level < len(seps); level++ {
		matches := seps[level].Pattern.FindAllStringIndex(segment, -1)
		if len(matches) == 0 {
			continue
		}

		parts := make([]domain.Span, 0, len(matches)+1)
		prev := sp.Start
		for _, m := range matches {
			at := sp.Start + m[1]
			if at <= prev || at >= sp.End {
				continue
			}
			parts = append(parts, domain.Span{Start: prev, End: at})
			prev = at
		}
		if prev < sp.End {
			parts = append(parts, domain.Span{Start: prev, End: sp.End})
		}

		parts = absorbBlank(text, parts)
		if len(parts) >= 2 {
			return parts, level
		}
	}
	return nil, len(seps)
}

// absorbBlank folds whitespace-only parts into a neighbour so no part, and
// therefore no chunk, is blank.
func absorbBlank(text string, parts []domain.Span) []domain.Span {
	out := make([]domain.Span, 0, len(parts))
	for i := 0; i < len(parts); i++ {
		p := parts[i]
		if isBlank(text[p.Start:p.End]) {
			if len(out) > 0 {
				out[len(out)-1].End = p.End
				continue
			}
			if i+1 < len(parts) {
				parts[i+1].Start = p.Start
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
