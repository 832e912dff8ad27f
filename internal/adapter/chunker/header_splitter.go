package chunker

import (
	"fmt"
	"sort"
	"strings"

	"mdchunk/internal/domain"
	"mdchunk/internal/port"
)

type headerMatcher struct {
	marker string
	label  string
	depth  int
}

// HeaderSplitter partitions markdown into sections along header lines,
// carrying the active header path of each section.
type HeaderSplitter struct {
	matchers []headerMatcher
}

// NewHeaderSplitter builds a splitter for the given levels. The order of
// levels defines depth: the first entry is the shallowest.
func NewHeaderSplitter(levels []domain.HeaderLevel) (*HeaderSplitter, error) {
	if len(levels) == 0 {
		return nil, domain.NewConfigError("headers", "at least one header level is required")
	}

	seen := make(map[string]bool, len(levels))
	matchers := make([]headerMatcher, 0, len(levels))
	for i, lvl := range levels {
		if lvl.Marker == "" || strings.ContainsAny(lvl.Marker, " \t\n") {
			return nil, domain.NewConfigError("headers", "level %d has an invalid marker %q", i+1, lvl.Marker)
		}
		if seen[lvl.Marker] {
			return nil, domain.NewConfigError("headers", "duplicate marker %q", lvl.Marker)
		}
		seen[lvl.Marker] = true

		label := lvl.Label
		if label == "" {
			label = fmt.Sprintf("H%d", i+1)
		}
		matchers = append(matchers, headerMatcher{marker: lvl.Marker, label: label, depth: i + 1})
	}

	// Longest marker first so "###" is never read as "#" or "##".
	sort.SliceStable(matchers, func(i, j int) bool {
		return len(matchers[i].marker) > len(matchers[j].marker)
	})

	return &HeaderSplitter{matchers: matchers}, nil
}

// Split scans the document line by line. Content before the first header
// becomes section 0 with an empty path; a document without headers yields
// exactly one section.
func (s *HeaderSplitter) Split(document string) ([]domain.Section, []domain.Warning) {
	var (
		sections   []domain.Section
		warnings   []domain.Warning
		path       domain.HeaderPath
		fence      fenceTracker
		start      int
		startLine  = 1
		hasHeader  bool
		suppressed int
	)

	closeSection := func(end int) {
		content := document[start:end]
		if !hasHeader && content == "" {
			return
		}
		sections = append(sections, domain.Section{
			Index:     len(sections),
			Path:      path,
			Content:   content,
			StartLine: startLine,
		})
	}

	lineNo := 0
	for pos := 0; pos < len(document); {
		lineNo++
		end := len(document)
		if nl := strings.IndexByte(document[pos:], '\n'); nl >= 0 {
			end = pos + nl + 1
		}
		line := strings.TrimRight(document[pos:end], "\r\n")

		wasInside := fence.inside()
		if fence.step(line, lineNo) {
			if !wasInside {
				suppressed = 0
			} else if _, _, ok := s.match(line); ok {
				suppressed++
			}
			pos = end
			continue
		}

		if m, text, ok := s.match(line); ok {
			closeSection(pos)
			path = path.With(domain.HeaderEntry{Depth: m.depth, Label: m.label, Text: text})
			hasHeader = true
			start = end
			startLine = lineNo + 1
		}
		pos = end
	}
	closeSection(len(document))

	if len(sections) == 0 {
		sections = append(sections, domain.Section{Index: 0, StartLine: 1})
	}

	if fence.inside() {
		warnings = append(warnings, domain.Warning{
			Kind: domain.WarnStructuralAmbiguity,
			Line: fence.openLine,
			Message: fmt.Sprintf("code fence opened at line %d is never closed; %d header-like lines after it were kept as content",
				fence.openLine, suppressed),
		})
	}

	return sections, warnings
}

func (s *HeaderSplitter) match(line string) (headerMatcher, string, bool) {
	indent := leadingSpaces(line)
	if indent > 3 {
		return headerMatcher{}, "", false
	}
	line = line[indent:]

	for _, m := range s.matchers {
		if !strings.HasPrefix(line, m.marker) {
			continue
		}
		rest := line[len(m.marker):]
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue
		}
		return m, headerText(rest), true
	}
	return headerMatcher{}, "", false
}

// headerText trims the header text and drops an optional closing "#" run.
func headerText(rest string) string {
	text := strings.TrimSpace(rest)
	bare := strings.TrimRight(text, "#")
	if bare == "" {
		return ""
	}
	if len(bare) < len(text) && (strings.HasSuffix(bare, " ") || strings.HasSuffix(bare, "\t")) {
		return strings.TrimSpace(bare)
	}
	return text
}

var _ port.Sectioner = (*HeaderSplitter)(nil)
