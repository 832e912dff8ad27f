package chunker

import "strings"

type fenceState int

const (
	outsideFence fenceState = iota
	insideFence
)

// fenceTracker follows fenced code blocks line by line. A block opens on a
// run of at least three backticks or tildes and closes on a run of the same
// character that is at least as long, with nothing but blanks after it.
type fenceTracker struct {
	state    fenceState
	char     byte
	length   int
	openLine int
}

// step consumes one line and reports whether it belongs to a fenced block,
// delimiters included.
func (f *fenceTracker) step(line string, lineNo int) bool {
	switch f.state {
	case outsideFence:
		char, n, rest, ok := parseFence(line)
		if !ok {
			return false
		}
		if char == '`' && strings.ContainsRune(rest, '`') {
			return false
		}
		f.state = insideFence
		f.char = char
		f.length = n
		f.openLine = lineNo
		return true
	case insideFence:
		char, n, rest, ok := parseFence(line)
		if ok && char == f.char && n >= f.length && strings.TrimSpace(rest) == "" {
			f.state = outsideFence
			f.char = 0
			f.length = 0
		}
		return true
	}
	return false
}

func (f *fenceTracker) inside() bool {
	return f.state == insideFence
}

func parseFence(line string) (char byte, n int, rest string, ok bool) {
	indent := leadingSpaces(line)
	if indent > 3 {
		return 0, 0, "", false
	}
	line = line[indent:]
	if line == "" || (line[0] != '`' && line[0] != '~') {
		return 0, 0, "", false
	}
	char = line[0]
	for n < len(line) && line[n] == char {
		n++
	}
	if n < 3 {
		return 0, 0, "", false
	}
	return char, n, line[n:], true
}

func leadingSpaces(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}
