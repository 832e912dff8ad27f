package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"mdchunk/internal/port"
)

// runesPerToken is the average word-piece width assumed by CountTokens.
const runesPerToken = 4

// Tokenizer approximates LLM token counts without a vocabulary.
type Tokenizer struct{}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// CountTokens returns an approximate token count for budget estimation.
// Every word costs one token per started group of four runes and every
// symbol costs one token. The count is additive across whitespace, so
// summing the counts of pieces cut at spaces or newlines gives the count of
// the whole.
func (t *Tokenizer) CountTokens(text string) int {
	count := 0
	for _, w := range splitWords(text) {
		count += (utf8.RuneCountInString(w) + runesPerToken - 1) / runesPerToken
	}
	for _, r := range text {
		if !isWordRune(r) && !unicode.IsSpace(r) {
			count++
		}
	}
	return count
}

// Tokenize lower-cases text and returns its words.
func (t *Tokenizer) Tokenize(text string) []string {
	words := splitWords(text)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return words
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// splitWords splits text into words using unicode word boundaries.
func splitWords(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if isWordRune(r) {
			current.WriteRune(r)
		} else {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

var _ port.Tokenizer = (*Tokenizer)(nil)
