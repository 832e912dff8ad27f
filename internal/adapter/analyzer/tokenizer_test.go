package analyzer

import (
	"strings"
	"testing"
)

func TestTokenizer_Tokenize(t *testing.T) {
	tok := NewTokenizer()

	tokens := tok.Tokenize("Running dogs, are_playing!")
	want := []string{"running", "dogs", "are_playing"}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(tokens), tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, tokens[i], want[i])
		}
	}
}

func TestTokenizer_CountTokens(t *testing.T) {
	tok := NewTokenizer()

	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   \n\t", 0},
		{"hi", 1},
		{"four", 1},
		{"words", 2},
		{"hello world", 4},
		{"dog.", 2},
		{"a, b", 3},
		{"привет", 2},
	}

	for _, tt := range tests {
		if got := tok.CountTokens(tt.text); got != tt.want {
			t.Errorf("CountTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestTokenizer_CountTokensAdditive(t *testing.T) {
	tok := NewTokenizer()

	pieces := []string{"The quick brown fox. ", "Jumps over\n", "\nthe lazy dog!"}
	sum := 0
	for _, p := range pieces {
		sum += tok.CountTokens(p)
	}
	if whole := tok.CountTokens(strings.Join(pieces, "")); whole != sum {
		t.Errorf("whole = %d, sum of pieces = %d", whole, sum)
	}
}

func TestTokenizer_EmptyInput(t *testing.T) {
	tok := NewTokenizer()

	if tokens := tok.Tokenize(""); len(tokens) != 0 {
		t.Errorf("expected no tokens, got %v", tokens)
	}
}
