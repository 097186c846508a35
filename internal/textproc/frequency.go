package textproc

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"notebook/internal/domain"
)

// MinTokenLength is the rune length a token must exceed to be scored.
// It is a coarse stand-in for a stop-word list.
const MinTokenLength = 3

// Tokens lower-cases s, splits it on whitespace, trims punctuation from
// both ends of each token and keeps the tokens longer than MinTokenLength.
func Tokens(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	out := fields[:0]
	for _, f := range fields {
		f = strings.TrimFunc(f, isEdgePunct)
		if utf8.RuneCountInString(f) > MinTokenLength {
			out = append(out, f)
		}
	}
	return out
}

func isEdgePunct(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// Frequencies counts every scorable token of text.
func Frequencies(text string) map[string]int {
	freq := make(map[string]int)
	for _, tok := range Tokens(text) {
		freq[tok]++
	}
	return freq
}

// Score sets each sentence's Score to the sum of the global frequencies of
// its tokens.
func Score(sentences []domain.Sentence, freq map[string]int) {
	for i := range sentences {
		score := 0
		for _, tok := range Tokens(sentences[i].Text) {
			score += freq[tok]
		}
		sentences[i].Score = score
	}
}
