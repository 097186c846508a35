package textproc

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"notebook/internal/domain"
)

// DefaultMinSentenceLength is the trimmed length a fragment must exceed to
// count as a sentence. Shorter fragments are headers, initials and noise.
const DefaultMinSentenceLength = 20

var terminatorRunRe = regexp.MustCompile(`[.!?]+`)

// Segment splits normalized text into sentences at runs of '.', '!' and '?'.
// Fragments whose trimmed rune length is <= minLen are dropped; a negative
// minLen is treated as zero. Terminators are not kept in Sentence.Text.
func Segment(text string, minLen int) []domain.Sentence {
	if minLen < 0 {
		minLen = 0
	}
	var out []domain.Sentence
	for _, frag := range terminatorRunRe.Split(text, -1) {
		frag = strings.TrimSpace(frag)
		if utf8.RuneCountInString(frag) <= minLen || frag == "" {
			continue
		}
		out = append(out, domain.Sentence{Index: len(out), Text: frag})
	}
	return out
}
