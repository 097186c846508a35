package summarizer

import (
	"strings"
	"unicode/utf8"

	"notebook/internal/textproc"
)

// DefaultMaxLength bounds a transcript summary when the caller passes no limit.
const DefaultMaxLength = 500

// TranscriptSummarizer keeps the leading sentences of a caption transcript.
// Auto-generated captions rarely carry reliable punctuation, so ranking by
// frequency does not pay off there.
type TranscriptSummarizer struct {
	maxLength int
}

// NewTranscriptSummarizer creates a summarizer whose default limit is
// maxLength runes, or DefaultMaxLength when maxLength <= 0.
func NewTranscriptSummarizer(maxLength int) *TranscriptSummarizer {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &TranscriptSummarizer{maxLength: maxLength}
}

// Summarize takes whole ". "-separated sentences from the start of text while
// their combined length stays within maxLength runes (separators are not
// counted). A result that does not end in a period gets "..." appended.
// When even the first sentence is too long the text is cut at maxLength.
func (s *TranscriptSummarizer) Summarize(text string, maxLength int) (string, bool) {
	if maxLength <= 0 {
		maxLength = s.maxLength
	}
	text = textproc.Normalize(text)
	if text == "" {
		return "", false
	}

	var kept []string
	length := 0
	for _, sentence := range strings.Split(text, ". ") {
		n := utf8.RuneCountInString(sentence)
		if length+n > maxLength {
			break
		}
		kept = append(kept, sentence)
		length += n
	}

	out := strings.Join(kept, ". ")
	if out == "" {
		return truncateRunes(text, maxLength) + "...", true
	}
	if !strings.HasSuffix(out, ".") {
		out += "..."
	}
	return out, true
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
