package summarizer

import (
	"sort"
	"strings"

	"notebook/internal/domain"
	"notebook/internal/textproc"
)

// DefaultMaxSentences bounds a summary when the caller passes no limit.
const DefaultMaxSentences = 5

// FrequencySummarizer ranks sentences by the global frequency of their words
// and keeps the best ones in document order.
type FrequencySummarizer struct {
	maxSentences      int
	minSentenceLength int
}

// Option tweaks a FrequencySummarizer.
type Option func(*FrequencySummarizer)

// WithMinSentenceLength overrides the length a fragment must exceed to
// count as a sentence.
func WithMinSentenceLength(n int) Option {
	return func(s *FrequencySummarizer) { s.minSentenceLength = n }
}

// WithDefaultMaxSentences sets the limit used when Summarize gets limit <= 0.
func WithDefaultMaxSentences(n int) Option {
	return func(s *FrequencySummarizer) {
		if n > 0 {
			s.maxSentences = n
		}
	}
}

// NewFrequencySummarizer creates a frequency-based sentence ranker summarizer.
func NewFrequencySummarizer(opts ...Option) *FrequencySummarizer {
	s := &FrequencySummarizer{
		maxSentences:      DefaultMaxSentences,
		minSentenceLength: textproc.DefaultMinSentenceLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize returns at most maxSentences sentences of text, in their original
// order, joined by ". " and ending with a single period. It returns false
// when text is empty or holds no sentence long enough to keep.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, bool) {
	if maxSentences <= 0 {
		maxSentences = s.maxSentences
	}
	text = textproc.Normalize(text)
	if text == "" {
		return "", false
	}
	sentences := textproc.Segment(text, s.minSentenceLength)
	if len(sentences) == 0 {
		return "", false
	}
	if len(sentences) <= maxSentences {
		return join(sentences), true
	}

	textproc.Score(sentences, textproc.Frequencies(text))
	ranked := make([]domain.Sentence, len(sentences))
	copy(ranked, sentences)
	// equal scores keep document order
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	selected := ranked[:maxSentences]
	sort.Slice(selected, func(i, j int) bool { return selected[i].Index < selected[j].Index })
	return join(selected), true
}

func join(sentences []domain.Sentence) string {
	parts := make([]string, len(sentences))
	for i, sent := range sentences {
		parts[i] = sent.Text
	}
	out := strings.Join(parts, ". ")
	if !strings.HasSuffix(out, ".") {
		out += "."
	}
	return out
}
