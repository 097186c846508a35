package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptSummarize(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		max    int
		want   string
		absent bool
	}{
		{name: "empty", in: "", max: 50, absent: true},
		{name: "whitespace", in: "\n \n", max: 50, absent: true},
		{name: "fits whole", in: "hello there. general\nkenobi.", max: 100, want: "hello there. general kenobi."},
		{name: "stops before overflow", in: "one two. three four. five six seven", max: 17, want: "one two. three four..."},
		{name: "first sentence too long", in: "abcdefghij klmnop. qr", max: 5, want: "abcde..."},
		{name: "no punctuation", in: "so um yeah we talked", max: 100, want: "so um yeah we talked..."},
	}
	s := NewTranscriptSummarizer(0)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.Summarize(tc.in, tc.max)
			if tc.absent {
				assert.False(t, ok)
				assert.Empty(t, got)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTranscriptSummarizeDefaultLimit(t *testing.T) {
	long := strings.Repeat("word ", 300)
	got, ok := NewTranscriptSummarizer(40).Summarize(long, 0)
	require.True(t, ok)
	assert.Equal(t, 43, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestTranscriptSummarizeCutsOnRunes(t *testing.T) {
	got, ok := NewTranscriptSummarizer(0).Summarize("ééééé", 3)
	require.True(t, ok)
	assert.Equal(t, "ééé...", got)
}
