package summarizer

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notebook/internal/domain"
	"notebook/internal/textproc"
)

const policyText = `Congress debated the new immigration bill for several weeks.
The immigration bill would expand visas for agricultural workers.
Several senators objected to the cost of the border provisions.
Farm groups said the immigration bill protects agricultural workers and farms.
The weather in Washington was unusually warm that week.
Analysts expect the immigration bill to reach a floor vote in the spring.`

func splitSummary(t *testing.T, summary string) []string {
	t.Helper()
	require.True(t, strings.HasSuffix(summary, "."), "summary %q must end with a period", summary)
	require.False(t, strings.HasSuffix(summary, ".."), "summary %q ends with more than one period", summary)
	return strings.Split(strings.TrimSuffix(summary, "."), ". ")
}

func TestSummarizeEmptyIsAbsent(t *testing.T) {
	s := NewFrequencySummarizer()
	for _, n := range []int{-1, 0, 1, 5, 100} {
		out, ok := s.Summarize("", n)
		assert.False(t, ok)
		assert.Empty(t, out)

		_, ok = s.Summarize(" \n\t ", n)
		assert.False(t, ok)
	}
}

func TestSummarizeShortFragmentsAbsent(t *testing.T) {
	out, ok := NewFrequencySummarizer().Summarize("Hi. Ok. No.", 3)
	assert.False(t, ok)
	assert.Empty(t, out)
}

func TestSummarizeFastPathKeepsAllInOrder(t *testing.T) {
	text := "The first qualifying sentence is here. The second qualifying sentence follows! Is the third qualifying sentence last?"
	out, ok := NewFrequencySummarizer().Summarize(text, 5)
	require.True(t, ok)
	assert.Equal(t, "The first qualifying sentence is here. The second qualifying sentence follows. Is the third qualifying sentence last.", out)
}

func TestSummarizePicksMostFrequentTerms(t *testing.T) {
	s := NewFrequencySummarizer(WithMinSentenceLength(0))
	out, ok := s.Summarize("AAAA BBBB. CCCC DDDD AAAA. EEEE FFFF.", 1)
	require.True(t, ok)
	assert.Equal(t, "CCCC DDDD AAAA.", out)
}

func TestSummarizeSelectsExactlyN(t *testing.T) {
	s := NewFrequencySummarizer()
	all := textproc.Segment(textproc.Normalize(policyText), textproc.DefaultMinSentenceLength)
	require.Len(t, all, 6)

	for n := 1; n < len(all); n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			out, ok := s.Summarize(policyText, n)
			require.True(t, ok)
			got := splitSummary(t, out)
			assert.Len(t, got, n)

			// output order follows document order
			last := -1
			for _, sent := range got {
				idx := indexOf(all, sent)
				require.GreaterOrEqual(t, idx, 0, "sentence %q not in source", sent)
				assert.Greater(t, idx, last)
				last = idx
			}
		})
	}
}

func TestSummarizeDropsLowScoringSentence(t *testing.T) {
	out, ok := NewFrequencySummarizer().Summarize(policyText, 3)
	require.True(t, ok)
	assert.NotContains(t, out, "weather")
	assert.Contains(t, out, "Farm groups said the immigration bill protects agricultural workers and farms")
}

func TestSummarizeTiesKeepDocumentOrder(t *testing.T) {
	text := "alpha bravo charlie delta echo. foxtrot golf hotel india juliet. kilo lima mike november oscar."
	out, ok := NewFrequencySummarizer(WithMinSentenceLength(0)).Summarize(text, 2)
	require.True(t, ok)
	assert.Equal(t, "alpha bravo charlie delta echo. foxtrot golf hotel india juliet.", out)
}

func TestSummarizeDefaultLimit(t *testing.T) {
	s := NewFrequencySummarizer(WithDefaultMaxSentences(2))
	out, ok := s.Summarize(policyText, 0)
	require.True(t, ok)
	assert.Len(t, splitSummary(t, out), 2)
}

func TestSummarizeConcurrentCallsAgree(t *testing.T) {
	s := NewFrequencySummarizer()
	want, ok := s.Summarize(policyText, 2)
	require.True(t, ok)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = s.Summarize(policyText, 2)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func indexOf(sentences []domain.Sentence, text string) int {
	for _, s := range sentences {
		if s.Text == text {
			return s.Index
		}
	}
	return -1
}
