package textproc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notebook/internal/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: " \n\t  ", want: ""},
		{name: "collapses runs", in: "  one\n\n two\t\tthree  ", want: "one two three"},
		{name: "strips tags", in: "<p>Hello <b>world</b></p>", want: "Hello world"},
		{name: "nested remnant", in: "a<a<b>>b", want: "a b"},
		{name: "nbsp entity", in: "tax&nbsp;policy", want: "tax policy"},
		{name: "comparison kept", in: "x < 3 and y > 2", want: "x < 3 and y > 2"},
		{name: "inequality prose kept", in: "Revenue grew when x<y and costs>z held.", want: "Revenue grew when x<y and costs>z held."},
		{name: "self-closing and attributes", in: "line<br/>break <a href=\"/x\">link</a>", want: "line break link"},
		{name: "comment and doctype", in: "<!DOCTYPE html><!-- note -->text", want: "text"},
		{name: "uppercase tags", in: "<P CLASS='lead'>Lead</P>", want: "Lead"},
		{name: "unknown element kept", in: "List<String> types", want: "List<String> types"},
		{name: "composes accents", in: "cafe\u0301", want: "caf\u00e9"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"  lots   of\n\nspace ",
		"<div>x</div>&nbsp;&nb<i>sp;",
		"<a<b>>c <<d>e>",
		"e <b>\u0301 accent",
		"\u2001leading em quad",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestSegment(t *testing.T) {
	text := "The first sentence is long enough!!! Short one. Is the third sentence long enough?... yes"
	got := Segment(text, DefaultMinSentenceLength)
	want := []domain.Sentence{
		{Index: 0, Text: "The first sentence is long enough"},
		{Index: 1, Text: "Is the third sentence long enough"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Segment mismatch (-want +got):\n%s", diff)
	}
}

func TestSegmentBoundaryLength(t *testing.T) {
	exactly20 := "abcdefghijklmnopqrst"
	require.Len(t, exactly20, 20)
	assert.Empty(t, Segment(exactly20+".", DefaultMinSentenceLength))
	assert.Len(t, Segment(exactly20+"u.", DefaultMinSentenceLength), 1)
}

func TestSegmentDropsNoise(t *testing.T) {
	assert.Empty(t, Segment("Hi. Ok. No.", DefaultMinSentenceLength))
	assert.Empty(t, Segment("", DefaultMinSentenceLength))
	assert.Len(t, Segment("Hi. Ok. No.", -1), 3)
}

func TestTokens(t *testing.T) {
	got := Tokens(`The "Border" policy, and its COSTS; a bill.`)
	assert.Equal(t, []string{"border", "policy", "costs", "bill"}, got)
}

func TestFrequenciesAndScore(t *testing.T) {
	text := "AAAA BBBB. CCCC DDDD AAAA. EEEE FFFF."
	freq := Frequencies(text)
	assert.Equal(t, 2, freq["aaaa"])
	assert.Equal(t, 1, freq["bbbb"])

	sentences := Segment(text, 0)
	require.Len(t, sentences, 3)
	Score(sentences, freq)
	assert.Equal(t, []int{3, 4, 2}, []int{sentences[0].Score, sentences[1].Score, sentences[2].Score})
}

func TestWordSet(t *testing.T) {
	got := WordSet("Budget, budget! Don’t cut 2025 funds.")
	want := map[string]struct{}{
		"budget": {}, "don’t": {}, "cut": {}, "2025": {}, "funds": {},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WordSet mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, WordSet(" ... "))
}
