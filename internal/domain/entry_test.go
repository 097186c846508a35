package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntryType(t *testing.T) {
	got, err := ParseEntryType(" YouTube ")
	require.NoError(t, err)
	assert.Equal(t, EntryYouTube, got)
	assert.Equal(t, "YouTube Video", got.Label())

	_, err = ParseEntryType("podcast")
	assert.True(t, errors.Is(err, ErrInvalidEntryType))
}

func TestParseStanceAndTopicDefaults(t *testing.T) {
	st, err := ParseStance("")
	require.NoError(t, err)
	assert.Equal(t, StanceNeutral, st)

	_, err = ParseStance("sideways")
	assert.ErrorIs(t, err, ErrInvalidStance)

	tp, err := ParseTopic("")
	require.NoError(t, err)
	assert.Equal(t, Topic("general"), tp)

	tp, err = ParseTopic("Healthcare")
	require.NoError(t, err)
	assert.Equal(t, Topic("healthcare"), tp)

	_, err = ParseTopic("sports")
	assert.ErrorIs(t, err, ErrInvalidTopic)
}

func TestEntryTags(t *testing.T) {
	e := Entry{Tags: " immigration, ,Border Policy,"}
	assert.Equal(t, []string{"immigration", "Border Policy"}, e.TagList())
	assert.True(t, e.HasTag("border policy"))
	assert.False(t, e.HasTag("tax"))
}

func TestDisplaySummary(t *testing.T) {
	assert.Equal(t, NoSummaryMessage, Entry{Summary: "  "}.DisplaySummary())
	assert.Equal(t, "Short.", Entry{Summary: "Short."}.DisplaySummary())
}

func TestSearchText(t *testing.T) {
	e := Entry{
		Type:    EntryNote,
		Title:   "Wage data",
		Content: "Median wages rose in 2023",
		Notes:   []Note{{Text: "check the BLS tables!"}},
	}
	assert.Equal(t, "Wage data.\nMedian wages rose in 2023.\ncheck the BLS tables!", e.SearchText())

	article := Entry{Type: EntryArticle, Title: "Report", Content: "https://example.com/a"}
	assert.Equal(t, "Report.", article.SearchText())
}
