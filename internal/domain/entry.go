package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidEntryType = errors.New("invalid entry type")
	ErrInvalidTopic     = errors.New("invalid topic")
	ErrInvalidStance    = errors.New("invalid stance")
	ErrNotFound         = errors.New("not found")
	ErrAmbiguousID      = errors.New("ambiguous id prefix")
)

// NoSummaryMessage is shown in place of a summary that could not be produced.
const NoSummaryMessage = "No summary available."

// EntryType is the kind of research item saved in the notebook.
type EntryType string

const (
	EntryYouTube EntryType = "youtube"
	EntryArticle EntryType = "article"
	EntryNote    EntryType = "note"
	EntryQuote   EntryType = "quote"
)

var entryTypeLabels = map[EntryType]string{
	EntryYouTube: "YouTube Video",
	EntryArticle: "Article/Link",
	EntryNote:    "Text Note",
	EntryQuote:   "Quote",
}

// ParseEntryType validates s as an entry type.
func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := entryTypeLabels[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidEntryType, s)
	}
	return t, nil
}

// Label returns the human readable name of the type.
func (t EntryType) Label() string { return entryTypeLabels[t] }

// Stance records how an entry relates to the user's position.
type Stance string

const (
	StanceSupporting Stance = "supporting"
	StanceOpposing   Stance = "opposing"
	StanceNeutral    Stance = "neutral"
)

// ParseStance validates s as a stance. Empty input means neutral.
func ParseStance(s string) (Stance, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StanceNeutral, nil
	}
	switch st := Stance(s); st {
	case StanceSupporting, StanceOpposing, StanceNeutral:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStance, s)
}

// Topic is the broad research area an entry is filed under.
type Topic string

// Topics lists every notebook topic with its label, in display order.
var Topics = []struct {
	Topic Topic
	Label string
}{
	{"general", "General Research"},
	{"politics", "Politics & Government"},
	{"healthcare", "Healthcare & Medicine"},
	{"economy", "Economy & Business"},
	{"education", "Education"},
	{"environment", "Environment & Climate"},
	{"technology", "Technology & Science"},
	{"social", "Social Issues"},
	{"international", "International Affairs"},
	{"legal", "Legal & Justice"},
	{"culture", "Culture & Society"},
	{"other", "Other"},
}

// ParseTopic validates s as a topic. Empty input means general.
func ParseTopic(s string) (Topic, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "general", nil
	}
	for _, t := range Topics {
		if string(t.Topic) == s {
			return t.Topic, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTopic, s)
}

// Entry is a saved research item: an article, a video, a note or a quote.
// Content holds the URL for articles and videos and the text otherwise.
type Entry struct {
	ID          string
	Type        EntryType
	Title       string
	Content     string
	Description string
	Summary     string
	Topic       Topic
	Stance      Stance
	Tags        string
	Notes       []Note
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Note is a single annotation attached to an entry.
type Note struct {
	ID        int64
	EntryID   string
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListFilter narrows a listing of entries. Zero values match everything.
type ListFilter struct {
	Type   EntryType
	Topic  Topic
	Stance Stance
	Tag    string
	Limit  int
}

// TagList splits the comma separated tags, dropping blanks.
func (e Entry) TagList() []string {
	var out []string
	for _, t := range strings.Split(e.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// HasTag reports whether the entry carries tag, ignoring case.
func (e Entry) HasTag(tag string) bool {
	for _, t := range e.TagList() {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// DisplaySummary returns the summary or the fallback message.
func (e Entry) DisplaySummary() string {
	if strings.TrimSpace(e.Summary) == "" {
		return NoSummaryMessage
	}
	return e.Summary
}

// SearchText is the text indexed for notebook search.
func (e Entry) SearchText() string {
	parts := []string{e.Title, e.Description, e.Summary}
	if e.Type == EntryNote || e.Type == EntryQuote {
		parts = append(parts, e.Content)
	}
	for _, n := range e.Notes {
		parts = append(parts, n.Text)
	}
	var b strings.Builder
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p)
		if !strings.ContainsAny(p[len(p)-1:], ".!?") {
			b.WriteString(".")
		}
	}
	return b.String()
}
