// Package service implements the notebook operations behind the CLI and TUI.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"notebook/internal/article"
	"notebook/internal/domain"
	"notebook/internal/logging"
	"notebook/internal/youtube"
)

var (
	ErrEmptyText  = errors.New("text is required")
	ErrEmptyQuery = errors.New("query is required")
)

// AddRequest describes a new notebook entry.
type AddRequest struct {
	Type        domain.EntryType
	URL         string
	Title       string
	Text        string
	Description string
	Topic       string
	Stance      string
	Tags        string
}

// Dependencies are the collaborators a NotebookService needs.
type Dependencies struct {
	Store       domain.EntryStore
	Articles    domain.ArticleFetcher
	Transcripts domain.TranscriptFetcher
	Summarizer  domain.Summarizer
	Transcript  domain.Summarizer
	Chunker     domain.Chunker
	Embedder    domain.Embedder
	Index       domain.VectorStore
}

// Options bound summary and search output.
type Options struct {
	MaxSentences        int
	TranscriptMaxLength int
	TopK                int
}

type NotebookService struct {
	deps Dependencies
	opts Options
	log  *zap.Logger

	// guards the search index, which is rebuilt per query
	mu     sync.Mutex
	chunks []domain.Chunk
}

func NewNotebookService(deps Dependencies, opts Options, log *zap.Logger) *NotebookService {
	return &NotebookService{deps: deps, opts: opts, log: logging.OrNop(log)}
}

// Add dispatches req to the constructor for its entry type.
func (s *NotebookService) Add(ctx context.Context, req AddRequest) (*domain.Entry, error) {
	switch req.Type {
	case domain.EntryArticle:
		return s.AddArticle(ctx, req)
	case domain.EntryYouTube:
		return s.AddVideo(ctx, req)
	case domain.EntryNote, domain.EntryQuote:
		return s.AddNote(ctx, req)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidEntryType, req.Type)
	}
}

func newEntry(req AddRequest, typ domain.EntryType) (*domain.Entry, error) {
	topic, err := domain.ParseTopic(req.Topic)
	if err != nil {
		return nil, err
	}
	stance, err := domain.ParseStance(req.Stance)
	if err != nil {
		return nil, err
	}
	return &domain.Entry{
		Type:        typ,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Topic:       topic,
		Stance:      stance,
		Tags:        strings.Join(domain.Entry{Tags: req.Tags}.TagList(), ", "),
	}, nil
}

// AddArticle fetches and summarizes the article at req.URL and saves it.
// A failed fetch or an empty summary still saves the entry without a summary.
func (s *NotebookService) AddArticle(ctx context.Context, req AddRequest) (*domain.Entry, error) {
	url := strings.TrimSpace(req.URL)
	if !article.IsValidURL(url) {
		return nil, fmt.Errorf("%w: %q", article.ErrInvalidURL, req.URL)
	}
	e, err := newEntry(req, domain.EntryArticle)
	if err != nil {
		return nil, err
	}
	e.Content = url

	var pageTitle string
	e.Summary, pageTitle = s.summarizeArticle(ctx, url)
	e.Title = firstNonEmpty(e.Title, pageTitle, url)

	if err := s.deps.Store.Create(ctx, e); err != nil {
		return nil, err
	}
	s.log.Info("entry added", zap.String("id", e.ID), zap.String("type", string(e.Type)), zap.Bool("summarized", e.Summary != ""))
	return e, nil
}

func (s *NotebookService) summarizeArticle(ctx context.Context, url string) (summary, title string) {
	art, err := s.deps.Articles.Fetch(ctx, url)
	if err != nil {
		s.log.Warn("article fetch failed", zap.String("url", url), zap.Error(err))
		return "", ""
	}
	summary, ok := s.deps.Summarizer.Summarize(art.Text, s.opts.MaxSentences)
	if !ok {
		s.log.Warn("article has no summarizable text", zap.String("url", url))
	}
	return summary, art.Title
}

// AddVideo fetches the transcript of the video at req.URL, summarizes it and
// saves the entry. Transcript failures degrade like AddArticle.
func (s *NotebookService) AddVideo(ctx context.Context, req AddRequest) (*domain.Entry, error) {
	url := strings.TrimSpace(req.URL)
	videoID, ok := youtube.ExtractVideoID(url)
	if !ok {
		return nil, fmt.Errorf("%w: %q", youtube.ErrInvalidURL, req.URL)
	}
	e, err := newEntry(req, domain.EntryYouTube)
	if err != nil {
		return nil, err
	}
	e.Content = url

	var videoTitle string
	e.Summary, videoTitle = s.summarizeVideo(ctx, videoID)
	e.Title = firstNonEmpty(e.Title, videoTitle, url)

	if err := s.deps.Store.Create(ctx, e); err != nil {
		return nil, err
	}
	s.log.Info("entry added", zap.String("id", e.ID), zap.String("type", string(e.Type)), zap.Bool("summarized", e.Summary != ""))
	return e, nil
}

func (s *NotebookService) summarizeVideo(ctx context.Context, videoID string) (summary, title string) {
	tr, err := s.deps.Transcripts.Fetch(ctx, videoID)
	if err != nil {
		s.log.Warn("transcript fetch failed", zap.String("video_id", videoID), zap.Error(err))
		return "", ""
	}
	summary, ok := s.deps.Transcript.Summarize(tr.Text, s.opts.TranscriptMaxLength)
	if !ok {
		s.log.Warn("transcript is empty", zap.String("video_id", videoID))
	}
	return summary, tr.Title
}

// AddNote saves a free-text note or quote. The text becomes the content and
// is summarized like an article when long enough.
func (s *NotebookService) AddNote(ctx context.Context, req AddRequest) (*domain.Entry, error) {
	typ := req.Type
	if typ == "" {
		typ = domain.EntryNote
	}
	if typ != domain.EntryNote && typ != domain.EntryQuote {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidEntryType, typ)
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyText
	}
	e, err := newEntry(req, typ)
	if err != nil {
		return nil, err
	}
	e.Content = text
	e.Summary, _ = s.deps.Summarizer.Summarize(text, s.opts.MaxSentences)
	e.Title = firstNonEmpty(e.Title, headline(text))

	if err := s.deps.Store.Create(ctx, e); err != nil {
		return nil, err
	}
	s.log.Info("entry added", zap.String("id", e.ID), zap.String("type", string(e.Type)))
	return e, nil
}

// ResolveID expands id, or a unique prefix of one as printed by list, to a
// full entry ID.
func (s *NotebookService) ResolveID(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("entry id: %w", domain.ErrNotFound)
	}
	if e, err := s.deps.Store.Get(ctx, id); err == nil {
		return e.ID, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	entries, err := s.deps.Store.List(ctx, domain.ListFilter{})
	if err != nil {
		return "", err
	}
	var matches []string
	for _, e := range entries {
		if strings.HasPrefix(e.ID, id) {
			matches = append(matches, e.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %d entries", domain.ErrAmbiguousID, id, len(matches))
	}
}

func (s *NotebookService) Get(ctx context.Context, id string) (*domain.Entry, error) {
	return s.deps.Store.Get(ctx, id)
}

func (s *NotebookService) List(ctx context.Context, f domain.ListFilter) ([]domain.Entry, error) {
	return s.deps.Store.List(ctx, f)
}

func (s *NotebookService) Delete(ctx context.Context, id string) error {
	if err := s.deps.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("entry deleted", zap.String("id", id))
	return nil
}

// Annotate attaches a note to an existing entry.
func (s *NotebookService) Annotate(ctx context.Context, entryID, text string) (*domain.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	return s.deps.Store.AddNote(ctx, entryID, text)
}

func (s *NotebookService) RemoveNote(ctx context.Context, noteID int64) error {
	return s.deps.Store.DeleteNote(ctx, noteID)
}

// Resummarize re-fetches the source of an entry and replaces its summary.
// Unlike the add operations, fetch failures are returned.
func (s *NotebookService) Resummarize(ctx context.Context, id string) (*domain.Entry, error) {
	e, err := s.deps.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch e.Type {
	case domain.EntryArticle:
		art, err := s.deps.Articles.Fetch(ctx, e.Content)
		if err != nil {
			return nil, err
		}
		e.Summary, _ = s.deps.Summarizer.Summarize(art.Text, s.opts.MaxSentences)
	case domain.EntryYouTube:
		videoID, ok := youtube.ExtractVideoID(e.Content)
		if !ok {
			return nil, fmt.Errorf("%w: %q", youtube.ErrInvalidURL, e.Content)
		}
		tr, err := s.deps.Transcripts.Fetch(ctx, videoID)
		if err != nil {
			return nil, err
		}
		e.Summary, _ = s.deps.Transcript.Summarize(tr.Text, s.opts.TranscriptMaxLength)
	default:
		e.Summary, _ = s.deps.Summarizer.Summarize(e.Content, s.opts.MaxSentences)
	}
	if err := s.deps.Store.Update(ctx, e); err != nil {
		return nil, err
	}
	s.log.Info("entry resummarized", zap.String("id", e.ID), zap.Bool("summarized", e.Summary != ""))
	return e, nil
}

// Summarize runs the article summarizer over text.
func (s *NotebookService) Summarize(text string, maxSentences int) (string, bool) {
	if maxSentences <= 0 {
		maxSentences = s.opts.MaxSentences
	}
	return s.deps.Summarizer.Summarize(text, maxSentences)
}

// SummarizeTranscript runs the truncating transcript summarizer over text.
func (s *NotebookService) SummarizeTranscript(text string, maxLength int) (string, bool) {
	if maxLength <= 0 {
		maxLength = s.opts.TranscriptMaxLength
	}
	return s.deps.Transcript.Summarize(text, maxLength)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

const headlineRunes = 60

// headline is the first line of text, cut to a readable title length.
func headline(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	line = strings.TrimSpace(line)
	if r := []rune(line); len(r) > headlineRunes {
		return strings.TrimSpace(string(r[:headlineRunes])) + "..."
	}
	return line
}
