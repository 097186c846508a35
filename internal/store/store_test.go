package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notebook/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "db", "notebook.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	// strictly increasing clock so ordering by created_at is deterministic
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func newEntry(title string, typ domain.EntryType, topic domain.Topic, tags string) *domain.Entry {
	return &domain.Entry{
		Type:    typ,
		Title:   title,
		Content: "https://example.com/" + title,
		Topic:   topic,
		Tags:    tags,
	}
}

func TestCreateAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e := newEntry("wages", domain.EntryArticle, "economy", "labor")
	e.Summary = "Wages rose."
	require.NoError(t, s.Create(ctx, e))
	require.NotEmpty(t, e.ID)
	assert.Equal(t, domain.StanceNeutral, e.Stance)

	got, err := s.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "wages", got.Title)
	assert.Equal(t, domain.EntryArticle, got.Type)
	assert.Equal(t, domain.Topic("economy"), got.Topic)
	assert.Equal(t, "Wages rose.", got.Summary)
	assert.True(t, got.CreatedAt.Equal(e.CreatedAt))
	assert.Empty(t, got.Notes)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFiltersAndOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := newEntry("first", domain.EntryArticle, "economy", "tax, budget")
	second := newEntry("second", domain.EntryYouTube, "economy", "")
	third := newEntry("third", domain.EntryArticle, "healthcare", "Budget")
	for _, e := range []*domain.Entry{first, second, third} {
		require.NoError(t, s.Create(ctx, e))
	}

	all, err := s.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"third", "second", "first"}, titles(all))

	articles, err := s.List(ctx, domain.ListFilter{Type: domain.EntryArticle})
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "first"}, titles(articles))

	economy, err := s.List(ctx, domain.ListFilter{Topic: "economy", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, titles(economy))

	budget, err := s.List(ctx, domain.ListFilter{Tag: "budget"})
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "first"}, titles(budget))
}

func TestListOrdersWithinOneSecond(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	offsets := []time.Duration{100 * time.Millisecond, 120 * time.Millisecond, 123 * time.Millisecond, time.Second}
	names := []string{"a", "b", "c", "d"}
	for i, name := range names {
		at := base.Add(offsets[i])
		s.now = func() time.Time { return at }
		require.NoError(t, s.Create(ctx, newEntry(name, domain.EntryNote, "general", "")))
	}

	all, err := s.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c", "b", "a"}, titles(all))

	got, err := s.Get(ctx, all[1].ID)
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(base.Add(123*time.Millisecond)), "round trip keeps sub-second precision")
}

func TestFormatTimeFixedWidth(t *testing.T) {
	a := formatTime(time.Date(2026, 3, 1, 9, 0, 0, 100_000_000, time.UTC))
	b := formatTime(time.Date(2026, 3, 1, 9, 0, 0, 123_000_000, time.UTC))
	c := formatTime(time.Date(2026, 3, 1, 9, 0, 1, 0, time.UTC))
	assert.Equal(t, "2026-03-01T09:00:00.100000000Z", a)
	assert.Len(t, c, len(a))
	assert.Less(t, a, b)
	assert.Less(t, b, c)
	assert.True(t, parseTime(b).Equal(time.Date(2026, 3, 1, 9, 0, 0, 123_000_000, time.UTC)))
}

func TestUpdate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e := newEntry("draft", domain.EntryNote, "general", "")
	require.NoError(t, s.Create(ctx, e))
	created := e.UpdatedAt

	e.Summary = "Now summarized."
	e.Stance = domain.StanceOpposing
	require.NoError(t, s.Update(ctx, e))
	assert.True(t, e.UpdatedAt.After(created))

	got, err := s.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Now summarized.", got.Summary)
	assert.Equal(t, domain.StanceOpposing, got.Stance)

	missing := &domain.Entry{ID: "nope"}
	assert.ErrorIs(t, s.Update(ctx, missing), ErrNotFound)
}

func TestNotesLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e := newEntry("with notes", domain.EntryArticle, "legal", "")
	require.NoError(t, s.Create(ctx, e))

	n1, err := s.AddNote(ctx, e.ID, "first point")
	require.NoError(t, err)
	_, err = s.AddNote(ctx, e.ID, "second point")
	require.NoError(t, err)

	got, err := s.Get(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, got.Notes, 2)
	assert.Equal(t, "first point", got.Notes[0].Text)
	assert.Equal(t, "second point", got.Notes[1].Text)

	listed, err := s.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Len(t, listed[0].Notes, 2)

	require.NoError(t, s.DeleteNote(ctx, n1.ID))
	assert.ErrorIs(t, s.DeleteNote(ctx, n1.ID), ErrNotFound)

	_, err = s.AddNote(ctx, "missing", "orphan")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCascadesNotes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e := newEntry("doomed", domain.EntryQuote, "culture", "")
	require.NoError(t, s.Create(ctx, e))
	_, err := s.AddNote(ctx, e.ID, "gone soon")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, e.ID))
	assert.ErrorIs(t, s.Delete(ctx, e.ID), ErrNotFound)

	var count int
	require.NoError(t, s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM notes").Scan(&count))
	assert.Zero(t, count)
}

func TestReopenChecksSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notebook.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec("UPDATE schema_version SET version = 99")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = Open(ctx, path)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func titles(entries []domain.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}
