// Package store persists notebook entries and their notes in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"notebook/internal/domain"
)

// ErrNotFound is returned when an entry or note does not exist.
var ErrNotFound = domain.ErrNotFound

// Store manages notebook persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

var _ domain.EntryStore = (*Store)(nil)

// Open initializes or connects to the notebook database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure database directory: %w", err)
	}
	dsn := "file:" + path +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	s := &Store{db: db, path: path, now: func() time.Time { return time.Now().UTC() }}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// timeLayout keeps every fractional digit so stored timestamps sort
// lexically in time order. RFC3339Nano trims trailing zeros and does not.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Create inserts e, assigning its ID and timestamps.
func (s *Store) Create(ctx context.Context, e *domain.Entry) error {
	now := s.now()
	e.ID = uuid.NewString()
	e.CreatedAt, e.UpdatedAt = now, now
	if e.Stance == "" {
		e.Stance = domain.StanceNeutral
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (
            id, entry_type, title, content, description, summary,
            topic, stance, tags, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Type), e.Title, e.Content, e.Description, e.Summary,
		string(e.Topic), string(e.Stance), e.Tags, formatTime(now), formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

const entryColumns = `id, entry_type, title, content, description, summary,
    topic, stance, tags, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(r rowScanner) (domain.Entry, error) {
	var (
		e                  domain.Entry
		typ, topic, stance string
		created, updated   string
	)
	if err := r.Scan(&e.ID, &typ, &e.Title, &e.Content, &e.Description, &e.Summary,
		&topic, &stance, &e.Tags, &created, &updated); err != nil {
		return e, err
	}
	e.Type = domain.EntryType(typ)
	e.Topic = domain.Topic(topic)
	e.Stance = domain.Stance(stance)
	e.CreatedAt = parseTime(created)
	e.UpdatedAt = parseTime(updated)
	return e, nil
}

// Get fetches an entry with its notes.
func (s *Store) Get(ctx context.Context, id string) (*domain.Entry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM entries WHERE id = ?", id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	notes, err := s.notesFor(ctx, []string{e.ID})
	if err != nil {
		return nil, err
	}
	e.Notes = notes[e.ID]
	return &e, nil
}

// List returns the entries matching f, newest first, with their notes.
func (s *Store) List(ctx context.Context, f domain.ListFilter) ([]domain.Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.Type != "" {
		where = append(where, "entry_type = ?")
		args = append(args, string(f.Type))
	}
	if f.Topic != "" {
		where = append(where, "topic = ?")
		args = append(args, string(f.Topic))
	}
	if f.Stance != "" {
		where = append(where, "stance = ?")
		args = append(args, string(f.Stance))
	}
	query := "SELECT " + entryColumns + " FROM entries"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if f.Tag != "" && !e.HasTag(f.Tag) {
			continue
		}
		entries = append(entries, e)
		if f.Limit > 0 && len(entries) == f.Limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	rows.Close()

	ids := make([]string, len(entries))
	for i := range entries {
		ids[i] = entries[i].ID
	}
	notes, err := s.notesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Notes = notes[entries[i].ID]
	}
	return entries, nil
}

func (s *Store) notesFor(ctx context.Context, entryIDs []string) (map[string][]domain.Note, error) {
	out := make(map[string][]domain.Note, len(entryIDs))
	if len(entryIDs) == 0 {
		return out, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(entryIDs)), ",")
	args := make([]any, len(entryIDs))
	for i, id := range entryIDs {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, entry_id, text, created_at, updated_at FROM notes
        WHERE entry_id IN (`+placeholders+`) ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			n                domain.Note
			created, updated string
		)
		if err := rows.Scan(&n.ID, &n.EntryID, &n.Text, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		n.CreatedAt = parseTime(created)
		n.UpdatedAt = parseTime(updated)
		out[n.EntryID] = append(out[n.EntryID], n)
	}
	return out, rows.Err()
}

// Update rewrites the editable fields of e and bumps its UpdatedAt.
func (s *Store) Update(ctx context.Context, e *domain.Entry) error {
	now := s.now()
	res, err := s.db.ExecContext(ctx,
		`UPDATE entries SET entry_type = ?, title = ?, content = ?, description = ?,
            summary = ?, topic = ?, stance = ?, tags = ?, updated_at = ?
        WHERE id = ?`,
		string(e.Type), e.Title, e.Content, e.Description, e.Summary,
		string(e.Topic), string(e.Stance), e.Tags, formatTime(now), e.ID,
	)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	if err := expectOne(res, "entry", e.ID); err != nil {
		return err
	}
	e.UpdatedAt = now
	return nil
}

// Delete removes an entry and its notes.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return expectOne(res, "entry", id)
}

// AddNote attaches a note to an existing entry.
func (s *Store) AddNote(ctx context.Context, entryID, text string) (*domain.Note, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM entries WHERE id = ?", entryID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check entry: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("entry %s: %w", entryID, ErrNotFound)
	}
	now := s.now()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO notes (entry_id, text, created_at, updated_at) VALUES (?, ?, ?, ?)",
		entryID, text, formatTime(now), formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &domain.Note{ID: id, EntryID: entryID, Text: text, CreatedAt: now, UpdatedAt: now}, nil
}

// DeleteNote removes a single note.
func (s *Store) DeleteNote(ctx context.Context, noteID int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", noteID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return expectOne(res, "note", fmt.Sprint(noteID))
}

func expectOne(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
