// Package sqlite stores the note collection in a local SQLite file.
//
// Changes made by other processes sharing the file are picked up through
// a filesystem watcher, so every open Store sees the same live collection.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/marcus/notepadzone/internal/notes"
)

// Driver names registered by the imported drivers.
const (
	DriverCgo    = "sqlite3"
	DriverPureGo = "sqlite"
)

// Store is a notes.Store backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	feed   *notes.Feed
	logger *slog.Logger
	now    func() time.Time

	refreshMu sync.Mutex

	watcher *watcher
}

var _ notes.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and publishes the
// initial snapshot.
func Open(ctx context.Context, path, driver string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := sql.Open(driver, dsn(path, driver))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{
		db:     db,
		path:   path,
		feed:   notes.NewFeed(),
		logger: logger,
		now:    time.Now,
	}

	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	if err := s.refresh(ctx); err != nil {
		db.Close()
		return nil, err
	}

	w, err := newWatcher(path, 100*time.Millisecond, func() {
		if err := s.refresh(context.Background()); err != nil {
			s.logger.Error("sqlite: refresh after external change failed", "error", err)
		}
	})
	if err != nil {
		// Local writes still notify subscribers.
		s.logger.Warn("sqlite: file watcher unavailable", "path", path, "error", err)
	}
	s.watcher = w

	return s, nil
}

func dsn(path, driver string) string {
	if driver == DriverPureGo {
		return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	return path + "?_busy_timeout=5000&_journal_mode=WAL"
}

// initSchema creates the notes table if it doesn't exist. Ids and
// timestamps are assigned by the database, not the client.
func (s *Store) initSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(8)))),
    text TEXT NOT NULL,
    created_at TEXT DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
);
`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close stops the watcher, all subscribers and the database connection.
func (s *Store) Close() error {
	if s.watcher != nil {
		s.watcher.close()
	}
	s.feed.Close()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Subscribe registers onChange for full-collection snapshots.
func (s *Store) Subscribe(onChange func([]notes.Note)) notes.Unsubscribe {
	return s.feed.Subscribe(onChange)
}

// Create inserts a note with the trimmed text.
func (s *Store) Create(ctx context.Context, text string) error {
	text, err := notes.NormalizeText(text)
	if err != nil {
		return err
	}

	var id string
	err = s.db.QueryRowContext(ctx, `INSERT INTO notes (text) VALUES (?) RETURNING id`, text).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	s.logger.Debug("sqlite: note created", "id", id)

	// The write is committed; the change listener delivers the next snapshot.
	if err := s.refresh(ctx); err != nil {
		s.logger.Error("sqlite: reload after create", "id", id, "err", err)
	}
	return nil
}

// Remove deletes the note with id.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete note %s: %w", id, notes.ErrNotFound)
	}
	s.logger.Debug("sqlite: note removed", "id", id)

	// The write is committed; the change listener delivers the next snapshot.
	if err := s.refresh(ctx); err != nil {
		s.logger.Error("sqlite: reload after remove", "id", id, "err", err)
	}
	return nil
}

// List returns every note in storage order.
func (s *Store) List(ctx context.Context) ([]notes.Note, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, text, created_at FROM notes ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var records []notes.Record
	for rows.Next() {
		var r notes.Record
		var createdAt sql.NullString
		if err := rows.Scan(&r.ID, &r.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		if createdAt.Valid {
			if t, err := time.Parse(time.RFC3339Nano, createdAt.String); err == nil {
				r.CreatedAt = &t
			}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}

	return notes.FromRecords(records, s.now), nil
}

// refresh reloads the collection and publishes it. Refreshes are
// serialized so subscribers never see an older snapshot after a newer one.
func (s *Store) refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	list, err := s.List(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("load snapshot: %w", err)
	}
	s.feed.Publish(list)
	return nil
}
