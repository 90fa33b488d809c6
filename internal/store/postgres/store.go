// Package postgres stores the note collection in a shared Postgres database.
//
// Every write fires a statement trigger that NOTIFYs notes_changed; each
// Store LISTENs on that channel and republishes the full collection, so
// all connected clients converge on the same snapshot.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marcus/notepadzone/internal/config"
	"github.com/marcus/notepadzone/internal/notes"
)

// Channel is the NOTIFY channel written by the notes trigger.
const Channel = "notes_changed"

const (
	queryInsert = `INSERT INTO notes (text) VALUES ($1) RETURNING id::text`
	queryDelete = `DELETE FROM notes WHERE id::text = $1`
	querySelect = `SELECT id::text, text, created_at FROM notes ORDER BY seq`
)

// querier is the subset of pgxpool.Pool used for note queries.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is a notes.Store backed by Postgres.
type Store struct {
	db     querier
	pool   *pgxpool.Pool
	feed   *notes.Feed
	logger *slog.Logger
	now    func() time.Time

	refreshMu sync.Mutex

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ notes.Store = (*Store)(nil)

// New wraps an existing connection. No change listener is started, so
// only writes made through this Store are published.
func New(ctx context.Context, db querier, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		db:     db,
		feed:   notes.NewFeed(),
		logger: logger,
		now:    time.Now,
	}
	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Open connects to Postgres, applies migrations and starts listening for
// changes made by any client.
func Open(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("postgres: connecting")

	if err := Migrate(cfg.URL); err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse connection config: %w", err)
	}
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConns = cfg.MaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s, err := New(ctx, pool, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	s.pool = pool

	listenCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go s.listen(listenCtx)

	logger.Info("postgres: connected")
	return s, nil
}

// Close stops the listener, all subscribers and the pool.
func (s *Store) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.feed.Close()
	if s.pool != nil {
		s.pool.Close()
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
	if err := s.db.QueryRow(ctx, queryInsert, text).Scan(&id); err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	s.logger.Debug("postgres: note created", "id", id)

	// The write is committed; the change listener delivers the next snapshot.
	if err := s.refresh(ctx); err != nil {
		s.logger.Error("postgres: reload after create", "id", id, "err", err)
	}
	return nil
}

// Remove deletes the note with id.
func (s *Store) Remove(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, queryDelete, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete note %s: %w", id, notes.ErrNotFound)
	}
	s.logger.Debug("postgres: note removed", "id", id)

	// The write is committed; the change listener delivers the next snapshot.
	if err := s.refresh(ctx); err != nil {
		s.logger.Error("postgres: reload after remove", "id", id, "err", err)
	}
	return nil
}

// List returns every note in insertion order.
func (s *Store) List(ctx context.Context) ([]notes.Note, error) {
	rows, err := s.db.Query(ctx, querySelect)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var records []notes.Record
	for rows.Next() {
		var r notes.Record
		var createdAt pgtype.Timestamptz
		if err := rows.Scan(&r.ID, &r.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		if createdAt.Valid {
			t := createdAt.Time
			r.CreatedAt = &t
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}

	return notes.FromRecords(records, s.now), nil
}

func (s *Store) refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	list, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	s.feed.Publish(list)
	return nil
}

// listen holds a dedicated connection on LISTEN, reconnecting with
// backoff until ctx is cancelled.
func (s *Store) listen(ctx context.Context) {
	defer s.wg.Done()

	backoff := time.Second
	for {
		err := s.listenOnce(ctx)
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn("postgres: listener disconnected", "error", err, "retry", backoff)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (s *Store) listenOnce(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listener connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	// Catch up on anything missed while disconnected.
	if err := s.refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("postgres: refresh failed", "error", err)
	}

	for {
		if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
			return err
		}
		if err := s.refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("postgres: refresh failed", "error", err)
		}
	}
}
