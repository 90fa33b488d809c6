// Package redis stores the note collection in Redis.
//
// Each note is a hash keyed by id; a sorted set scored by the server
// clock keeps insertion order. Writers PUBLISH on a change channel and
// every Store re-reads the collection when it hears one.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/marcus/notepadzone/internal/config"
	"github.com/marcus/notepadzone/internal/notes"
)

const (
	fieldText      = "text"
	fieldCreatedAt = "created_at"
)

// Store is a notes.Store backed by Redis.
type Store struct {
	client *goredis.Client
	prefix string
	feed   *notes.Feed
	logger *slog.Logger
	now    func() time.Time

	refreshMu sync.Mutex

	pubsub *goredis.PubSub
	wg     sync.WaitGroup
}

var _ notes.Store = (*Store)(nil)

// Open connects to Redis, publishes the initial snapshot and subscribes
// to the change channel.
func Open(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	s, err := New(ctx, client, cfg.Prefix, logger)
	if err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

// New builds a Store on an existing client.
func New(ctx context.Context, client *goredis.Client, prefix string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if prefix == "" {
		prefix = "notepadzone"
	}
	s := &Store{
		client: client,
		prefix: prefix,
		feed:   notes.NewFeed(),
		logger: logger,
		now:    time.Now,
	}

	ps := client.Subscribe(ctx, s.channelKey())
	// Wait for the subscription so no change published after Open is lost.
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", s.channelKey(), err)
	}
	s.pubsub = ps

	if err := s.refresh(ctx); err != nil {
		ps.Close()
		return nil, err
	}

	s.wg.Add(1)
	go s.watch(ps.Channel())

	return s, nil
}

func (s *Store) indexKey() string { return s.prefix + ":notes" }
func (s *Store) noteKey(id string) string { return s.prefix + ":note:" + id }
func (s *Store) channelKey() string { return s.prefix + ":changed" }

// Close unsubscribes, stops all subscribers and closes the client.
func (s *Store) Close() error {
	if s.pubsub != nil {
		s.pubsub.Close()
	}
	s.wg.Wait()
	s.feed.Close()
	return s.client.Close()
}

// Subscribe registers onChange for full-collection snapshots.
func (s *Store) Subscribe(onChange func([]notes.Note)) notes.Unsubscribe {
	return s.feed.Subscribe(onChange)
}

// Create stores a note with the trimmed text. The id is a random UUID and
// the timestamp comes from the Redis server clock.
func (s *Store) Create(ctx context.Context, text string) error {
	text, err := notes.NormalizeText(text)
	if err != nil {
		return err
	}

	serverTime, err := s.client.Time(ctx).Result()
	if err != nil {
		return fmt.Errorf("read server time: %w", err)
	}
	id := uuid.NewString()

	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, s.noteKey(id),
			fieldText, text,
			fieldCreatedAt, serverTime.UTC().Format(time.RFC3339Nano),
		)
		pipe.ZAdd(ctx, s.indexKey(), goredis.Z{
			Score:  float64(serverTime.UnixMicro()),
			Member: id,
		})
		pipe.Publish(ctx, s.channelKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	s.logger.Debug("redis: note created", "id", id)

	// The write is committed; the change listener delivers the next snapshot.
	if err := s.refresh(ctx); err != nil {
		s.logger.Error("redis: reload after create", "id", id, "err", err)
	}
	return nil
}

// Remove deletes the note with id.
func (s *Store) Remove(ctx context.Context, id string) error {
	var removed *goredis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		removed = pipe.ZRem(ctx, s.indexKey(), id)
		pipe.Del(ctx, s.noteKey(id))
		pipe.Publish(ctx, s.channelKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if removed.Val() == 0 {
		return fmt.Errorf("delete note %s: %w", id, notes.ErrNotFound)
	}
	s.logger.Debug("redis: note removed", "id", id)

	// The write is committed; the change listener delivers the next snapshot.
	if err := s.refresh(ctx); err != nil {
		s.logger.Error("redis: reload after remove", "id", id, "err", err)
	}
	return nil
}

// List returns every note in insertion order. Index entries whose hash is
// missing are skipped.
func (s *Store) List(ctx context.Context) ([]notes.Note, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	if len(ids) == 0 {
		return []notes.Note{}, nil
	}

	cmds := make([]*goredis.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, s.noteKey(id))
		}
		return nil
	})
	if err != nil && !errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("read notes: %w", err)
	}

	records := make([]notes.Record, 0, len(ids))
	for i, id := range ids {
		fields := cmds[i].Val()
		text, ok := fields[fieldText]
		if !ok {
			continue
		}
		r := notes.Record{ID: id, Text: text}
		if raw := strings.TrimSpace(fields[fieldCreatedAt]); raw != "" {
			if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
				r.CreatedAt = &t
			}
		}
		records = append(records, r)
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

// watch reloads the collection for every change message until the
// subscription is closed.
func (s *Store) watch(ch <-chan *goredis.Message) {
	defer s.wg.Done()
	for range ch {
		if err := s.refresh(context.Background()); err != nil {
			s.logger.Error("redis: refresh after change failed", "error", err)
		}
	}
}
