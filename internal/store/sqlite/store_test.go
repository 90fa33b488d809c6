package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus/notepadzone/internal/logging"
	"github.com/marcus/notepadzone/internal/notes"
)

// recorder collects snapshots delivered to a subscriber.
type recorder struct {
	mu    sync.Mutex
	snaps [][]notes.Note
}

func (r *recorder) onChange(list []notes.Note) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, list)
}

func (r *recorder) last() []notes.Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return nil
	}
	return r.snaps[len(r.snaps)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(context.Background(), path, DriverPureGo, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_EmptyDatabasePublishesEmptySnapshot(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "notes.db"))

	rec := &recorder{}
	unsub := s.Subscribe(rec.onChange)
	defer unsub()

	require.Eventually(t, func() bool { return rec.count() > 0 }, time.Second, 10*time.Millisecond)
	assert.Empty(t, rec.last())
}

func TestCreate_TrimsAndAssignsIDAndTimestamp(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "notes.db"))
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "  buy milk \n"))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "buy milk", list[0].Text)
	assert.NotEmpty(t, list[0].ID)
	assert.WithinDuration(t, time.Now(), list[0].CreatedAt, time.Minute)
}

func TestCreate_RejectsBlankText(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "notes.db"))

	err := s.Create(context.Background(), "   \t\n")
	require.ErrorIs(t, err, notes.ErrEmptyText)

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreate_AssignsDistinctIDs(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "notes.db"))
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		require.NoError(t, s.Create(ctx, text))
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	seen := map[string]bool{}
	for _, n := range list {
		assert.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
	}
}

func TestRemove(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "notes.db"))
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "keep"))
	require.NoError(t, s.Create(ctx, "drop"))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, s.Remove(ctx, list[1].ID))

	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "keep", list[0].Text)
}

func TestRemove_UnknownID(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "notes.db"))

	err := s.Remove(context.Background(), "does-not-exist")
	assert.True(t, errors.Is(err, notes.ErrNotFound), "got %v", err)
}

// A row with a NULL id cannot be scanned, so every reload fails while
// inserts and deletes still commit.
func TestWritesSucceedWhenReloadFails(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "notes.db"))
	ctx := context.Background()

	_, err := s.db.Exec(`INSERT INTO notes (id, text) VALUES (NULL, 'unreadable')`)
	require.NoError(t, err)
	_, err = s.List(ctx)
	require.Error(t, err)

	require.NoError(t, s.Create(ctx, "buy milk"))

	var id string
	require.NoError(t, s.db.QueryRow(`SELECT id FROM notes WHERE text = 'buy milk'`).Scan(&id))

	require.NoError(t, s.Remove(ctx, id))

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT count(*) FROM notes WHERE text = 'buy milk'`).Scan(&count))
	assert.Zero(t, count)
}

func TestSubscribe_ReceivesMutations(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "notes.db"))
	ctx := context.Background()

	rec := &recorder{}
	unsub := s.Subscribe(rec.onChange)
	defer unsub()

	require.NoError(t, s.Create(ctx, "hello"))

	require.Eventually(t, func() bool {
		last := rec.last()
		return len(last) == 1 && last[0].Text == "hello"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSubscribe_NoDeliveryAfterUnsubscribe(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "notes.db"))
	ctx := context.Background()

	rec := &recorder{}
	unsub := s.Subscribe(rec.onChange)
	require.Eventually(t, func() bool { return rec.count() > 0 }, time.Second, 10*time.Millisecond)

	unsub()
	unsub()
	before := rec.count()

	require.NoError(t, s.Create(ctx, "after"))
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, before, rec.count())
}

func TestExternalWriterIsObserved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.db")
	a := openTestStore(t, path)
	b := openTestStore(t, path)

	rec := &recorder{}
	unsub := b.Subscribe(rec.onChange)
	defer unsub()

	require.NoError(t, a.Create(context.Background(), "from a"))

	require.Eventually(t, func() bool {
		last := rec.last()
		return len(last) == 1 && last[0].Text == "from a"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestList_MissingTimestampFallsBackToNow(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "notes.db"))
	fixed := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	_, err := s.db.Exec(`INSERT INTO notes (id, text, created_at) VALUES ('legacy', 'old note', NULL)`)
	require.NoError(t, err)

	list, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "legacy", list[0].ID)
	assert.True(t, list[0].CreatedAt.Equal(fixed))
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "/tmp/n.db?_busy_timeout=5000&_journal_mode=WAL", dsn("/tmp/n.db", DriverCgo))
	assert.Contains(t, dsn("/tmp/n.db", DriverPureGo), "_pragma=journal_mode(WAL)")
}
