package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus/notepadzone/internal/logging"
	"github.com/marcus/notepadzone/internal/notes"
)

var errDatabaseConnection = errors.New("database connection failed")

func noteRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "text", "created_at"})
}

func newMockStore(t *testing.T, mock pgxmock.PgxPoolIface, initial *pgxmock.Rows) *Store {
	t.Helper()
	mock.ExpectQuery(regexp.QuoteMeta(querySelect)).WillReturnRows(initial)

	s, err := New(context.Background(), mock, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNew_LoadsInitialSnapshot(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC)
	s := newMockStore(t, mock, noteRows().AddRow("a1", "first", created))

	got := make(chan []notes.Note, 1)
	unsub := s.Subscribe(func(list []notes.Note) { got <- list })
	defer unsub()

	select {
	case list := <-got:
		require.Len(t, list, 1)
		assert.Equal(t, "a1", list[0].ID)
		assert.Equal(t, "first", list[0].Text)
		assert.True(t, list[0].CreatedAt.Equal(created))
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot")
	}

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("successful note creation", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := newMockStore(t, mock, noteRows())

		mock.ExpectQuery(regexp.QuoteMeta(queryInsert)).
			WithArgs("buy milk").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("n1"))
		mock.ExpectQuery(regexp.QuoteMeta(querySelect)).
			WillReturnRows(noteRows().AddRow("n1", "buy milk", time.Now()))

		require.NoError(t, s.Create(ctx, "  buy milk  "))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("blank text is rejected without a query", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := newMockStore(t, mock, noteRows())

		err = s.Create(ctx, " \n\t ")
		require.ErrorIs(t, err, notes.ErrEmptyText)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reload failure after insert still succeeds", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := newMockStore(t, mock, noteRows())

		mock.ExpectQuery(regexp.QuoteMeta(queryInsert)).
			WithArgs("buy milk").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("n1"))
		mock.ExpectQuery(regexp.QuoteMeta(querySelect)).
			WillReturnError(errDatabaseConnection)

		require.NoError(t, s.Create(ctx, "buy milk"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database connection error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := newMockStore(t, mock, noteRows())

		mock.ExpectQuery(regexp.QuoteMeta(queryInsert)).
			WithArgs("x").
			WillReturnError(errDatabaseConnection)

		err = s.Create(ctx, "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insert note")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("existing note", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := newMockStore(t, mock, noteRows().AddRow("n1", "a", time.Now()))

		mock.ExpectExec(regexp.QuoteMeta(queryDelete)).
			WithArgs("n1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectQuery(regexp.QuoteMeta(querySelect)).WillReturnRows(noteRows())

		require.NoError(t, s.Remove(ctx, "n1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reload failure after delete still succeeds", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := newMockStore(t, mock, noteRows().AddRow("n1", "a", time.Now()))

		mock.ExpectExec(regexp.QuoteMeta(queryDelete)).
			WithArgs("n1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectQuery(regexp.QuoteMeta(querySelect)).
			WillReturnError(errDatabaseConnection)

		require.NoError(t, s.Remove(ctx, "n1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown id", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := newMockStore(t, mock, noteRows())

		mock.ExpectExec(regexp.QuoteMeta(queryDelete)).
			WithArgs("missing").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err = s.Remove(ctx, "missing")
		require.ErrorIs(t, err, notes.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := newMockStore(t, mock, noteRows())

		mock.ExpectExec(regexp.QuoteMeta(queryDelete)).
			WithArgs("n1").
			WillReturnError(errDatabaseConnection)

		err = s.Remove(ctx, "n1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, notes.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestList_NullTimestampFallsBackToNow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := newMockStore(t, mock, noteRows())
	fixed := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	mock.ExpectQuery(regexp.QuoteMeta(querySelect)).
		WillReturnRows(noteRows().AddRow("n1", "legacy", nil))

	list, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].CreatedAt.Equal(fixed))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNew_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(querySelect)).WillReturnError(errDatabaseConnection)

	s, err := New(context.Background(), mock, logging.Discard())
	require.Error(t, err)
	assert.Nil(t, s)
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_create_notes.up.sql")
	assert.Contains(t, names, "000001_create_notes.down.sql")
}
