package httpapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/marcus/notepadzone/internal/logging"
	"github.com/marcus/notepadzone/internal/notes"
)

const testSecret = "open-sesame"

// stubStore delivers snapshots synchronously and counts unsubscribes.
type stubStore struct {
	mu        sync.Mutex
	snapshot  []notes.Note
	listeners map[int]func([]notes.Note)
	nextID    int
	unsubs    int

	createFn func(context.Context, string) error
	removeFn func(context.Context, string) error
}

func newStubStore(list ...notes.Note) *stubStore {
	return &stubStore{snapshot: list, listeners: make(map[int]func([]notes.Note))}
}

func (s *stubStore) Subscribe(fn func([]notes.Note)) notes.Unsubscribe {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	snapshot := s.snapshot
	s.mu.Unlock()

	fn(snapshot)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.unsubs++
			s.mu.Unlock()
		})
	}
}

func (s *stubStore) Create(ctx context.Context, text string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, text)
}

func (s *stubStore) Remove(ctx context.Context, id string) error {
	if s.removeFn == nil {
		return nil
	}
	return s.removeFn(ctx, id)
}

func (s *stubStore) publish(list []notes.Note) {
	s.mu.Lock()
	s.snapshot = list
	fns := make([]func([]notes.Note), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(list)
	}
}

func (s *stubStore) counts() (listeners, unsubs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners), s.unsubs
}

func note(id, text string, minutes int) notes.Note {
	return notes.Note{
		ID:        id,
		Text:      text,
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute),
	}
}

func newHandler(t *testing.T, store *stubStore) http.Handler {
	t.Helper()
	h := NewHandlers(store, testSecret, logging.Discard())
	t.Cleanup(h.Close)
	return h.Routes()
}

func TestHandlers_Health(t *testing.T) {
	h := newHandler(t, newStubStore())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestHandlers_List_NewestFirst(t *testing.T) {
	store := newStubStore(note("a", "old", 0), note("b", "new", 5))
	h := newHandler(t, store)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/notes", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var got struct {
		Items []notes.Note `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.Len(t, got.Items, 2)
	require.Equal(t, "b", got.Items[0].ID)

	store.publish([]notes.Note{note("c", "only", 1)})
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/notes", nil))
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.Len(t, got.Items, 1)
	require.Equal(t, "c", got.Items[0].ID)
}

func TestHandlers_List_EmptyIsArray(t *testing.T) {
	h := newHandler(t, newStubStore())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/notes", nil))
	require.JSONEq(t, `{"items":[]}`, rr.Body.String())
}

func TestHandlers_Create(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		storeErr error
		want     int
	}{
		{"accepted", `{"text":"Buy milk"}`, nil, http.StatusAccepted},
		{"empty text", `{"text":"   "}`, notes.ErrEmptyText, http.StatusBadRequest},
		{"invalid json", `{"text":`, nil, http.StatusBadRequest},
		{"write failure", `{"text":"x"}`, errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotText string
			store := newStubStore()
			store.createFn = func(_ context.Context, text string) error {
				gotText = text
				return tt.storeErr
			}
			h := newHandler(t, store)

			req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			require.Equal(t, tt.want, rr.Code)
			if tt.name == "accepted" {
				require.Equal(t, "Buy milk", gotText)
			}
		})
	}
}

func TestHandlers_Delete(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		storeErr   error
		want       int
		wantRemove bool
	}{
		{"matching secret", testSecret, nil, http.StatusNoContent, true},
		{"wrong secret", "nope", nil, http.StatusForbidden, false},
		{"missing secret", "", nil, http.StatusForbidden, false},
		{"unknown id", testSecret, fmt.Errorf("remove: %w", notes.ErrNotFound), http.StatusNotFound, true},
		{"remove failure", testSecret, errors.New("db down"), http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var removed []string
			store := newStubStore()
			store.removeFn = func(_ context.Context, id string) error {
				removed = append(removed, id)
				return tt.storeErr
			}
			h := newHandler(t, store)

			req := httptest.NewRequest(http.MethodDelete, "/notes/n1", nil)
			if tt.secret != "" {
				req.Header.Set(SecretHeader, tt.secret)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			require.Equal(t, tt.want, rr.Code)
			if tt.wantRemove {
				require.Equal(t, []string{"n1"}, removed)
			} else {
				require.Empty(t, removed)
			}
		})
	}
}

func TestHandlers_Stream(t *testing.T) {
	store := newStubStore(note("a", "first", 0))
	srv := httptest.NewServer(newHandler(t, store))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/notes/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	first := readEvent(t, reader)
	require.Len(t, first, 1)
	require.Equal(t, "a", first[0].ID)

	store.publish([]notes.Note{note("a", "first", 0), note("b", "second", 1)})
	second := readEvent(t, reader)
	require.Len(t, second, 2)
	require.Equal(t, "b", second[0].ID)

	// The handler's own subscription plus the stream.
	listeners, _ := store.counts()
	require.Equal(t, 2, listeners)

	cancel()
	require.Eventually(t, func() bool {
		listeners, unsubs := store.counts()
		return listeners == 1 && unsubs == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func readEvent(t *testing.T, r *bufio.Reader) []notes.Note {
	t.Helper()
	var event string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			require.Equal(t, "snapshot", event)
			var list []notes.Note
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &list))
			return list
		}
	}
}
