// Package httpapi serves a note collection over HTTP: JSON for reads and
// writes, Server-Sent Events for live snapshots.
package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marcus/notepadzone/internal/notes"
)

// SecretHeader carries the delete confirmation secret.
const SecretHeader = "X-Delete-Secret"

// CreateNoteRequest is the body of POST /notes.
type CreateNoteRequest struct {
	Text string `json:"text"`
}

// Handlers exposes a notes.Store over HTTP. It keeps its own subscription
// so GET /notes can answer from the latest snapshot.
type Handlers struct {
	store  notes.Store
	secret string
	logger *slog.Logger

	mu          sync.RWMutex
	latest      []notes.Note
	unsubscribe notes.Unsubscribe
}

// NewHandlers subscribes to store. Call Close to release the subscription.
func NewHandlers(store notes.Store, secret string, logger *slog.Logger) *Handlers {
	h := &Handlers{
		store:  store,
		secret: secret,
		logger: logger,
		latest: []notes.Note{},
	}
	h.unsubscribe = store.Subscribe(func(list []notes.Note) {
		sorted := notes.SortNewestFirst(list)
		h.mu.Lock()
		h.latest = sorted
		h.mu.Unlock()
	})
	return h
}

// Close releases the snapshot subscription.
func (h *Handlers) Close() {
	h.unsubscribe()
}

// Routes returns the router.
func (h *Handlers) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/notes", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/stream", h.stream)
		r.Delete("/{id}", h.delete)
	})

	return r
}

func (h *Handlers) list(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	list := h.latest
	h.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{"items": list})
}

func (h *Handlers) create(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	err := h.store.Create(r.Context(), req.Text)
	switch {
	case errors.Is(err, notes.ErrEmptyText):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text required"})
	case err != nil:
		h.logger.Error("create note", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	}
}

func (h *Handlers) delete(w http.ResponseWriter, r *http.Request) {
	given := r.Header.Get(SecretHeader)
	if subtle.ConstantTimeCompare([]byte(given), []byte(h.secret)) != 1 {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		return
	}

	id := chi.URLParam(r, "id")
	err := h.store.Remove(r.Context(), id)
	switch {
	case errors.Is(err, notes.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case err != nil:
		h.logger.Error("remove note", "id", id, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// stream sends a "snapshot" event for the current collection and after
// every change until the client goes away.
func (h *Handlers) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	// One producer per subscription, so drain-then-send never blocks.
	updates := make(chan []notes.Note, 1)
	unsubscribe := h.store.Subscribe(func(list []notes.Note) {
		select {
		case <-updates:
		default:
		}
		updates <- list
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case list := <-updates:
			if err := writeEvent(w, "snapshot", notes.SortNewestFirst(list)); err != nil {
				h.logger.Debug("stream closed", "err", err)
				return
			}
			flusher.Flush()
		}
	}
}

func (h *Handlers) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status())
	})
}

func writeEvent(w http.ResponseWriter, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
