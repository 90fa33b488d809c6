package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/notepadzone/internal/notes"
)

var errWrite = errors.New("write failed")

// stubStore records calls and never publishes on its own.
type stubStore struct {
	mu        sync.Mutex
	created   []string
	removed   []string
	createErr error
	removeErr error
}

func (s *stubStore) Subscribe(func([]notes.Note)) notes.Unsubscribe { return func() {} }

func (s *stubStore) Create(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, text)
	return s.createErr
}

func (s *stubStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, id)
	return s.removeErr
}

func (s *stubStore) createCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.created...)
}

func (s *stubStore) removeCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.removed...)
}

type stubClipboard struct {
	text string
	err  error
}

func (c *stubClipboard) WriteAll(text string) error {
	c.text = text
	return c.err
}

type stubTheme struct {
	dark  bool
	saves int
	err   error
}

func (t *stubTheme) Dark() bool { return t.dark }

func (t *stubTheme) SetDark(dark bool) error {
	t.saves++
	if t.err != nil {
		return t.err
	}
	t.dark = dark
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func note(id, text string, minutes int) notes.Note {
	return notes.Note{
		ID:        id,
		Text:      text,
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute),
	}
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
