// Package notes holds the note entity and the contract every note
// collection backend implements.
package notes

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

var (
	// ErrEmptyText is returned when a note would be created with no text.
	ErrEmptyText = errors.New("note text is empty")
	// ErrNotFound is returned when removing a note that does not exist.
	ErrNotFound = errors.New("note not found")
)

// Note is a single free-text note. Notes are never edited after creation.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Unsubscribe stops delivery to a listener. Calling it more than once is a no-op.
type Unsubscribe func()

// Store is a live note collection.
//
// Subscribe delivers the full collection on registration and again after
// every change, including changes made through the same Store.
type Store interface {
	Subscribe(onChange func([]Note)) Unsubscribe
	Create(ctx context.Context, text string) error
	Remove(ctx context.Context, id string) error
}

// Record is a raw row as read from a backend. CreatedAt is nil while the
// server timestamp has not been assigned yet.
type Record struct {
	ID        string
	Text      string
	CreatedAt *time.Time
}

// FromRecords maps raw records to notes, using now() for unresolved timestamps.
func FromRecords(records []Record, now func() time.Time) []Note {
	out := make([]Note, 0, len(records))
	for _, r := range records {
		n := Note{ID: r.ID, Text: r.Text}
		if r.CreatedAt != nil && !r.CreatedAt.IsZero() {
			n.CreatedAt = *r.CreatedAt
		} else {
			n.CreatedAt = now()
		}
		out = append(out, n)
	}
	return out
}

// NormalizeText trims a draft and rejects it if nothing is left.
func NormalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

// SortNewestFirst returns a copy of list ordered by CreatedAt descending.
// Notes with equal timestamps keep their snapshot order.
func SortNewestFirst(list []Note) []Note {
	out := make([]Note, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// IndexOf returns the position of the note with id, or -1.
func IndexOf(list []Note, id string) int {
	for i, n := range list {
		if n.ID == id {
			return i
		}
	}
	return -1
}
