// Package transcript records chat interactions: one Entry per question
// asked, with the answer or the error and how long the walk took.
package transcript

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Store persists transcript entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append records an entry. A zero ID or Timestamp is filled in.
	Append(ctx context.Context, e Entry) error

	// List returns the most recent entries, oldest first.
	// A limit of zero or less returns every entry.
	List(ctx context.Context, limit int) ([]Entry, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Entry is one recorded interaction.
type Entry struct {
	ID        string
	Graph     string
	Question  string
	Response  string
	Error     string
	Duration  time.Duration
	Timestamp time.Time
}

// Failed reports whether the interaction ended in an error.
func (e Entry) Failed() bool { return e.Error != "" }

// ErrStoreClosed indicates the store has been closed.
var ErrStoreClosed = errors.New("transcript store closed")

func stamp(e Entry) Entry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	return e
}
