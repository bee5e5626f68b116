// Package session persists interview snapshots keyed by thread id so a
// session can be suspended between client requests and resumed later.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when no entry exists for a thread id.
var ErrNotFound = errors.New("session not found")

// ErrInvalidThreadID is returned for thread ids that cannot be used as keys.
var ErrInvalidThreadID = errors.New("invalid thread id")

// Status is the coarse lifecycle state reported to clients.
type Status string

const (
	StatusPending        Status = "pending"
	StatusInProgress     Status = "in_progress"
	StatusAwaitingAnswer Status = "awaiting_answer"
	StatusAssessing      Status = "assessing"
	StatusCompleted      Status = "completed"
)

// Entry is one persisted session.
type Entry struct {
	ThreadID string `json:"thread_id"`
	Topic    string `json:"topic"`
	Status   Status `json:"status"`

	// Next is the graph node execution resumes at; empty once completed.
	Next string `json:"next,omitempty"`

	// Snapshot is the encoded interview state.
	Snapshot json.RawMessage `json:"snapshot"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Completed reports whether the session has finished.
func (e Entry) Completed() bool {
	return e.Status == StatusCompleted
}

// Store persists entries. Put stamps UpdatedAt and, for new entries,
// CreatedAt. Implementations must be safe for concurrent use.
type Store interface {
	Put(ctx context.Context, entry Entry) error
	Get(ctx context.Context, threadID string) (Entry, error)
	Delete(ctx context.Context, threadID string) error
	// List returns all live entries ordered by creation time.
	List(ctx context.Context) ([]Entry, error)
}

// ValidateThreadID rejects ids that are empty or contain path separators.
func ValidateThreadID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidThreadID, id)
	}
	return nil
}

func stamp(entry *Entry, existing *Entry, now time.Time) {
	switch {
	case existing != nil:
		entry.CreatedAt = existing.CreatedAt
	case entry.CreatedAt.IsZero():
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
}

func notFound(threadID string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, threadID)
}
