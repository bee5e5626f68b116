package session

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryStore struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, Entry]
	now   func() time.Time
}

// NewMemoryStore creates a process-local Store. size bounds the number of
// sessions (least recently used are evicted first) and ttl expires sessions
// not written for that long. Zero disables either limit.
func NewMemoryStore(size int, ttl time.Duration) Store {
	return &memoryStore{
		cache: expirable.NewLRU[string, Entry](size, nil, ttl),
		now:   time.Now,
	}
}

func (s *memoryStore) Put(_ context.Context, entry Entry) error {
	if err := ValidateThreadID(entry.ThreadID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var existing *Entry
	if prev, ok := s.cache.Peek(entry.ThreadID); ok {
		existing = &prev
	}
	stamp(&entry, existing, s.now())
	entry.Snapshot = slices.Clone(entry.Snapshot)

	s.cache.Add(entry.ThreadID, entry)
	return nil
}

func (s *memoryStore) Get(_ context.Context, threadID string) (Entry, error) {
	entry, ok := s.cache.Get(threadID)
	if !ok {
		return Entry{}, notFound(threadID)
	}
	entry.Snapshot = slices.Clone(entry.Snapshot)
	return entry, nil
}

func (s *memoryStore) Delete(_ context.Context, threadID string) error {
	s.cache.Remove(threadID)
	return nil
}

func (s *memoryStore) List(_ context.Context) ([]Entry, error) {
	entries := s.cache.Values()
	for i := range entries {
		entries[i].Snapshot = slices.Clone(entries[i].Snapshot)
	}
	sortByCreation(entries)
	return entries, nil
}

func sortByCreation(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ThreadID, b.ThreadID)
	})
}
