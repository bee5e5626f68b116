package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tailored-agentic-units/interview/memory"
)

const keySuffix = ".json"

type persistentStore struct {
	store memory.Store
	ttl   time.Duration
	now   func() time.Time
}

// NewPersistentStore creates a Store that writes each entry as a JSON
// document under sessions/<thread id>.json in the given memory.Store. With a
// positive ttl, entries not updated within ttl are treated as missing and
// removed lazily.
func NewPersistentStore(store memory.Store, ttl time.Duration) Store {
	return &persistentStore{store: store, ttl: ttl, now: time.Now}
}

func key(threadID string) string {
	return memory.Key(memory.NamespaceSessions, threadID+keySuffix)
}

func (s *persistentStore) expired(entry Entry) bool {
	return s.ttl > 0 && s.now().Sub(entry.UpdatedAt) > s.ttl
}

func (s *persistentStore) Put(ctx context.Context, entry Entry) error {
	if err := ValidateThreadID(entry.ThreadID); err != nil {
		return err
	}

	var existing *Entry
	prev, err := s.Get(ctx, entry.ThreadID)
	switch {
	case err == nil:
		existing = &prev
	case !errors.Is(err, ErrNotFound):
		return err
	}
	stamp(&entry, existing, s.now())

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", entry.ThreadID, err)
	}
	return s.store.Save(ctx, memory.Entry{Key: key(entry.ThreadID), Value: data})
}

func (s *persistentStore) Get(ctx context.Context, threadID string) (Entry, error) {
	if err := ValidateThreadID(threadID); err != nil {
		return Entry{}, notFound(threadID)
	}

	loaded, err := s.store.Load(ctx, key(threadID))
	if err != nil {
		if errors.Is(err, memory.ErrKeyNotFound) {
			return Entry{}, notFound(threadID)
		}
		return Entry{}, err
	}

	entry, err := decode(loaded[0])
	if err != nil {
		return Entry{}, err
	}
	if s.expired(entry) {
		if err := s.store.Delete(ctx, loaded[0].Key); err != nil {
			return Entry{}, err
		}
		return Entry{}, notFound(threadID)
	}
	return entry, nil
}

func (s *persistentStore) Delete(ctx context.Context, threadID string) error {
	if err := ValidateThreadID(threadID); err != nil {
		return nil
	}
	return s.store.Delete(ctx, key(threadID))
}

func (s *persistentStore) List(ctx context.Context) ([]Entry, error) {
	keys, err := s.store.List(ctx, memory.NamespaceSessions+"/")
	if err != nil {
		return nil, err
	}
	keys = filterSuffix(keys, keySuffix)
	if len(keys) == 0 {
		return []Entry{}, nil
	}

	loaded, err := s.store.Load(ctx, keys...)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(loaded))
	for _, e := range loaded {
		entry, err := decode(e)
		if err != nil {
			return nil, err
		}
		if !s.expired(entry) {
			entries = append(entries, entry)
		}
	}

	sortByCreation(entries)
	return entries, nil
}

func decode(e memory.Entry) (Entry, error) {
	var entry Entry
	if err := json.Unmarshal(e.Value, &entry); err != nil {
		return Entry{}, fmt.Errorf("decode %s: %w", e.Key, err)
	}
	return entry, nil
}

func filterSuffix(keys []string, suffix string) []string {
	filtered := keys[:0]
	for _, k := range keys {
		if strings.HasSuffix(k, suffix) {
			filtered = append(filtered, k)
		}
	}
	return filtered
}
