package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"

	"github.com/tailored-agentic-units/interview/memory"
	"github.com/tailored-agentic-units/interview/observability"
)

// AllowedExtensions lists the material file types the library accepts.
var AllowedExtensions = []string{".txt", ".md"}

// Document describes an indexed material.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Type       string    `json:"type"`
	ChunkCount int       `json:"chunk_count"`
	IndexedAt  time.Time `json:"indexed_at"`
}

// Library is the materials index. It is safe for concurrent use.
type Library struct {
	collection *chromem.Collection
	registry   memory.Store
	observer   observability.Observer
	size       int
	overlap    int
}

// NewLibrary opens (or creates) the vector collection described by cfg.
// Document metadata is kept in registry under materials/<id>.json.
func NewLibrary(cfg *Config, embed chromem.EmbeddingFunc, registry memory.Store, observer observability.Observer) (*Library, error) {
	var (
		db  *chromem.DB
		err error
	)
	if cfg.Path != "" {
		db, err = chromem.NewPersistentDB(cfg.Path, false)
		if err != nil {
			return nil, fmt.Errorf("open vector db: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	name := cfg.Collection
	if name == "" {
		name = defaultCollection
	}
	collection, err := db.GetOrCreateCollection(name, map[string]string{
		"description": "Study materials for interview preparation",
	}, embed)
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", name, err)
	}

	if registry == nil {
		registry = memory.NewMapStore()
	}
	if observer == nil {
		observer = observability.NoOpObserver{}
	}

	return &Library{
		collection: collection,
		registry:   registry,
		observer:   observer,
		size:       cfg.ChunkSize,
		overlap:    cfg.ChunkOverlap,
	}, nil
}

// Index chunks content, embeds the chunks, and registers the document.
// Chunk ids are <document id>_<index>.
func (l *Library) Index(ctx context.Context, filename string, content []byte) (Document, error) {
	if filename == "" {
		return Document{}, ErrEmptyFilename
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(AllowedExtensions, ext) {
		return Document{}, fmt.Errorf("%w: %q (allowed: %s)", ErrUnsupportedType, ext, strings.Join(AllowedExtensions, ", "))
	}
	if !utf8.Valid(content) {
		return Document{}, ErrInvalidContent
	}

	doc := Document{
		ID:        uuid.NewString(),
		Filename:  filename,
		Type:      ext,
		IndexedAt: time.Now().UTC(),
	}

	chunks := Chunk(string(content), l.size, l.overlap)
	if len(chunks) > 0 {
		docs := make([]chromem.Document, len(chunks))
		for i, chunk := range chunks {
			docs[i] = chromem.Document{
				ID:      doc.ID + "_" + strconv.Itoa(i),
				Content: chunk,
				Metadata: map[string]string{
					"document_id": doc.ID,
					"filename":    filename,
					"type":        ext,
					"chunk_index": strconv.Itoa(i),
				},
			}
		}
		if err := l.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
			return Document{}, fmt.Errorf("index %s: %w", filename, err)
		}
	}
	doc.ChunkCount = len(chunks)

	data, err := json.Marshal(doc)
	if err != nil {
		return Document{}, err
	}
	if err := l.registry.Save(ctx, memory.Entry{Key: registryKey(doc.ID), Value: data}); err != nil {
		return Document{}, fmt.Errorf("register %s: %w", filename, err)
	}

	observability.Emit(ctx, l.observer, EventIndex, observability.LevelInfo, eventSource, map[string]any{
		"document_id": doc.ID,
		"filename":    filename,
		"chunks":      doc.ChunkCount,
	})

	return doc, nil
}

// List returns registered documents ordered by indexing time.
func (l *Library) List(ctx context.Context) ([]Document, error) {
	keys, err := l.registry.List(ctx, memory.NamespaceMaterials+"/")
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []Document{}, nil
	}

	entries, err := l.registry.Load(ctx, keys...)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(entries))
	for _, e := range entries {
		var doc Document
		if err := json.Unmarshal(e.Value, &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", e.Key, err)
		}
		docs = append(docs, doc)
	}

	slices.SortStableFunc(docs, func(a, b Document) int {
		return a.IndexedAt.Compare(b.IndexedAt)
	})
	return docs, nil
}

// Delete removes a document's chunks and registry entry. Deleting an unknown
// id is not an error.
func (l *Library) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}

	if l.collection.Count() > 0 {
		if err := l.collection.Delete(ctx, map[string]string{"document_id": id}, nil); err != nil {
			return fmt.Errorf("delete chunks of %s: %w", id, err)
		}
	}
	if err := l.registry.Delete(ctx, registryKey(id)); err != nil {
		return fmt.Errorf("unregister %s: %w", id, err)
	}

	observability.Emit(ctx, l.observer, EventDelete, observability.LevelInfo, eventSource, map[string]any{
		"document_id": id,
	})
	return nil
}

// Retrieve returns up to maxResults chunks most similar to query, joined by
// Separator. An empty library yields "".
func (l *Library) Retrieve(ctx context.Context, query string, maxResults int) (string, error) {
	count := l.collection.Count()
	if count == 0 || strings.TrimSpace(query) == "" {
		return "", nil
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	start := time.Now()
	results, err := l.collection.Query(ctx, query, min(maxResults, count), nil, nil)
	if err != nil {
		return "", fmt.Errorf("query materials: %w", err)
	}

	passages := make([]string, len(results))
	for i, r := range results {
		passages[i] = r.Content
	}

	observability.Emit(ctx, l.observer, EventQuery, observability.LevelVerbose, eventSource, map[string]any{
		observability.DataNode:     "retrieve",
		observability.DataDuration: time.Since(start),
		"results":                  len(results),
	})

	return strings.Join(passages, Separator), nil
}

// Count returns the number of indexed chunks.
func (l *Library) Count() int {
	return l.collection.Count()
}

func registryKey(id string) string {
	return memory.Key(memory.NamespaceMaterials, id+".json")
}

var _ Retriever = (*Library)(nil)

// IsClientError reports whether err stems from invalid caller input rather
// than an indexing failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnsupportedType) || errors.Is(err, ErrInvalidContent) || errors.Is(err, ErrEmptyFilename)
}
