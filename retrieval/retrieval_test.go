package retrieval_test

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/interview/memory"
	"github.com/tailored-agentic-units/interview/retrieval"
)

const dims = 64

// bagOfWords embeds text by hashing lower-cased words into a fixed number of
// buckets. The extra bias dimension keeps the vector non-zero.
func bagOfWords(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, dims+1)
	vector[dims] = 0.01
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?")
		h := fnv.New32a()
		h.Write([]byte(word))
		vector[h.Sum32()%dims]++
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	for i := range vector {
		vector[i] = float32(float64(vector[i]) / norm)
	}
	return vector, nil
}

func newLibrary(t *testing.T) (*retrieval.Library, memory.Store) {
	t.Helper()
	cfg := retrieval.DefaultConfig()
	registry := memory.NewMapStore()

	lib, err := retrieval.NewLibrary(&cfg, bagOfWords, registry, nil)
	require.NoError(t, err)
	return lib, registry
}

func TestLibrary_RetrieveEmpty(t *testing.T) {
	lib, _ := newLibrary(t)

	got, err := lib.Retrieve(context.Background(), "Information about Go", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLibrary_IndexAndRetrieve(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t)

	doc, err := lib.Index(ctx, "search.md", []byte("Binary search halves the sorted interval on every comparison."))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.ChunkCount)
	assert.Equal(t, ".md", doc.Type)
	assert.NotEmpty(t, doc.ID)

	_, err = lib.Index(ctx, "sql.txt", []byte("A database index speeds up lookups at the cost of slower writes."))
	require.NoError(t, err)
	assert.Equal(t, 2, lib.Count())

	got, err := lib.Retrieve(ctx, "binary search sorted interval", 1)
	require.NoError(t, err)
	assert.Equal(t, "Binary search halves the sorted interval on every comparison.", got)

	// Requests beyond the collection size are clamped.
	all, err := lib.Retrieve(ctx, "binary search", 5)
	require.NoError(t, err)
	assert.Len(t, strings.Split(all, retrieval.Separator), 2)
}

func TestLibrary_IndexRejectsInput(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t)

	tests := []struct {
		name     string
		filename string
		content  []byte
		want     error
	}{
		{name: "pdf", filename: "notes.pdf", content: []byte("%PDF"), want: retrieval.ErrUnsupportedType},
		{name: "no extension", filename: "notes", content: []byte("text"), want: retrieval.ErrUnsupportedType},
		{name: "binary", filename: "notes.txt", content: []byte{0xff, 0xfe, 0xfd}, want: retrieval.ErrInvalidContent},
		{name: "empty name", filename: "", content: []byte("text"), want: retrieval.ErrEmptyFilename},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lib.Index(ctx, tt.filename, tt.content)
			require.ErrorIs(t, err, tt.want)
			assert.True(t, retrieval.IsClientError(err))
		})
	}
}

func TestLibrary_UppercaseExtension(t *testing.T) {
	lib, _ := newLibrary(t)

	doc, err := lib.Index(context.Background(), "NOTES.TXT", []byte("Closures capture variables."))
	require.NoError(t, err)
	assert.Equal(t, ".txt", doc.Type)
}

func TestLibrary_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	lib, registry := newLibrary(t)

	first, err := lib.Index(ctx, "a.md", []byte(strings.Repeat("Goroutines are cheap. ", 100)))
	require.NoError(t, err)
	second, err := lib.Index(ctx, "b.txt", []byte("Channels synchronize goroutines."))
	require.NoError(t, err)
	assert.Greater(t, first.ChunkCount, 1)

	docs, err := lib.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, first.ID, docs[0].ID)
	assert.Equal(t, second.ID, docs[1].ID)

	keys, err := registry.List(ctx, memory.NamespaceMaterials+"/")
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	require.NoError(t, lib.Delete(ctx, first.ID))
	assert.Equal(t, 1, lib.Count())

	docs, err = lib.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b.txt", docs[0].Filename)

	assert.NoError(t, lib.Delete(ctx, first.ID))
	assert.NoError(t, lib.Delete(ctx, "../not-a-uuid"))
}

func TestLibrary_Persistent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cfg := retrieval.DefaultConfig()
	cfg.Path = dir
	registry := memory.NewMapStore()

	lib, err := retrieval.NewLibrary(&cfg, bagOfWords, registry, nil)
	require.NoError(t, err)
	_, err = lib.Index(ctx, "go.md", []byte("Interfaces are satisfied implicitly."))
	require.NoError(t, err)

	reopened, err := retrieval.NewLibrary(&cfg, bagOfWords, registry, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Count())
}

func TestChunk(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, retrieval.Chunk("", 1000, 200))
		assert.Empty(t, retrieval.Chunk("   \n ", 1000, 200))
	})

	t.Run("short text is one chunk", func(t *testing.T) {
		assert.Equal(t, []string{"hello world"}, retrieval.Chunk("  hello world  ", 1000, 200))
	})

	t.Run("fixed windows with overlap", func(t *testing.T) {
		text := strings.Repeat("a", 25)
		chunks := retrieval.Chunk(text, 10, 2)
		require.Len(t, chunks, 3)
		assert.Len(t, chunks[0], 10)
		assert.Len(t, chunks[1], 10)
		assert.Len(t, chunks[2], 9)
	})

	t.Run("breaks after sentence past midpoint", func(t *testing.T) {
		text := "abcdefg. hijklmnopqrstuvwxyz"
		chunks := retrieval.Chunk(text, 12, 2)
		assert.Equal(t, "abcdefg.", chunks[0])
	})

	t.Run("ignores sentence break before midpoint", func(t *testing.T) {
		text := "ab. cdefghijklmnopqrstuvwxyz"
		chunks := retrieval.Chunk(text, 12, 2)
		assert.Equal(t, "ab. cdefghij", chunks[0])
	})

	t.Run("large overlap with sentence breaks still advances", func(t *testing.T) {
		text := strings.Repeat("Sentence number here. ", 200)
		var chunks []string
		require.NotPanics(t, func() { chunks = retrieval.Chunk(text, 100, 90) })
		require.NotEmpty(t, chunks)
		assert.Less(t, len(chunks), len(text)/10)
		for _, c := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(c), 100)
		}
		assert.True(t, strings.HasSuffix(chunks[len(chunks)-1], "here."))
	})

	t.Run("multibyte runes stay intact", func(t *testing.T) {
		chunks := retrieval.Chunk(strings.Repeat("é", 15), 10, 0)
		require.Len(t, chunks, 2)
		assert.Equal(t, strings.Repeat("é", 10), chunks[0])
	})
}

func TestCachedEmbeddingFunc(t *testing.T) {
	var calls atomic.Int32
	embed := func(ctx context.Context, text string) ([]float32, error) {
		calls.Add(1)
		if text == "fail" {
			return nil, errors.New("embedding service down")
		}
		return bagOfWords(ctx, text)
	}

	cached, err := retrieval.CachedEmbeddingFunc(embed, 8)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := cached(ctx, "binary search")
	require.NoError(t, err)
	second, err := cached(ctx, "binary search")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())

	_, err = cached(ctx, "fail")
	assert.Error(t, err)
	_, err = cached(ctx, "fail")
	assert.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestNewEmbeddingFunc(t *testing.T) {
	cfg := retrieval.DefaultConfig().Embedding
	fn, err := retrieval.NewEmbeddingFunc(&cfg)
	require.NoError(t, err)
	assert.NotNil(t, fn)

	cfg.Provider = "ollama"
	cfg.CacheSize = 0
	fn, err = retrieval.NewEmbeddingFunc(&cfg)
	require.NoError(t, err)
	assert.NotNil(t, fn)

	cfg.Provider = "unknown"
	_, err = retrieval.NewEmbeddingFunc(&cfg)
	assert.Error(t, err)
}

func TestConfig_Merge(t *testing.T) {
	cfg := retrieval.DefaultConfig()
	cfg.Merge(&retrieval.Config{
		Enabled:   true,
		Path:      "/data/vectors",
		ChunkSize: 500,
		Embedding: retrieval.EmbeddingConfig{Provider: "ollama", Model: "nomic-embed-text"},
	})

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "/data/vectors", cfg.Path)
	assert.Equal(t, 500, cfg.ChunkSize)
	assert.Equal(t, 200, cfg.ChunkOverlap)
	assert.Equal(t, "interview_materials", cfg.Collection)
	assert.Equal(t, "ollama", cfg.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", cfg.Embedding.Model)
}
