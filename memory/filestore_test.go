package memory_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/tailored-agentic-units/interview/memory"
)

func TestFileStore_List_MissingRoot(t *testing.T) {
	store := memory.NewFileStore(filepath.Join(t.TempDir(), "nonexistent"))

	keys, err := store.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("List() returned %d keys, want 0", len(keys))
	}
}

func TestFileStore_List_SkipsHidden(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "sessions/visible.json", "{}")
	writeTestFile(t, root, "sessions/.tmp-123", "partial")
	writeTestFile(t, root, ".hiddendir/file.json", "{}")

	keys, err := memory.NewFileStore(root).List(context.Background(), "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if !slices.Equal(keys, []string{"sessions/visible.json"}) {
		t.Errorf("List() = %v", keys)
	}
}

func TestFileStore_Save_WritesUnderRoot(t *testing.T) {
	root := t.TempDir()
	store := memory.NewFileStore(root)

	err := store.Save(context.Background(), memory.Entry{Key: "materials/doc-1.json", Value: []byte(`{"chunks":3}`)})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(root, "materials", "doc-1.json"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != `{"chunks":3}` {
		t.Errorf("file content = %q", got)
	}

	leftovers, _ := filepath.Glob(filepath.Join(root, "materials", ".tmp-*"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestFileStore_Delete_PrunesEmptyParents(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "sessions/2026/a.json", "{}")

	if err := memory.NewFileStore(root).Delete(context.Background(), "sessions/2026/a.json"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "sessions")); !os.IsNotExist(err) {
		t.Error("empty parent directories should be removed after Delete")
	}
	if _, err := os.Stat(root); err != nil {
		t.Errorf("root should survive Delete: %v", err)
	}
}

func TestFileStore_Delete_PreservesParentWithSiblings(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "sessions/a.json", "a")
	writeTestFile(t, root, "sessions/b.json", "b")

	if err := memory.NewFileStore(root).Delete(context.Background(), "sessions/a.json"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "sessions", "b.json")); err != nil {
		t.Errorf("sibling should be preserved: %v", err)
	}
}

func writeTestFile(t *testing.T, root, key, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}
