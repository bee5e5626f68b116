package memory

import (
	"fmt"
	"path"
	"strings"
)

// Top-level namespaces.
const (
	NamespaceSessions  = "sessions"
	NamespaceMaterials = "materials"
)

// Entry is a key-value pair. Keys are /-separated hierarchical paths and
// values are raw bytes.
type Entry struct {
	Key   string
	Value []byte
}

// Key joins a namespace and name segments into a store key.
//
//	memory.Key(memory.NamespaceSessions, "abc.json") // "sessions/abc.json"
func Key(namespace string, segments ...string) string {
	return path.Join(append([]string{namespace}, segments...)...)
}

// ValidateKey rejects keys that are empty, absolute, not in clean form, or
// that escape the store root.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	case strings.HasPrefix(key, "/"):
		return fmt.Errorf("%w: absolute: %s", ErrInvalidKey, key)
	case path.Clean(key) != key:
		return fmt.Errorf("%w: not clean: %s", ErrInvalidKey, key)
	case key == ".." || strings.HasPrefix(key, "../"):
		return fmt.Errorf("%w: escapes root: %s", ErrInvalidKey, key)
	}
	return nil
}
