// Package retrieval indexes study materials and retrieves passages relevant
// to an interview topic. The Library stores chunk embeddings in a chromem-go
// collection and keeps a document registry in a memory.Store.
package retrieval

import (
	"context"
	"errors"
)

// Retriever returns passages relevant to query, joined into one text. It
// returns "" when nothing is indexed.
type Retriever interface {
	Retrieve(ctx context.Context, query string, maxResults int) (string, error)
}

// RetrieverFunc adapts a function to the Retriever interface.
type RetrieverFunc func(ctx context.Context, query string, maxResults int) (string, error)

func (f RetrieverFunc) Retrieve(ctx context.Context, query string, maxResults int) (string, error) {
	return f(ctx, query, maxResults)
}

// Separator joins retrieved passages.
const Separator = "\n\n---\n\n"

// Sentinel errors for the materials library.
var (
	ErrUnsupportedType = errors.New("unsupported material type")
	ErrInvalidContent  = errors.New("material content is not valid UTF-8 text")
	ErrEmptyFilename   = errors.New("material filename cannot be empty")
)
