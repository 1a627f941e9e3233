// Package vectorstore is the vector index collaborator. A collection is a
// named partition of embeddings; the collection name is the only join key
// between ingestion and retrieval, so callers must present at query time
// exactly the name that ingestion used.
package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Point is one (vector, payload) pair. The payload always carries enough
// text to rebuild context at query time.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// SearchResult is one ranked hit; higher score means more similar.
type SearchResult struct {
	ID      string
	Score   float32
	Payload map[string]any
}

type Store interface {
	// EnsureCollection makes the named collection exist with the given
	// dimensionality and cosine metric. Creation is idempotent: losing a
	// create race to a concurrent caller is not an error. An unreachable
	// backend surfaces as errs.ErrIndexUnavailable.
	EnsureCollection(ctx context.Context, name string, dim int) error

	// Upsert writes points in one bulk call. An empty batch is a no-op.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search returns up to limit points ranked by decreasing similarity.
	Search(ctx context.Context, collection string, vector []float32, limit int) ([]SearchResult, error)
}

type Factory func(args interface{}) (Store, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func New(typ string, args interface{}) (Store, error) {
	key := strings.ToLower(strings.TrimSpace(typ))
	if key == "" {
		return nil, fmt.Errorf("vector_store.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported vector store type: %s", typ)
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("store config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode store config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode store config: %w", err)
	}
	return nil
}
