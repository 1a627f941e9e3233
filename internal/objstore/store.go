// Package objstore is the tenant-scoped object storage collaborator.
// Keys follow the {user_id}/{context_id}/{name}/{file_name} convention and
// every implementation must preserve raw prefix matching on them: listing
// and deletion both depend on it.
package objstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Object is one stored document.
type Object struct {
	Key  string
	Size int64
}

type Store interface {
	// List returns every object whose key starts with prefix, in key order.
	List(ctx context.Context, bucket, prefix string) ([]Object, error)

	// Get reads one object in full.
	Get(ctx context.Context, bucket, key string) ([]byte, error)

	// Put writes one object, overwriting any previous content.
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, bucket string, keys []string) error
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
		return nil, fmt.Errorf("object_store.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported object store type: %s", typ)
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
