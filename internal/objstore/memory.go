package objstore

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// memoryStore keeps objects in process memory. It exists for tests and
// local development; listing order matches S3's lexicographic key order.
type memoryStore struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
}

func init() {
	Register("memory", func(args interface{}) (Store, error) {
		return NewMemory(), nil
	})
}

func NewMemory() Store {
	return &memoryStore{buckets: map[string]map[string][]byte{}}
}

func (m *memoryStore) List(ctx context.Context, bucket, prefix string) ([]Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var objects []Object
	for key, data := range m.buckets[bucket] {
		if strings.HasPrefix(key, prefix) {
			objects = append(objects, Object{Key: key, Size: int64(len(data))})
		}
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

func (m *memoryStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.buckets[bucket][key]
	if !ok {
		return nil, errObjectMissing(bucket, key)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *memoryStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_ = contentType
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.buckets[bucket] == nil {
		m.buckets[bucket] = map[string][]byte{}
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.buckets[bucket][key] = stored
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, bucket string, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.buckets[bucket], key)
	}
	return nil
}

type objectMissingError struct {
	bucket, key string
}

func errObjectMissing(bucket, key string) error {
	return &objectMissingError{bucket: bucket, key: key}
}

func (e *objectMissingError) Error() string {
	return "object not found: " + e.bucket + "/" + e.key
}
