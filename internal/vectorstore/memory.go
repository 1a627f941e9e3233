package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// memoryStore ranks points by exact cosine similarity. It backs tests and
// local development; collections live only as long as the process.
type memoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	dim    int
	points []Point
}

func init() {
	Register("memory", func(args interface{}) (Store, error) {
		return NewMemory(), nil
	})
}

func NewMemory() Store {
	return &memoryStore{collections: map[string]*memoryCollection{}}
}

func (m *memoryStore) EnsureCollection(ctx context.Context, name string, dim int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[name]; ok {
		return nil
	}
	m.collections[name] = &memoryCollection{dim: dim}
	return nil
}

func (m *memoryStore) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	coll, ok := m.collections[collection]
	if !ok {
		return fmt.Errorf("collection %s does not exist", collection)
	}
	for _, p := range points {
		if len(p.Vector) != coll.dim {
			return fmt.Errorf("point %s has dimension %d, collection wants %d", p.ID, len(p.Vector), coll.dim)
		}
	}
	coll.points = append(coll.points, points...)
	return nil
}

func (m *memoryStore) Search(ctx context.Context, collection string, vector []float32, limit int) ([]SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coll, ok := m.collections[collection]
	if !ok {
		// Missing collection means no retrievable context, same as qdrant.
		return nil, nil
	}
	results := make([]SearchResult, 0, len(coll.points))
	for _, p := range coll.points {
		results = append(results, SearchResult{
			ID:      p.ID,
			Score:   cosineSimilarity(vector, p.Vector),
			Payload: p.Payload,
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
