package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tessellate-ai/ragpipe/internal/pkg/errs"
	"github.com/tessellate-ai/ragpipe/internal/vectorstore"
)

type fakeGenerator struct {
	calls      int
	lastSystem string
	lastPrompt string
	answer     string
	fail       bool
}

func (f *fakeGenerator) Generate(ctx context.Context, system string, prompt string) (string, error) {
	if f.fail {
		return "", errors.New("completion backend down")
	}
	f.calls++
	f.lastSystem = system
	f.lastPrompt = prompt
	return f.answer, nil
}

// axisEmbedder returns a fixed vector regardless of input, so tests can
// steer which stored points rank first.
type axisEmbedder struct {
	vector []float32
}

func (a *axisEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	return a.vector, nil
}

func (a *axisEmbedder) ModelName() string { return "axis-embed" }

func seedCollection(t *testing.T, index vectorstore.Store, name string, points []vectorstore.Point) {
	t.Helper()
	require.NoError(t, index.EnsureCollection(context.Background(), name, 2))
	require.NoError(t, index.Upsert(context.Background(), name, points))
}

func TestAnswer_NoCollectionIsNoContext(t *testing.T) {
	index := vectorstore.NewMemory()
	gen := &fakeGenerator{answer: "should not be used"}
	svc := NewQueryService(&axisEmbedder{vector: []float32{1, 0}}, index, gen, QueryConfig{})

	_, err := svc.Answer(context.Background(), "one_u_c", "what is this?")
	require.ErrorIs(t, err, errs.ErrNoContext)
	require.Equal(t, 0, gen.calls)
}

func TestAnswer_EmptyCollectionIsNoContext(t *testing.T) {
	index := vectorstore.NewMemory()
	seedCollection(t, index, "one_u_c", nil)
	gen := &fakeGenerator{}
	svc := NewQueryService(&axisEmbedder{vector: []float32{1, 0}}, index, gen, QueryConfig{})

	_, err := svc.Answer(context.Background(), "one_u_c", "anything?")
	require.ErrorIs(t, err, errs.ErrNoContext)
	require.Equal(t, 0, gen.calls)
}

func TestAnswer_ContextInRankOrder(t *testing.T) {
	index := vectorstore.NewMemory()
	seedCollection(t, index, "coll_u_c", []vectorstore.Point{
		{ID: "far", Vector: []float32{0, 1}, Payload: map[string]any{"text": "charlie"}},
		{ID: "mid", Vector: []float32{1, 1}, Payload: map[string]any{"text": "bravo"}},
		{ID: "near", Vector: []float32{1, 0}, Payload: map[string]any{"text": "alpha"}},
	})
	gen := &fakeGenerator{answer: "done"}
	svc := NewQueryService(&axisEmbedder{vector: []float32{1, 0}}, index, gen, QueryConfig{})

	answer, err := svc.Answer(context.Background(), "coll_u_c", "which order?")
	require.NoError(t, err)
	require.Equal(t, "done", answer)
	require.Equal(t, "which order?", gen.lastPrompt)
	require.Contains(t, gen.lastSystem, "alpha bravo charlie")
}

func TestAnswer_MissingTextGetsPlaceholder(t *testing.T) {
	index := vectorstore.NewMemory()
	seedCollection(t, index, "coll_u_c", []vectorstore.Point{
		{ID: "p", Vector: []float32{1, 0}, Payload: map[string]any{"chunk_index": 0}},
	})
	gen := &fakeGenerator{answer: "ok"}
	svc := NewQueryService(&axisEmbedder{vector: []float32{1, 0}}, index, gen, QueryConfig{})

	_, err := svc.Answer(context.Background(), "coll_u_c", "q")
	require.NoError(t, err)
	require.Contains(t, gen.lastSystem, "No text found")
}

func TestAnswer_ContextTruncatedToTokenBudget(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("tok ", 50))
	index := vectorstore.NewMemory()
	seedCollection(t, index, "coll_u_c", []vectorstore.Point{
		{ID: "p", Vector: []float32{1, 0}, Payload: map[string]any{"text": long}},
	})
	gen := &fakeGenerator{answer: "ok"}
	svc := NewQueryService(&axisEmbedder{vector: []float32{1, 0}}, index, gen, QueryConfig{MaxContextTokens: 7})

	_, err := svc.Answer(context.Background(), "coll_u_c", "q")
	require.NoError(t, err)
	context := strings.TrimPrefix(gen.lastSystem, strings.Split(systemPrompt, "%s")[0])
	require.Len(t, strings.Fields(context), 7)
}

func TestAnswer_TopKLimitsResults(t *testing.T) {
	index := vectorstore.NewMemory()
	points := make([]vectorstore.Point, 6)
	for i := range points {
		points[i] = vectorstore.Point{
			ID:      string(rune('a' + i)),
			Vector:  []float32{1, float32(i)},
			Payload: map[string]any{"text": "t"},
		}
	}
	seedCollection(t, index, "coll_u_c", points)
	gen := &fakeGenerator{answer: "ok"}
	svc := NewQueryService(&axisEmbedder{vector: []float32{1, 0}}, index, gen, QueryConfig{TopK: 2})

	_, err := svc.Answer(context.Background(), "coll_u_c", "q")
	require.NoError(t, err)
	context := strings.TrimPrefix(gen.lastSystem, strings.Split(systemPrompt, "%s")[0])
	require.Len(t, strings.Fields(context), 2)
}

func TestAnswer_ProviderFailureWrapped(t *testing.T) {
	index := vectorstore.NewMemory()
	seedCollection(t, index, "coll_u_c", []vectorstore.Point{
		{ID: "p", Vector: []float32{1, 0}, Payload: map[string]any{"text": "something"}},
	})
	gen := &fakeGenerator{fail: true}
	svc := NewQueryService(&axisEmbedder{vector: []float32{1, 0}}, index, gen, QueryConfig{})

	_, err := svc.Answer(context.Background(), "coll_u_c", "q")
	require.ErrorIs(t, err, errs.ErrProvider)
	require.False(t, errs.IsNotFound(err))
}

func TestAnswer_CachedOnRepeat(t *testing.T) {
	index := vectorstore.NewMemory()
	seedCollection(t, index, "coll_u_c", []vectorstore.Point{
		{ID: "p", Vector: []float32{1, 0}, Payload: map[string]any{"text": "cached context"}},
	})
	gen := &fakeGenerator{answer: "the answer"}
	svc := NewQueryService(&axisEmbedder{vector: []float32{1, 0}}, index, gen, QueryConfig{})

	first, err := svc.Answer(context.Background(), "coll_u_c", "same question")
	require.NoError(t, err)
	second, err := svc.Answer(context.Background(), "coll_u_c", "same question")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, gen.calls)
}
