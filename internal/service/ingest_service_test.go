package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tessellate-ai/ragpipe/internal/objstore"
	"github.com/tessellate-ai/ragpipe/internal/pkg/errs"
	"github.com/tessellate-ai/ragpipe/internal/vectorstore"
)

type fakeEmbedder struct {
	dim   int
	calls int
	fail  bool
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if f.fail {
		return nil, errors.New("embedding backend down")
	}
	f.calls++
	v := make([]float32, f.dim)
	v[0] = float32(len(text) + 1)
	return v, nil
}

func (f *fakeEmbedder) ModelName() string { return "fake-embed" }

func newIngestFixture(t *testing.T, dim int) (*IngestService, objstore.Store, vectorstore.Store, *fakeEmbedder) {
	t.Helper()
	store := objstore.NewMemory()
	index := vectorstore.NewMemory()
	embedder := &fakeEmbedder{dim: dim}
	svc := NewIngestService(store, embedder, index, IngestConfig{
		ChunkSize:    50,
		ChunkOverlap: 10,
		EmbedDim:     dim,
	})
	return svc, store, index, embedder
}

func put(t *testing.T, store objstore.Store, bucket, key, content string) {
	t.Helper()
	require.NoError(t, store.Put(context.Background(), bucket, key, []byte(content), ""))
}

func allPoints(t *testing.T, index vectorstore.Store, collection string, dim int) []vectorstore.SearchResult {
	t.Helper()
	probe := make([]float32, dim)
	probe[0] = 1
	results, err := index.Search(context.Background(), collection, probe, 10000)
	require.NoError(t, err)
	return results
}

func TestIngest_EmptyPrefixIsNotFound(t *testing.T) {
	svc, _, index, _ := newIngestFixture(t, 4)
	_, err := svc.Ingest(context.Background(), "b", "u", "c", "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)

	// no collection was created for either identity
	for _, name := range []string{"one_u_c", "coll_u_c"} {
		err := index.Upsert(context.Background(), name, []vectorstore.Point{{ID: "x", Vector: make([]float32, 4)}})
		require.Error(t, err)
	}
}

func TestIngest_SingleFileRoutesToOneCollection(t *testing.T) {
	svc, store, _, _ := newIngestFixture(t, 4)
	put(t, store, "b", "u/c/batch/doc.md", "# Title\n\nhello world from a markdown file")

	report, err := svc.Ingest(context.Background(), "b", "u", "c", "batch")
	require.NoError(t, err)
	require.Equal(t, "one_u_c", report.Collection)
	require.Equal(t, 1, report.FilesListed)
	require.Greater(t, report.ChunksStored, 0)
}

func TestIngest_MultiFileRoutesToSharedCollection(t *testing.T) {
	svc, store, _, _ := newIngestFixture(t, 4)
	put(t, store, "b", "u/c/batch/a.md", "alpha document body")
	put(t, store, "b", "u/c/batch/b.md", "bravo document body")

	report, err := svc.Ingest(context.Background(), "b", "u", "c", "batch")
	require.NoError(t, err)
	require.Equal(t, "coll_u_c", report.Collection)
	require.Equal(t, 2, report.FilesListed)
}

func TestIngest_ChunkIndexContiguousAcrossFiles(t *testing.T) {
	svc, store, index, _ := newIngestFixture(t, 4)
	// long enough to force several chunks per file at size 50
	put(t, store, "b", "u/c/batch/a.csv", "col\n"+"first file row content padding padding padding\n"+
		"more rows to push this file past a single chunk boundary\n")
	put(t, store, "b", "u/c/batch/b.csv", "col\n"+"second file row content padding padding padding\n"+
		"and again enough text to take several windows in total\n")

	report, err := svc.Ingest(context.Background(), "b", "u", "c", "batch")
	require.NoError(t, err)
	require.Greater(t, report.ChunksStored, 2)

	results := allPoints(t, index, report.Collection, 4)
	require.Len(t, results, report.ChunksStored)

	indexes := make([]int, 0, len(results))
	for _, r := range results {
		idx, ok := r.Payload["chunk_index"].(int)
		require.True(t, ok)
		indexes = append(indexes, idx)
		require.Equal(t, "u", r.Payload["user_id"])
		require.Equal(t, "c", r.Payload["context_id"])
		require.Equal(t, 2, r.Payload["file_count"])
		text, ok := r.Payload["text"].(string)
		require.True(t, ok)
		require.NotEmpty(t, text)
	}
	sort.Ints(indexes)
	for want, got := range indexes {
		require.Equal(t, want, got)
	}
}

func TestIngest_UnsupportedFilesSkippedButCounted(t *testing.T) {
	svc, store, index, _ := newIngestFixture(t, 4)
	put(t, store, "b", "u/c/batch/a.md", "supported markdown content")
	put(t, store, "b", "u/c/batch/blob.bin", "\x00\x01\x02")

	report, err := svc.Ingest(context.Background(), "b", "u", "c", "batch")
	require.NoError(t, err)
	require.Equal(t, 2, report.FilesListed)
	require.Len(t, report.Files, 2)

	statuses := map[string]FileStatus{}
	for _, f := range report.Files {
		statuses[f.Key] = f.Status
	}
	require.Equal(t, FileOK, statuses["u/c/batch/a.md"])
	require.Equal(t, FileFailed, statuses["u/c/batch/blob.bin"])

	// file_count records files listed, not files embedded
	for _, r := range allPoints(t, index, report.Collection, 4) {
		require.Equal(t, 2, r.Payload["file_count"])
	}
}

func TestIngest_AllFilesFailedStillCreatesCollection(t *testing.T) {
	svc, store, index, embedder := newIngestFixture(t, 4)
	put(t, store, "b", "u/c/batch/a.bin", "junk")
	put(t, store, "b", "u/c/batch/b.bin", "junk")

	report, err := svc.Ingest(context.Background(), "b", "u", "c", "batch")
	require.NoError(t, err)
	require.Equal(t, 0, report.ChunksStored)
	require.Equal(t, 0, embedder.calls)

	// the collection exists even though the bulk write was empty
	err = index.Upsert(context.Background(), report.Collection, []vectorstore.Point{
		{ID: "probe", Vector: make([]float32, 4)},
	})
	require.NoError(t, err)
}

func TestIngest_EmbeddingFailureIsFatal(t *testing.T) {
	svc, store, _, embedder := newIngestFixture(t, 4)
	embedder.fail = true
	put(t, store, "b", "u/c/batch/a.md", "content that would need embedding")

	_, err := svc.Ingest(context.Background(), "b", "u", "c", "batch")
	require.ErrorIs(t, err, errs.ErrProvider)
}
