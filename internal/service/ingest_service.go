package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/tessellate-ai/ragpipe/internal/ai"
	"github.com/tessellate-ai/ragpipe/internal/chunk"
	"github.com/tessellate-ai/ragpipe/internal/extract"
	"github.com/tessellate-ai/ragpipe/internal/objstore"
	"github.com/tessellate-ai/ragpipe/internal/pkg/errs"
	"github.com/tessellate-ai/ragpipe/internal/vectorstore"
)

// FileStatus classifies the outcome of one file within a batch.
type FileStatus string

const (
	FileOK      FileStatus = "ok"
	FileSkipped FileStatus = "skipped"
	FileFailed  FileStatus = "failed"
)

// FileOutcome is the per-file entry of an ingestion report. Skipped and
// failed files never fail the batch; they only appear here and in the log.
type FileOutcome struct {
	Key    string
	Status FileStatus
	Chunks int
	Err    error
}

// IngestReport summarizes one ingestion call.
type IngestReport struct {
	Collection   string
	FilesListed  int
	ChunksStored int
	Files        []FileOutcome
}

type IngestConfig struct {
	ChunkSize    int
	ChunkOverlap int
	EmbedDim     int
}

// IngestService runs the ingestion path: list tenant files, extract text,
// chunk, embed chunk by chunk, and index everything in one bulk write.
type IngestService struct {
	store    objstore.Store
	embedder ai.IEmbedder
	index    vectorstore.Store
	cfg      IngestConfig
}

func NewIngestService(store objstore.Store, embedder ai.IEmbedder, index vectorstore.Store, cfg IngestConfig) *IngestService {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = chunk.DefaultSize
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = chunk.DefaultOverlap
	}
	return &IngestService{store: store, embedder: embedder, index: index, cfg: cfg}
}

// Ingest processes every stored object under {userID}/{contextID}/{name}.
// File-level failures (unsupported or unreadable formats) skip the file and
// keep going; storage, embedding, and index failures abort the call.
// chunk_index is assigned continuously across all files in listing order,
// and the payload's file_count records the number of files listed, whether
// or not they all yielded text.
func (s *IngestService) Ingest(ctx context.Context, bucket, userID, contextID, name string) (*IngestReport, error) {
	logger := logutil.GetLogger(ctx).With(
		zap.String("bucket", bucket),
		zap.String("user_id", userID),
		zap.String("context_id", contextID),
		zap.String("name", name),
	)

	prefix := fmt.Sprintf("%s/%s/%s", userID, contextID, name)
	objects, err := s.store.List(ctx, bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("list files under %s: %w", prefix, err)
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("%w: no files under prefix %s", errs.ErrNotFound, prefix)
	}

	collection := CollectionName(userID, contextID, len(objects))
	if err := s.index.EnsureCollection(ctx, collection, s.cfg.EmbedDim); err != nil {
		return nil, err
	}
	logger.Info("collection ensured",
		zap.String("collection", collection),
		zap.Int("files", len(objects)),
	)

	report := &IngestReport{
		Collection:  collection,
		FilesListed: len(objects),
	}
	metadata := map[string]any{
		"context_id": contextID,
		"user_id":    userID,
		"file_count": len(objects),
	}

	var points []vectorstore.Point
	chunkIndex := 0
	for _, obj := range objects {
		text, ferr := s.extractOne(ctx, bucket, obj.Key)
		if ferr != nil {
			logger.Warn("file skipped", zap.String("key", obj.Key), zap.Error(ferr))
			report.Files = append(report.Files, FileOutcome{Key: obj.Key, Status: FileFailed, Err: ferr})
			continue
		}
		if text == "" {
			report.Files = append(report.Files, FileOutcome{Key: obj.Key, Status: FileSkipped})
			continue
		}

		chunks := chunk.Split(text, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
		for _, segment := range chunks {
			vector, err := s.embedder.Embed(ctx, segment, "RETRIEVAL_DOCUMENT")
			if err != nil {
				return nil, fmt.Errorf("%w: embed chunk %d of %s: %v", errs.ErrProvider, chunkIndex, obj.Key, err)
			}
			payload := make(map[string]any, len(metadata)+2)
			for k, v := range metadata {
				payload[k] = v
			}
			payload["chunk_index"] = chunkIndex
			payload["text"] = segment
			points = append(points, vectorstore.Point{
				ID:      uuid.NewString(),
				Vector:  vector,
				Payload: payload,
			})
			chunkIndex++
		}
		report.Files = append(report.Files, FileOutcome{Key: obj.Key, Status: FileOK, Chunks: len(chunks)})
	}

	// One bulk write for the whole batch, even when every file was skipped.
	if err := s.index.Upsert(ctx, collection, points); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIndexWrite, err)
	}
	report.ChunksStored = len(points)
	logger.Info("batch indexed",
		zap.String("collection", collection),
		zap.Int("files_listed", report.FilesListed),
		zap.Int("chunks_stored", report.ChunksStored),
	)
	return report, nil
}

// extractOne reads and extracts a single file. Every error it returns is a
// file-level outcome, including storage read errors for that one object.
func (s *IngestService) extractOne(ctx context.Context, bucket, key string) (string, error) {
	data, err := s.store.Get(ctx, bucket, key)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	text, err := extract.Extract(data, key)
	if err != nil {
		return "", err
	}
	return text, nil
}
