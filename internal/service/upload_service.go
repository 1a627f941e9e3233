package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/tessellate-ai/ragpipe/internal/objstore"
	"github.com/tessellate-ai/ragpipe/internal/pkg/errs"
)

// DefaultMaxUploadBytes caps the combined decoded size of one upload call.
const DefaultMaxUploadBytes = 15 << 20

// UploadFile is one file of an upload request, content base64-encoded.
type UploadFile struct {
	FileName    string `json:"file_name"`
	FileContent string `json:"file_content"`
}

// UploadedFile echoes where one file landed.
type UploadedFile struct {
	FileName string `json:"file_name"`
	FileKey  string `json:"file_key"`
	Status   string `json:"status"`
}

// UploadService is the tenant upload/delete collaborator in front of the
// object store. It is not part of the RAG core but owns the key convention
// both pipelines depend on.
type UploadService struct {
	store         objstore.Store
	maxTotalBytes int64
}

func NewUploadService(store objstore.Store, maxTotalBytes int64) *UploadService {
	if maxTotalBytes <= 0 {
		maxTotalBytes = DefaultMaxUploadBytes
	}
	return &UploadService{store: store, maxTotalBytes: maxTotalBytes}
}

// Upload decodes and stores every file under {userID}/{contextID}/{name}/.
// The combined decoded size is checked against the ceiling before anything
// is written, so an oversized batch leaves no partial state behind.
func (s *UploadService) Upload(ctx context.Context, bucket, userID, contextID, name string, files []UploadFile) ([]UploadedFile, error) {
	logger := logutil.GetLogger(ctx).With(
		zap.String("bucket", bucket),
		zap.String("user_id", userID),
		zap.String("context_id", contextID),
	)

	decoded := make([][]byte, len(files))
	var total int64
	for i, file := range files {
		if file.FileName == "" {
			return nil, fmt.Errorf("%w: file_name is required for every file", errs.ErrInvalid)
		}
		data, err := base64.StdEncoding.DecodeString(file.FileContent)
		if err != nil {
			return nil, fmt.Errorf("%w: file_content of %s is not valid base64", errs.ErrInvalid, file.FileName)
		}
		decoded[i] = data
		total += int64(len(data))
	}
	if total > s.maxTotalBytes {
		return nil, fmt.Errorf("%w: total file content exceeds %d MB limit", errs.ErrInvalid, s.maxTotalBytes>>20)
	}

	uploaded := make([]UploadedFile, 0, len(files))
	for i, file := range files {
		key := fmt.Sprintf("%s/%s/%s/%s", userID, contextID, name, file.FileName)
		contentType := mime.TypeByExtension(filepath.Ext(file.FileName))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		if err := s.store.Put(ctx, bucket, key, decoded[i], contentType); err != nil {
			return nil, fmt.Errorf("store %s: %w", key, err)
		}
		uploaded = append(uploaded, UploadedFile{FileName: file.FileName, FileKey: key, Status: "uploaded"})
	}
	logger.Info("files uploaded", zap.Int("count", len(uploaded)), zap.Int64("bytes", total))
	return uploaded, nil
}

// DeleteContext removes every object under {userID}/{contextID}/ no matter
// which batch name it was uploaded with. Returns the number of objects
// removed, or errs.ErrNotFound when the prefix was already empty.
func (s *UploadService) DeleteContext(ctx context.Context, bucket, userID, contextID string) (int, error) {
	prefix := fmt.Sprintf("%s/%s/", userID, contextID)
	objects, err := s.store.List(ctx, bucket, prefix)
	if err != nil {
		return 0, fmt.Errorf("list context %s: %w", prefix, err)
	}
	if len(objects) == 0 {
		return 0, fmt.Errorf("%w: no files under %s", errs.ErrNotFound, prefix)
	}
	keys := make([]string, len(objects))
	for i, obj := range objects {
		keys[i] = obj.Key
	}
	if err := s.store.Delete(ctx, bucket, keys); err != nil {
		return 0, fmt.Errorf("delete context %s: %w", prefix, err)
	}
	logutil.GetLogger(ctx).Info("context deleted",
		zap.String("prefix", prefix),
		zap.Int("objects", len(keys)),
	)
	return len(keys), nil
}
