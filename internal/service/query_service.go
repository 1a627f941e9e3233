package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/tessellate-ai/ragpipe/internal/ai"
	"github.com/tessellate-ai/ragpipe/internal/chunk"
	"github.com/tessellate-ai/ragpipe/internal/pkg/errs"
	"github.com/tessellate-ai/ragpipe/internal/vectorstore"
)

// systemPrompt restricts the completion model to the retrieved context.
const systemPrompt = "You are an advanced AI assistant. Use only the provided context to answer the question. #Context#: %s"

// missingTextPlaceholder substitutes for a result payload without a text
// field; retrieval keeps going rather than failing on one bad point.
const missingTextPlaceholder = "No text found"

const (
	DefaultTopK             = 4
	DefaultMaxContextTokens = 7500

	answerCacheSize = 10000
	answerCacheTTL  = 2 * time.Hour
)

type QueryConfig struct {
	TopK             int
	MaxContextTokens int
}

// QueryService runs the query path: embed the question, search the named
// collection, assemble a bounded context, and request one completion.
type QueryService struct {
	embedder  ai.IEmbedder
	index     vectorstore.Store
	generator ai.IGenerator
	cfg       QueryConfig
	cache     *expirable.LRU[string, string]
}

func NewQueryService(embedder ai.IEmbedder, index vectorstore.Store, generator ai.IGenerator, cfg QueryConfig) *QueryService {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.MaxContextTokens <= 0 {
		cfg.MaxContextTokens = DefaultMaxContextTokens
	}
	return &QueryService{
		embedder:  embedder,
		index:     index,
		generator: generator,
		cfg:       cfg,
		cache:     expirable.NewLRU[string, string](answerCacheSize, nil, answerCacheTTL),
	}
}

// Answer produces a grounded answer for question against collection. It
// returns errs.ErrNoContext when nothing retrievable exists; the completion
// provider is never called in that case. The caller must pass the exact
// collection identity used at ingestion time, and the configured embedding
// model must match the one the collection was built with.
func (s *QueryService) Answer(ctx context.Context, collection, question string) (string, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("collection", collection))

	cacheKey := s.cacheKey(collection, question)
	if cached, ok := s.cache.Get(cacheKey); ok {
		logger.Debug("answer served from cache")
		return cached, nil
	}

	vector, err := s.embedder.Embed(ctx, question, "RETRIEVAL_QUERY")
	if err != nil {
		return "", fmt.Errorf("%w: embed question: %v", errs.ErrProvider, err)
	}

	results, err := s.index.Search(ctx, collection, vector, s.cfg.TopK)
	if err != nil {
		return "", fmt.Errorf("search collection %s: %w", collection, err)
	}

	contextText := s.assembleContext(results)
	if contextText == "" {
		return "", fmt.Errorf("%w: collection %s", errs.ErrNoContext, collection)
	}
	logger.Debug("context assembled",
		zap.Int("results", len(results)),
		zap.Int("context_len", len(contextText)),
	)

	answer, err := s.generator.Generate(ctx, fmt.Sprintf(systemPrompt, contextText), question)
	if err != nil {
		return "", fmt.Errorf("%w: completion: %v", errs.ErrProvider, err)
	}
	s.cache.Add(cacheKey, answer)
	return answer, nil
}

// assembleContext concatenates result text in rank order and truncates to
// the token budget. Rank order is significant: truncation keeps the most
// relevant passages.
func (s *QueryService) assembleContext(results []vectorstore.SearchResult) string {
	parts := make([]string, 0, len(results))
	for _, result := range results {
		text, ok := result.Payload["text"].(string)
		if !ok {
			text = missingTextPlaceholder
		}
		parts = append(parts, text)
	}
	joined := strings.TrimSpace(strings.Join(parts, " "))
	return chunk.TruncateTokens(joined, s.cfg.MaxContextTokens)
}

func (s *QueryService) cacheKey(collection, question string) string {
	sum := sha256.Sum256([]byte(collection + "\x00" + question))
	return hex.EncodeToString(sum[:])
}
