package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tessellate-ai/ragpipe/internal/pkg/errs"
)

type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant error (status %d): %s", e.status, e.body)
}

// qdrantStore talks to Qdrant's REST API directly.
type qdrantStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type qdrantConfig struct {
	BaseURL        string `json:"base_url"`
	APIKey         string `json:"api_key"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

func init() {
	Register("qdrant", createQdrantStore)
}

func createQdrantStore(args interface{}) (Store, error) {
	cfg := &qdrantConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:6333"
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &qdrantStore{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (s *qdrantStore) EnsureCollection(ctx context.Context, name string, dim int) error {
	exists, err := s.collectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIndexUnavailable, err)
	}
	if exists {
		return nil
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dim,
			"distance": "Cosine",
		},
	}
	if _, err := s.doRequest(ctx, http.MethodPut, "/collections/"+name, body); err != nil {
		// A concurrent caller may have won the create race; re-check
		// before treating the failure as real.
		if exists, checkErr := s.collectionExists(ctx, name); checkErr == nil && exists {
			return nil
		}
		return fmt.Errorf("create collection %s: %w", name, err)
	}
	return nil
}

func (s *qdrantStore) collectionExists(ctx context.Context, name string) (bool, error) {
	resp, err := s.doRequest(ctx, http.MethodGet, "/collections", nil)
	if err != nil {
		return false, err
	}
	result, ok := resp["result"].(map[string]any)
	if !ok {
		return false, fmt.Errorf("unexpected collections response")
	}
	entries, _ := result["collections"].([]any)
	for _, entry := range entries {
		if m, ok := entry.(map[string]any); ok {
			if n, _ := m["name"].(string); n == name {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *qdrantStore) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	qdrantPoints := make([]map[string]any, len(points))
	for i, p := range points {
		qdrantPoints[i] = map[string]any{
			"id":      p.ID,
			"vector":  p.Vector,
			"payload": p.Payload,
		}
	}
	body := map[string]any{"points": qdrantPoints}
	_, err := s.doRequest(ctx, http.MethodPut, "/collections/"+collection+"/points?wait=true", body)
	return err
}

func (s *qdrantStore) Search(ctx context.Context, collection string, vector []float32, limit int) ([]SearchResult, error) {
	body := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	resp, err := s.doRequest(ctx, http.MethodPost, "/collections/"+collection+"/points/search", body)
	if err != nil {
		// A missing collection ranks as "no retrievable context", not a
		// transport failure.
		var se *statusError
		if errors.As(err, &se) && se.status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	resultsRaw, ok := resp["result"].([]any)
	if !ok {
		return nil, nil
	}
	results := make([]SearchResult, 0, len(resultsRaw))
	for _, raw := range resultsRaw {
		rm, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		result := SearchResult{}
		switch id := rm["id"].(type) {
		case string:
			result.ID = id
		case float64:
			result.ID = fmt.Sprintf("%d", int64(id))
		}
		if score, ok := rm["score"].(float64); ok {
			result.Score = float32(score)
		}
		if payload, ok := rm["payload"].(map[string]any); ok {
			result.Payload = payload
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *qdrantStore) doRequest(ctx context.Context, method, path string, body any) (map[string]any, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &statusError{status: resp.StatusCode, body: string(respBody)}
	}
	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}
