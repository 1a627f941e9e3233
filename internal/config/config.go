package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port          int              `json:"port"`
	LogConfig     logger.LogConfig `json:"log_config"`
	CORSAllowlist []string         `json:"cors_allowlist"`
	ObjectStore   BackendConfig    `json:"object_store"`
	VectorStore   BackendConfig    `json:"vector_store"`
	AI            AIConfig         `json:"ai"`
	Pipeline      PipelineConfig   `json:"pipeline"`
}

// BackendConfig selects a pluggable backend; Data is decoded by the
// chosen implementation.
type BackendConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type AIConfig struct {
	Provider      string      `json:"provider"`
	EmbedProvider string      `json:"embed_provider"`
	ChatModel     string      `json:"chat_model"`
	EmbedModel    string      `json:"embed_model"`
	EmbedDim      int         `json:"embed_dim"`
	Data          interface{} `json:"data"`
}

type PipelineConfig struct {
	ChunkSize        int   `json:"chunk_size"`
	ChunkOverlap     int   `json:"chunk_overlap"`
	TopK             int   `json:"top_k"`
	MaxContextTokens int   `json:"max_context_tokens"`
	MaxUploadMB      int64 `json:"max_upload_mb"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.ObjectStore.Type == "" {
		cfg.ObjectStore.Type = "s3"
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "qdrant"
	}
	if cfg.AI.Provider == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	if cfg.AI.EmbedProvider == "" {
		cfg.AI.EmbedProvider = cfg.AI.Provider
	}
	if cfg.AI.ChatModel == "" {
		cfg.AI.ChatModel = "gpt-4o"
	}
	if cfg.AI.EmbedModel == "" {
		cfg.AI.EmbedModel = "text-embedding-ada-002"
	}
	if cfg.AI.EmbedDim == 0 {
		cfg.AI.EmbedDim = 1536
	}
	if cfg.Pipeline.ChunkSize == 0 {
		cfg.Pipeline.ChunkSize = 1000
	}
	if cfg.Pipeline.ChunkOverlap == 0 {
		cfg.Pipeline.ChunkOverlap = 100
	}
	if cfg.Pipeline.TopK == 0 {
		cfg.Pipeline.TopK = 4
	}
	if cfg.Pipeline.MaxContextTokens == 0 {
		cfg.Pipeline.MaxContextTokens = 7500
	}
	if cfg.Pipeline.MaxUploadMB == 0 {
		cfg.Pipeline.MaxUploadMB = 15
	}
	return &cfg, nil
}
