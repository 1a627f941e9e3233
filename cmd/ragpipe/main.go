package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/tessellate-ai/ragpipe/internal/ai"
	"github.com/tessellate-ai/ragpipe/internal/config"
	"github.com/tessellate-ai/ragpipe/internal/handler"
	"github.com/tessellate-ai/ragpipe/internal/middleware"
	"github.com/tessellate-ai/ragpipe/internal/objstore"
	"github.com/tessellate-ai/ragpipe/internal/service"
	"github.com/tessellate-ai/ragpipe/internal/vectorstore"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "ragpipe",
		Short: "ragpipe ingestion and retrieval server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run ragpipe server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
			return runServer(cfg)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("object_store", cfg.ObjectStore.Type),
		zap.String("vector_store", cfg.VectorStore.Type),
		zap.String("ai_provider", cfg.AI.Provider),
	)

	store, err := objstore.New(cfg.ObjectStore.Type, cfg.ObjectStore.Data)
	if err != nil {
		return fmt.Errorf("init object store: %w", err)
	}
	index, err := vectorstore.New(cfg.VectorStore.Type, cfg.VectorStore.Data)
	if err != nil {
		return fmt.Errorf("init vector store: %w", err)
	}
	chatProvider, err := ai.NewChatProvider(cfg.AI.Provider, cfg.AI.Data)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	embedProvider, err := ai.NewEmbedProvider(cfg.AI.EmbedProvider, cfg.AI.Data)
	if err != nil {
		return fmt.Errorf("init ai embed provider: %w", err)
	}
	generator := ai.NewGenerator(chatProvider, cfg.AI.ChatModel)
	embedder := ai.NewEmbedder(embedProvider, cfg.AI.EmbedModel)

	uploadService := service.NewUploadService(store, cfg.Pipeline.MaxUploadMB<<20)
	ingestService := service.NewIngestService(store, embedder, index, service.IngestConfig{
		ChunkSize:    cfg.Pipeline.ChunkSize,
		ChunkOverlap: cfg.Pipeline.ChunkOverlap,
		EmbedDim:     cfg.AI.EmbedDim,
	})
	queryService := service.NewQueryService(embedder, index, generator, service.QueryConfig{
		TopK:             cfg.Pipeline.TopK,
		MaxContextTokens: cfg.Pipeline.MaxContextTokens,
	})

	deps := handler.RouterDeps{
		Upload: handler.NewUploadHandler(uploadService),
		Ingest: handler.NewIngestHandler(ingestService),
		Query:  handler.NewQueryHandler(queryService),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
