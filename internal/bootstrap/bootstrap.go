package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ndmitriev/docqa/internal/config"
	"github.com/ndmitriev/docqa/internal/core/ports"
	"github.com/ndmitriev/docqa/internal/core/usecase"
	"github.com/ndmitriev/docqa/internal/infrastructure/chunking"
	"github.com/ndmitriev/docqa/internal/infrastructure/llm/ollama"
	"github.com/ndmitriev/docqa/internal/infrastructure/loader"
	"github.com/ndmitriev/docqa/internal/infrastructure/queue/nats"
	"github.com/ndmitriev/docqa/internal/infrastructure/repository/postgres"
	"github.com/ndmitriev/docqa/internal/infrastructure/resilience"
	"github.com/ndmitriev/docqa/internal/infrastructure/storage/localfs"
	"github.com/ndmitriev/docqa/internal/infrastructure/tools"
	"github.com/ndmitriev/docqa/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue     ports.MessageQueue
	Repo      ports.DocumentRepository
	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	QueryUC   ports.QueryService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	ollamaClient := ollama.NewWithOptions(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, ollama.Options{
		ResilienceExecutor: executor,
	})
	embedder := ollama.NewEmbedder(ollamaClient)
	generator := ollama.NewGenerator(ollamaClient)

	vectorDB := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	docLoader := loader.New(storage)

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, docLoader, chunker, embedder, vectorDB, cfg.EmbedBatchSize)
	queryUC := usecase.NewQueryUseCase(usecase.StrategyDeps{
		Embedder:  embedder,
		VectorDB:  vectorDB,
		Generator: generator,
		SQLTool:   tools.NewSimulatedSQLTool(),
		APITool:   tools.NewSimulatedAPITool(),
		Logger:    logger,
		Options: usecase.RetrievalOptions{
			TopK:             cfg.RAGTopK,
			MinRelevance:     cfg.RAGMinRelevance,
			ScoreGap:         cfg.RAGScoreGap,
			Rerank:           cfg.RAGRerank,
			Alpha:            cfg.RAGAlpha,
			KeywordScanLimit: cfg.RAGKeywordScanLimit,
		},
	})

	return &App{
		Config: cfg,
		Logger: logger,
		Queue:  queue,
		Repo:   repo,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		QueryUC:   queryUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
