package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/ndmitriev/docqa/internal/core/domain"
	"github.com/ndmitriev/docqa/internal/core/ports"
)

const defaultEmbedBatchSize = 16

// ProcessDocumentUseCase turns an uploaded document into indexed chunks:
// extract text, split, embed in batches, upsert into the vector store.
type ProcessDocumentUseCase struct {
	repo      ports.DocumentRepository
	loader    ports.DocumentLoader
	chunker   ports.Chunker
	embedder  ports.Embedder
	vectorDB  ports.VectorStore
	batchSize int
	limiter   *rate.Limiter
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	loader ports.DocumentLoader,
	chunker ports.Chunker,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
	batchSize int,
) *ProcessDocumentUseCase {
	if batchSize <= 0 {
		batchSize = defaultEmbedBatchSize
	}
	return &ProcessDocumentUseCase{
		repo:      repo,
		loader:    loader,
		chunker:   chunker,
		embedder:  embedder,
		vectorDB:  vectorDB,
		batchSize: batchSize,
		// One embedding batch per 100ms keeps the embedding service from
		// being flooded during large ingests.
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	chunkCount, err := uc.pipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, documentID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SetChunkCount(ctx, documentID, chunkCount); err != nil {
		return fmt.Errorf("save chunk count: %w", err)
	}
	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) pipeline(ctx context.Context, documentID string) (int, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return 0, fmt.Errorf("fetch document by id: %w", err)
	}

	text, err := uc.loader.Extract(ctx, doc)
	if err != nil {
		return 0, fmt.Errorf("extract text: %w", err)
	}
	if text == "" {
		return 0, domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("empty extracted text"))
	}

	chunks := uc.chunker.Split(text)
	if len(chunks) == 0 {
		return 0, domain.WrapError(domain.ErrInvalidInput, "chunk document", errors.New("chunking produced zero chunks"))
	}

	vectors, err := uc.embedChunks(ctx, chunks)
	if err != nil {
		return 0, err
	}

	if err := uc.vectorDB.UpsertChunks(ctx, doc, chunks, vectors); err != nil {
		return 0, domain.WrapError(domain.ErrIndex, "upsert chunks", err)
	}
	return len(chunks), nil
}

func (uc *ProcessDocumentUseCase) embedChunks(ctx context.Context, chunks []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += uc.batchSize {
		if err := uc.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("embed batch rate limit: %w", err)
		}

		end := start + uc.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch, err := uc.embedder.Embed(ctx, chunks[start:end])
		if err != nil {
			return nil, domain.WrapError(domain.ErrEmbedding, "embed chunks", err)
		}
		vectors = append(vectors, batch...)
	}

	if len(vectors) != len(chunks) {
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"embed chunks",
			fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks)),
		)
	}
	return vectors, nil
}
