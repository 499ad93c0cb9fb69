package ports

import (
	"context"
	"io"

	"github.com/ndmitriev/docqa/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SetChunkCount(ctx context.Context, id string, count int) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// DocumentLoader extracts plain text from a stored document.
type DocumentLoader interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// Embedder builds vectors for chunks and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Chunker splits text into overlapping chunks for indexing.
type Chunker interface {
	Split(text string) []string
}

// VectorStore indexes chunks and serves nearest-neighbor and scroll reads.
type VectorStore interface {
	UpsertChunks(ctx context.Context, doc *domain.Document, chunks []string, vectors [][]float32) error
	Search(ctx context.Context, queryVector []float32, limit int) ([]domain.Candidate, error)
	Scroll(ctx context.Context, limit int) ([]domain.Candidate, error)
}

// AnswerGenerator produces text from a prompt under a system instruction.
type AnswerGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// ToolRunner is a pluggable slot for the router strategy's non-retrieval
// tools (SQL, API). Implementations here are simulated.
type ToolRunner interface {
	Run(ctx context.Context, question string) (string, error)
}
