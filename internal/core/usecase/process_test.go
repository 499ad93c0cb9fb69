package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ndmitriev/docqa/internal/core/domain"
)

type processRepoFake struct {
	doc        *domain.Document
	statuses   []domain.DocumentStatus
	lastError  string
	chunkCount int
	getErr     error
}

func (f *processRepoFake) Create(context.Context, *domain.Document) error { return nil }

func (f *processRepoFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.doc, nil
}

func (f *processRepoFake) UpdateStatus(_ context.Context, _ string, status domain.DocumentStatus, errMessage string) error {
	f.statuses = append(f.statuses, status)
	f.lastError = errMessage
	return nil
}

func (f *processRepoFake) SetChunkCount(_ context.Context, _ string, count int) error {
	f.chunkCount = count
	return nil
}

type processLoaderFake struct {
	text string
	err  error
}

func (f *processLoaderFake) Extract(context.Context, *domain.Document) (string, error) {
	return f.text, f.err
}

type processChunkerFake struct {
	chunks []string
}

func (f *processChunkerFake) Split(string) []string { return f.chunks }

type processVectorFake struct {
	upsertedChunks []string
	err            error
}

func (f *processVectorFake) UpsertChunks(_ context.Context, _ *domain.Document, chunks []string, vectors [][]float32) error {
	if f.err != nil {
		return f.err
	}
	if len(chunks) != len(vectors) {
		return errors.New("chunks/vectors mismatch")
	}
	f.upsertedChunks = chunks
	return nil
}

func (f *processVectorFake) Search(context.Context, []float32, int) ([]domain.Candidate, error) {
	return nil, nil
}

func (f *processVectorFake) Scroll(context.Context, int) ([]domain.Candidate, error) {
	return nil, nil
}

func processDoc() *domain.Document {
	return &domain.Document{ID: "doc-1", Filename: "report.txt", Status: domain.StatusUploaded}
}

func TestProcessByIDHappyPath(t *testing.T) {
	repo := &processRepoFake{doc: processDoc()}
	vector := &processVectorFake{}
	uc := NewProcessDocumentUseCase(
		repo,
		&processLoaderFake{text: "long extracted text"},
		&processChunkerFake{chunks: []string{"chunk one", "chunk two"}},
		&stubEmbedder{},
		vector,
		0,
	)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}

	wantStatuses := []domain.DocumentStatus{domain.StatusProcessing, domain.StatusReady}
	if len(repo.statuses) != len(wantStatuses) {
		t.Fatalf("expected statuses %v, got %v", wantStatuses, repo.statuses)
	}
	for i := range wantStatuses {
		if repo.statuses[i] != wantStatuses[i] {
			t.Fatalf("expected status %s at step %d, got %s", wantStatuses[i], i, repo.statuses[i])
		}
	}
	if repo.chunkCount != 2 {
		t.Fatalf("expected chunk count 2, got %d", repo.chunkCount)
	}
	if len(vector.upsertedChunks) != 2 {
		t.Fatalf("expected 2 upserted chunks, got %d", len(vector.upsertedChunks))
	}
}

func TestProcessByIDEmptyExtractedText(t *testing.T) {
	repo := &processRepoFake{doc: processDoc()}
	uc := NewProcessDocumentUseCase(
		repo,
		&processLoaderFake{text: ""},
		&processChunkerFake{},
		&stubEmbedder{},
		&processVectorFake{},
		0,
	)

	err := uc.ProcessByID(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	last := repo.statuses[len(repo.statuses)-1]
	if last != domain.StatusFailed {
		t.Fatalf("expected document marked failed, got %s", last)
	}
	if repo.lastError == "" {
		t.Fatalf("expected failure reason recorded")
	}
}

func TestProcessByIDEmbedErrorMarksFailed(t *testing.T) {
	repo := &processRepoFake{doc: processDoc()}
	uc := NewProcessDocumentUseCase(
		repo,
		&processLoaderFake{text: "text"},
		&processChunkerFake{chunks: []string{"chunk"}},
		&stubEmbedder{embedErr: errors.New("ollama down")},
		&processVectorFake{},
		0,
	)

	err := uc.ProcessByID(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrEmbedding) {
		t.Fatalf("expected ErrEmbedding, got %v", err)
	}
	if repo.statuses[len(repo.statuses)-1] != domain.StatusFailed {
		t.Fatalf("expected failed status, got %v", repo.statuses)
	}
}

func TestProcessByIDUpsertErrorKind(t *testing.T) {
	repo := &processRepoFake{doc: processDoc()}
	uc := NewProcessDocumentUseCase(
		repo,
		&processLoaderFake{text: "text"},
		&processChunkerFake{chunks: []string{"chunk"}},
		&stubEmbedder{},
		&processVectorFake{err: errors.New("qdrant down")},
		0,
	)

	err := uc.ProcessByID(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrIndex) {
		t.Fatalf("expected ErrIndex, got %v", err)
	}
}

func TestProcessByIDEmbedsInBatches(t *testing.T) {
	chunks := make([]string, 35)
	for i := range chunks {
		chunks[i] = strings.Repeat("x", 10)
	}
	embedder := &countingEmbedder{}
	repo := &processRepoFake{doc: processDoc()}
	uc := NewProcessDocumentUseCase(
		repo,
		&processLoaderFake{text: "text"},
		&processChunkerFake{chunks: chunks},
		embedder,
		&processVectorFake{},
		16,
	)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if embedder.calls != 3 {
		t.Fatalf("expected 3 batches for 35 chunks at batch size 16, got %d", embedder.calls)
	}
	if repo.chunkCount != 35 {
		t.Fatalf("expected chunk count 35, got %d", repo.chunkCount)
	}
}

type countingEmbedder struct {
	calls int
}

func (f *countingEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1}
	}
	return out, nil
}

func (f *countingEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return []float32{0.1}, nil
}
