package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/ndmitriev/docqa/internal/core/domain"
	"github.com/ndmitriev/docqa/internal/core/ports"
)

// rerankWeighted fuses the normalized vector score with the lexical
// similarity between question and chunk text. Vector similarity dominates
// at the default alpha, lexical overlap promotes exact keyword matches the
// embedding missed. Candidates are left untouched; the fused score lives
// in the returned pair.
func rerankWeighted(question string, candidates []domain.Candidate, alpha float64, topK int) []domain.ScoredCandidate {
	if len(candidates) == 0 {
		return nil
	}
	if alpha < 0 || alpha > 1 {
		alpha = defaultAlpha
	}

	normalized := normalizeScores(candidates)
	scored := make([]domain.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		lexical := lexicalSimilarity(question, c.Text)
		scored = append(scored, domain.ScoredCandidate{
			Candidate: c,
			Final:     alpha*normalized[c.ID] + (1-alpha)*lexical,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Final > scored[j].Final
	})
	return trimScored(scored, topK)
}

// rerankByEmbedding rescores candidates by cosine similarity between fresh
// query and chunk embeddings. Redundant when the stored score already is
// cosine similarity on the same corpus; reserved for indexes scored under
// a different metric.
func rerankByEmbedding(
	ctx context.Context,
	embedder ports.Embedder,
	question string,
	candidates []domain.Candidate,
	topK int,
) ([]domain.ScoredCandidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	queryVector, err := embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, domain.WrapError(domain.ErrEmbedding, "embed query for rerank", err)
	}

	texts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		texts = append(texts, c.Text)
	}
	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, domain.WrapError(domain.ErrEmbedding, "embed candidates for rerank", err)
	}
	if len(vectors) != len(candidates) {
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"embed candidates for rerank",
			fmt.Errorf("vectors/candidates mismatch: %d/%d", len(vectors), len(candidates)),
		)
	}

	scored := make([]domain.ScoredCandidate, 0, len(candidates))
	for i, c := range candidates {
		scored = append(scored, domain.ScoredCandidate{
			Candidate: c,
			Final:     cosineSimilarity(queryVector, vectors[i]),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Final > scored[j].Final
	})
	return trimScored(scored, topK), nil
}

func trimScored(scored []domain.ScoredCandidate, limit int) []domain.ScoredCandidate {
	if limit <= 0 || len(scored) <= limit {
		return scored
	}
	return scored[:limit]
}

func candidatesOf(scored []domain.ScoredCandidate) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.Candidate)
	}
	return out
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
