package usecase

import (
	"context"

	"github.com/ndmitriev/docqa/internal/core/domain"
	"github.com/ndmitriev/docqa/internal/core/ports"
)

const (
	RerankWeighted  = "weighted"
	RerankEmbedding = "embedding"
	RerankNone      = "none"
)

const (
	defaultTopK             = 5
	defaultMinRelevance     = 0.5
	defaultScoreGap         = 0.15
	defaultAlpha            = 0.7
	defaultKeywordScanLimit = 500
)

// RetrievalOptions tunes the shared retrieval core. Zero values fall back
// to defaults via normalize, except Alpha: 0 is the valid pure-lexical
// weight, so a negative Alpha selects the default instead.
type RetrievalOptions struct {
	TopK         int
	MinRelevance float64
	ScoreGap     float64
	Rerank       string
	Alpha        float64

	// KeywordScanLimit caps how many stored points the hybrid keyword
	// scan reads. Recall silently degrades on corpora larger than the
	// cap, so it is configurable rather than hard-coded.
	KeywordScanLimit int
}

func (o RetrievalOptions) normalize() RetrievalOptions {
	out := o
	if out.TopK <= 0 {
		out.TopK = defaultTopK
	}
	if out.MinRelevance <= 0 {
		out.MinRelevance = defaultMinRelevance
	}
	if out.ScoreGap <= 0 {
		out.ScoreGap = defaultScoreGap
	}
	switch out.Rerank {
	case RerankWeighted, RerankEmbedding, RerankNone:
	default:
		out.Rerank = RerankWeighted
	}
	if out.Alpha < 0 || out.Alpha > 1 {
		out.Alpha = defaultAlpha
	}
	if out.KeywordScanLimit <= 0 {
		out.KeywordScanLimit = defaultKeywordScanLimit
	}
	return out
}

// retriever is the single retrieval path used by every strategy: embed the
// query, search the index, apply the relevance cutoff, then rerank.
type retriever struct {
	embedder ports.Embedder
	vectorDB ports.VectorStore
	opts     RetrievalOptions
}

func newRetriever(embedder ports.Embedder, vectorDB ports.VectorStore, opts RetrievalOptions) *retriever {
	return &retriever{
		embedder: embedder,
		vectorDB: vectorDB,
		opts:     opts.normalize(),
	}
}

func (r *retriever) Retrieve(ctx context.Context, query string) ([]domain.Candidate, error) {
	limit := r.opts.TopK
	if r.opts.Rerank != RerankNone {
		// Over-fetch so the reranker has a tail to demote.
		limit *= 2
	}

	queryVector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, domain.WrapError(domain.ErrEmbedding, "embed query", err)
	}

	hits, err := r.vectorDB.Search(ctx, queryVector, limit)
	if err != nil {
		return nil, domain.WrapError(domain.ErrIndex, "search vector db", err)
	}

	relevant := filterRelevant(hits, r.opts.MinRelevance, r.opts.ScoreGap)
	if len(relevant) == 0 {
		return nil, nil
	}

	switch r.opts.Rerank {
	case RerankEmbedding:
		scored, err := rerankByEmbedding(ctx, r.embedder, query, relevant, r.opts.TopK)
		if err != nil {
			return nil, err
		}
		return candidatesOf(scored), nil
	case RerankNone:
		return trimCandidates(relevant, r.opts.TopK), nil
	default:
		scored := rerankWeighted(query, relevant, r.opts.Alpha, r.opts.TopK)
		return candidatesOf(scored), nil
	}
}
