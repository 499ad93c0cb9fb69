package usecase

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ndmitriev/docqa/internal/core/domain"
	"github.com/ndmitriev/docqa/internal/core/ports"
)

// HybridStrategy combines vector search with a keyword scan over stored
// points. Both searches share no state, so they run concurrently; fusion
// stays sequential and iterates vector-before-keyword so a keyword hit
// overrides a vector hit with the same ID.
type HybridStrategy struct {
	retriever *retriever
	vectorDB  ports.VectorStore
	generator ports.AnswerGenerator
	opts      RetrievalOptions
}

func NewHybridStrategy(deps StrategyDeps) *HybridStrategy {
	opts := deps.Options.normalize()
	return &HybridStrategy{
		retriever: newRetriever(deps.Embedder, deps.VectorDB, opts),
		vectorDB:  deps.VectorDB,
		generator: deps.Generator,
		opts:      opts,
	}
}

func (s *HybridStrategy) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	var vector, keyword []domain.Candidate

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vector, err = s.retriever.Retrieve(gctx, question)
		return err
	})
	g.Go(func() error {
		var err error
		keyword, err = s.keywordSearch(gctx, question, s.opts.TopK)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := mergeByID(s.opts.TopK, vector, keyword)
	return answerFromContext(ctx, s.generator, question, merged)
}

// keywordSearch scans stored points and scores each by how many query
// words its text contains, case-insensitive. Only points with at least
// one hit survive. The scan is bounded by KeywordScanLimit.
func (s *HybridStrategy) keywordSearch(ctx context.Context, question string, limit int) ([]domain.Candidate, error) {
	points, err := s.vectorDB.Scroll(ctx, s.opts.KeywordScanLimit)
	if err != nil {
		return nil, domain.WrapError(domain.ErrIndex, "scroll stored points", err)
	}

	words := uniqueWords(question)
	if len(words) == 0 {
		return nil, nil
	}

	type keywordHit struct {
		candidate domain.Candidate
		hits      int
	}
	scored := make([]keywordHit, 0, len(points))
	for _, p := range points {
		text := strings.ToLower(p.Text)
		hits := 0
		for _, w := range words {
			if strings.Contains(text, w) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		c := p
		c.Score = float64(hits)
		scored = append(scored, keywordHit{candidate: c, hits: hits})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].hits > scored[j].hits
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	out := make([]domain.Candidate, 0, len(scored))
	for _, h := range scored {
		out = append(out, h.candidate)
	}
	return out, nil
}

// uniqueWords lowers and deduplicates the query words so a repeated word
// counts as a single keyword hit.
func uniqueWords(question string) []string {
	fields := strings.Fields(strings.ToLower(question))
	seen := make(map[string]struct{}, len(fields))
	out := fields[:0]
	for _, w := range fields {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
