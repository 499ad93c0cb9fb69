package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/ndmitriev/docqa/internal/core/domain"
	"github.com/ndmitriev/docqa/internal/core/ports"
)

const maxExpandedQueries = 4

// MultiQueryStrategy rewrites the question into several alternative search
// queries, retrieves for each one and fuses the result sets. A malformed
// expansion response is the only locally recovered failure: it falls back
// to the original question and is logged, never surfaced.
type MultiQueryStrategy struct {
	retriever *retriever
	generator ports.AnswerGenerator
	logger    *slog.Logger
	opts      RetrievalOptions
}

func NewMultiQueryStrategy(deps StrategyDeps) *MultiQueryStrategy {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts := deps.Options.normalize()
	return &MultiQueryStrategy{
		retriever: newRetriever(deps.Embedder, deps.VectorDB, opts),
		generator: deps.Generator,
		logger:    logger,
		opts:      opts,
	}
}

func buildExpansionPrompt(question string) string {
	return fmt.Sprintf(`Rewrite the question into 3 alternative search queries that cover its intent with different wording.
Output one query per line. No numbering, no commentary, nothing else.

Question: %s`, question)
}

// parseExpandedQueries enforces the one-query-per-line contract. List
// markers and wrapping quotes are tolerated; generated text is never
// evaluated.
func parseExpandedQueries(raw string) ([]string, error) {
	out := make([]string, 0, maxExpandedQueries)
	for _, line := range strings.Split(raw, "\n") {
		query := stripListMarker(strings.TrimSpace(line))
		if query == "" {
			continue
		}
		out = append(out, query)
		if len(out) == maxExpandedQueries {
			break
		}
	}
	if len(out) == 0 {
		return nil, domain.WrapError(domain.ErrParse, "parse expanded queries", errors.New("no queries in response"))
	}
	return out, nil
}

func stripListMarker(line string) string {
	line = strings.TrimLeft(line, "-*• \t")
	rest := strings.TrimLeftFunc(line, unicode.IsDigit)
	// Leading digits are a list marker only when followed by "." or ")".
	// A query that simply starts with a number stays intact.
	if rest != line && (strings.HasPrefix(rest, ".") || strings.HasPrefix(rest, ")")) {
		line = strings.TrimLeft(rest, ".) ")
	}
	return strings.Trim(strings.TrimSpace(line), `"'`)
}

func (s *MultiQueryStrategy) expand(ctx context.Context, question string) ([]string, error) {
	response, err := s.generator.Generate(ctx, answerSystemInstruction, buildExpansionPrompt(question))
	if err != nil {
		return nil, domain.WrapError(domain.ErrGeneration, "expand query", err)
	}

	queries, err := parseExpandedQueries(response)
	if err != nil {
		s.logger.Warn("query expansion fallback to original", "error", err)
		return []string{question}, nil
	}
	return queries, nil
}

func (s *MultiQueryStrategy) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	queries, err := s.expand(ctx, question)
	if err != nil {
		return nil, err
	}

	// Sub-retrievals are independent; results land in expansion order so
	// fusion stays deterministic regardless of completion order.
	results := make([][]domain.Candidate, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			candidates, err := s.retriever.Retrieve(gctx, q)
			if err != nil {
				return err
			}
			results[i] = candidates
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := mergeByID(s.opts.TopK, results...)
	return answerFromContext(ctx, s.generator, question, merged)
}
