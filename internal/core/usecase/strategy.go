package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ndmitriev/docqa/internal/core/domain"
	"github.com/ndmitriev/docqa/internal/core/ports"
)

// Strategy is the one capability every retrieval variant implements.
type Strategy interface {
	Answer(ctx context.Context, question string) (*domain.Answer, error)
}

// StrategyDeps carries the collaborators a strategy may need. Built once
// at process start and passed by reference; no ambient globals.
type StrategyDeps struct {
	Embedder  ports.Embedder
	VectorDB  ports.VectorStore
	Generator ports.AnswerGenerator
	SQLTool   ports.ToolRunner
	APITool   ports.ToolRunner
	Logger    *slog.Logger
	Options   RetrievalOptions
}

// NewStrategy builds exactly one of the four strategies. The mode set is
// closed; anything else is a construction-time error, never a default.
func NewStrategy(mode domain.Mode, deps StrategyDeps) (Strategy, error) {
	switch mode {
	case domain.ModeConditional:
		return NewConditionalStrategy(deps), nil
	case domain.ModeHybrid:
		return NewHybridStrategy(deps), nil
	case domain.ModeRouter:
		return NewRouterStrategy(deps), nil
	case domain.ModeMulti:
		return NewMultiQueryStrategy(deps), nil
	default:
		return nil, domain.WrapError(domain.ErrUnknownMode, "build strategy", fmt.Errorf("%q", mode))
	}
}

// QueryUseCase dispatches a question to a strategy selected by mode.
type QueryUseCase struct {
	deps StrategyDeps
}

func NewQueryUseCase(deps StrategyDeps) *QueryUseCase {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	deps.Options = deps.Options.normalize()
	return &QueryUseCase{deps: deps}
}

func (uc *QueryUseCase) Answer(ctx context.Context, mode, question string, limit int) (*domain.QueryResult, error) {
	parsed, err := domain.ParseMode(mode)
	if err != nil {
		return nil, err
	}

	deps := uc.deps
	if limit > 0 {
		deps.Options.TopK = limit
	}

	strategy, err := NewStrategy(parsed, deps)
	if err != nil {
		return nil, err
	}

	answer, err := strategy.Answer(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("answer %s query: %w", parsed, err)
	}

	sources := answer.Sources
	if sources == nil {
		sources = []domain.Candidate{}
	}
	return &domain.QueryResult{
		Mode:     parsed,
		Question: question,
		Answer:   answer.Text,
		Sources:  sources,
	}, nil
}
