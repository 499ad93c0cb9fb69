package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ndmitriev/docqa/internal/core/domain"
	"github.com/ndmitriev/docqa/internal/core/ports"
)

const ragRequiredMarker = "RAG_REQUIRED"

// ConditionalStrategy asks the generator whether retrieval is needed at
// all before touching the index. A response without the marker, malformed
// or empty output included, answers directly: the gate fails open toward
// no-retrieval.
type ConditionalStrategy struct {
	retriever *retriever
	generator ports.AnswerGenerator
}

func NewConditionalStrategy(deps StrategyDeps) *ConditionalStrategy {
	return &ConditionalStrategy{
		retriever: newRetriever(deps.Embedder, deps.VectorDB, deps.Options),
		generator: deps.Generator,
	}
}

func buildRetrievalGatePrompt(question string) string {
	return fmt.Sprintf(`Decide if a knowledge base lookup is required to answer the question.
If yes reply RAG_REQUIRED else NO_RAG.

Question: %s`, question)
}

func (s *ConditionalStrategy) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	verdict, err := s.generator.Generate(ctx, answerSystemInstruction, buildRetrievalGatePrompt(question))
	if err != nil {
		return nil, domain.WrapError(domain.ErrGeneration, "classify retrieval need", err)
	}

	if !strings.Contains(strings.ToUpper(verdict), ragRequiredMarker) {
		text, err := s.generator.Generate(ctx, answerSystemInstruction, question)
		if err != nil {
			return nil, domain.WrapError(domain.ErrGeneration, "generate direct answer", err)
		}
		return &domain.Answer{Text: text, Sources: []domain.Candidate{}}, nil
	}

	candidates, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, err
	}
	return answerFromContext(ctx, s.generator, question, candidates)
}
