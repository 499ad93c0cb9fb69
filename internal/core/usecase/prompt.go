package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ndmitriev/docqa/internal/core/domain"
	"github.com/ndmitriev/docqa/internal/core/ports"
)

const answerSystemInstruction = "You are a factual assistant. Use only the provided context."

// noContextAnswer is the normal, successful response for a query that
// survived no candidate. It is not an error.
const noContextAnswer = "I could not find any relevant information in the knowledge base."

func buildAnswerPrompt(question string, candidates []domain.Candidate) string {
	var contextBuilder strings.Builder
	for i, c := range candidates {
		label := c.Filename
		if label == "" {
			label = c.DocumentID
		}
		contextBuilder.WriteString(fmt.Sprintf(
			"[Document %d | %s | score=%.3f]\n%s\n\n",
			i+1, label, c.Score, c.Text,
		))
	}

	return fmt.Sprintf(`You are a helpful assistant that answers questions using ONLY the provided context.
If the answer is not in the context, say that you do not know and do NOT hallucinate.

Context:
%s
Question:
%s

Answer clearly and concisely:`, contextBuilder.String(), question)
}

// answerFromContext is the terminal step shared by every retrieval path.
func answerFromContext(
	ctx context.Context,
	generator ports.AnswerGenerator,
	question string,
	candidates []domain.Candidate,
) (*domain.Answer, error) {
	if len(candidates) == 0 {
		return &domain.Answer{Text: noContextAnswer, Sources: []domain.Candidate{}}, nil
	}

	text, err := generator.Generate(ctx, answerSystemInstruction, buildAnswerPrompt(question, candidates))
	if err != nil {
		return nil, domain.WrapError(domain.ErrGeneration, "generate answer", err)
	}
	return &domain.Answer{Text: text, Sources: candidates}, nil
}
