package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ndmitriev/docqa/internal/core/domain"
	"github.com/ndmitriev/docqa/internal/core/ports"
)

const (
	routeRAG    = "RAG"
	routeSQL    = "SQL"
	routeAPI    = "API"
	routeDirect = "DIRECT"
)

// RouterStrategy lets the generator pick a tool for the question. SQL and
// API are pluggable slots; the implementations wired today are simulated.
// Anything the generator says that is not a recognized tool falls back to
// the RAG path rather than failing.
type RouterStrategy struct {
	retriever *retriever
	generator ports.AnswerGenerator
	sqlTool   ports.ToolRunner
	apiTool   ports.ToolRunner
}

func NewRouterStrategy(deps StrategyDeps) *RouterStrategy {
	return &RouterStrategy{
		retriever: newRetriever(deps.Embedder, deps.VectorDB, deps.Options),
		generator: deps.Generator,
		sqlTool:   deps.SQLTool,
		apiTool:   deps.APITool,
	}
}

func buildRoutePrompt(question string) string {
	return fmt.Sprintf(`You are a router that decides which tool is appropriate for the user's question.

Tools:
- RAG: For knowledge base lookups, documentation, policies, guides.
- SQL: For database-style queries (balance, status, counts, employee info).
- API: For external system requests (weather, live data, pricing).
- DIRECT: For simple conversational or reasoning questions.

Respond with ONLY one word: RAG, SQL, API, or DIRECT.

Question: %s`, question)
}

func parseRoute(response string) string {
	route := strings.ToUpper(strings.TrimSpace(response))
	switch route {
	case routeRAG, routeSQL, routeAPI, routeDirect:
		return route
	default:
		return routeRAG
	}
}

func (s *RouterStrategy) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	response, err := s.generator.Generate(ctx, answerSystemInstruction, buildRoutePrompt(question))
	if err != nil {
		return nil, domain.WrapError(domain.ErrGeneration, "route query", err)
	}

	switch parseRoute(response) {
	case routeDirect:
		text, err := s.generator.Generate(ctx, answerSystemInstruction, question)
		if err != nil {
			return nil, domain.WrapError(domain.ErrGeneration, "generate direct answer", err)
		}
		return &domain.Answer{Text: text, Sources: []domain.Candidate{}}, nil
	case routeSQL:
		return s.runTool(ctx, s.sqlTool, "sql tool", question)
	case routeAPI:
		return s.runTool(ctx, s.apiTool, "api tool", question)
	default:
		candidates, err := s.retriever.Retrieve(ctx, question)
		if err != nil {
			return nil, err
		}
		return answerFromContext(ctx, s.generator, question, candidates)
	}
}

func (s *RouterStrategy) runTool(ctx context.Context, tool ports.ToolRunner, name, question string) (*domain.Answer, error) {
	if tool == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, name, fmt.Errorf("no runner configured"))
	}
	out, err := tool.Run(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &domain.Answer{Text: out, Sources: []domain.Candidate{}}, nil
}
