package domain

import (
	"fmt"
	"strings"
)

// Candidate is a scored chunk coming back from the vector index or a
// lexical scan. ID is the stable deduplication key across fusions.
type Candidate struct {
	ID         string  `json:"id"`
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

// ScoredCandidate pairs a candidate with a derived score so reranking
// never mutates the candidate it was computed from.
type ScoredCandidate struct {
	Candidate Candidate `json:"candidate"`
	Final     float64   `json:"final"`
}

type Answer struct {
	Text    string      `json:"text"`
	Sources []Candidate `json:"sources"`
}

// Mode selects one of the retrieval strategies. The set is closed:
// unknown tags fail at construction time, they never default.
type Mode string

const (
	ModeConditional Mode = "conditional"
	ModeHybrid      Mode = "hybrid"
	ModeRouter      Mode = "router"
	ModeMulti       Mode = "multi"
)

func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeConditional:
		return ModeConditional, nil
	case ModeHybrid:
		return ModeHybrid, nil
	case ModeRouter:
		return ModeRouter, nil
	case ModeMulti:
		return ModeMulti, nil
	default:
		return "", WrapError(ErrUnknownMode, "parse mode", fmt.Errorf("%q", raw))
	}
}

type QueryResult struct {
	Mode     Mode        `json:"mode"`
	Question string      `json:"question"`
	Answer   string      `json:"answer"`
	Sources  []Candidate `json:"sources"`
}
