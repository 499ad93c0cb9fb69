package usecase

import (
	"testing"

	"github.com/ndmitriev/docqa/internal/core/domain"
)

func scoredSet(scores ...float64) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(scores))
	for i, s := range scores {
		out = append(out, domain.Candidate{ID: string(rune('a' + i)), Score: s})
	}
	return out
}

func TestFilterRelevantKeepsTopCluster(t *testing.T) {
	candidates := scoredSet(0.9, 0.8, 0.76, 0.7, 0.3)

	// threshold = max(0.5, 0.9-0.15) = 0.75
	out := filterRelevant(candidates, 0.5, 0.15)

	if len(out) != 3 {
		t.Fatalf("expected 3 survivors, got %d", len(out))
	}
	for i, want := range []float64{0.9, 0.8, 0.76} {
		if out[i].Score != want {
			t.Fatalf("expected score %f at position %d, got %f", want, i, out[i].Score)
		}
	}
}

func TestFilterRelevantAllBelowFloor(t *testing.T) {
	out := filterRelevant(scoredSet(0.45, 0.3, 0.1), 0.5, 0.15)
	if len(out) != 0 {
		t.Fatalf("expected empty result when best score is below floor, got %d", len(out))
	}
}

func TestFilterRelevantThresholdFlooredAtMinRelevance(t *testing.T) {
	// max=0.55, max-gap=0.40 → threshold stays at the 0.5 floor.
	out := filterRelevant(scoredSet(0.55, 0.52, 0.45), 0.5, 0.15)
	if len(out) != 2 {
		t.Fatalf("expected 2 survivors above the floor, got %d", len(out))
	}
}

func TestFilterRelevantSortsDescending(t *testing.T) {
	candidates := []domain.Candidate{
		{ID: "low", Score: 0.8},
		{ID: "high", Score: 0.9},
		{ID: "mid", Score: 0.85},
	}

	out := filterRelevant(candidates, 0.5, 0.2)
	if len(out) != 3 {
		t.Fatalf("expected 3 survivors, got %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i].Score > out[i-1].Score {
			t.Fatalf("expected descending order, got %f before %f", out[i-1].Score, out[i].Score)
		}
	}
}

func TestFilterRelevantEmptyInput(t *testing.T) {
	if out := filterRelevant(nil, 0.5, 0.15); out != nil {
		t.Fatalf("expected nil for empty input, got %v", out)
	}
}
