package usecase

import "testing"

func TestLexicalSimilarityIdentical(t *testing.T) {
	if got := lexicalSimilarity("refund policy", "refund policy"); !almostEqual(got, 1.0) {
		t.Fatalf("expected 1.0 for identical strings, got %f", got)
	}
}

func TestLexicalSimilarityCaseInsensitive(t *testing.T) {
	if got := lexicalSimilarity("Refund Policy", "refund policy"); !almostEqual(got, 1.0) {
		t.Fatalf("expected 1.0 regardless of case, got %f", got)
	}
}

func TestLexicalSimilarityDisjoint(t *testing.T) {
	if got := lexicalSimilarity("aaaa", "zzzz"); !almostEqual(got, 0.0) {
		t.Fatalf("expected 0.0 for disjoint strings, got %f", got)
	}
}

func TestLexicalSimilarityEmpty(t *testing.T) {
	if got := lexicalSimilarity("", "anything"); got != 0.0 {
		t.Fatalf("expected 0.0 for empty input, got %f", got)
	}
	if got := lexicalSimilarity("anything", ""); got != 0.0 {
		t.Fatalf("expected 0.0 for empty input, got %f", got)
	}
}

func TestLexicalSimilarityKnownRatio(t *testing.T) {
	// Longest common block of "abcd"/"bcde" is "bcd": 2*3/(4+4) = 0.75.
	if got := lexicalSimilarity("abcd", "bcde"); !almostEqual(got, 0.75) {
		t.Fatalf("expected 0.75, got %f", got)
	}
}

func TestLexicalSimilarityBounds(t *testing.T) {
	pairs := [][2]string{
		{"how do refunds work", "refunds are processed in 5 days"},
		{"short", "a much longer unrelated sentence about nothing"},
	}
	for _, p := range pairs {
		got := lexicalSimilarity(p[0], p[1])
		if got < 0.0 || got > 1.0 {
			t.Fatalf("similarity out of [0,1] for %q/%q: %f", p[0], p[1], got)
		}
	}
}
