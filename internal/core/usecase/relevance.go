package usecase

import (
	"sort"

	"github.com/ndmitriev/docqa/internal/core/domain"
)

// filterRelevant applies the adaptive relevance cutoff. If even the best
// score stays below minRelevance the whole set is irrelevant and the
// result is empty, never a low-confidence tail. Otherwise the threshold
// tracks the best score at a fixed gap, floored at minRelevance, which
// keeps the top cluster while cutting the long tail. Cosine scores are
// not calibrated across corpora, so the cutoff is relative, not global.
func filterRelevant(candidates []domain.Candidate, minRelevance, scoreGap float64) []domain.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	maxScore := candidates[0].Score
	for _, c := range candidates[1:] {
		if c.Score > maxScore {
			maxScore = c.Score
		}
	}
	if maxScore < minRelevance {
		return nil
	}

	threshold := maxScore - scoreGap
	if threshold < minRelevance {
		threshold = minRelevance
	}

	out := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Score >= threshold {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
