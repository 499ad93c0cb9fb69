package usecase

import "github.com/ndmitriev/docqa/internal/core/domain"

// scoreEpsilon is the float tolerance for treating a score distribution
// as flat.
const scoreEpsilon = 1e-9

// normalizeScores rescales raw similarity scores to [0,1] by candidate ID.
// A flat distribution maps every candidate to 1.0 so a uniform result set
// is treated as uniformly relevant instead of dividing by zero.
func normalizeScores(candidates []domain.Candidate) map[string]float64 {
	out := make(map[string]float64, len(candidates))
	if len(candidates) == 0 {
		return out
	}

	minScore := candidates[0].Score
	maxScore := candidates[0].Score
	for _, c := range candidates[1:] {
		if c.Score < minScore {
			minScore = c.Score
		}
		if c.Score > maxScore {
			maxScore = c.Score
		}
	}

	if maxScore-minScore <= scoreEpsilon {
		for _, c := range candidates {
			out[c.ID] = 1.0
		}
		return out
	}

	for _, c := range candidates {
		out[c.ID] = (c.Score - minScore) / (maxScore - minScore)
	}
	return out
}
