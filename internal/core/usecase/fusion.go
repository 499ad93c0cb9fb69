package usecase

import "github.com/ndmitriev/docqa/internal/core/domain"

// mergeByID unions candidate sets keyed by candidate ID. The final order
// follows first insertion; a later duplicate overwrites the stored value
// but keeps the earlier slot. No re-sort happens here, so callers must
// pass sets in priority order with the higher-trust source last.
func mergeByID(limit int, sets ...[]domain.Candidate) []domain.Candidate {
	position := make(map[string]int)
	merged := make([]domain.Candidate, 0)
	for _, set := range sets {
		for _, c := range set {
			if at, ok := position[c.ID]; ok {
				merged[at] = c
				continue
			}
			position[c.ID] = len(merged)
			merged = append(merged, c)
		}
	}
	return trimCandidates(merged, limit)
}

func trimCandidates(candidates []domain.Candidate, limit int) []domain.Candidate {
	if limit <= 0 || len(candidates) <= limit {
		return candidates
	}
	return candidates[:limit]
}
