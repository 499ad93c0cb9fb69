package usecase

import "strings"

// lexicalSimilarity is a Ratcliff/Obershelp sequence-similarity ratio in
// [0,1], case-insensitive: twice the total length of matching blocks over
// the combined length of both strings. It needs no embeddings, which makes
// it the lexical signal for weighted fusion.
func lexicalSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	left := []rune(strings.ToLower(a))
	right := []rune(strings.ToLower(b))
	if len(left) == 0 || len(right) == 0 {
		return 0.0
	}
	matched := matchingTotal(left, right)
	return 2.0 * float64(matched) / float64(len(left)+len(right))
}

// matchingTotal sums longest-matching-block lengths, recursing on the
// unmatched regions left and right of each block.
func matchingTotal(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	ai, bi, size := longestMatchingBlock(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingTotal(a[:ai], b[:bi]) +
		matchingTotal(a[ai+size:], b[bi+size:])
}

func longestMatchingBlock(a, b []rune) (bestA, bestB, bestSize int) {
	// lengths[j] holds the length of the match ending at a[i-1], b[j]
	// from the previous row.
	lengths := make(map[int]int)
	for i := range a {
		row := make(map[int]int, len(lengths))
		for j := range b {
			if a[i] != b[j] {
				continue
			}
			k := lengths[j-1] + 1
			row[j] = k
			if k > bestSize {
				bestA = i - k + 1
				bestB = j - k + 1
				bestSize = k
			}
		}
		lengths = row
	}
	return bestA, bestB, bestSize
}
