package matching

// Scorer provides string similarity algorithms used by field resolution and
// the lexical comparison fallback.
type Scorer struct{}

// NewScorer creates a new Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// SequenceRatio returns a similarity score between 0.0 and 1.0 computed as
// 2*M/T, where M is the total length of the longest matching blocks shared
// by the two strings and T is their combined length.
func (s *Scorer) SequenceRatio(a, b string) float64 {
	ar := []rune(a)
	br := []rune(b)
	total := len(ar) + len(br)
	if total == 0 {
		return 1.0
	}

	matched := matchingBlockLength(ar, br)
	return 2.0 * float64(matched) / float64(total)
}

// matchingBlockLength sums the lengths of the longest matching blocks: find
// the longest common substring, then recurse on the pieces to its left and
// right.
func matchingBlockLength(a, b []rune) int {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	var find func(alo, ahi, blo, bhi int) int
	find = func(alo, ahi, blo, bhi int) int {
		besti, bestj, bestSize := alo, blo, 0
		j2len := make(map[int]int)

		for i := alo; i < ahi; i++ {
			newJ2len := make(map[int]int)
			for _, j := range b2j[a[i]] {
				if j < blo {
					continue
				}
				if j >= bhi {
					break
				}
				k := j2len[j-1] + 1
				newJ2len[j] = k
				if k > bestSize {
					besti, bestj, bestSize = i-k+1, j-k+1, k
				}
			}
			j2len = newJ2len
		}

		if bestSize == 0 {
			return 0
		}

		size := bestSize
		size += find(alo, besti, blo, bestj)
		size += find(besti+bestSize, ahi, bestj+bestSize, bhi)
		return size
	}

	return find(0, len(a), 0, len(b))
}
