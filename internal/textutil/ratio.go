package textutil

import "math"

// Ratio computes a normalized character-level similarity between two strings
// on a 0-100 scale. 100 means identical, 0 means no common characters.
//
// The score is derived from the indel distance (edit distance where a
// substitution costs two operations): ratio = 100 * (len(a)+len(b)-d) /
// (len(a)+len(b)), rounded to the nearest integer. Two empty strings score 100.
func Ratio(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	dist := indelDistance(ra, rb)
	return int(math.Round(100 * float64(total-dist) / float64(total)))
}

// indelDistance is the minimum number of insertions and deletions needed to
// turn a into b. Substitutions are not allowed (they count as one deletion
// plus one insertion), which makes the distance equivalent to
// len(a)+len(b)-2*LCS(a, b).
func indelDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			if del < ins {
				curr[j] = del
			} else {
				curr[j] = ins
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
