// Package fuzzy provides string similarity ratios on a 0..1 scale.
//
// All ratios are based on the insertion/deletion edit distance, so
// Ratio(a, b) == 2*LCS(a, b) / (len(a) + len(b)) measured in runes.
package fuzzy

import (
	"sort"
	"strings"
	"unicode"
)

// Ratio returns the normalized InDel similarity of a and b.
// Either side being empty yields 0.
func Ratio(a, b string) float64 {
	return ratioRunes([]rune(a), []rune(b))
}

// PartialRatio returns the best Ratio between the shorter string and every
// equal-length window of the longer one.
func PartialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == len(rb) {
		return ratioRunes(ra, rb)
	}

	best := 0.0
	for start := 0; start+len(ra) <= len(rb); start++ {
		r := ratioRunes(ra, rb[start:start+len(ra)])
		if r > best {
			best = r
			if best == 1 {
				break
			}
		}
	}
	return best
}

// TokenSortRatio compares a and b after lowercasing, stripping punctuation
// and sorting their whitespace-separated tokens.
func TokenSortRatio(a, b string) float64 {
	ta, tb := tokens(a), tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	sort.Strings(ta)
	sort.Strings(tb)
	return Ratio(strings.Join(ta, " "), strings.Join(tb, " "))
}

// TokenSetRatio compares the shared token set of a and b against each side's
// remainder and returns the best of the three pairings.
func TokenSetRatio(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var common, onlyA, onlyB []string
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			common = append(common, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range tb {
		if _, ok := ta[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	t0 := strings.Join(common, " ")
	t1 := strings.TrimSpace(t0 + " " + strings.Join(onlyA, " "))
	t2 := strings.TrimSpace(t0 + " " + strings.Join(onlyB, " "))

	best := Ratio(t1, t2)
	if t0 != "" {
		best = max(best, Ratio(t0, t1), Ratio(t0, t2))
	}
	return best
}

func tokens(s string) []string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Fields(mapped)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokens(s) {
		set[tok] = struct{}{}
	}
	return set
}

func ratioRunes(a, b []rune) float64 {
	total := len(a) + len(b)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return float64(2*lcs(a, b)) / float64(total)
}

// lcs returns the length of the longest common subsequence
func lcs(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
