// Package similarity scores how alike two names are using the Sørensen–Dice
// coefficient over character bigrams.
package similarity

import "math"

// Score returns an integer in [0,100]. Inputs are lower-cased and reduced to
// ASCII letters and digits; each side contributes its set of distinct
// adjacent character pairs. The score is 0 when either input is empty or
// neither side has a bigram.
func Score(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	ba, bb := Bigrams(a), Bigrams(b)
	total := len(ba) + len(bb)
	if total == 0 {
		return 0
	}
	shared := 0
	for bg := range ba {
		if _, ok := bb[bg]; ok {
			shared++
		}
	}
	return int(math.Round(2 * float64(shared) / float64(total) * 100))
}

// Best returns the highest Score of input against any candidate.
func Best(input string, candidates ...string) int {
	score, _ := BestOf(input, candidates...)
	return score
}

// BestOf returns the highest Score of input against any candidate together
// with the candidate that produced it. Ties go to the earliest candidate.
// With no candidates it returns 0 and "".
func BestOf(input string, candidates ...string) (int, string) {
	best, name := -1, ""
	for _, c := range candidates {
		if s := Score(input, c); s > best {
			best, name = s, c
		}
	}
	if best < 0 {
		return 0, ""
	}
	return best, name
}

// Bigrams returns the set of adjacent pairs of the normalized input.
func Bigrams(s string) map[string]struct{} {
	n := normalize(s)
	if len(n) < 2 {
		return map[string]struct{}{}
	}
	set := make(map[string]struct{}, len(n)-1)
	for i := 0; i+1 < len(n); i++ {
		set[n[i:i+2]] = struct{}{}
	}
	return set
}

func normalize(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			out = append(out, c+('a'-'A'))
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			out = append(out, c)
		}
	}
	return string(out)
}
