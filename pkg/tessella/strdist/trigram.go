package strdist

import "strings"

// TrigramSet is the set of character trigrams of a padded string.
type TrigramSet map[string]struct{}

// Trigrams builds the trigram set of s, padding with spaces so that initial
// and final characters still contribute.
func Trigrams(s string) TrigramSet {
	set := make(TrigramSet)
	if s == "" {
		return set
	}
	padded := " " + s + " "
	runes := []rune(padded)
	if len(runes) < 3 {
		set[string(runes)] = struct{}{}
		return set
	}
	for i := 0; i+3 <= len(runes); i++ {
		set[string(runes[i:i+3])] = struct{}{}
	}
	return set
}

// TrigramsOfAll builds one trigram set covering every string in words.
func TrigramsOfAll(words []string) TrigramSet {
	set := make(TrigramSet)
	for _, w := range words {
		for g := range Trigrams(w) {
			set[g] = struct{}{}
		}
	}
	return set
}

// Jaccard is the intersection-over-union similarity of two trigram sets.
// Two empty sets compare as dissimilar, not identical, so units without
// usable tokens never rank as sound matches.
func Jaccard(a, b TrigramSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	inter := 0
	for g := range small {
		if _, ok := large[g]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Shared returns the trigrams present in both sets, sorted order not
// guaranteed.
func Shared(a, b TrigramSet) []string {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	var out []string
	for g := range small {
		if _, ok := large[g]; ok {
			out = append(out, strings.TrimSpace(g))
		}
	}
	return out
}
