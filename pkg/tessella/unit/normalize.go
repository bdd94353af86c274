package unit

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Language selects the orthographic normalization applied to features.
type Language string

const (
	Latin   Language = "latin"
	Greek   Language = "greek"
	English Language = "english"
)

// Normalize lowercases a feature and folds language-specific orthographic
// variants so that spellings which differ only by convention compare equal.
//
// Latin folds consonantal v to u and j to i, the standard dictionary
// convention. Greek strips diacritics (accents, breathings, iota subscript
// stays as its combining mark and is dropped with the rest) and folds final
// sigma.
func Normalize(s string, lang Language) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch lang {
	case Latin:
		s = strings.Map(func(r rune) rune {
			switch r {
			case 'v':
				return 'u'
			case 'j':
				return 'i'
			}
			return r
		}, s)
	case Greek:
		s = stripDiacritics(s)
		s = strings.ReplaceAll(s, "ς", "σ")
	}
	return s
}

// NormalizeAll normalizes a slice in place and returns it.
func NormalizeAll(feats []string, lang Language) []string {
	for i, f := range feats {
		feats[i] = Normalize(f, lang)
	}
	return feats
}

// stripDiacritics decomposes to NFD and drops combining marks.
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

// VariantSpellings returns the orthographic variants of a normalized Latin
// lemma that may appear in older indexed material: every combination of
// u→v and i→j at word-initial position plus intervocalic positions is too
// aggressive in practice, so only the conventional u/v and i/j swaps of the
// whole string are generated. For non-Latin languages the lemma itself is
// the only variant.
func VariantSpellings(lemma string, lang Language) []string {
	if lang != Latin {
		return []string{lemma}
	}
	seen := map[string]struct{}{lemma: {}}
	variants := []string{lemma}
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		variants = append(variants, s)
	}
	add(strings.ReplaceAll(lemma, "u", "v"))
	add(strings.ReplaceAll(lemma, "i", "j"))
	add(strings.ReplaceAll(strings.ReplaceAll(lemma, "u", "v"), "i", "j"))
	return variants
}
