// Package unit defines the annotated text unit model consumed by the engine.
//
// A TextUnit is one line or phrase of an annotated text: its locus reference,
// the ordered surface tokens, and the lemma (dictionary headword) chosen for
// each token. Units are produced upstream by a lemmatizing provider and are
// treated as immutable once built.
package unit

// TextUnit is a single annotated line or phrase of a text.
type TextUnit struct {
	// Ref is the locus string, e.g. "1.12" for book 1 line 12.
	Ref string

	// Tokens are the surface forms in document order.
	Tokens []string

	// Lemmas holds one headword per token. An entry may be empty when the
	// lemmatizer produced no headword for that token.
	Lemmas []string

	// POSTags optionally holds one part-of-speech tag per token.
	POSTags []string
}

// UnitID identifies a unit within a known pair of texts.
type UnitID struct {
	TextID string
	Index  int
}

// Valid reports whether the unit satisfies the token/lemma alignment
// contract. Units failing this check are skipped by the engine rather than
// aborting a whole search.
func (u TextUnit) Valid() bool {
	if len(u.Tokens) != len(u.Lemmas) {
		return false
	}
	if len(u.POSTags) > 0 && len(u.POSTags) != len(u.Tokens) {
		return false
	}
	return true
}

// Features returns the matchable feature at each position: the lemma when
// present, otherwise the normalized surface token. exact selects the surface
// token unconditionally.
func (u TextUnit) Features(lang Language, exact bool) []string {
	feats := make([]string, len(u.Tokens))
	for i := range u.Tokens {
		if exact || u.Lemmas[i] == "" {
			feats[i] = Normalize(u.Tokens[i], lang)
			continue
		}
		feats[i] = Normalize(u.Lemmas[i], lang)
	}
	return feats
}

// Text is an ordered sequence of units with identifying metadata.
type Text struct {
	ID     string
	Author string
	Title  string
	Units  []TextUnit
}
