// Package freq maintains the corpus-wide unigram and bigram frequency
// tables that drive IDF scoring and bigram rarity boosts.
package freq

import (
	"math"
	"time"

	"github.com/intertext/tessella/pkg/tessella/unit"
)

// FrequencyTable maps features to corpus occurrence counts.
type FrequencyTable struct {
	Language    unit.Language
	Counts      map[string]int64
	TotalTokens int64

	// Checksum identifies the corpus file set the table was built from.
	Checksum  string
	UpdatedAt time.Time
}

// NewFrequencyTable returns an empty table for a language.
func NewFrequencyTable(lang unit.Language) *FrequencyTable {
	return &FrequencyTable{
		Language: lang,
		Counts:   make(map[string]int64),
	}
}

// Add counts every feature of every unit of a text.
func (t *FrequencyTable) Add(text unit.Text, exact bool) {
	for _, u := range text.Units {
		if !u.Valid() {
			continue
		}
		for _, f := range u.Features(t.Language, exact) {
			if f == "" {
				continue
			}
			t.Counts[f]++
			t.TotalTokens++
		}
	}
}

// Count returns the occurrence count of a feature. Unknown features count
// as 1, never 0, so log computations stay defined.
func (t *FrequencyTable) Count(feature string) int64 {
	if t == nil {
		return 1
	}
	if c, ok := t.Counts[feature]; ok && c > 0 {
		return c
	}
	return 1
}

// IDF is the inverse-frequency weight of a feature:
// ln((total+1)/(count+1)) + 1.
func (t *FrequencyTable) IDF(feature string) float64 {
	var total int64
	if t != nil {
		total = t.TotalTokens
	}
	return math.Log(float64(total+1)/float64(t.Count(feature)+1)) + 1
}

// MaxUnitScore is the ceiling used to normalize an n-feature match:
// n · ln(total+1), or 1 when the corpus is empty.
func (t *FrequencyTable) MaxUnitScore(n int) float64 {
	var total int64
	if t != nil {
		total = t.TotalTokens
	}
	if total == 0 {
		return 1
	}
	return float64(n) * math.Log(float64(total+1))
}

// BuildFrequencyTable counts features over a set of texts. Segmented
// texts are de-duplicated against their whole-text counterpart first.
func BuildFrequencyTable(lang unit.Language, texts []unit.Text, exact bool) *FrequencyTable {
	t := NewFrequencyTable(lang)
	for _, text := range DedupeSegments(texts) {
		t.Add(text, exact)
	}
	t.UpdatedAt = time.Now().UTC()
	return t
}
