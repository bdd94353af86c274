package freq

import (
	"math"
	"time"

	"github.com/intertext/tessella/pkg/tessella/unit"
)

// BigramKey is an unordered feature pair in canonical (lexicographic)
// member order, so direction never matters.
type BigramKey struct {
	A, B string
}

// NewBigramKey canonicalizes a feature pair.
func NewBigramKey(a, b string) BigramKey {
	if a > b {
		a, b = b, a
	}
	return BigramKey{A: a, B: b}
}

// BigramTable tracks how often feature pairs co-occur within one unit
// across the corpus, and in how many units (documents) each pair appears.
type BigramTable struct {
	Language  unit.Language
	Counts    map[BigramKey]int64
	DocFreq   map[BigramKey]int64
	TotalDocs int64

	Checksum  string
	UpdatedAt time.Time
}

// NewBigramTable returns an empty bigram table for a language.
func NewBigramTable(lang unit.Language) *BigramTable {
	return &BigramTable{
		Language: lang,
		Counts:   make(map[BigramKey]int64),
		DocFreq:  make(map[BigramKey]int64),
	}
}

// AddUnit counts every distinct feature pair of one unit. Each unit is one
// document for document-frequency purposes.
func (t *BigramTable) AddUnit(u unit.TextUnit) {
	if !u.Valid() {
		return
	}
	t.TotalDocs++

	feats := u.Features(t.Language, false)
	seen := make(map[BigramKey]struct{})
	for i := 0; i < len(feats); i++ {
		if feats[i] == "" {
			continue
		}
		for j := i + 1; j < len(feats); j++ {
			if feats[j] == "" || feats[i] == feats[j] {
				continue
			}
			key := NewBigramKey(feats[i], feats[j])
			t.Counts[key]++
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				t.DocFreq[key]++
			}
		}
	}
}

// Rarity scores how unusual a pair is: 1 − df/total_docs, clipped to [0,1].
// Unknown pairs are maximally rare.
func (t *BigramTable) Rarity(a, b string) float64 {
	if t == nil || t.TotalDocs == 0 {
		return 1
	}
	df := t.DocFreq[NewBigramKey(a, b)]
	r := 1 - float64(df)/float64(t.TotalDocs)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// IDF is ln((total_docs+1)/(df+1)) for a pair.
func (t *BigramTable) IDF(a, b string) float64 {
	if t == nil {
		return 0
	}
	df := t.DocFreq[NewBigramKey(a, b)]
	return math.Log(float64(t.TotalDocs+1) / float64(df+1))
}

// BuildBigramTable counts pair frequencies over a set of texts, with
// segment de-duplication.
func BuildBigramTable(lang unit.Language, texts []unit.Text) *BigramTable {
	t := NewBigramTable(lang)
	for _, text := range DedupeSegments(texts) {
		for _, u := range text.Units {
			t.AddUnit(u)
		}
	}
	t.UpdatedAt = time.Now().UTC()
	return t
}
