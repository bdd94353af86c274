// Package stoplist derives the per-request exclusion set of high-frequency
// features, cutting the rank/frequency curve automatically at its elbow.
package stoplist

import (
	"sort"

	"github.com/intertext/tessella/pkg/tessella/config"
	"github.com/intertext/tessella/pkg/tessella/freq"
	"github.com/intertext/tessella/pkg/tessella/unit"
)

// Stoplist is a set of normalized feature strings.
type Stoplist struct {
	terms map[string]struct{}

	// Size is the declared size of the frequency-derived portion, before
	// base and custom stopwords are unioned in.
	Size int
}

// Contains reports whether a feature is stoplisted. Nil-safe.
func (s *Stoplist) Contains(feature string) bool {
	if s == nil {
		return false
	}
	_, ok := s.terms[feature]
	return ok
}

// Terms returns the full stoplist, sorted.
func (s *Stoplist) Terms() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.terms))
	for t := range s.terms {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Len is the total number of stoplisted features.
func (s *Stoplist) Len() int {
	if s == nil {
		return 0
	}
	return len(s.terms)
}

func newStoplist() *Stoplist {
	return &Stoplist{terms: make(map[string]struct{})}
}

func (s *Stoplist) add(term string) {
	if term != "" {
		s.terms[term] = struct{}{}
	}
}

// Window bounds the elbow search.
type Window struct {
	MinStopwords int
	MaxStopwords int
}

// Windows per feature kind. Tokens fragment frequency across inflected
// forms far more than lemmas do, so the token window is wider and a hard
// occurrence floor backs it up.
var (
	lemmaWindow = Window{MinStopwords: 10, MaxStopwords: 50}
	tokenWindow = Window{MinStopwords: 50, MaxStopwords: 120}
)

// tokenFloor is the occurrence count at which a token-basis feature is
// always stoplisted, independent of the elbow.
const tokenFloor = 40

// Builder derives stoplists for one language.
type Builder struct {
	lang  unit.Language
	base  []string // fixed per-language base list, already normalized
	exact bool     // token features rather than lemmas
}

// NewBuilder returns a stoplist builder. base may be nil; when nil the
// built-in list for the language is used.
func NewBuilder(lang unit.Language, base []string, exact bool) *Builder {
	if base == nil {
		base = BaseList(lang)
	}
	return &Builder{lang: lang, base: base, exact: exact}
}

// Build derives the stoplist for a request.
//
// The frequency-derived portion comes from the configured basis: the
// source units, the target units, both, or the corpus-wide table. Its size
// is the Zipf elbow by default, a fixed rank cutoff when s.StoplistSize > 0,
// and empty when disabled (−1, custom stopwords only). The result is
// unioned with the base list and any caller-supplied custom stopwords.
func (b *Builder) Build(s config.Settings, source, target []unit.TextUnit, corpus *freq.FrequencyTable) *Stoplist {
	out := newStoplist()

	for _, custom := range s.CustomStopwords {
		out.add(unit.Normalize(custom, b.lang))
	}
	if s.StoplistSize == -1 {
		return out
	}

	for _, term := range b.base {
		out.add(term)
	}

	ranked := b.rankedFeatures(s, source, target, corpus)
	w := lemmaWindow
	if b.exact {
		w = tokenWindow
	}

	var cut int
	switch {
	case s.StoplistSize > 0:
		cut = s.StoplistSize
		if cut > len(ranked) {
			cut = len(ranked)
		}
	default:
		cut = elbowCut(ranked, w)
	}

	out.Size = cut
	for _, rf := range ranked[:cut] {
		out.add(rf.feature)
	}

	if b.exact {
		for _, rf := range ranked {
			if rf.count < tokenFloor {
				break
			}
			out.add(rf.feature)
		}
	}
	return out
}

type rankedFeature struct {
	feature string
	count   int64
}

// rankedFeatures produces the basis frequency counter sorted by descending
// count, ties broken alphabetically so identical inputs rank identically.
func (b *Builder) rankedFeatures(s config.Settings, source, target []unit.TextUnit, corpus *freq.FrequencyTable) []rankedFeature {
	counts := make(map[string]int64)

	switch s.StoplistBasis {
	case config.StoplistCorpus:
		if corpus != nil {
			for f, c := range corpus.Counts {
				counts[f] = c
			}
		}
	case config.StoplistSource:
		b.countUnits(counts, source)
	case config.StoplistTarget:
		b.countUnits(counts, target)
	default: // source_target
		b.countUnits(counts, source)
		b.countUnits(counts, target)
	}

	ranked := make([]rankedFeature, 0, len(counts))
	for f, c := range counts {
		if c > 0 {
			ranked = append(ranked, rankedFeature{feature: f, count: c})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].feature < ranked[j].feature
	})
	return ranked
}

func (b *Builder) countUnits(counts map[string]int64, units []unit.TextUnit) {
	for _, u := range units {
		if !u.Valid() {
			continue
		}
		for _, f := range u.Features(b.lang, b.exact) {
			if f != "" {
				counts[f]++
			}
		}
	}
}
