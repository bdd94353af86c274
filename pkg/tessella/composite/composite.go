// Package composite merges independently scored match sets into a single
// confidence-tiered verdict per unit pair.
//
// The correlator performs no matching of its own: each input set was
// produced by one match strategy and scored separately. Signals are gated
// by per-signal thresholds, grouped by unit-pair, and bucketed by how many
// independent signals corroborate the pair.
package composite

import (
	"sort"

	"go.uber.org/zap"

	"github.com/intertext/tessella/pkg/tessella/config"
	"github.com/intertext/tessella/pkg/tessella/score"
)

// Tier is the confidence bucket of a composite match.
type Tier string

const (
	TierGold   Tier = "gold"
	TierSilver Tier = "silver"
	TierBronze Tier = "bronze"
	TierCopper Tier = "copper"
)

// tierFor maps corroborating-signal count to a bucket. Zero signals never
// reaches here; those pairs are dropped before classification.
func tierFor(signals int) Tier {
	switch {
	case signals >= 4:
		return TierGold
	case signals == 3:
		return TierSilver
	case signals == 2:
		return TierBronze
	default:
		return TierCopper
	}
}

// PairKey identifies one source/target unit pair across signal sets.
type PairKey struct {
	SourceRef string
	TargetRef string
}

// Match is the merged verdict for one unit pair. A nil signal score means
// that signal either was not run or fell below its threshold.
type Match struct {
	SourceRef string
	TargetRef string

	LemmaScore        *float64
	SemanticScore     *float64
	SoundScore        *float64
	EditDistanceScore *float64

	// LemmaMatches is the matched-lemma count behind LemmaScore.
	LemmaMatches int

	Tier           Tier
	CompositeScore float64
}

// Signals counts the corroborating signals present on the pair.
func (m Match) Signals() int {
	n := 0
	for _, s := range []*float64{m.LemmaScore, m.SemanticScore, m.SoundScore, m.EditDistanceScore} {
		if s != nil {
			n++
		}
	}
	return n
}

// Input carries the per-signal scored sets. Any subset may be nil.
type Input struct {
	Lemma        []score.Result
	Semantic     []score.Result
	Sound        []score.Result
	EditDistance []score.Result
}

// Correlator merges scored sets under a threshold configuration.
type Correlator struct {
	thresholds config.CompositeThresholds
	log        *zap.Logger
}

// NewCorrelator builds a correlator. log may be nil.
func NewCorrelator(t config.CompositeThresholds, log *zap.Logger) *Correlator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Correlator{thresholds: t, log: log}
}

// Correlate groups the inputs by unit pair, gates each signal by its
// threshold, and returns one Match per pair with at least one surviving
// signal, sorted by composite score descending within tier.
func (c *Correlator) Correlate(in Input) []Match {
	pairs := make(map[PairKey]*Match)

	get := func(r score.Result) *Match {
		key := PairKey{SourceRef: r.SourceRef, TargetRef: r.TargetRef}
		m := pairs[key]
		if m == nil {
			m = &Match{SourceRef: r.SourceRef, TargetRef: r.TargetRef}
			pairs[key] = m
		}
		return m
	}

	for _, r := range in.Lemma {
		// The lemma signal keeps the unnormalized information score; the
		// gate is on that scale, with a minimum corroborating lemma count.
		if r.RawScore < c.thresholds.LemmaScore || len(r.MatchedWords) < c.thresholds.LemmaMinMatches {
			continue
		}
		m := get(r)
		if m.LemmaScore == nil || r.RawScore > *m.LemmaScore {
			v := r.RawScore
			m.LemmaScore = &v
			m.LemmaMatches = len(r.MatchedWords)
		}
	}
	c.mergeSimilarity(pairs, in.Semantic, c.thresholds.Semantic, func(m *Match) **float64 { return &m.SemanticScore })
	c.mergeSimilarity(pairs, in.Sound, c.thresholds.Sound, func(m *Match) **float64 { return &m.SoundScore })
	c.mergeSimilarity(pairs, in.EditDistance, c.thresholds.EditDistance, func(m *Match) **float64 { return &m.EditDistanceScore })

	out := make([]Match, 0, len(pairs))
	for _, m := range pairs {
		n := m.Signals()
		if n == 0 {
			continue
		}
		m.Tier = tierFor(n)
		m.CompositeScore = compositeScore(*m)
		out = append(out, *m)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Signals() != out[j].Signals() {
			return out[i].Signals() > out[j].Signals()
		}
		if out[i].CompositeScore != out[j].CompositeScore {
			return out[i].CompositeScore > out[j].CompositeScore
		}
		if out[i].SourceRef != out[j].SourceRef {
			return out[i].SourceRef < out[j].SourceRef
		}
		return out[i].TargetRef < out[j].TargetRef
	})

	c.log.Debug("correlated signal sets", zap.Int("pairs", len(out)))
	return out
}

func (c *Correlator) mergeSimilarity(pairs map[PairKey]*Match, results []score.Result, floor float64, slot func(*Match) **float64) {
	for _, r := range results {
		if r.OverallScore < floor {
			continue
		}
		key := PairKey{SourceRef: r.SourceRef, TargetRef: r.TargetRef}
		m := pairs[key]
		if m == nil {
			m = &Match{SourceRef: r.SourceRef, TargetRef: r.TargetRef}
			pairs[key] = m
		}
		p := slot(m)
		if *p == nil || r.OverallScore > **p {
			v := r.OverallScore
			*p = &v
		}
	}
}

// compositeScore sums each present signal normalized to [0,1]. The lemma
// signal lives on a 0–10 information scale and is divided down; the
// similarity signals are already normalized.
func compositeScore(m Match) float64 {
	total := 0.0
	if m.LemmaScore != nil {
		l := *m.LemmaScore / 10
		if l > 1 {
			l = 1
		}
		total += l
	}
	for _, s := range []*float64{m.SemanticScore, m.SoundScore, m.EditDistanceScore} {
		if s != nil {
			total += *s
		}
	}
	return total
}
