// Package score turns match candidates into ranked, explainable results.
//
// Lemma-family candidates get the information-theoretic IDF formula with
// distance damping; sound, edit-distance, and semantic candidates carry
// their own similarity metric through unchanged. Every basis produces the
// same Result shape for uniform downstream handling.
package score

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/intertext/tessella/pkg/tessella/config"
	"github.com/intertext/tessella/pkg/tessella/freq"
	"github.com/intertext/tessella/pkg/tessella/match"
	"github.com/intertext/tessella/pkg/tessella/unit"
)

// Result is the terminal scored record for one unit pair. It is returned
// to the caller and never mutated afterward.
type Result struct {
	SourceRef    string
	TargetRef    string
	SourceTokens []string
	TargetTokens []string

	// Highlight indices into the token slices.
	SourceHighlights []int
	TargetHighlights []int

	// MatchedWords is the per-feature IDF breakdown for lemma-family
	// results; empty for similarity-scored bases.
	MatchedWords map[string]float64

	SourceDistance int
	TargetDistance int

	// RawScore is the unclipped information score (the familiar 0–10
	// scale for lemma matches) or the similarity metric for the other
	// bases. BaseScore and OverallScore are normalized to [0,1].
	RawScore     float64
	BaseScore    float64
	OverallScore float64

	// Features is the auxiliary signal breakdown applied by the boost.
	Features map[string]float64

	Basis config.MatchBasis
}

// Scorer computes scores for one request.
type Scorer struct {
	settings config.Settings
	table    *freq.FrequencyTable
	bigrams  *freq.BigramTable
	boost    *FeatureScorer
	log      *zap.Logger
}

// NewScorer builds a scorer. table supplies IDF frequencies (corpus-wide
// or request-local, the caller chooses); bigrams may be nil when the
// bigram boost is disabled. log may be nil.
func NewScorer(s config.Settings, table *freq.FrequencyTable, bigrams *freq.BigramTable, boost *FeatureScorer, log *zap.Logger) *Scorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scorer{settings: s, table: table, bigrams: bigrams, boost: boost, log: log}
}

// Score converts one candidate into a Result.
func (sc *Scorer) Score(c match.Candidate, src, tgt unit.TextUnit) Result {
	switch c.Basis {
	case config.BasisLemma, config.BasisExact, config.BasisSynonym:
		return sc.scoreLemma(c, src, tgt)
	default:
		return sc.scoreSimilarity(c, src, tgt)
	}
}

func (sc *Scorer) scoreLemma(c match.Candidate, src, tgt unit.TextUnit) Result {
	matched := make(map[string]float64, len(c.Features))
	total := 0.0
	for _, f := range c.Features {
		idf := sc.table.IDF(f)
		matched[f] = idf
		total += idf
	}

	srcSpan := match.Span(c.SourcePositions)
	tgtSpan := match.Span(c.TargetPositions)
	penalty := (float64(srcSpan) + float64(tgtSpan)) / 2

	factor := 1.0
	if penalty > 0 {
		factor = 1 / math.Log(penalty+1)
	}

	raw := total * factor
	maxScore := sc.table.MaxUnitScore(len(c.Features))
	base := raw / maxScore
	if base > 1 {
		base = 1
	}

	res := Result{
		SourceRef:        src.Ref,
		TargetRef:        tgt.Ref,
		SourceTokens:     src.Tokens,
		TargetTokens:     tgt.Tokens,
		SourceHighlights: c.SourcePositions,
		TargetHighlights: c.TargetPositions,
		MatchedWords:     matched,
		SourceDistance:   srcSpan,
		TargetDistance:   tgtSpan,
		RawScore:         raw,
		BaseScore:        base,
		Basis:            c.Basis,
	}

	boost, features := sc.boost.Boost(sc.settings, c, src, tgt)
	res.Features = features

	overall := base * boost
	if overall > 1 {
		overall = 1
	}

	if sc.settings.BigramBoost && sc.bigrams != nil {
		bonus := sc.bigramBonus(c, src, tgt)
		overall += bonus
		if overall > 1 {
			overall = 1
		}
	}
	res.OverallScore = overall
	return res
}

// scoreSimilarity passes a strategy's own metric through as the score.
func (sc *Scorer) scoreSimilarity(c match.Candidate, src, tgt unit.TextUnit) Result {
	sim := c.Similarity
	if sim < 0 {
		sim = 0
	}
	if sim > 1 {
		sim = 1
	}
	return Result{
		SourceRef:        src.Ref,
		TargetRef:        tgt.Ref,
		SourceTokens:     src.Tokens,
		TargetTokens:     tgt.Tokens,
		SourceHighlights: c.SourcePositions,
		TargetHighlights: c.TargetPositions,
		SourceDistance:   match.Span(c.SourcePositions),
		TargetDistance:   match.Span(c.TargetPositions),
		RawScore:         c.Similarity,
		BaseScore:        sim,
		OverallScore:     sim,
		Basis:            c.Basis,
	}
}

// Sort orders results by overall score descending, stable on refs so equal
// scores keep a deterministic order, and truncates to max.
func Sort(results []Result, max int) []Result {
	sort.Slice(results, func(i, j int) bool {
		if results[i].OverallScore != results[j].OverallScore {
			return results[i].OverallScore > results[j].OverallScore
		}
		if results[i].SourceRef != results[j].SourceRef {
			return results[i].SourceRef < results[j].SourceRef
		}
		return results[i].TargetRef < results[j].TargetRef
	})
	if max > 0 && len(results) > max {
		results = results[:max]
	}
	return results
}
