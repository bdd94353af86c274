package score

import (
	"go.uber.org/zap"

	"github.com/intertext/tessella/pkg/tessella/config"
	"github.com/intertext/tessella/pkg/tessella/match"
	"github.com/intertext/tessella/pkg/tessella/strdist"
	"github.com/intertext/tessella/pkg/tessella/unit"
)

// ExternalScorer supplies an auxiliary similarity signal computed outside
// the engine, such as metrical or syntactic correspondence. Scores are in
// [0,1]; a failure skips the signal for that pair only.
type ExternalScorer interface {
	Name() string
	Score(src, tgt unit.TextUnit) (float64, error)
}

// FeatureScorer computes the multiplicative boost from auxiliary signals.
// Each enabled signal that clears its floor adds weight·value to a factor
// that starts at 1.
type FeatureScorer struct {
	weights config.BoostWeights
	meter   ExternalScorer
	syntax  ExternalScorer
	log     *zap.Logger
}

// NewFeatureScorer builds a boost calculator. meter and syntax may be nil;
// their signals are then skipped even when enabled. log may be nil.
func NewFeatureScorer(w config.BoostWeights, meter, syntax ExternalScorer, log *zap.Logger) *FeatureScorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &FeatureScorer{weights: w, meter: meter, syntax: syntax, log: log}
}

// Boost returns the multiplicative factor for one candidate together with
// the per-signal breakdown of values that contributed.
func (fs *FeatureScorer) Boost(s config.Settings, c match.Candidate, src, tgt unit.TextUnit) (float64, map[string]float64) {
	boost := 1.0
	applied := make(map[string]float64)

	if s.UsePOS {
		if v, ok := posAgreement(s, c, src, tgt); ok && v >= fs.weights.POSMin {
			boost += fs.weights.POS * v
			applied["pos"] = v
		}
	}
	if s.UseEditDistance {
		if v, ok := surfaceSimilarity(s, c, src, tgt); ok && v >= fs.weights.EditDistMin {
			boost += fs.weights.EditDist * v
			applied["edit_distance"] = v
		}
	}
	if s.UseSound {
		if v, ok := soundSimilarity(s, c, src, tgt); ok && v >= fs.weights.SoundMin {
			boost += fs.weights.Sound * v
			applied["sound"] = v
		}
	}
	if s.UseMeter && fs.meter != nil {
		fs.external(fs.meter, fs.weights.Meter, fs.weights.MeterMin, src, tgt, &boost, applied)
	}
	if s.UseSyntax && fs.syntax != nil {
		fs.external(fs.syntax, fs.weights.Syntax, fs.weights.SyntaxMin, src, tgt, &boost, applied)
	}
	return boost, applied
}

func (fs *FeatureScorer) external(p ExternalScorer, weight, floor float64, src, tgt unit.TextUnit, boost *float64, applied map[string]float64) {
	v, err := p.Score(src, tgt)
	if err != nil {
		fs.log.Warn("external scorer failed, signal skipped",
			zap.String("scorer", p.Name()),
			zap.String("source", src.Ref),
			zap.String("target", tgt.Ref),
			zap.Error(err))
		return
	}
	if v >= floor {
		*boost += weight * v
		applied[p.Name()] = v
	}
}

// posAgreement is the fraction of matched features whose part-of-speech
// tags coincide between the two units. Requires tags on both sides.
func posAgreement(s config.Settings, c match.Candidate, src, tgt unit.TextUnit) (float64, bool) {
	if len(src.POSTags) != len(src.Tokens) || len(tgt.POSTags) != len(tgt.Tokens) {
		return 0, false
	}
	exact := s.MatchType == config.BasisExact
	srcTags := tagsByFeature(src, s.Language, exact)
	tgtTags := tagsByFeature(tgt, s.Language, exact)

	agree := 0
	for _, f := range c.Features {
		if overlap(srcTags[f], tgtTags[f]) {
			agree++
		}
	}
	if len(c.Features) == 0 {
		return 0, false
	}
	return float64(agree) / float64(len(c.Features)), true
}

func tagsByFeature(u unit.TextUnit, lang unit.Language, exact bool) map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{})
	for pos, f := range u.Features(lang, exact) {
		if pos >= len(u.POSTags) {
			break
		}
		set := out[f]
		if set == nil {
			set = make(map[string]struct{})
			out[f] = set
		}
		set[u.POSTags[pos]] = struct{}{}
	}
	return out
}

func overlap(a, b map[string]struct{}) bool {
	for t := range a {
		if _, ok := b[t]; ok {
			return true
		}
	}
	return false
}

// surfaceSimilarity averages the normalized edit-distance ratio between
// the surface tokens of each matched feature. A lemma match between
// near-identical inflections scores high; one routed through divergent
// surface forms scores low.
func surfaceSimilarity(s config.Settings, c match.Candidate, src, tgt unit.TextUnit) (float64, bool) {
	srcTok := tokenByFeature(src, s)
	tgtTok := tokenByFeature(tgt, s)

	sum, n := 0.0, 0
	for _, f := range c.Features {
		st, sok := srcTok[f]
		tt, tok := tgtTok[f]
		if !sok || !tok {
			continue
		}
		sum += strdist.Ratio(st, tt)
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// soundSimilarity is the trigram Jaccard over the matched surface tokens
// of both sides, concatenated per side.
func soundSimilarity(s config.Settings, c match.Candidate, src, tgt unit.TextUnit) (float64, bool) {
	srcTok := tokenByFeature(src, s)
	tgtTok := tokenByFeature(tgt, s)

	var srcWords, tgtWords []string
	for _, f := range c.Features {
		if t, ok := srcTok[f]; ok {
			srcWords = append(srcWords, t)
		}
		if t, ok := tgtTok[f]; ok {
			tgtWords = append(tgtWords, t)
		}
	}
	if len(srcWords) == 0 || len(tgtWords) == 0 {
		return 0, false
	}
	return strdist.Jaccard(strdist.TrigramsOfAll(srcWords), strdist.TrigramsOfAll(tgtWords)), true
}

// tokenByFeature maps each feature to the first surface token carrying it.
func tokenByFeature(u unit.TextUnit, s config.Settings) map[string]string {
	exact := s.MatchType == config.BasisExact
	out := make(map[string]string)
	for pos, f := range u.Features(s.Language, exact) {
		if pos >= len(u.Tokens) {
			break
		}
		if _, ok := out[f]; !ok {
			out[f] = unit.Normalize(u.Tokens[pos], s.Language)
		}
	}
	return out
}
