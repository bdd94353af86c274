package score

import (
	"github.com/intertext/tessella/pkg/tessella/config"
	"github.com/intertext/tessella/pkg/tessella/freq"
	"github.com/intertext/tessella/pkg/tessella/match"
	"github.com/intertext/tessella/pkg/tessella/unit"
)

// bigramRarityFloor gates the additive bonus: only pairs rarer than this
// across the reference corpus count as signal.
const bigramRarityFloor = 0.8

// bigramBonus rewards matched feature pairs that co-occur within the
// configured intervening-word window in BOTH units and are rare in the
// reference corpus. The bonus is additive on top of the boosted score;
// the caller re-clips.
func (sc *Scorer) bigramBonus(c match.Candidate, src, tgt unit.TextUnit) float64 {
	if len(c.Features) < 2 {
		return 0
	}
	exact := sc.settings.MatchType == config.BasisExact
	lang := sc.settings.Language

	srcPairs := windowPairs(src.Features(lang, exact), c.Features, sc.settings.BigramWindow)
	if len(srcPairs) == 0 {
		return 0
	}
	tgtPairs := windowPairs(tgt.Features(lang, exact), c.Features, sc.settings.BigramWindow)

	bonus := 0.0
	for key := range srcPairs {
		if _, ok := tgtPairs[key]; !ok {
			continue
		}
		rarity := sc.bigrams.Rarity(key.A, key.B)
		if rarity < bigramRarityFloor {
			continue
		}
		bonus += rarity * sc.settings.BigramWeight
	}
	return bonus
}

// windowPairs collects the canonical keys of matched-feature pairs that
// appear within window intervening words of each other in one unit.
func windowPairs(features []string, matched []string, window int) map[freq.BigramKey]struct{} {
	want := make(map[string]struct{}, len(matched))
	for _, f := range matched {
		want[f] = struct{}{}
	}

	// Occurrence positions of matched features in unit order.
	type occ struct {
		feature string
		pos     int
	}
	var occs []occ
	for pos, f := range features {
		if _, ok := want[f]; ok {
			occs = append(occs, occ{feature: f, pos: pos})
		}
	}

	pairs := make(map[freq.BigramKey]struct{})
	for i := 0; i < len(occs); i++ {
		for j := i + 1; j < len(occs); j++ {
			if occs[j].pos-occs[i].pos > window+1 {
				break
			}
			if occs[i].feature == occs[j].feature {
				continue
			}
			pairs[freq.NewBigramKey(occs[i].feature, occs[j].feature)] = struct{}{}
		}
	}
	return pairs
}
