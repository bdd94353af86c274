package match

import (
	"context"
	"sort"

	"github.com/intertext/tessella/pkg/tessella/internalerr"
	"github.com/intertext/tessella/pkg/tessella/strdist"
)

// matchSound ranks target units by character-trigram Jaccard similarity
// against each source unit, keeping only targets above the floor and at
// most SoundTopN per source. Bounded, not exhaustive: the unit-pair count
// is checked against the comparison ceiling up front.
func matchSound(ctx context.Context, req Request) ([]Candidate, error) {
	s := req.Settings

	pairs := int64(len(req.Source)) * int64(len(req.Target))
	if pairs > s.MaxComparisons {
		return nil, &internalerr.ComparisonLimitError{Actual: pairs, Max: s.MaxComparisons}
	}

	srcSets := make([]strdist.TrigramSet, len(req.Source))
	for i, u := range req.Source {
		if u.Valid() {
			srcSets[i] = strdist.TrigramsOfAll(u.Features(s.Language, true))
		}
	}
	tgtSets := make([]strdist.TrigramSet, len(req.Target))
	for i, u := range req.Target {
		if u.Valid() {
			tgtSets[i] = strdist.TrigramsOfAll(u.Features(s.Language, true))
		}
	}

	var out []Candidate
	for si, srcSet := range srcSets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(srcSet) == 0 {
			continue
		}

		type scored struct {
			ti  int
			sim float64
		}
		var ranked []scored
		for ti, tgtSet := range tgtSets {
			sim := strdist.Jaccard(srcSet, tgtSet)
			if sim >= s.SoundFloor {
				ranked = append(ranked, scored{ti: ti, sim: sim})
			}
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].sim != ranked[j].sim {
				return ranked[i].sim > ranked[j].sim
			}
			return ranked[i].ti < ranked[j].ti
		})
		if len(ranked) > s.SoundTopN {
			ranked = ranked[:s.SoundTopN]
		}

		for _, r := range ranked {
			shared := strdist.Shared(srcSet, tgtSets[r.ti])
			sort.Strings(shared)
			out = append(out, Candidate{
				SourceIdx:  si,
				TargetIdx:  r.ti,
				Features:   shared,
				Basis:      s.MatchType,
				Similarity: r.sim,
			})
		}
	}
	sortCandidates(out)
	return out, nil
}
