package match

import (
	"context"
	"fmt"
	"sort"

	"github.com/intertext/tessella/pkg/tessella/internalerr"
	"github.com/intertext/tessella/pkg/tessella/strdist"
)

// matchEditDistance finds unit pairs sharing at least MinMatches distinct
// fuzzy token pairs (normalized Levenshtein ratio ≥ FuzzyRatio). This mode
// is quadratic in both tokens and units, so the total token-level
// comparison count is checked against the ceiling before any work starts
// and the request fails with a sized error instead of degrading.
func matchEditDistance(ctx context.Context, req Request) ([]Candidate, error) {
	s := req.Settings

	var srcTokens, tgtTokens int64
	for _, u := range req.Source {
		srcTokens += int64(len(u.Tokens))
	}
	for _, u := range req.Target {
		tgtTokens += int64(len(u.Tokens))
	}
	comparisons := srcTokens * tgtTokens
	if comparisons > s.MaxComparisons {
		return nil, &internalerr.ComparisonLimitError{Actual: comparisons, Max: s.MaxComparisons}
	}

	srcFeats := make([][]string, len(req.Source))
	for i, u := range req.Source {
		if u.Valid() {
			srcFeats[i] = u.Features(s.Language, true)
		}
	}
	tgtFeats := make([][]string, len(req.Target))
	for i, u := range req.Target {
		if u.Valid() {
			tgtFeats[i] = u.Features(s.Language, true)
		}
	}

	var out []Candidate
	for si, sf := range srcFeats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(sf) == 0 {
			continue
		}
		for ti, tf := range tgtFeats {
			if cand, ok := fuzzyPairs(si, ti, sf, tf, req); ok {
				out = append(out, cand)
			}
		}
	}
	sortCandidates(out)
	return out, nil
}

// fuzzyPairs collects the distinct fuzzy token pairs of one unit pair.
// Each source token contributes its best-matching target token; identical
// tokens are left to the exact strategy and skipped here.
func fuzzyPairs(si, ti int, sf, tf []string, req Request) (Candidate, bool) {
	s := req.Settings

	type pair struct {
		src, tgt       string
		srcPos, tgtPos int
		ratio          float64
	}
	var pairs []pair
	usedTargets := make(map[int]struct{})

	for spos, st := range sf {
		if skippable(st, req.Stoplist) {
			continue
		}
		best := -1
		bestRatio := 0.0
		for tpos, tt := range tf {
			if _, taken := usedTargets[tpos]; taken {
				continue
			}
			if skippable(tt, req.Stoplist) || st == tt {
				continue
			}
			// Cheap length prefilter: a ratio ≥ threshold is impossible
			// when lengths diverge too far.
			if lengthRulesOut(st, tt, s.FuzzyRatio) {
				continue
			}
			r := strdist.Ratio(st, tt)
			if r >= s.FuzzyRatio && r > bestRatio {
				best = tpos
				bestRatio = r
			}
		}
		if best >= 0 {
			usedTargets[best] = struct{}{}
			pairs = append(pairs, pair{
				src: st, tgt: tf[best],
				srcPos: spos, tgtPos: best,
				ratio: bestRatio,
			})
		}
	}

	if len(pairs) < s.MinMatches {
		return Candidate{}, false
	}

	features := make([]string, 0, len(pairs))
	srcPos := make([]int, 0, len(pairs))
	tgtPos := make([]int, 0, len(pairs))
	sum := 0.0
	for _, p := range pairs {
		features = append(features, fmt.Sprintf("%s~%s", p.src, p.tgt))
		srcPos = append(srcPos, p.srcPos)
		tgtPos = append(tgtPos, p.tgtPos)
		sum += p.ratio
	}
	sort.Strings(features)
	sort.Ints(srcPos)
	sort.Ints(tgtPos)

	if Span(srcPos) > s.MaxDistance || Span(tgtPos) > s.MaxDistance {
		return Candidate{}, false
	}

	return Candidate{
		SourceIdx:       si,
		TargetIdx:       ti,
		Features:        features,
		SourcePositions: srcPos,
		TargetPositions: tgtPos,
		Basis:           s.MatchType,
		Similarity:      sum / float64(len(pairs)),
	}, true
}

// lengthRulesOut reports whether the rune-length gap between two strings
// already caps their similarity below the threshold.
func lengthRulesOut(a, b string, threshold float64) bool {
	la, lb := len([]rune(a)), len([]rune(b))
	longest, shortest := la, lb
	if lb > longest {
		longest, shortest = lb, la
	}
	if longest == 0 {
		return false
	}
	// Best case: all of the shorter string matches.
	return float64(shortest)/float64(longest) < threshold
}
