package match

import (
	"context"
	"runtime"
	"sort"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/intertext/tessella/pkg/tessella/config"
	"github.com/intertext/tessella/pkg/tessella/stoplist"
)

// minFeatureLen filters single-character features, which carry no signal
// and bloat the target map.
const minFeatureLen = 2

// targetSlot records one occurrence of a feature in a target unit.
type targetSlot struct {
	unitIdx int
	pos     int
}

// matchFeatures is the lemma, exact, and synonym strategy: build a
// feature → target-occurrence map, then intersect each source unit's
// features against it. The synonym basis additionally expands each source
// feature through the synonym table before lookup.
func matchFeatures(ctx context.Context, req Request) ([]Candidate, error) {
	s := req.Settings
	exact := s.MatchType == config.BasisExact

	index := buildTargetIndex(req, exact)
	if len(index) == 0 {
		return nil, nil
	}

	shards := runtime.GOMAXPROCS(0)
	if shards > len(req.Source) {
		shards = len(req.Source)
	}
	if shards < 1 {
		shards = 1
	}

	results := make([][]Candidate, shards)
	g, gctx := errgroup.WithContext(ctx)
	chunk := (len(req.Source) + shards - 1) / shards
	for i := 0; i < shards; i++ {
		i := i
		lo := i * chunk
		hi := lo + chunk
		if hi > len(req.Source) {
			hi = len(req.Source)
		}
		g.Go(func() error {
			out, err := matchSourceRange(gctx, req, index, lo, hi, exact)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Candidate
	for _, r := range results {
		all = append(all, r...)
	}
	sortCandidates(all)
	return all, nil
}

func buildTargetIndex(req Request, exact bool) map[string][]targetSlot {
	index := make(map[string][]targetSlot)
	for ti, u := range req.Target {
		if !u.Valid() {
			continue
		}
		for pos, f := range u.Features(req.Settings.Language, exact) {
			if skippable(f, req.Stoplist) {
				continue
			}
			index[f] = append(index[f], targetSlot{unitIdx: ti, pos: pos})
		}
	}
	return index
}

func matchSourceRange(ctx context.Context, req Request, index map[string][]targetSlot, lo, hi int, exact bool) ([]Candidate, error) {
	s := req.Settings
	var out []Candidate

	type accum struct {
		features map[string]struct{}
		srcPos   map[int]struct{}
		tgtPos   map[int]struct{}
	}

	for si := lo; si < hi; si++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		u := req.Source[si]
		if !u.Valid() {
			continue
		}

		byTarget := make(map[int]*accum)
		for pos, f := range u.Features(s.Language, exact) {
			if skippable(f, req.Stoplist) {
				continue
			}

			lookups := []string{f}
			if s.MatchType == config.BasisSynonym {
				lookups = req.Synonyms.Expand(f)
			}
			for _, lk := range lookups {
				for _, slot := range index[lk] {
					a := byTarget[slot.unitIdx]
					if a == nil {
						a = &accum{
							features: make(map[string]struct{}),
							srcPos:   make(map[int]struct{}),
							tgtPos:   make(map[int]struct{}),
						}
						byTarget[slot.unitIdx] = a
					}
					// The matched feature is recorded under the source
					// spelling so synonym hits stay traceable.
					a.features[f] = struct{}{}
					a.srcPos[pos] = struct{}{}
					a.tgtPos[slot.pos] = struct{}{}
				}
			}
		}

		for ti, a := range byTarget {
			if len(a.features) < s.MinMatches {
				continue
			}
			srcPos := sortedInts(a.srcPos)
			tgtPos := sortedInts(a.tgtPos)
			if Span(srcPos) > s.MaxDistance || Span(tgtPos) > s.MaxDistance {
				continue
			}
			out = append(out, Candidate{
				SourceIdx:       si,
				TargetIdx:       ti,
				Features:        sortedStrings(a.features),
				SourcePositions: srcPos,
				TargetPositions: tgtPos,
				Basis:           s.MatchType,
			})
		}
	}
	return out, nil
}

func skippable(f string, sl *stoplist.Stoplist) bool {
	if f == "" || utf8.RuneCountInString(f) < minFeatureLen {
		return true
	}
	return sl.Contains(f)
}

func sortedInts(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
