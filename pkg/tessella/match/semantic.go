package match

import (
	"context"
	"fmt"
	"strings"

	"github.com/intertext/tessella/pkg/tessella/semantic"
)

// matchSemantic pairs units by embedding cosine similarity. Embeddings come
// from the pluggable provider; the engine only compares them. Pairs below
// the floor are dropped. A corrupt or failed embedding skips that single
// unit rather than aborting the search.
func matchSemantic(ctx context.Context, req Request) ([]Candidate, error) {
	if req.Embedder == nil {
		return nil, fmt.Errorf("semantic basis requires an embedder")
	}
	s := req.Settings

	embed := func(units []unitText) [][]float32 {
		vecs := make([][]float32, len(units))
		for i, u := range units {
			if u.text == "" {
				continue
			}
			v, err := req.Embedder.Embed(ctx, u.text)
			if err != nil {
				continue // local failure, unit simply won't match
			}
			vecs[i] = v
		}
		return vecs
	}

	srcVecs := embed(unitTexts(req, true))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tgtVecs := embed(unitTexts(req, false))

	var out []Candidate
	for si, sv := range srcVecs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if sv == nil {
			continue
		}
		for ti, tv := range tgtVecs {
			if tv == nil {
				continue
			}
			sim := semantic.Cosine(sv, tv)
			if sim < s.SemanticFloor {
				continue
			}
			out = append(out, Candidate{
				SourceIdx:  si,
				TargetIdx:  ti,
				Basis:      s.MatchType,
				Similarity: sim,
			})
		}
	}
	sortCandidates(out)
	return out, nil
}

type unitText struct {
	text string
}

func unitTexts(req Request, source bool) []unitText {
	units := req.Target
	if source {
		units = req.Source
	}
	out := make([]unitText, len(units))
	for i, u := range units {
		if !u.Valid() {
			continue
		}
		out[i] = unitText{text: strings.Join(u.Features(req.Settings.Language, true), " ")}
	}
	return out
}
