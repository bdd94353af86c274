// Package match generates candidate correspondences between source and
// target text units under the engine's closed set of match strategies.
package match

import (
	"context"
	"fmt"
	"sort"

	"github.com/intertext/tessella/pkg/tessella/config"
	"github.com/intertext/tessella/pkg/tessella/stoplist"
	"github.com/intertext/tessella/pkg/tessella/unit"
)

// Candidate is one proposed correspondence between a source and a target
// unit. Candidates are ephemeral: produced here, consumed by the scorer,
// never persisted.
type Candidate struct {
	SourceIdx int
	TargetIdx int

	// Features are the shared lemmas, tokens, trigrams, or fuzzy pairs
	// that produced the match, sorted.
	Features []string

	// Positions of the matched features within each unit.
	SourcePositions []int
	TargetPositions []int

	Basis config.MatchBasis

	// Similarity carries the strategy's own metric for the sound,
	// edit-distance, and semantic bases; zero for lemma-family bases.
	Similarity float64
}

// Span is the index range covered by matched positions within one unit:
// 1 when fewer than two positions matched, max − min otherwise, never
// below 1.
func Span(positions []int) int {
	if len(positions) < 2 {
		return 1
	}
	lo, hi := positions[0], positions[0]
	for _, p := range positions[1:] {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	span := hi - lo
	if span < 1 {
		return 1
	}
	return span
}

// Request carries everything a strategy needs for one matching run.
type Request struct {
	Settings config.Settings
	Source   []unit.TextUnit
	Target   []unit.TextUnit
	Stoplist *stoplist.Stoplist

	// Synonyms feeds the synonym basis; ignored by the others.
	Synonyms config.SynonymDict

	// Embedder feeds the semantic basis; ignored by the others.
	Embedder Embedder
}

// Embedder supplies unit embeddings for the semantic basis. Embeddings are
// computed externally; the engine only consumes them.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Matcher is one candidate-generation strategy.
type Matcher func(ctx context.Context, req Request) ([]Candidate, error)

// For returns the strategy for a match basis. The set is closed; an
// unknown basis is a programming error caught at settings validation, so
// this returns an error rather than panicking only for defense at the
// boundary.
func For(basis config.MatchBasis) (Matcher, error) {
	switch basis {
	case config.BasisLemma, config.BasisExact, config.BasisSynonym:
		return matchFeatures, nil
	case config.BasisSound:
		return matchSound, nil
	case config.BasisEditDistance:
		return matchEditDistance, nil
	case config.BasisSemantic:
		return matchSemantic, nil
	}
	return nil, fmt.Errorf("no matcher for basis %q", basis)
}

// sortCandidates gives merged shard output a stable order.
func sortCandidates(cands []Candidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].SourceIdx != cands[j].SourceIdx {
			return cands[i].SourceIdx < cands[j].SourceIdx
		}
		return cands[i].TargetIdx < cands[j].TargetIdx
	})
}
