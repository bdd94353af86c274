package tessella

import (
	"context"
	"errors"
	"testing"

	"github.com/intertext/tessella/pkg/tessella/composite"
	"github.com/intertext/tessella/pkg/tessella/config"
	"github.com/intertext/tessella/pkg/tessella/internalerr"
	"github.com/intertext/tessella/pkg/tessella/semantic"
	"github.com/intertext/tessella/pkg/tessella/unit"
)

func sourceUnits() []unit.TextUnit {
	return []unit.TextUnit{
		{
			Ref:    "1.1",
			Tokens: []string{"arma", "virumque", "cano", "troiae"},
			Lemmas: []string{"arma", "uir", "cano", "troia"},
		},
		{
			Ref:    "1.2",
			Tokens: []string{"italiam", "fato", "profugus"},
			Lemmas: []string{"italia", "fatum", "profugus"},
		},
	}
}

func targetUnits() []unit.TextUnit {
	return []unit.TextUnit{
		{
			Ref:    "6.86",
			Tokens: []string{"bella", "horrida", "bella"},
			Lemmas: []string{"bellum", "horridus", "bellum"},
		},
		{
			Ref:    "7.41",
			Tokens: []string{"arma", "virosque", "fama"},
			Lemmas: []string{"arma", "uir", "fama"},
		},
	}
}

func TestSearchLemmaEndToEnd(t *testing.T) {
	e := New(Options{})
	defer e.Close()

	s := config.Defaults(unit.Latin)
	s.StoplistSize = -1 // tiny texts: keep every word matchable

	results, err := e.Search(context.Background(), SearchRequest{
		Settings: s,
		Source:   sourceUnits(),
		Target:   targetUnits(),
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.SourceRef != "1.1" || r.TargetRef != "7.41" {
		t.Fatalf("matched %s→%s, want 1.1→7.41", r.SourceRef, r.TargetRef)
	}
	if len(r.MatchedWords) != 2 {
		t.Fatalf("matched words = %v, want arma and uir", r.MatchedWords)
	}
	if r.OverallScore <= 0 || r.OverallScore > 1 {
		t.Fatalf("overall score = %v out of range", r.OverallScore)
	}
}

func TestSearchRespectsMaxResults(t *testing.T) {
	e := New(Options{})
	defer e.Close()

	// Every source unit matches every target unit on the same two lemmas.
	var src, tgt []unit.TextUnit
	for i := 0; i < 5; i++ {
		u := unit.TextUnit{
			Ref:    "s",
			Tokens: []string{"arma", "virum"},
			Lemmas: []string{"arma", "uir"},
		}
		src = append(src, u)
		tgt = append(tgt, u)
	}

	s := config.Defaults(unit.Latin)
	s.StoplistSize = -1
	s.MaxResults = 3

	results, err := e.Search(context.Background(), SearchRequest{Settings: s, Source: src, Target: tgt})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want the max_results cap of 3", len(results))
	}
}

func TestSearchCorpusSettingsNeedCache(t *testing.T) {
	e := New(Options{})
	defer e.Close()

	s := config.Defaults(unit.Latin)
	s.FrequencyBasis = config.FreqCorpus

	_, err := e.Search(context.Background(), SearchRequest{Settings: s, Source: sourceUnits(), Target: targetUnits()})
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestSearchInvalidSettingsRejected(t *testing.T) {
	e := New(Options{})
	defer e.Close()

	s := config.Defaults(unit.Latin)
	s.MatchType = "anagram"

	if _, err := e.Search(context.Background(), SearchRequest{Settings: s}); err == nil {
		t.Fatal("unknown match_type must fail validation")
	}
}

func TestSearchSemanticBasis(t *testing.T) {
	e := New(Options{Embedder: semantic.NewHashEmbedder(64)})
	defer e.Close()

	s := config.Defaults(unit.Latin)
	s.MatchType = config.BasisSemantic
	s.SemanticFloor = 0.99 // only near-identical units qualify

	src := []unit.TextUnit{{Ref: "1.1", Tokens: []string{"arma", "virum"}, Lemmas: []string{"arma", "uir"}}}
	tgt := []unit.TextUnit{
		{Ref: "2.1", Tokens: []string{"arma", "virum"}, Lemmas: []string{"arma", "uir"}},
		{Ref: "2.2", Tokens: []string{"pastor", "oues"}, Lemmas: []string{"pastor", "ouis"}},
	}

	results, err := e.Search(context.Background(), SearchRequest{Settings: s, Source: src, Target: tgt})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].TargetRef != "2.1" {
		t.Fatalf("results = %+v, want only the identical unit", results)
	}
}

func TestCorrelateMergesSignals(t *testing.T) {
	e := New(Options{Embedder: semantic.NewHashEmbedder(64)})
	defer e.Close()

	s := config.Defaults(unit.Latin)
	s.StoplistSize = -1

	// Identical units: sound, edit-distance, and semantic corroborate the
	// pair outright; the lemma signal depends on the tiny request-local
	// frequency table and may fall under its gate.
	src := []unit.TextUnit{{Ref: "1.1", Tokens: []string{"arma", "virumque", "cano"}, Lemmas: []string{"arma", "uir", "cano"}}}
	tgt := []unit.TextUnit{{Ref: "9.9", Tokens: []string{"arma", "virumque", "cano"}, Lemmas: []string{"arma", "uir", "cano"}}}

	matches, err := e.Correlate(context.Background(), CompositeRequest{Settings: s, Source: src, Target: tgt})
	if err != nil {
		t.Fatalf("correlate: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d composite matches, want 1", len(matches))
	}
	m := matches[0]
	if m.Signals() < 3 {
		t.Fatalf("signals = %d, want at least sound+edit+semantic on identical units: %+v", m.Signals(), m)
	}
	if m.Tier != composite.TierGold && m.Tier != composite.TierSilver {
		t.Fatalf("tier = %s for %d signals", m.Tier, m.Signals())
	}
}

func TestCorrelateSubsetOfSignals(t *testing.T) {
	e := New(Options{})
	defer e.Close()

	s := config.Defaults(unit.Latin)
	s.StoplistSize = -1

	matches, err := e.Correlate(context.Background(), CompositeRequest{
		Settings: s,
		Source:   sourceUnits(),
		Target:   targetUnits(),
		Signals:  []config.MatchBasis{config.BasisLemma},
	})
	if err != nil {
		t.Fatalf("correlate: %v", err)
	}
	for _, m := range matches {
		if m.SemanticScore != nil || m.SoundScore != nil || m.EditDistanceScore != nil {
			t.Fatalf("unrequested signals present: %+v", m)
		}
	}
}
