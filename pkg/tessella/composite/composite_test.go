package composite

import (
	"math"
	"testing"

	"github.com/intertext/tessella/pkg/tessella/config"
	"github.com/intertext/tessella/pkg/tessella/score"
)

func lemmaResult(src, tgt string, raw float64, matches int) score.Result {
	mw := make(map[string]float64, matches)
	for i := 0; i < matches; i++ {
		mw[string(rune('a'+i))] = 1
	}
	return score.Result{SourceRef: src, TargetRef: tgt, RawScore: raw, MatchedWords: mw}
}

func simResult(src, tgt string, overall float64) score.Result {
	return score.Result{SourceRef: src, TargetRef: tgt, OverallScore: overall}
}

func TestTwoSignalsMakeBronze(t *testing.T) {
	c := NewCorrelator(config.DefaultCompositeThresholds(), nil)

	out := c.Correlate(Input{
		Lemma:    []score.Result{lemmaResult("1.1", "2.7", 8, 2)},
		Semantic: []score.Result{simResult("1.1", "2.7", 0.75)},
	})
	if len(out) != 1 {
		t.Fatalf("got %d matches, want 1", len(out))
	}
	m := out[0]
	if m.Tier != TierBronze {
		t.Fatalf("tier = %s, want bronze", m.Tier)
	}
	want := 8.0/10 + 0.75
	if math.Abs(m.CompositeScore-want) > 1e-9 {
		t.Fatalf("composite score = %v, want %v", m.CompositeScore, want)
	}
	if m.SoundScore != nil || m.EditDistanceScore != nil {
		t.Fatal("absent signals must stay nil")
	}
}

func TestTierLadder(t *testing.T) {
	c := NewCorrelator(config.DefaultCompositeThresholds(), nil)

	out := c.Correlate(Input{
		Lemma:        []score.Result{lemmaResult("1.1", "2.1", 9, 3)},
		Semantic:     []score.Result{simResult("1.1", "2.1", 0.9), simResult("1.2", "2.2", 0.8)},
		Sound:        []score.Result{simResult("1.1", "2.1", 0.7), simResult("1.2", "2.2", 0.65), simResult("1.3", "2.3", 0.61)},
		EditDistance: []score.Result{simResult("1.1", "2.1", 0.6), simResult("1.2", "2.2", 0.55)},
	})

	tiers := make(map[string]Tier)
	for _, m := range out {
		tiers[m.SourceRef] = m.Tier
	}
	if tiers["1.1"] != TierGold {
		t.Fatalf("1.1 tier = %s, want gold", tiers["1.1"])
	}
	if tiers["1.2"] != TierSilver {
		t.Fatalf("1.2 tier = %s, want silver", tiers["1.2"])
	}
	if tiers["1.3"] != TierCopper {
		t.Fatalf("1.3 tier = %s, want copper", tiers["1.3"])
	}
}

func TestBelowThresholdSignalsAreAbsent(t *testing.T) {
	c := NewCorrelator(config.DefaultCompositeThresholds(), nil)

	out := c.Correlate(Input{
		Lemma:    []score.Result{lemmaResult("1.1", "2.1", 6.9, 2)}, // under 7.0
		Semantic: []score.Result{simResult("1.1", "2.1", 0.72)},
		Sound:    []score.Result{simResult("1.1", "2.1", 0.59)}, // under 0.6
	})
	if len(out) != 1 {
		t.Fatalf("got %d matches, want 1", len(out))
	}
	m := out[0]
	if m.LemmaScore != nil || m.SoundScore != nil {
		t.Fatal("sub-threshold signals must be recorded as absent")
	}
	if m.Tier != TierCopper {
		t.Fatalf("tier = %s, want copper", m.Tier)
	}
}

func TestLemmaNeedsMinimumMatches(t *testing.T) {
	c := NewCorrelator(config.DefaultCompositeThresholds(), nil)

	out := c.Correlate(Input{
		Lemma: []score.Result{lemmaResult("1.1", "2.1", 9, 1)}, // one lemma only
	})
	if len(out) != 0 {
		t.Fatalf("got %d matches, want 0: zero-signal pairs are dropped", len(out))
	}
}

func TestAnySubsetOfInputs(t *testing.T) {
	c := NewCorrelator(config.DefaultCompositeThresholds(), nil)

	out := c.Correlate(Input{Sound: []score.Result{simResult("3.4", "7.2", 0.95)}})
	if len(out) != 1 || out[0].Tier != TierCopper {
		t.Fatalf("single-input correlation failed: %+v", out)
	}
	if out[0].CompositeScore != 0.95 {
		t.Fatalf("composite score = %v, want 0.95", out[0].CompositeScore)
	}
}

func TestBestDuplicateSignalWins(t *testing.T) {
	c := NewCorrelator(config.DefaultCompositeThresholds(), nil)

	out := c.Correlate(Input{
		Semantic: []score.Result{simResult("1.1", "2.1", 0.71), simResult("1.1", "2.1", 0.93)},
	})
	if len(out) != 1 {
		t.Fatalf("got %d matches, want 1", len(out))
	}
	if *out[0].SemanticScore != 0.93 {
		t.Fatalf("semantic = %v, want the better duplicate 0.93", *out[0].SemanticScore)
	}
}

func TestSortWithinTierByComposite(t *testing.T) {
	c := NewCorrelator(config.DefaultCompositeThresholds(), nil)

	out := c.Correlate(Input{
		Semantic: []score.Result{simResult("1.2", "2.2", 0.8), simResult("1.1", "2.1", 0.95)},
	})
	if len(out) != 2 {
		t.Fatalf("got %d matches, want 2", len(out))
	}
	if out[0].SourceRef != "1.1" || out[1].SourceRef != "1.2" {
		t.Fatalf("order = %s, %s; want descending composite", out[0].SourceRef, out[1].SourceRef)
	}
}
