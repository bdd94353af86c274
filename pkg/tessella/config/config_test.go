package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/intertext/tessella/pkg/tessella/unit"
)

func TestValidateDefaults(t *testing.T) {
	s, err := Settings{Language: unit.Latin}.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if s.MatchType != BasisLemma {
		t.Errorf("default match type = %q", s.MatchType)
	}
	if s.MinMatches != 2 || s.MaxDistance != 999 || s.MaxResults != 500 {
		t.Errorf("defaults not applied: %+v", s)
	}
	if s.MaxComparisons != 5_000_000 {
		t.Errorf("comparison ceiling = %d", s.MaxComparisons)
	}
}

func TestValidateRejectsUnknown(t *testing.T) {
	if _, err := (Settings{Language: unit.Latin, MatchType: "vibes"}).Validate(); err == nil {
		t.Error("unknown match type should fail validation")
	}
	if _, err := (Settings{Language: unit.Latin, StoplistBasis: "everything"}).Validate(); err == nil {
		t.Error("unknown stoplist basis should fail validation")
	}
	if _, err := (Settings{}).Validate(); err == nil {
		t.Error("missing language should fail validation")
	}
	if _, err := (Settings{Language: unit.Latin, StoplistSize: -2}).Validate(); err == nil {
		t.Error("stoplist_size below -1 should fail validation")
	}
}

func TestValidateKeepsExplicit(t *testing.T) {
	s, err := Settings{
		Language:     unit.Greek,
		MatchType:    BasisSound,
		MinMatches:   3,
		StoplistSize: -1,
	}.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if s.MinMatches != 3 || s.StoplistSize != -1 || s.MatchType != BasisSound {
		t.Errorf("explicit values overwritten: %+v", s)
	}
}

func TestDefaultCompositeThresholds(t *testing.T) {
	th := DefaultCompositeThresholds()
	if th.LemmaScore != 7.0 || th.LemmaMinMatches != 2 {
		t.Errorf("lemma defaults: %+v", th)
	}
	if th.Semantic != 0.7 || th.Sound != 0.6 || th.EditDistance != 0.5 {
		t.Errorf("signal defaults: %+v", th)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tessella.yaml")
	body := `
corpus_dir: /var/corpus
settings:
  language: latin
  match_type: lemma
  min_matches: 2
thresholds:
  lemma_score: 6.5
  lemma_min_matches: 2
  semantic: 0.8
  sound: 0.6
  edit_distance: 0.5
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.CorpusDir != "/var/corpus" {
		t.Errorf("corpus_dir = %q", f.CorpusDir)
	}
	if f.Thresholds.LemmaScore != 6.5 {
		t.Errorf("threshold override lost: %+v", f.Thresholds)
	}
	if f.Boost != DefaultBoostWeights() {
		t.Errorf("boost defaults not applied: %+v", f.Boost)
	}
	if f.Settings.MaxResults != 500 {
		t.Errorf("settings not validated: %+v", f.Settings)
	}
}

func TestLoadSynonyms(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "synonyms.txt")
	body := `# latin synonym groups
ensis|gladius|ferrum
tellus|terra
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	dict, err := LoadSynonyms(path, unit.Latin)
	if err != nil {
		t.Fatalf("LoadSynonyms: %v", err)
	}

	expanded := dict.Expand("gladius")
	found := map[string]bool{}
	for _, s := range expanded {
		found[s] = true
	}
	if !found["gladius"] || !found["ensis"] || !found["ferrum"] {
		t.Errorf("Expand(gladius) = %v", expanded)
	}

	if got := dict.Expand("unknown"); len(got) != 1 || got[0] != "unknown" {
		t.Errorf("Expand(unknown) = %v", got)
	}

	var nilDict SynonymDict
	if got := nilDict.Expand("x"); len(got) != 1 {
		t.Errorf("nil dict expand = %v", got)
	}
}

func TestLoadStoplist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stops.yaml")
	if err := os.WriteFile(path, []byte("terms: [et, In, Vt]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	stops, err := LoadStoplist(path, unit.Latin)
	if err != nil {
		t.Fatalf("LoadStoplist: %v", err)
	}
	want := []string{"et", "in", "ut"}
	for i, w := range want {
		if stops[i] != w {
			t.Errorf("stop %d = %q, want %q", i, stops[i], w)
		}
	}
}
