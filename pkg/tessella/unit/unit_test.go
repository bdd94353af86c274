package unit

import (
	"strings"
	"testing"
)

func TestValid(t *testing.T) {
	u := TextUnit{
		Ref:    "1.1",
		Tokens: []string{"arma", "virumque"},
		Lemmas: []string{"arma", "vir"},
	}
	if !u.Valid() {
		t.Error("aligned unit should be valid")
	}

	u.Lemmas = []string{"arma"}
	if u.Valid() {
		t.Error("misaligned unit should be invalid")
	}

	u.Lemmas = []string{"arma", "vir"}
	u.POSTags = []string{"NOUN"}
	if u.Valid() {
		t.Error("misaligned POS tags should be invalid")
	}
}

func TestFeatures(t *testing.T) {
	u := TextUnit{
		Ref:    "1.1",
		Tokens: []string{"Arma", "virumque", "cano"},
		Lemmas: []string{"arma", "vir", ""},
	}

	lemmas := u.Features(Latin, false)
	want := []string{"arma", "uir", "cano"}
	for i, w := range want {
		if lemmas[i] != w {
			t.Errorf("feature %d = %q, want %q", i, lemmas[i], w)
		}
	}

	exact := u.Features(Latin, true)
	if exact[1] != "uirumque" {
		t.Errorf("exact feature = %q, want uirumque", exact[1])
	}
}

func TestNormalizeLatin(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Vergilius", "uergilius"},
		{"iam", "iam"},
		{"Juno", "iuno"},
		{"ARMA", "arma"},
	}
	for _, c := range cases {
		if got := Normalize(c.in, Latin); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeGreek(t *testing.T) {
	cases := []struct{ in, want string }{
		{"μῆνιν", "μηνιν"},
		{"ἄειδε", "αειδε"},
		{"θεὰ", "θεα"},
		{"Ζεύς", "ζευσ"},
	}
	for _, c := range cases {
		if got := Normalize(c.in, Greek); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestVariantSpellings(t *testing.T) {
	variants := VariantSpellings("uirtus", Latin)
	found := map[string]bool{}
	for _, v := range variants {
		found[v] = true
	}
	if !found["uirtus"] || !found["virtvs"] {
		t.Errorf("missing expected variants, got %v", variants)
	}

	if vs := VariantSpellings("μηνισ", Greek); len(vs) != 1 {
		t.Errorf("greek lemma should have one variant, got %v", vs)
	}
}

func TestParseText(t *testing.T) {
	input := `# author: Vergil
# title: Aeneid
1.1	Arma/arma/NOUN virumque/vir/NOUN cano/cano/VERB
1.2	Troiae/troia qui/qui primus/primus
`
	text, err := ParseText(strings.NewReader(input), "aeneid")
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	if text.Author != "Vergil" || text.Title != "Aeneid" {
		t.Errorf("metadata = %q / %q", text.Author, text.Title)
	}
	if len(text.Units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(text.Units))
	}

	first := text.Units[0]
	if first.Ref != "1.1" || len(first.Tokens) != 3 {
		t.Errorf("unexpected first unit: %+v", first)
	}
	if first.POSTags == nil || first.POSTags[2] != "VERB" {
		t.Errorf("POS tags not parsed: %+v", first.POSTags)
	}

	second := text.Units[1]
	if second.POSTags != nil {
		t.Errorf("unit without POS annotations should have nil tags")
	}
	if second.Lemmas[0] != "troia" {
		t.Errorf("lemma = %q, want troia", second.Lemmas[0])
	}
}

func TestParseTextMissingRef(t *testing.T) {
	if _, err := ParseText(strings.NewReader("no tab here"), "x"); err == nil {
		t.Error("expected error for line without ref field")
	}
}

func TestParseTextEmptyLemmaSlot(t *testing.T) {
	text, err := ParseText(strings.NewReader("1.1\tet/ arma/arma"), "x")
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	u := text.Units[0]
	if u.Lemmas[0] != "" {
		t.Errorf("expected empty lemma placeholder, got %q", u.Lemmas[0])
	}
	if !u.Valid() {
		t.Error("unit with placeholder lemma should still be valid")
	}
}
