package strdist

import (
	"math"
	"testing"
)

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"cano", "canto", 1},
		{"μηνιν", "μηνιδ", 1},
	}
	for _, c := range cases {
		if got := Levenshtein(c.a, c.b); got != c.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestRatio(t *testing.T) {
	if r := Ratio("arma", "arma"); r != 1 {
		t.Errorf("identical ratio = %v, want 1", r)
	}
	if r := Ratio("", ""); r != 1 {
		t.Errorf("empty ratio = %v, want 1", r)
	}
	r := Ratio("cano", "cant")
	if math.Abs(r-0.75) > 1e-9 {
		t.Errorf("Ratio(cano, cant) = %v, want 0.75", r)
	}
	if r := Ratio("abcd", "wxyz"); r != 0 {
		t.Errorf("disjoint ratio = %v, want 0", r)
	}
}

func TestTrigrams(t *testing.T) {
	set := Trigrams("arma")
	// " arma " yields " ar", "arm", "rma", "ma "
	want := []string{" ar", "arm", "rma", "ma "}
	if len(set) != len(want) {
		t.Fatalf("trigram count = %d, want %d", len(set), len(want))
	}
	for _, g := range want {
		if _, ok := set[g]; !ok {
			t.Errorf("missing trigram %q", g)
		}
	}

	if len(Trigrams("")) != 0 {
		t.Error("empty string should produce no trigrams")
	}
}

func TestJaccard(t *testing.T) {
	a := Trigrams("arma")
	b := Trigrams("arma")
	if j := Jaccard(a, b); j != 1 {
		t.Errorf("identical sets jaccard = %v, want 1", j)
	}

	if j := Jaccard(TrigramSet{}, TrigramSet{}); j != 0 {
		t.Errorf("empty sets jaccard = %v, want 0", j)
	}

	c := Trigrams("xyzq")
	if j := Jaccard(a, c); j != 0 {
		t.Errorf("disjoint jaccard = %v, want 0", j)
	}

	d := Trigrams("armas")
	j := Jaccard(a, d)
	if j <= 0 || j >= 1 {
		t.Errorf("overlapping jaccard = %v, want in (0,1)", j)
	}
}

func TestTrigramsOfAll(t *testing.T) {
	set := TrigramsOfAll([]string{"arma", "uir"})
	if _, ok := set["arm"]; !ok {
		t.Error("missing trigram from first word")
	}
	if _, ok := set["uir"]; !ok {
		t.Error("missing trigram from second word")
	}
}
