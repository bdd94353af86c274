package freq

import (
	"math"
	"testing"

	"github.com/intertext/tessella/pkg/tessella/unit"
)

func latinText(id string, lines ...[]string) unit.Text {
	t := unit.Text{ID: id}
	for i, lemmas := range lines {
		u := unit.TextUnit{Ref: string(rune('1' + i))}
		for _, l := range lemmas {
			u.Tokens = append(u.Tokens, l)
			u.Lemmas = append(u.Lemmas, l)
		}
		t.Units = append(t.Units, u)
	}
	return t
}

func TestFrequencyTableCounts(t *testing.T) {
	ft := BuildFrequencyTable(unit.Latin, []unit.Text{
		latinText("a", []string{"arma", "uir", "arma"}),
		latinText("b", []string{"uir", "cano"}),
	}, false)

	if ft.TotalTokens != 5 {
		t.Errorf("total tokens = %d, want 5", ft.TotalTokens)
	}
	if ft.Counts["arma"] != 2 || ft.Counts["uir"] != 2 || ft.Counts["cano"] != 1 {
		t.Errorf("counts = %v", ft.Counts)
	}
}

func TestCountDefaultsToOne(t *testing.T) {
	ft := NewFrequencyTable(unit.Latin)
	if ft.Count("missing") != 1 {
		t.Error("unknown feature must count as 1")
	}

	var nilTable *FrequencyTable
	if nilTable.Count("x") != 1 {
		t.Error("nil table must count as 1")
	}
}

func TestIDF(t *testing.T) {
	ft := NewFrequencyTable(unit.Latin)
	ft.TotalTokens = 100
	ft.Counts["arma"] = 5

	got := ft.IDF("arma")
	want := math.Log(101.0/6.0) + 1
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("IDF = %v, want %v", got, want)
	}
}

func TestMaxUnitScore(t *testing.T) {
	ft := NewFrequencyTable(unit.Latin)
	if ft.MaxUnitScore(3) != 1 {
		t.Error("empty corpus max score must be 1")
	}

	ft.TotalTokens = 100
	want := 2 * math.Log(101)
	if math.Abs(ft.MaxUnitScore(2)-want) > 1e-9 {
		t.Errorf("MaxUnitScore = %v, want %v", ft.MaxUnitScore(2), want)
	}
}

func TestBigramRarity(t *testing.T) {
	bt := NewBigramTable(unit.Latin)
	bt.TotalDocs = 50
	bt.DocFreq[NewBigramKey("a", "b")] = 50
	bt.DocFreq[NewBigramKey("c", "d")] = 25

	cases := []struct {
		a, b string
		want float64
	}{
		{"x", "y", 1.0}, // unknown pair: maximally rare
		{"a", "b", 0.0},
		{"b", "a", 0.0}, // direction irrelevant
		{"c", "d", 0.5},
	}
	for _, c := range cases {
		if got := bt.Rarity(c.a, c.b); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Rarity(%s,%s) = %v, want %v", c.a, c.b, got, c.want)
		}
	}

	empty := NewBigramTable(unit.Latin)
	if empty.Rarity("a", "b") != 1 {
		t.Error("zero-doc table must report maximal rarity")
	}
}

func TestBigramKeyCanonical(t *testing.T) {
	if NewBigramKey("uir", "arma") != NewBigramKey("arma", "uir") {
		t.Error("bigram key must be direction-free")
	}
}

func TestBigramAddUnit(t *testing.T) {
	bt := NewBigramTable(unit.Latin)
	bt.AddUnit(unit.TextUnit{
		Ref:    "1.1",
		Tokens: []string{"arma", "uir", "arma"},
		Lemmas: []string{"arma", "uir", "arma"},
	})

	if bt.TotalDocs != 1 {
		t.Errorf("total docs = %d", bt.TotalDocs)
	}
	key := NewBigramKey("arma", "uir")
	if bt.DocFreq[key] != 1 {
		t.Errorf("doc freq = %d, want 1 (per-unit dedupe)", bt.DocFreq[key])
	}
	if bt.Counts[key] != 2 {
		t.Errorf("count = %d, want 2 (arma appears twice)", bt.Counts[key])
	}
	// identical features never pair with themselves
	if _, ok := bt.DocFreq[NewBigramKey("arma", "arma")]; ok {
		t.Error("self-pair should not be counted")
	}
}

func TestSegmentParent(t *testing.T) {
	cases := []struct {
		id     string
		parent string
		seg    bool
	}{
		{"aeneid", "", false},
		{"aeneid.part.1", "aeneid", true},
		{"aeneid.part2", "aeneid", true},
		{"aeneid part 3", "aeneid", true},
		{"departure", "", false},
	}
	for _, c := range cases {
		parent, seg := SegmentParent(c.id)
		if seg != c.seg || parent != c.parent {
			t.Errorf("SegmentParent(%q) = (%q, %v), want (%q, %v)", c.id, parent, seg, c.parent, c.seg)
		}
	}
}

func TestDedupeSegments(t *testing.T) {
	texts := []unit.Text{
		{ID: "aeneid"},
		{ID: "aeneid.part.1"},
		{ID: "aeneid.part.2"},
		{ID: "iliad.part.1"},
	}
	out := DedupeSegments(texts)
	ids := make(map[string]bool)
	for _, t2 := range out {
		ids[t2.ID] = true
	}
	if len(out) != 2 || !ids["aeneid"] || !ids["iliad.part.1"] {
		t.Errorf("dedupe result = %v", ids)
	}
}
