package semantic

import (
	"context"
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{1, 0, 0}
	if c := Cosine(a, b); math.Abs(c-1) > 1e-6 {
		t.Errorf("identical vectors cosine = %v", c)
	}

	c := []float32{0, 1, 0}
	if got := Cosine(a, c); math.Abs(got) > 1e-6 {
		t.Errorf("orthogonal cosine = %v", got)
	}

	if got := Cosine(a, []float32{1, 2}); got != 0 {
		t.Errorf("mismatched dims cosine = %v", got)
	}
	if got := Cosine(nil, nil); got != 0 {
		t.Errorf("empty cosine = %v", got)
	}
	if got := Cosine([]float32{0, 0}, []float32{0, 0}); got != 0 {
		t.Errorf("zero vectors cosine = %v", got)
	}
}

func TestHashEmbedderDeterministic(t *testing.T) {
	ctx := context.Background()
	e := NewHashEmbedder(64)

	v1, err := e.Embed(ctx, "arma uirumque cano")
	if err != nil {
		t.Fatal(err)
	}
	v2, err := e.Embed(ctx, "arma uirumque cano")
	if err != nil {
		t.Fatal(err)
	}
	if Cosine(v1, v2) < 0.999999 {
		t.Error("same text must embed identically")
	}
	if len(v1) != 64 {
		t.Errorf("dims = %d", len(v1))
	}

	// Unit length
	var sum float64
	for _, x := range v1 {
		sum += float64(x) * float64(x)
	}
	if math.Abs(sum-1) > 1e-5 {
		t.Errorf("norm^2 = %v, want 1", sum)
	}
}

func TestHashEmbedderDefaultDims(t *testing.T) {
	if NewHashEmbedder(0).Dimensions() != 128 {
		t.Error("zero dims should default")
	}
}
