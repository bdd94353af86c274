// Package semantic holds the pluggable embedding contract and the vector
// similarity used by the semantic match basis. Embedding computation is
// external to the engine; this package only defines the interface and a
// deterministic stand-in for tests and offline runs.
package semantic

import (
	"context"
	"hash/fnv"
	"math"
)

// Embedder produces a fixed-dimension vector for a unit of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// Cosine is the cosine similarity of two vectors, 0 for mismatched or
// zero-length inputs.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// HashEmbedder is a deterministic embedder: the same text always maps to
// the same unit-length vector. It carries no semantics and exists so the
// pipeline can run end to end without a model.
type HashEmbedder struct {
	dims int
}

// NewHashEmbedder returns a deterministic embedder of the given dimension.
func NewHashEmbedder(dims int) *HashEmbedder {
	if dims <= 0 {
		dims = 128
	}
	return &HashEmbedder{dims: dims}
}

// Embed derives a unit-length vector from the text hash.
func (e *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, e.dims)
	for i := range vec {
		vec[i] = float32(math.Sin(float64(seed%10007)*float64(i+1)) * 0.1)
	}

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum > 0 {
		inv := 1 / math.Sqrt(sum)
		for i := range vec {
			vec[i] *= float32(inv)
		}
	}
	return vec, nil
}

// Dimensions returns the embedding dimension.
func (e *HashEmbedder) Dimensions() int {
	return e.dims
}
