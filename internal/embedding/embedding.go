// Package embedding maps skill strings to fixed-size vectors.
package embedding

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// DefaultDimension is the vector size of the hash embedder
const DefaultDimension = 128

// Embedder turns a skill string into a vector of Dimension() components.
// Embed is total: inputs it can't represent map to the zero vector.
type Embedder interface {
	Embed(skill string) []float64
	Dimension() int
}

// FallibleEmbedder is an Embedder that can report a failed embedding
// instead of masking it as the zero vector.
type FallibleEmbedder interface {
	Embedder
	TryEmbed(skill string) ([]float64, error)
}

// Cosine returns the cosine similarity of a and b, or 0 when either has no magnitude.
// Vectors of different length are compared over their common prefix.
func Cosine(a, b []float64) float64 {
	n := min(len(a), len(b))
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	// clamp float drift
	return math.Max(-1, math.Min(1, sim))
}

// Normalize scales v to unit L2 length in place. The zero vector is left as is.
func Normalize(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] /= norm
	}
	return v
}

// EmbedAll embeds every skill with at most concurrency calls in flight.
// Output order mirrors input order.
func EmbedAll(ctx context.Context, e Embedder, skills []string, concurrency int) ([][]float64, error) {
	vectors := make([][]float64, len(skills))
	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, s := range skills {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			vectors[i] = e.Embed(s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
