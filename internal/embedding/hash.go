package embedding

import (
	"hash/fnv"
	"strings"
	"unicode"
)

// HashEmbedder is a deterministic placeholder for a trained embedding model.
// Letters contribute their code point to slot (position mod D) and every word
// containing a letter increments its FNV-1a bucket.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder creates a HashEmbedder. A non-positive dim uses DefaultDimension.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &HashEmbedder{dim: dim}
}

// Dimension returns the vector size
func (h *HashEmbedder) Dimension() int {
	return h.dim
}

// Embed returns the L2-normalized vector for skill
func (h *HashEmbedder) Embed(skill string) []float64 {
	v := make([]float64, h.dim)
	lower := strings.ToLower(skill)

	i := 0
	for _, r := range lower {
		if unicode.IsLetter(r) {
			v[i%h.dim] += float64(r) / 255.0
		}
		i++
	}

	for _, word := range strings.Fields(lower) {
		if strings.IndexFunc(word, unicode.IsLetter) < 0 {
			continue
		}
		hasher := fnv.New32a()
		_, _ = hasher.Write([]byte(word))
		v[hasher.Sum32()%uint32(h.dim)] += 1.0
	}

	return Normalize(v)
}
