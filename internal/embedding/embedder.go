package embedding

import (
	"context"
	"math"
)

// Dimension is the length of every embedding in the system.
const Dimension = 384

const (
	termWeight    = 0.5
	termStride    = 77
	unknownWeight = 0.3
)

// Vector is a dense embedding, L2-normalized or all-zero.
type Vector []float64

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Float32 converts v for stores that keep single precision vectors.
func (v Vector) Float32() []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

// Embedder turns text into a fixed-size normalized vector. Implementations
// must be deterministic for the same model state.
type Embedder interface {
	Embed(ctx context.Context, text string) (Vector, error)
	Dimension() int
	Name() string
}

// techTerms boosts well known technical tokens with a hand-curated pattern.
var techTerms = map[string][5]float64{
	"javascript": {1, 0, 1, 0, 1},
	"python":     {0, 1, 0, 1, 0},
	"react":      {1, 1, 0, 0, 1},
	"node":       {0, 0, 1, 1, 0},
	"aws":        {1, 0, 0, 1, 1},
	"docker":     {0, 1, 1, 0, 0},
	"kubernetes": {1, 1, 1, 0, 0},
	"machine":    {0, 0, 0, 1, 1},
	"learning":   {1, 0, 1, 1, 0},
	"database":   {0, 1, 0, 0, 1},
	"api":        {1, 1, 0, 1, 0},
	"frontend":   {1, 0, 1, 0, 0},
	"backend":    {0, 1, 0, 1, 1},
	"fullstack":  {1, 1, 1, 1, 1},
}

// HashName names the hash embedder. Records without an embedder name were
// produced by it.
const HashName = "hash"

// HashEmbedder is the deterministic bag-of-tokens embedder. It holds no
// mutable state and is safe for concurrent use.
type HashEmbedder struct{}

// NewHashEmbedder returns the reference hash-based embedder.
func NewHashEmbedder() *HashEmbedder {
	return &HashEmbedder{}
}

// Name implements Embedder.
func (e *HashEmbedder) Name() string { return HashName }

// Dimension implements Embedder.
func (e *HashEmbedder) Dimension() int { return Dimension }

// Embed implements Embedder. It only fails when ctx is already done.
func (e *HashEmbedder) Embed(ctx context.Context, text string) (Vector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.Generate(text), nil
}

// Generate embeds text. It never fails; text without tokens yields a zero vector.
func (e *HashEmbedder) Generate(text string) Vector {
	return e.FromTokens(Tokenize(text))
}

// FromTokens embeds an already tokenized sequence.
func (e *HashEmbedder) FromTokens(tokens []string) Vector {
	vec := make(Vector, Dimension)

	for _, token := range tokens {
		h := Hash(token)

		if pattern, ok := techTerms[token]; ok {
			for idx, weight := range pattern {
				pos := (h + int64(idx)*termStride) % Dimension
				vec[pos] += weight * termWeight
			}
			continue
		}

		for _, pos := range [3]int64{h % Dimension, (h * 31) % Dimension, (h * 37) % Dimension} {
			vec[pos] += unknownWeight
		}
	}

	return Normalize(vec)
}

// Normalize scales v to unit length in place and returns it. Zero vectors are
// returned unchanged.
func Normalize(v Vector) Vector {
	norm := v.Norm()
	if norm > 0 {
		for i := range v {
			v[i] /= norm
		}
	}
	return v
}
