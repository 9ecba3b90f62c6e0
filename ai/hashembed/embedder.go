package hashembed

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/arkival/ragcore/ai"
	"github.com/arkival/ragcore/core"
	"github.com/arkival/ragcore/index"
)

// Embedder is the deterministic fallback embedding provider, used when no
// real embedding model is configured. It hashes tokens into a fixed-length
// vector: for the token at ordinal position i, sin(hash) scaled by
// 1/tokenCount is accumulated into dimension i mod core.VectorDim, and the
// final vector is L2-normalized.
//
// Known limitation carried over from the original design: texts longer than
// core.VectorDim tokens alias multiple tokens into the same dimension. This
// stays isolated behind ai.Embedder so a real model can replace it without
// touching search or merge logic.
type Embedder struct{}

var _ ai.Embedder = (*Embedder)(nil)

// New creates the fallback embedder.
func New() *Embedder {
	return &Embedder{}
}

// EmbedText generates a deterministic embedding for a single text.
// It never fails; the error return satisfies ai.Embedder.
func (e *Embedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	return Generate(text), nil
}

// EmbedTexts generates deterministic embeddings for multiple texts.
func (e *Embedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = Generate(text)
	}
	return vectors, nil
}

// Generate produces the fallback embedding for text. For fixed input the
// output is byte-for-byte identical across calls.
func Generate(text string) []float32 {
	vector := make([]float32, core.VectorDim)

	tokens := index.Tokenize(text)
	if len(tokens) == 0 {
		return vector
	}

	scale := 1 / float64(len(tokens))
	for i, token := range tokens {
		vector[i%core.VectorDim] += float32(math.Sin(float64(tokenHash(token))) * scale)
	}

	return Normalize(vector)
}

// Normalize scales a vector to unit length in place and returns it.
// A zero vector is returned unchanged since it cannot be normalized.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	if sum == 0 {
		return v
	}

	magnitude := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= magnitude
	}
	return v
}

// tokenHash returns a numeric hash of the token's characters.
func tokenHash(token string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(token))
	return h.Sum32()
}
