package mock

import (
	"context"
	"hash/fnv"
)

// Embedder is a test double for embed.Embedder. It allows custom behavior
// injection via function fields and defaults to deterministic vectors.
type Embedder struct {
	// EmbedTextFunc is called by EmbedText if set.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc is called by EmbedTexts if set.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension of the generated vectors. Defaults to 384.
	Dimension int

	callCount int
}

// NewEmbedder creates a mock embedder with default deterministic behavior.
func NewEmbedder() *Embedder {
	return &Embedder{Dimension: 384}
}

// EmbedText generates a deterministic embedding based on the text hash.
func (m *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.callCount++

	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return deterministicVector(text, m.dim()), nil
}

// EmbedTexts generates deterministic embeddings for multiple texts.
func (m *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount++

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = deterministicVector(text, m.dim())
	}
	return vectors, nil
}

// CallCount returns the number of times any method was called.
func (m *Embedder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *Embedder) Reset() {
	m.callCount = 0
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

func (m *Embedder) dim() int {
	if m.Dimension > 0 {
		return m.Dimension
	}
	return 384
}

// deterministicVector creates a reproducible embedding from text using an
// FNV hash seeded linear congruential generator.
func deterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223
		vector[i] = float32(seed%1000) / 1000.0
	}
	return vector
}
