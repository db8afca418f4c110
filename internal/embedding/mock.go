package embedding

import (
	"context"
	"math"
	"strings"
)

// MockEmbedder is a deterministic bag-of-words encoder for tests and --mock runs. Each lowercased
// word contributes a fixed pseudo-random direction, so sentences sharing words land close together
// and identical sentences get identical vectors. Text without words maps to the zero vector.
type MockEmbedder struct {
	dimensions int
	tokenizer  Tokenizer
}

// NewMockEmbedder returns an embedder that produces deterministic embeddings of the given dimensions.
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = 1024
	}
	return &MockEmbedder{dimensions: dimensions, tokenizer: &SimpleTokenizer{}}
}

// Embed returns the unit-length sum of the word vectors of text.
func (e *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	words, err := e.tokenizer.Tokenize(strings.ToLower(text))
	if err != nil {
		return nil, err
	}
	emb := make([]float32, e.dimensions)
	for _, word := range words {
		h := HashString(word)
		for i := range emb {
			emb[i] += float32(math.Sin(float64(h%100003) * float64(i+1)))
		}
	}
	var sum float64
	for _, v := range emb {
		sum += float64(v) * float64(v)
	}
	if sum > 0 {
		norm := 1.0 / math.Sqrt(sum)
		for i := range emb {
			emb[i] = float32(float64(emb[i]) * norm)
		}
	}
	return emb, nil
}

// EmbedBatch calls Embed for each text.
func (e *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *MockEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op for MockEmbedder.
func (e *MockEmbedder) Close() error {
	return nil
}
