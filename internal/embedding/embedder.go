// Package embedding provides sentence encoders (ONNX exports of LASER-family models), their
// tokenizers and vocabularies, and in-memory and persistent caching of encodings.
package embedding

import "context"

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
