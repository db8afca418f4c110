package embedding

import (
	"context"
	"fmt"

	"github.com/hyperjump/ugcdrift/internal/storage"
	"github.com/hyperjump/ugcdrift/internal/textid"
	"github.com/hyperjump/ugcdrift/pkg/utils"
	"go.uber.org/zap"
)

// CachedEmbedder persists encodings in storage so repeated evaluations of the same sentences
// with the same encoder skip inference. Entries live under a namespace built from the model
// name, the output dimension and the encoder fingerprint, so two encoders sharing a name never
// read each other's vectors.
type CachedEmbedder struct {
	inner       Embedder
	store       storage.Storage
	model       string
	fingerprint string
	namespace   string
	logger      *zap.Logger
}

// CachedOption configures a CachedEmbedder.
type CachedOption func(*CachedEmbedder)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) CachedOption {
	return func(c *CachedEmbedder) {
		c.logger = l
	}
}

// WithFingerprint sets the encoder identity, usually ModelFiles.Fingerprint.
func WithFingerprint(fp string) CachedOption {
	return func(c *CachedEmbedder) {
		c.fingerprint = fp
	}
}

// NewCachedEmbedder wraps inner. model labels the cache entries; the namespace also carries
// the dimension of inner and the fingerprint.
func NewCachedEmbedder(inner Embedder, store storage.Storage, model string, opts ...CachedOption) *CachedEmbedder {
	c := &CachedEmbedder{inner: inner, store: store, model: model}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = utils.OrNop(c.logger)
	fp := c.fingerprint
	if fp == "" {
		fp = "-"
	}
	c.namespace = fmt.Sprintf("%s/%d/%s", model, inner.Dimensions(), fp)
	return c
}

// Namespace returns the key under which entries are stored.
func (c *CachedEmbedder) Namespace() string {
	return c.namespace
}

// Embed returns the embedding for a single text.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch serves hits from storage, encodes the misses with the inner embedder and stores them.
func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	ids := make([]string, len(texts))
	for i, t := range texts {
		ids[i] = textid.TextID(c.namespace, t)
	}
	hits, err := c.store.GetEmbeddings(ctx, c.namespace, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding cache: %w", err)
	}

	dims := c.inner.Dimensions()
	out := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string
	seen := make(map[string]int)
	for i, id := range ids {
		if v, ok := hits[id]; ok && (dims <= 0 || len(v) == dims) {
			out[i] = v
			continue
		}
		if _, dup := seen[id]; !dup {
			seen[id] = len(missTexts)
			missTexts = append(missTexts, texts[i])
		}
		missIdx = append(missIdx, i)
	}
	c.logger.Debug("embedding cache lookup",
		zap.String("model", c.model),
		zap.String("namespace", c.namespace),
		zap.Int("texts", len(texts)),
		zap.Int("hits", len(texts)-len(missIdx)),
	)
	if len(missTexts) == 0 {
		return out, nil
	}

	vectors, err := c.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	missIDs := make([]string, len(missTexts))
	for i, t := range missTexts {
		missIDs[i] = textid.TextID(c.namespace, t)
	}
	if err := c.store.PutEmbeddings(ctx, c.namespace, missIDs, vectors); err != nil {
		c.logger.Warn("failed to write embedding cache", zap.String("namespace", c.namespace), zap.Error(err))
	}
	for _, i := range missIdx {
		out[i] = vectors[seen[ids[i]]]
	}
	return out, nil
}

// Dimensions returns the inner embedder's dimension.
func (c *CachedEmbedder) Dimensions() int {
	return c.inner.Dimensions()
}

// Close closes the inner embedder. The store is owned by the caller.
func (c *CachedEmbedder) Close() error {
	return c.inner.Close()
}
