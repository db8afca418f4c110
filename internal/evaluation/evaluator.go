// Package evaluation scores parallel standard / UGC corpora by the cosine distance between the
// sentence encodings of each pair.
package evaluation

import (
	"context"
	"fmt"

	"github.com/hyperjump/ugcdrift/internal/corpus"
	"github.com/hyperjump/ugcdrift/internal/embedding"
	"github.com/hyperjump/ugcdrift/internal/keyword"
	"github.com/hyperjump/ugcdrift/internal/models"
	"github.com/hyperjump/ugcdrift/internal/storage"
	"github.com/hyperjump/ugcdrift/internal/vector"
	"github.com/hyperjump/ugcdrift/pkg/utils"
	"go.uber.org/zap"
)

const defaultBatchSize = 32

// Evaluator encodes sentence pairs with one model and measures how far apart they land.
type Evaluator struct {
	embedder  embedding.Embedder
	model     string
	store     storage.Storage // optional; when set, runs are recorded
	reader    *corpus.Reader
	batchSize int
	workers   int
	fp16      bool
	logger    *zap.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets a logger for progress output.
func WithLogger(l *zap.Logger) Option {
	return func(e *Evaluator) { e.logger = l }
}

// WithStore records every evaluation as a run in store.
func WithStore(s storage.Storage) Option {
	return func(e *Evaluator) { e.store = s }
}

// WithBatchSize sets how many sentences are sent to the embedder at once.
func WithBatchSize(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithWorkers bounds how many files EvaluateFiles embeds concurrently.
func WithWorkers(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithFP16 writes and reads embedding caches as float16.
func WithFP16(fp16 bool) Option {
	return func(e *Evaluator) { e.fp16 = fp16 }
}

// NewEvaluator creates an evaluator for the named model.
func NewEvaluator(embedder embedding.Embedder, model string, opts ...Option) *Evaluator {
	e := &Evaluator{
		embedder:  embedder,
		model:     model,
		reader:    corpus.NewReader(),
		batchSize: defaultBatchSize,
		workers:   2,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = utils.OrNop(e.logger)
	return e
}

// Model returns the model name results are labelled with.
func (e *Evaluator) Model() string {
	return e.model
}

// Evaluate encodes std then ugc, L2-normalizes both, and scores each pair.
func (e *Evaluator) Evaluate(ctx context.Context, std, ugc []string) (*models.Result, error) {
	if len(std) != len(ugc) {
		return nil, fmt.Errorf("%w: %d standard vs %d UGC sentences", corpus.ErrLengthMismatch, len(std), len(ugc))
	}
	xStd, err := e.embed(ctx, std)
	if err != nil {
		return nil, fmt.Errorf("failed to embed standard sentences: %w", err)
	}
	xUGC, err := e.embed(ctx, ugc)
	if err != nil {
		return nil, fmt.Errorf("failed to embed UGC sentences: %w", err)
	}
	return e.score(std, ugc, xStd, xUGC)
}

// EvaluateCorpus reads a parallel corpus from disk and evaluates it.
func (e *Evaluator) EvaluateCorpus(ctx context.Context, stdFile, ugcFile string) (*models.Result, error) {
	std, ugc, err := e.reader.ReadParallel(stdFile, ugcFile)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(ctx, std, ugc)
}

// embed encodes texts in batches of e.batchSize.
func (e *Evaluator) embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+e.batchSize, len(texts))
		batch, err := e.embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
		e.logger.Debug("embedded batch",
			zap.String("model", e.model),
			zap.Int("done", end),
			zap.Int("total", len(texts)),
		)
	}
	return out, nil
}

func (e *Evaluator) score(std, ugc []string, xStd, xUGC [][]float32) (*models.Result, error) {
	vector.NormalizeRows(xStd)
	vector.NormalizeRows(xUGC)
	dists, err := vector.PairedCosineDistances(xStd, xUGC)
	if err != nil {
		return nil, err
	}
	if len(dists) != len(std) {
		return nil, fmt.Errorf("%w: %d sentences but %d embeddings", corpus.ErrLengthMismatch, len(std), len(dists))
	}
	result := &models.Result{
		Model: e.model,
		Pairs: make([]*models.PairScore, len(dists)),
		Mean:  vector.Mean(dists),
	}
	for i, d := range dists {
		result.Pairs[i] = &models.PairScore{
			UGC:  ugc[i],
			Std:  std[i],
			Cos:  d,
			Edit: keyword.LevenshteinDistance(ugc[i], std[i]),
		}
	}
	return result, nil
}

// RecordRun stores a run summary for result when a store is attached.
func (e *Evaluator) RecordRun(ctx context.Context, command, stdFile, ugcFile string, result *models.Result) {
	if e.store == nil {
		return
	}
	run := &models.Run{
		Model:   result.Model,
		Command: command,
		StdFile: stdFile,
		UGCFile: ugcFile,
		Pairs:   len(result.Pairs),
		MeanCos: result.Mean,
	}
	if err := e.store.CreateRun(ctx, run); err != nil {
		e.logger.Warn("failed to record run", zap.String("model", result.Model), zap.Error(err))
		return
	}
	e.logger.Debug("run recorded", zap.String("id", run.ID), zap.String("model", run.Model))
}
