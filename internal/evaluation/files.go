package evaluation

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hyperjump/ugcdrift/internal/models"
	"github.com/hyperjump/ugcdrift/internal/vector"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FilesOptions describes an EvaluateFiles run.
type FilesOptions struct {
	StdFile   string
	UGCFile   string
	OutputDir string
}

// EmbeddingCachePath returns where the encodings of file are cached: <outputDir>/embeddings/<model>/<basename>.bin.
func EmbeddingCachePath(outputDir, model, file string) string {
	return filepath.Join(outputDir, "embeddings", model, filepath.Base(file)+".bin")
}

// EvaluateFiles encodes each input file to a .bin cache unless one already exists, then scores
// the pairs from the cached encodings.
func (e *Evaluator) EvaluateFiles(ctx context.Context, opts FilesOptions) (*models.Result, error) {
	std, ugc, err := e.reader.ReadParallel(opts.StdFile, opts.UGCFile)
	if err != nil {
		return nil, err
	}
	stdBin := EmbeddingCachePath(opts.OutputDir, e.model, opts.StdFile)
	ugcBin := EmbeddingCachePath(opts.OutputDir, e.model, opts.UGCFile)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, job := range []struct {
		label, src, bin string
		lines           []string
	}{
		{"UGC", opts.UGCFile, ugcBin, ugc},
		{"standard", opts.StdFile, stdBin, std},
	} {
		g.Go(func() error {
			return e.embedToFile(gctx, job.label, job.src, job.bin, job.lines)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dim := e.embedder.Dimensions()
	xStd, err := vector.ReadEmbeddings(stdBin, dim, e.fp16)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", stdBin, err)
	}
	xUGC, err := vector.ReadEmbeddings(ugcBin, dim, e.fp16)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ugcBin, err)
	}
	return e.score(std, ugc, xStd, xUGC)
}

func (e *Evaluator) embedToFile(ctx context.Context, label, src, bin string, lines []string) error {
	if _, err := os.Stat(bin); err == nil {
		e.logger.Info("reusing cached embeddings", zap.String("file", src), zap.String("cache", bin))
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", bin, err)
	}
	e.logger.Info("embedding "+label+" file", zap.String("file", src), zap.Int("lines", len(lines)))
	x, err := e.embed(ctx, lines)
	if err != nil {
		return fmt.Errorf("failed to embed %s: %w", src, err)
	}
	if err := vector.WriteEmbeddings(bin, x, e.fp16); err != nil {
		return fmt.Errorf("failed to write %s: %w", bin, err)
	}
	return nil
}
