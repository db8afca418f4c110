package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/ugcdrift/internal/aggregate"
	"github.com/hyperjump/ugcdrift/internal/augment"
	"github.com/hyperjump/ugcdrift/internal/config"
	"github.com/hyperjump/ugcdrift/internal/evaluation"
	"github.com/hyperjump/ugcdrift/internal/report"
	"go.uber.org/zap"
)

const pipelineCorpus = `See you tomorrow at the station.
I do not know their address.
By the way, the meeting is on Monday.
Thank you for the great game.
`

// TestPipeline augments a clean corpus, scores it with two mock models, aggregates the score
// files and searches the aggregated pairs.
func TestPipeline(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	stdFile := filepath.Join(dir, "test.en")
	if err := os.WriteFile(stdFile, []byte(pipelineCorpus), 0644); err != nil {
		t.Fatal(err)
	}

	mixer, err := augment.NewMixer(1, 1, augment.WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatal(err)
	}
	aug, err := mixer.Run(ctx, stdFile)
	if err != nil {
		t.Fatalf("augment: %v", err)
	}
	if aug.Sentences != 4 {
		t.Fatalf("augmented %d sentences, want 4", aug.Sentences)
	}

	cfg := config.Default()
	cfg.Storage.DatabasePath = filepath.Join(dir, "cache.db")
	cfg.Embedding.Dimensions = 32
	outDir := filepath.Join(dir, "results")

	for _, model := range []string{"laser2", "rolaser"} {
		c, err := initializeComponents(cfg, zap.NewNop(), &encoderSource{Name: model, Mock: true})
		if err != nil {
			t.Fatal(err)
		}
		result, err := c.Evaluator.EvaluateFiles(ctx, evaluation.FilesOptions{
			StdFile:   stdFile,
			UGCFile:   aug.UGCFile,
			OutputDir: outDir,
		})
		if err != nil {
			c.Close()
			t.Fatalf("%s: %v", model, err)
		}
		c.Evaluator.RecordRun(ctx, "evalfiles", stdFile, aug.UGCFile, result)
		if len(result.Pairs) != 4 {
			t.Errorf("%s: %d pairs, want 4", model, len(result.Pairs))
		}
		for _, p := range result.Pairs {
			if p.Cos < 0 || p.Cos > 2 {
				t.Errorf("%s: distance %v out of range", model, p.Cos)
			}
		}
		if err := report.WriteJSON(report.OutputPath(outDir, model, ".json"), result); err != nil {
			t.Fatal(err)
		}
		runs, err := c.Storage.ListRuns(ctx, model, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(runs) != 1 {
			t.Errorf("%s: %d runs recorded, want 1", model, len(runs))
		}
		c.Close()
	}

	agg := aggregate.NewAggregator(newRegistry(cfg))
	out, err := agg.Run(outDir)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if out.Rows != 8 || len(out.Models) != 2 {
		t.Errorf("aggregated %d rows over %d models, want 8 over 2", out.Rows, len(out.Models))
	}
	if out.Models[0].Model != "LASER" || out.Models[1].Model != "RoLASER" {
		t.Errorf("models = %s, %s", out.Models[0].Model, out.Models[1].Model)
	}
	for _, p := range []string{out.AllScores, out.Summary, out.Workbook, out.BoxPlot} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing output %s: %v", p, err)
		}
	}

	rows, _, err := agg.Collect(outDir)
	if err != nil {
		t.Fatal(err)
	}
	matches, _, err := searchPairs(ctx, rows, "station", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches for station, want 2", len(matches))
	}
	for _, m := range matches {
		if !strings.Contains(strings.ToLower(m.Std), "station") {
			t.Errorf("match %q does not contain station", m.Std)
		}
	}
	if matches[0].Cos < matches[1].Cos {
		t.Error("matches not ordered by distance")
	}
}
