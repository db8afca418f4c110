// Package aggregate combines per-model score files into cross-model tables, summaries and plots.
package aggregate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hyperjump/ugcdrift/internal/embedding"
	"github.com/hyperjump/ugcdrift/internal/models"
	"github.com/hyperjump/ugcdrift/internal/report"
	"github.com/hyperjump/ugcdrift/internal/vector"
	"github.com/hyperjump/ugcdrift/pkg/utils"
	"go.uber.org/zap"
)

// Output file names written by Run.
const (
	ScoreFilePattern = "outputs_*.json"
	AllScoresFile    = "all_scores.csv"
	SummaryFile      = "scores_summary.csv"
	WorkbookFile     = "all_scores.xlsx"
	BoxPlotFile      = "cosine_distance.png"
)

// ModelSummary is the descriptive statistics of one model's distances.
type ModelSummary struct {
	Model string
	vector.Summary
}

// Outputs lists the files produced by one aggregation.
type Outputs struct {
	Files     []string
	AllScores string
	Summary   string
	Workbook  string
	BoxPlot   string
	Rows      int
	Models    []ModelSummary
}

// Aggregator collects score files written by the evaluation commands.
type Aggregator struct {
	registry *embedding.Registry
	logger   *zap.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets a logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// NewAggregator creates an aggregator that labels models through registry.
func NewAggregator(registry *embedding.Registry, opts ...Option) *Aggregator {
	a := &Aggregator{registry: registry}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = utils.OrNop(a.logger)
	return a
}

// IsScoreFile reports whether name is an evaluation output table (outputs_*.json).
func IsScoreFile(name string) bool {
	base := filepath.Base(name)
	return strings.HasPrefix(base, "outputs_") && strings.HasSuffix(base, ".json")
}

// ModelKeyFromFile returns the model key of a score file: the text between the first "_"
// and the next "." of its base name.
func ModelKeyFromFile(name string) string {
	base := filepath.Base(name)
	_, rest, _ := strings.Cut(base, "_")
	key, _, _ := strings.Cut(rest, ".")
	return key
}

// ScoreFiles lists the score files in dir, sorted by name.
func ScoreFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && IsScoreFile(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// Collect reads every score file in dir and returns one row per pair, labelled with the model's
// display name, sorted by model then pair index.
func (a *Aggregator) Collect(dir string) ([]*models.ScoreRow, []string, error) {
	files, err := ScoreFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	var rows []*models.ScoreRow
	for _, f := range files {
		key := ModelKeyFromFile(f)
		name, known := a.registry.DisplayName(key)
		if !known {
			a.logger.Warn("unknown model in score file name, using key as label", zap.String("file", f), zap.String("model", key))
		}
		pairs, err := report.ReadJSON(f)
		if err != nil {
			return nil, nil, err
		}
		for i, p := range pairs {
			rows = append(rows, &models.ScoreRow{Index: i, UGC: p.UGC, Std: p.Std, Cos: p.Cos, Model: name})
		}
		a.logger.Debug("collected score file", zap.String("file", f), zap.String("model", name), zap.Int("pairs", len(pairs)))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Model != rows[j].Model {
			return rows[i].Model < rows[j].Model
		}
		return rows[i].Index < rows[j].Index
	})
	return rows, files, nil
}

// Summarize groups rows by model and describes each model's distances, ordered by model name.
func Summarize(rows []*models.ScoreRow) []ModelSummary {
	byModel := make(map[string][]float64)
	for _, r := range rows {
		byModel[r.Model] = append(byModel[r.Model], r.Cos)
	}
	names := make([]string, 0, len(byModel))
	for m := range byModel {
		names = append(names, m)
	}
	sort.Strings(names)
	out := make([]ModelSummary, len(names))
	for i, m := range names {
		out[i] = ModelSummary{Model: m, Summary: vector.Describe(byModel[m])}
	}
	return out
}

// Run collects the score files in dir and writes the score table, summary, workbook and box plot next to them.
func (a *Aggregator) Run(dir string) (*Outputs, error) {
	rows, files, err := a.Collect(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files in %s", ScoreFilePattern, dir)
	}
	out := &Outputs{
		Files:     files,
		AllScores: filepath.Join(dir, AllScoresFile),
		Summary:   filepath.Join(dir, SummaryFile),
		Workbook:  filepath.Join(dir, WorkbookFile),
		BoxPlot:   filepath.Join(dir, BoxPlotFile),
		Rows:      len(rows),
		Models:    Summarize(rows),
	}
	if err := WriteAllScores(out.AllScores, rows); err != nil {
		return nil, err
	}
	if err := WriteSummary(out.Summary, out.Models); err != nil {
		return nil, err
	}
	if err := WriteWorkbook(out.Workbook, rows, out.Models); err != nil {
		return nil, err
	}
	if err := WriteBoxPlot(out.BoxPlot, rows); err != nil {
		return nil, err
	}
	a.logger.Info("aggregation written",
		zap.String("dir", dir),
		zap.Int("files", len(files)),
		zap.Int("rows", len(rows)),
	)
	return out, nil
}
