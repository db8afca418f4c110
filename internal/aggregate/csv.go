package aggregate

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/hyperjump/ugcdrift/internal/models"
	"github.com/hyperjump/ugcdrift/internal/report"
)

// SummaryHeader is the column layout of the summary table.
var SummaryHeader = []string{"model", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// csvFloat renders v for a CSV cell; missing values are empty.
func csvFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return report.FormatFloat(v)
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// WriteAllScores writes every row with an unnamed leading column holding the pair index.
func WriteAllScores(path string, rows []*models.ScoreRow) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{"", "ugc", "std", "cos", "model"})
	for _, r := range rows {
		records = append(records, []string{strconv.Itoa(r.Index), r.UGC, r.Std, csvFloat(r.Cos), r.Model})
	}
	return writeCSV(path, records)
}

func summaryRecord(s ModelSummary) []string {
	return []string{
		s.Model,
		csvFloat(float64(s.Count)),
		csvFloat(s.Mean),
		csvFloat(s.Std),
		csvFloat(s.Min),
		csvFloat(s.P25),
		csvFloat(s.P50),
		csvFloat(s.P75),
		csvFloat(s.Max),
	}
}

// WriteSummary writes one line of descriptive statistics per model.
func WriteSummary(path string, summaries []ModelSummary) error {
	records := make([][]string, 0, len(summaries)+1)
	records = append(records, SummaryHeader)
	for _, s := range summaries {
		records = append(records, summaryRecord(s))
	}
	return writeCSV(path, records)
}
