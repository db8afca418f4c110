package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hyperjump/ugcdrift/internal/models"
	"github.com/hyperjump/ugcdrift/pkg/utils"
)

// OutputFormat is the format for listing output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteMatches writes keyword matches over aggregated pairs, most distant first as given.
func WriteMatches(w io.Writer, query string, matches []*models.PairMatch, format OutputFormat) error {
	if format == OutputJSON {
		if matches == nil {
			matches = []*models.PairMatch{}
		}
		return writeJSON(w, map[string]any{"query": query, "matches": matches})
	}
	fmt.Fprintf(w, "\nFound %d pairs matching %q\n\n", len(matches), query)
	for i, m := range matches {
		fmt.Fprintln(w, Dashes)
		fmt.Fprintf(w, "[%d] %s #%d | Cosine distance: %s | Score: %.4f\n",
			i+1, m.Model, m.Index, FormatFloat(m.Cos), m.Score)
		fmt.Fprintf(w, "UGC: %s\n", utils.Truncate(m.UGC, 200))
		fmt.Fprintf(w, "Std: %s\n\n", utils.Truncate(m.Std, 200))
	}
	return nil
}

// WriteRuns writes recorded evaluation runs.
func WriteRuns(w io.Writer, runs []*models.Run, format OutputFormat) error {
	if format == OutputJSON {
		type runView struct {
			*models.Run
			MeanCos jsonFloat `json:"mean_cos"`
		}
		views := make([]runView, len(runs))
		for i, r := range runs {
			views[i] = runView{Run: r, MeanCos: jsonFloat(r.MeanCos)}
		}
		return writeJSON(w, views)
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	fmt.Fprintf(w, "%-36s  %-19s  %-10s  %-10s  %6s  %s\n", "ID", "CREATED", "COMMAND", "MODEL", "PAIRS", "MEAN")
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-19s  %-10s  %-10s  %6d  %s\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Command, r.Model, r.Pairs, FormatFloat(r.MeanCos))
	}
	return nil
}
