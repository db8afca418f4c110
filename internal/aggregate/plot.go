package aggregate

import (
	"fmt"
	"math"

	"github.com/hyperjump/ugcdrift/internal/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// WriteBoxPlot draws one box of cosine distances per model and saves it as an image; the
// format follows the file extension.
func WriteBoxPlot(path string, rows []*models.ScoreRow) error {
	summaries := Summarize(rows)
	byModel := make(map[string]plotter.Values, len(summaries))
	for _, r := range rows {
		if !math.IsNaN(r.Cos) {
			byModel[r.Model] = append(byModel[r.Model], r.Cos)
		}
	}

	p := plot.New()
	p.Y.Label.Text = "Cosine distance"
	p.X.Label.Text = "Model"

	names := make([]string, 0, len(summaries))
	for i, s := range summaries {
		names = append(names, s.Model)
		values := byModel[s.Model]
		if len(values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(40), float64(i), values)
		if err != nil {
			return fmt.Errorf("failed to build box for %s: %w", s.Model, err)
		}
		box.FillColor = plotutil.Color(i)
		p.Add(box)
	}
	p.NominalX(names...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
