package aggregate

import (
	"fmt"
	"math"

	"github.com/hyperjump/ugcdrift/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	scoresSheet  = "scores"
	summarySheet = "summary"
)

// cellFloat leaves NaN cells empty; excelize cannot store NaN.
func cellFloat(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// WriteWorkbook writes the score table and the summary as two sheets of an .xlsx file.
func WriteWorkbook(path string, rows []*models.ScoreRow, summaries []ModelSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scoresSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(scoresSheet, "A1", &[]any{"index", "ugc", "std", "cos", "model"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(scoresSheet, cell, &[]any{r.Index, r.UGC, r.Std, cellFloat(r.Cos), r.Model}); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	header := make([]any, len(SummaryHeader))
	for i, h := range SummaryHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	for i, s := range summaries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{s.Model, s.Count, cellFloat(s.Mean), cellFloat(s.Std), cellFloat(s.Min),
			cellFloat(s.P25), cellFloat(s.P50), cellFloat(s.P75), cellFloat(s.Max)}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
