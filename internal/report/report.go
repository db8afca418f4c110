// Package report writes evaluation results in the formats the evaluation scripts produce:
// index-oriented JSON tables, line-by-line text reports and console summaries.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/hyperjump/ugcdrift/internal/models"
)

// Dashes frames report headers.
var Dashes = strings.Repeat("-", 40)

// FormatFloat renders v the way Python's str() renders a float: shortest round-trip digits,
// a trailing ".0" for integral values, and nan/inf for non-finite values.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".en") {
		s += ".0"
	}
	return s
}

func writeHeader(w io.Writer, model string) error {
	_, err := fmt.Fprintf(w, "%s\nPairwise cosine distances from %s\n%s\n", Dashes, model, Dashes)
	return err
}

// WriteText writes the per-file report: a header, then for each pair a blank line followed by
// the UGC sentence, the standard sentence and the distance, then the average over all lines.
func WriteText(w io.Writer, result *models.Result) error {
	if err := writeHeader(w, result.Model); err != nil {
		return err
	}
	for _, p := range result.Pairs {
		if _, err := fmt.Fprintf(w, "\n%s\n%s\n%s\n", p.UGC, p.Std, FormatFloat(p.Cos)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nAverage across %d lines: %s\n\n", len(result.Pairs), FormatFloat(result.Mean))
	return err
}

// WriteConsole writes the console summary. With verbose, every pair is listed as UGC sentence,
// standard sentence and distance followed by a blank line.
func WriteConsole(w io.Writer, result *models.Result, verbose bool) error {
	if err := writeHeader(w, result.Model); err != nil {
		return err
	}
	if verbose {
		for _, p := range result.Pairs {
			if _, err := fmt.Fprintf(w, "%s\n%s\n%s\n\n", p.UGC, p.Std, FormatFloat(p.Cos)); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "Average across %d sentences: %s\n\n", len(result.Pairs), FormatFloat(result.Mean))
	return err
}
