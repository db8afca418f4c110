// Package models defines the data structures shared by evaluation, reporting and storage.
package models

import "time"

// PairScore is the distance between the encodings of one standard sentence and its UGC counterpart.
type PairScore struct {
	UGC  string  `json:"ugc"`
	Std  string  `json:"std"`
	Cos  float64 `json:"cos"`
	Edit int     `json:"edit"` // character edit distance between UGC and Std
}

// Result is the outcome of scoring a parallel corpus with one model.
type Result struct {
	Model string       `json:"model"`
	Pairs []*PairScore `json:"pairs"`
	Mean  float64      `json:"mean"`
}

// Distances returns the cosine distance of every pair, in order.
func (r *Result) Distances() []float64 {
	out := make([]float64, len(r.Pairs))
	for i, p := range r.Pairs {
		out[i] = p.Cos
	}
	return out
}

// Run records one evaluation invocation.
type Run struct {
	ID        string    `json:"id" db:"id"`
	Model     string    `json:"model" db:"model"`
	Command   string    `json:"command" db:"command"`
	StdFile   string    `json:"std_file" db:"std_file"`
	UGCFile   string    `json:"ugc_file" db:"ugc_file"`
	Pairs     int       `json:"pairs" db:"pairs"`
	MeanCos   float64   `json:"mean_cos" db:"mean_cos"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ScoreRow is one pair in the aggregated, cross-model score table.
type ScoreRow struct {
	Index int     `json:"index"`
	UGC   string  `json:"ugc"`
	Std   string  `json:"std"`
	Cos   float64 `json:"cos"`
	Model string  `json:"model"`
}

// PairMatch is a scored pair returned by a keyword lookup over aggregated results.
type PairMatch struct {
	ScoreRow
	Score float64 `json:"score"` // keyword relevance
}
