package report

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/ugcdrift/internal/models"
)

func TestWriteMatches_Text(t *testing.T) {
	matches := []*models.PairMatch{
		{ScoreRow: models.ScoreRow{Index: 3, UGC: "c u tmrw", Std: "See you tomorrow", Cos: 0.61, Model: "RoLASER"}, Score: 1.2},
	}
	var buf bytes.Buffer
	if err := WriteMatches(&buf, "tmrw", matches, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, sub := range []string{`Found 1 pairs matching "tmrw"`, "RoLASER #3", "Cosine distance: 0.61", "UGC: c u tmrw", "Std: See you tomorrow"} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteMatches_JSON(t *testing.T) {
	matches := []*models.PairMatch{
		{ScoreRow: models.ScoreRow{Index: 0, UGC: "u", Std: "s", Cos: 0.2, Model: "LASER"}, Score: 0.5},
	}
	var buf bytes.Buffer
	if err := WriteMatches(&buf, "u", matches, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Query   string `json:"query"`
		Matches []struct {
			Model string  `json:"model"`
			Cos   float64 `json:"cos"`
			Score float64 `json:"score"`
		} `json:"matches"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.Query != "u" || len(decoded.Matches) != 1 || decoded.Matches[0].Model != "LASER" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteRuns(t *testing.T) {
	runs := []*models.Run{
		{ID: "run-1", Model: "rolaser", Command: "cosdist", Pairs: 2, MeanCos: 0.3, CreatedAt: time.Now()},
		{ID: "run-2", Model: "laser2", Command: "compare", Pairs: 0, MeanCos: math.NaN(), CreatedAt: time.Now()},
	}
	var text bytes.Buffer
	if err := WriteRuns(&text, runs, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text.String(), "run-1") || !strings.Contains(text.String(), "nan") {
		t.Errorf("text output:\n%s", text.String())
	}

	var js bytes.Buffer
	if err := WriteRuns(&js, runs, OutputJSON); err != nil {
		t.Fatalf("NaN mean must not break JSON output: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 2 || decoded[1]["mean_cos"] != nil {
		t.Errorf("decoded = %v", decoded)
	}

	var empty bytes.Buffer
	_ = WriteRuns(&empty, nil, OutputText)
	if !strings.Contains(empty.String(), "No runs recorded") {
		t.Errorf("empty output = %q", empty.String())
	}
}
