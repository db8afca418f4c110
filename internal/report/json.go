package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/hyperjump/ugcdrift/internal/models"
)

// jsonFloat encodes NaN and infinities as null, like pandas.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

func (f *jsonFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = jsonFloat(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*f = jsonFloat(v)
	return nil
}

type jsonRecord struct {
	UGC  string    `json:"ugc"`
	Std  string    `json:"std"`
	Cos  jsonFloat `json:"cos"`
	Edit *int      `json:"edit,omitempty"`
}

// OutputPath returns <dir>/outputs_<model><ext>.
func OutputPath(dir, model, ext string) string {
	return filepath.Join(dir, "outputs_"+model+ext)
}

// MarshalIndexJSON encodes pairs as an index-oriented table: {"0":{"ugc":..,"std":..,"cos":..},...}
// with keys in row order.
func MarshalIndexJSON(pairs []*models.PairScore) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		edit := p.Edit
		rec := jsonRecord{UGC: p.UGC, Std: p.Std, Cos: jsonFloat(p.Cos), Edit: &edit}
		b, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to encode row %d: %w", i, err)
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(i)))
		buf.WriteByte(':')
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteJSON writes the pairs of result to path as an index-oriented table.
func WriteJSON(path string, result *models.Result) error {
	data, err := MarshalIndexJSON(result.Pairs)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadJSON reads an index-oriented table written by WriteJSON (or pandas), ordered by numeric index.
func ReadJSON(path string) ([]*models.PairScore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var table map[string]jsonRecord
	if err := json.NewDecoder(bufio.NewReader(f)).Decode(&table); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	type indexed struct {
		idx int
		rec jsonRecord
	}
	rows := make([]indexed, 0, len(table))
	for k, rec := range table {
		idx, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("%s: non-numeric row key %q", path, k)
		}
		rows = append(rows, indexed{idx: idx, rec: rec})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].idx < rows[j].idx })

	pairs := make([]*models.PairScore, len(rows))
	for i, r := range rows {
		p := &models.PairScore{UGC: r.rec.UGC, Std: r.rec.Std, Cos: float64(r.rec.Cos)}
		if r.rec.Edit != nil {
			p.Edit = *r.rec.Edit
		}
		pairs[i] = p
	}
	return pairs, nil
}
