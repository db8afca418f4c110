package embedding

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Special symbols reserved at the start of every fairseq dictionary.
const (
	BOS = "<s>"
	PAD = "<pad>"
	EOS = "</s>"
	UNK = "<unk>"
)

// ErrDuplicateSymbol is returned when a vocabulary lists a token twice without the
// "#fairseq:overwrite" flag.
var ErrDuplicateSymbol = errors.New("duplicate symbol in vocabulary")

const overwriteFlag = "#fairseq:overwrite"

// Dictionary maps tokens to encoder input ids, following the fairseq vocabulary layout:
// ids 0..3 are <s>, <pad>, </s>, <unk>, then one id per vocabulary line in file order.
// An overwrite line takes a fresh id and the token resolves to it from then on.
type Dictionary struct {
	symbols []string
	index   map[string]int64
}

func newDictionary() *Dictionary {
	d := &Dictionary{index: make(map[string]int64)}
	for _, s := range []string{BOS, PAD, EOS, UNK} {
		d.symbols = append(d.symbols, s)
		d.index[s] = int64(len(d.symbols) - 1)
	}
	return d
}

func (d *Dictionary) add(sym string, overwrite bool) error {
	if _, ok := d.index[sym]; ok && !overwrite {
		return fmt.Errorf("%w: %q", ErrDuplicateSymbol, sym)
	}
	d.index[sym] = int64(len(d.symbols))
	d.symbols = append(d.symbols, sym)
	return nil
}

// LoadDictionary reads a vocabulary file with one "<token> <count>" entry per line. A line may
// end with "#fairseq:overwrite" to redefine a token already present.
func LoadDictionary(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vocabulary: %w", err)
	}
	defer f.Close()

	d := newDictionary()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r\n")
		if line == "" {
			continue
		}
		overwrite := false
		if rest, ok := strings.CutSuffix(line, " "+overwriteFlag); ok {
			line, overwrite = rest, true
		}
		// The token may itself be a space character, so split on the last space.
		i := strings.LastIndexByte(line, ' ')
		if i <= 0 {
			return nil, fmt.Errorf("%s:%d: expected \"<token> <count>\"", path, lineNo)
		}
		if err := d.add(line[:i], overwrite); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vocabulary: %w", err)
	}
	return d, nil
}

// Len returns the number of symbols including the specials.
func (d *Dictionary) Len() int {
	return len(d.symbols)
}

// Index returns the id of sym, or the <unk> id.
func (d *Dictionary) Index(sym string) int64 {
	if id, ok := d.index[sym]; ok {
		return id
	}
	return d.index[UNK]
}

// Encode maps tokens to ids and appends </s>. When maxTokens > 0 the result is truncated so that
// it holds at most maxTokens ids, the last of which is always </s>.
func (d *Dictionary) Encode(tokens []string, maxTokens int) []int64 {
	if maxTokens > 0 && len(tokens) > maxTokens-1 {
		tokens = tokens[:max(maxTokens-1, 0)]
	}
	ids := make([]int64, 0, len(tokens)+1)
	for _, t := range tokens {
		ids = append(ids, d.Index(t))
	}
	return append(ids, d.index[EOS])
}
