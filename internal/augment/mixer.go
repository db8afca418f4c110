package augment

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/hyperjump/ugcdrift/internal/config"
	"github.com/hyperjump/ugcdrift/internal/corpus"
	"github.com/hyperjump/ugcdrift/pkg/utils"
	"go.uber.org/zap"
)

// Mixer corrupts sentences with a random subset of transformations. A single RNG seeded from
// the mixer seed drives selection, parameter sampling and ordering, so a run over the same
// input is reproducible.
type Mixer struct {
	seed   int64
	prob   float64
	names  []string
	rng    *rand.Rand
	reader *corpus.Reader
	logger *zap.Logger
}

// MixerOption configures a Mixer.
type MixerOption func(*Mixer)

// WithLogger sets a logger.
func WithLogger(l *zap.Logger) MixerOption {
	return func(m *Mixer) { m.logger = l }
}

// WithTransformations overrides the candidate transformation names.
func WithTransformations(names []string) MixerOption {
	return func(m *Mixer) { m.names = append([]string(nil), names...) }
}

// NewMixer creates a mixer that selects each candidate transformation with probability prob.
// Names are validated up front.
func NewMixer(seed int64, prob float64, opts ...MixerOption) (*Mixer, error) {
	m := &Mixer{
		seed:   seed,
		prob:   prob,
		names:  append([]string(nil), config.DefaultTransformations...),
		reader: corpus.NewReader(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = utils.OrNop(m.logger)
	probe := rand.New(rand.NewPCG(0, 0))
	for _, name := range m.names {
		if _, err := NewTransformation(name, probe, seed); err != nil {
			return nil, err
		}
	}
	m.Reset()
	return m, nil
}

// Reset reseeds the selection RNG.
func (m *Mixer) Reset() {
	m.rng = rand.New(rand.NewPCG(uint64(m.seed), uint64(m.seed)))
}


// Corrupt applies a random subset of transformations to sentence. It returns the noised
// sentence, right-trimmed and terminated by " \n", and the transformation log line: the applied
// entries joined by ";" and terminated by "\n".
func (m *Mixer) Corrupt(sentence string) (string, string, error) {
	var selected []string
	for _, name := range m.names {
		if m.rng.Float64() < m.prob {
			selected = append(selected, name)
		}
	}
	trans := make([]*Transformation, 0, len(selected))
	for _, name := range selected {
		t, err := NewTransformation(name, m.rng, m.seed)
		if err != nil {
			return "", "", err
		}
		trans = append(trans, t)
	}
	m.rng.Shuffle(len(trans), func(i, j int) { trans[i], trans[j] = trans[j], trans[i] })

	entries := make([]string, len(trans))
	for i, t := range trans {
		sentence = t.Generate(sentence)
		entries[i] = t.String()
	}
	return strings.TrimRightFunc(sentence, unicode.IsSpace) + " \n", strings.Join(entries, ";") + "\n", nil
}

// OutputPaths returns the noised-text and transformation-log paths for input:
// <dir>/ugc/<seed>/<stem>_mix_all<ext> and <dir>/trans/<seed>/<stem>_mix_all_trans<ext>.
func OutputPaths(input string, seed int64) (ugcPath, transPath string) {
	dir, base := filepath.Split(input)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	s := strconv.FormatInt(seed, 10)
	ugcPath = filepath.Join(dir, "ugc", s, stem+"_mix_all"+ext)
	transPath = filepath.Join(dir, "trans", s, stem+"_mix_all_trans"+ext)
	return ugcPath, transPath
}

// Result describes a completed mixing run.
type Result struct {
	Sentences int
	UGCFile   string
	TransFile string
}

// Run corrupts every line of input and writes both output files. The RNG is reseeded first,
// so repeated runs produce identical files.
func (m *Mixer) Run(ctx context.Context, input string) (*Result, error) {
	lines, err := m.reader.ReadLines(input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	ugcPath, transPath := OutputPaths(input, m.seed)
	for _, p := range []string{ugcPath, transPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	m.Reset()
	var out, log strings.Builder
	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		noised, applied, err := m.Corrupt(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		out.WriteString(noised)
		log.WriteString(applied)
		if applied != "\n" {
			m.logger.Debug("corrupted sentence", zap.Int("line", i+1), zap.String("transformations", strings.TrimSpace(applied)))
		}
	}

	if err := os.WriteFile(ugcPath, []byte(out.String()), 0644); err != nil {
		return nil, fmt.Errorf("write sentences: %w", err)
	}
	if err := os.WriteFile(transPath, []byte(log.String()), 0644); err != nil {
		return nil, fmt.Errorf("write transformations: %w", err)
	}
	m.logger.Info("augmentation complete",
		zap.String("input", input),
		zap.Int("sentences", len(lines)),
		zap.Int64("seed", m.seed),
		zap.Float64("prob", m.prob))
	return &Result{Sentences: len(lines), UGCFile: ugcPath, TransFile: transPath}, nil
}
