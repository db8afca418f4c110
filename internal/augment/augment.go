// Package augment generates synthetic user-generated content by injecting noise phenomena
// (abbreviations, typos, leetspeak, slang, spacing errors and the like) into clean sentences.
package augment

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Defaults for a mixing run.
const (
	DefaultSeed int64   = 0
	DefaultProb float64 = 0.1
)

// ErrUnknownTransformation is returned for a name outside the catalog.
var ErrUnknownTransformation = errors.New("unknown transformation")

// Catalog lists every transformation name in selection order. "case" is available but left out
// of the default selection because encoders lowercase their input.
var Catalog = []string{"abr1", "abr2", "abr3", "fing", "case", "homo", "cont", "dysl", "leet", "spel", "slng", "week", "spac"}

// SampleProb jitters a base probability: p/2, p or 3p/2 with probabilities 1/4, 1/2 and 1/4.
func SampleProb(rng *rand.Rand, p float64) float64 {
	u := rng.Float64()
	switch {
	case u < 0.25:
		return p / 2
	case u < 0.75:
		return p
	default:
		return 3 * p / 2
	}
}

// Transformation is one configured noise phenomenon.
type Transformation struct {
	Name string
	// Params are the sampled probabilities, reported in the transformation log.
	Params []float64
	seed   int64
	apply  func(rng *rand.Rand, s string) string
}

// Generate applies the transformation to s. Its randomness is seeded from the transformation's
// own seed on every call, so the same input always produces the same output.
func (t *Transformation) Generate(s string) string {
	rng := rand.New(rand.NewPCG(uint64(t.seed), uint64(t.seed)))
	return t.apply(rng, s)
}

// String renders the log entry "name[,param...]".
func (t *Transformation) String() string {
	parts := make([]string, 0, len(t.Params)+1)
	parts = append(parts, t.Name)
	for _, p := range t.Params {
		parts = append(parts, strconv.FormatFloat(p, 'g', -1, 64))
	}
	return strings.Join(parts, ",")
}

// NewTransformation builds the named transformation. Probabilistic transformations sample their
// rate from rng with SampleProb; each name derives its own seed from seed by a fixed offset.
func NewTransformation(name string, rng *rand.Rand, seed int64) (*Transformation, error) {
	t := &Transformation{Name: name}
	switch name {
	case "abr1":
		p := SampleProb(rng, 0.1)
		t.Params, t.seed = []float64{p}, seed+1
		t.apply = func(r *rand.Rand, s string) string { return replaceWords(r, s, abbreviations, p) }
	case "abr2":
		t.seed = seed + 2
		t.apply = func(r *rand.Rand, s string) string { return applyPhrases(r, s, internetAcronyms, 1) }
	case "abr3":
		t.seed = seed + 3
		t.apply = func(r *rand.Rand, s string) string { return applyPhrases(r, s, acronyms, 1) }
	case "fing":
		p := SampleProb(rng, 0.05)
		t.Params, t.seed = []float64{p}, seed+4
		t.apply = func(r *rand.Rand, s string) string { return butterFingers(r, s, p) }
	case "case":
		p := SampleProb(rng, 0.1)
		t.Params, t.seed = []float64{p}, seed+5
		t.apply = func(r *rand.Rand, s string) string { return changeCase(r, s, p) }
	case "homo":
		p := SampleProb(rng, 0.5)
		t.Params, t.seed = []float64{p}, seed+6
		t.apply = func(r *rand.Rand, s string) string { return swapHomophones(r, s, p) }
	case "cont":
		t.apply = func(_ *rand.Rand, s string) string { return swapContractions(s) }
	case "dysl":
		t.seed = seed + 7
		t.apply = func(r *rand.Rand, s string) string { return replaceWords(r, s, dyslexiaSwaps, 1) }
	case "leet":
		p := SampleProb(rng, 0.05)
		t.Params, t.seed = []float64{p}, seed+8
		t.apply = func(r *rand.Rand, s string) string { return leetLetters(r, s, p) }
	case "spel":
		p := SampleProb(rng, 0.2)
		t.Params, t.seed = []float64{p}, seed+9
		t.apply = func(r *rand.Rand, s string) string { return replaceWords(r, s, misspellings, p) }
	case "slng":
		t.seed = seed + 10
		t.apply = func(r *rand.Rand, s string) string {
			return replaceWords(r, applyPhrases(r, s, slangPhrases, slangProb), slang, slangProb)
		}
	case "week":
		t.apply = func(_ *rand.Rand, s string) string { return abbreviateDates(s) }
	case "spac":
		remove := SampleProb(rng, 0.1)
		add := SampleProb(rng, 0.05)
		t.Params, t.seed = []float64{remove, add}, seed+11
		t.apply = func(r *rand.Rand, s string) string { return perturbWhitespace(r, s, remove, add) }
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTransformation, name)
	}
	return t, nil
}
