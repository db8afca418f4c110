package embedding

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hyperjump/ugcdrift/internal/config"
)

var (
	// ErrUnknownModel is returned when a model name is not in the registry.
	ErrUnknownModel = errors.New("unknown model")
	// ErrNoModelFile is returned when a required model file cannot be found.
	ErrNoModelFile = errors.New("model file not found")
)

// ModelSpec describes a known encoder.
type ModelSpec struct {
	Key         string
	DisplayName string
	Tokenizer   TokenizerKind
}

// Registry maps model keys to their specs.
type Registry struct {
	models map[string]ModelSpec
}

// NewRegistry builds a registry from the configured models. Keys are matched case-insensitively.
func NewRegistry(models map[string]config.ModelConfig) (*Registry, error) {
	r := &Registry{models: make(map[string]ModelSpec, len(models))}
	for key, mc := range models {
		kind, err := ParseTokenizerKind(mc.Tokenizer)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", key, err)
		}
		name := mc.DisplayName
		if name == "" {
			name = key
		}
		r.models[strings.ToLower(key)] = ModelSpec{Key: key, DisplayName: name, Tokenizer: kind}
	}
	return r, nil
}

// Lookup returns the spec for name.
func (r *Registry) Lookup(name string) (ModelSpec, error) {
	spec, ok := r.models[strings.ToLower(name)]
	if !ok {
		return ModelSpec{}, fmt.Errorf("%w: %s (known: %s)", ErrUnknownModel, name, strings.Join(r.Keys(), ", "))
	}
	return spec, nil
}

// DisplayName returns the report label for key, or key itself when it is not registered.
func (r *Registry) DisplayName(key string) (string, bool) {
	spec, err := r.Lookup(key)
	if err != nil {
		return key, false
	}
	return spec.DisplayName, true
}

// Keys returns the registered model keys, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.models))
	for _, spec := range r.models {
		keys = append(keys, spec.Key)
	}
	sort.Strings(keys)
	return keys
}

// ModelNameFromPath returns the model name encoded in a checkpoint path: the basename up to the first ".".
func ModelNameFromPath(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

// ModelFiles are the files needed to run one exported encoder.
type ModelFiles struct {
	Checkpoint string
	Vocab      string
	Tokenizer  string
}

// Fingerprint identifies the encoder built from these files with the given tokenizer and
// output dimension. It changes whenever a file is replaced or rewritten.
func (f *ModelFiles) Fingerprint(kind TokenizerKind, dims int) (string, error) {
	h := sha256.New()
	fmt.Fprintf(h, "tokenizer=%s\ndims=%d\n", kind, dims)
	for _, path := range []string{f.Checkpoint, f.Vocab, f.Tokenizer} {
		if path == "" {
			fmt.Fprint(h, "-\n")
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
		fmt.Fprintf(h, "%s %d %d\n", abs, info.Size(), info.ModTime().UnixNano())
	}
	return hex.EncodeToString(h.Sum(nil))[:16], nil
}

// FindModelFiles locates the encoder files in dir: the first *.onnx, the first *.cvocab and,
// when present, tokenizer.json or *-tokenizer.json. Names are taken in lexical order.
func FindModelFiles(dir string) (*ModelFiles, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read model directory: %w", err)
	}
	files := &ModelFiles{}
	for _, e := range entries { // ReadDir returns entries sorted by name
		if e.IsDir() {
			continue
		}
		name := e.Name()
		path := filepath.Join(dir, name)
		switch {
		case strings.HasSuffix(name, ".onnx") && files.Checkpoint == "":
			files.Checkpoint = path
		case strings.HasSuffix(name, ".cvocab") && files.Vocab == "":
			files.Vocab = path
		case (name == "tokenizer.json" || strings.HasSuffix(name, "-tokenizer.json")) && files.Tokenizer == "":
			files.Tokenizer = path
		}
	}
	if files.Checkpoint == "" {
		return nil, fmt.Errorf("%w: no *.onnx in %s", ErrNoModelFile, dir)
	}
	if files.Vocab == "" {
		return nil, fmt.Errorf("%w: no *.cvocab in %s", ErrNoModelFile, dir)
	}
	return files, nil
}

// FilesForCheckpoint derives the companion files of a checkpoint: the vocabulary has the same
// path with .onnx replaced by .cvocab, and the tokenizer is <stem>.tokenizer.json or a
// tokenizer.json next to it.
func FilesForCheckpoint(path string) (*ModelFiles, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoModelFile, path)
	}
	stem := strings.TrimSuffix(path, ".onnx")
	files := &ModelFiles{Checkpoint: path, Vocab: stem + ".cvocab"}
	if _, err := os.Stat(files.Vocab); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoModelFile, files.Vocab)
	}
	for _, candidate := range []string{stem + ".tokenizer.json", filepath.Join(filepath.Dir(path), "tokenizer.json")} {
		if _, err := os.Stat(candidate); err == nil {
			files.Tokenizer = candidate
			break
		}
	}
	return files, nil
}

// EncoderOptions configures NewEncoder.
type EncoderOptions struct {
	Files      *ModelFiles
	Tokenizer  TokenizerKind
	Dimensions int
	MaxTokens  int
	CacheSize  int
}

// NewEncoder loads the tokenizer, vocabulary and ONNX session for an exported encoder.
func NewEncoder(opts EncoderOptions) (*ONNXEmbedder, error) {
	if opts.Files == nil {
		return nil, fmt.Errorf("%w: no model files", ErrNoModelFile)
	}
	tok, err := NewTokenizer(opts.Tokenizer, opts.Files.Tokenizer)
	if err != nil {
		return nil, err
	}
	dict, err := LoadDictionary(opts.Files.Vocab)
	if err != nil {
		return nil, err
	}
	return NewONNXEmbedder(opts.Files.Checkpoint, tok, dict, opts.Dimensions, opts.MaxTokens, opts.CacheSize)
}
