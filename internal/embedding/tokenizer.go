package embedding

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// Tokenizer splits a sentence into the subword tokens an encoder's dictionary is keyed by.
type Tokenizer interface {
	Tokenize(text string) ([]string, error)
}

// TokenizerKind names the tokenization scheme an encoder was trained with.
type TokenizerKind string

const (
	TokenizerSPM     TokenizerKind = "spm"
	TokenizerRoBERTa TokenizerKind = "roberta"
	TokenizerChar    TokenizerKind = "char"
)

// ParseTokenizerKind validates a tokenizer name from flags or config.
func ParseTokenizerKind(s string) (TokenizerKind, error) {
	switch k := TokenizerKind(strings.ToLower(strings.TrimSpace(s))); k {
	case TokenizerSPM, TokenizerRoBERTa, TokenizerChar:
		return k, nil
	default:
		return "", fmt.Errorf("unknown tokenizer %q (want spm, roberta or char)", s)
	}
}

// NewTokenizer returns the tokenizer for kind. spm and roberta load a HuggingFace tokenizer.json
// from path; char needs no file.
func NewTokenizer(kind TokenizerKind, path string) (Tokenizer, error) {
	switch kind {
	case TokenizerChar:
		return &CharTokenizer{}, nil
	case TokenizerSPM, TokenizerRoBERTa:
		if path == "" {
			return nil, fmt.Errorf("%s tokenizer: %w: tokenizer.json", kind, ErrNoModelFile)
		}
		return NewHFTokenizer(path)
	default:
		return nil, fmt.Errorf("unknown tokenizer %q", kind)
	}
}

// HFTokenizer wraps a HuggingFace tokenizer.json (SentencePiece or byte-level BPE).
type HFTokenizer struct {
	tk *tokenizer.Tokenizer
}

// NewHFTokenizer loads tokenizer.json from path.
func NewHFTokenizer(path string) (*HFTokenizer, error) {
	tk, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer %s: %w", path, err)
	}
	return &HFTokenizer{tk: tk}, nil
}

// Tokenize returns subword tokens without special tokens; the dictionary adds the end marker.
func (t *HFTokenizer) Tokenize(text string) ([]string, error) {
	enc, err := t.tk.EncodeSingle(text, false)
	if err != nil {
		return nil, fmt.Errorf("failed to encode text: %w", err)
	}
	return enc.Tokens, nil
}

// WordBoundary is the SentencePiece marker used for whitespace in character vocabularies.
const WordBoundary = "▁"

// CharTokenizer emits one token per lowercased rune; each whitespace run becomes WordBoundary.
type CharTokenizer struct{}

// Tokenize splits text into characters.
func (t *CharTokenizer) Tokenize(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	tokens := make([]string, 0, len(text))
	inSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !inSpace {
				tokens = append(tokens, WordBoundary)
			}
			inSpace = true
			continue
		}
		inSpace = false
		tokens = append(tokens, string(unicode.ToLower(r)))
	}
	return tokens, nil
}

// SimpleTokenizer is a whitespace word splitter. MockEmbedder encodes its words.
type SimpleTokenizer struct{}

// Tokenize splits text into words.
func (t *SimpleTokenizer) Tokenize(text string) ([]string, error) {
	return SplitWords(text), nil
}

// SplitWords splits text on whitespace and returns non-empty words.
func SplitWords(text string) []string {
	var words []string
	var word strings.Builder
	for _, r := range text {
		if unicode.IsSpace(r) {
			if word.Len() > 0 {
				words = append(words, word.String())
				word.Reset()
			}
		} else {
			word.WriteRune(r)
		}
	}
	if word.Len() > 0 {
		words = append(words, word.String())
	}
	return words
}

// HashString returns a deterministic non-negative hash of s.
func HashString(s string) int {
	h := 0
	for _, c := range s {
		h = 31*h + int(c)
	}
	if h < 0 {
		h = -h
	}
	return h
}
