// Package corpus reads parallel sentence files, one sentence per line, from plain text and document formats.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrLengthMismatch is returned when two parallel files do not hold the same number of sentences.
var ErrLengthMismatch = errors.New("corpus: parallel files differ in length")

// Reader extracts sentence lines from corpus files.
type Reader struct{}

// NewReader returns a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadLines reads the file at path and returns its lines without line terminators.
// For plain text files (.txt or no extension, and any unknown extension) every line is kept,
// including blank ones; a trailing newline does not produce an extra empty line.
// For .xlsx the first column of the first sheet is used, for .pdf the text lines of every page,
// and for .docx one line per paragraph.
func (r *Reader) ReadLines(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return r.LinesFromBytes(content, ext)
}

// LinesFromBytes extracts lines from content based on the given extension.
// ext should include the leading dot (e.g. ".xlsx").
func (r *Reader) LinesFromBytes(content []byte, ext string) ([]string, error) {
	switch ext {
	case ".pdf":
		return linesFromPDF(content)
	case ".docx":
		return linesFromDOCX(content)
	case ".xlsx":
		return linesFromExcel(content)
	default:
		return linesFromPlain(content), nil
	}
}

// ReadSentences returns the lines of path with surrounding whitespace removed.
func (r *Reader) ReadSentences(path string) ([]string, error) {
	lines, err := r.ReadLines(path)
	if err != nil {
		return nil, err
	}
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines, nil
}

// ReadParallel reads a standard file and its UGC counterpart. Both must have the same number of sentences.
func (r *Reader) ReadParallel(stdPath, ugcPath string) (std, ugc []string, err error) {
	std, err = r.ReadSentences(stdPath)
	if err != nil {
		return nil, nil, fmt.Errorf("standard file %s: %w", stdPath, err)
	}
	ugc, err = r.ReadSentences(ugcPath)
	if err != nil {
		return nil, nil, fmt.Errorf("UGC file %s: %w", ugcPath, err)
	}
	if len(std) != len(ugc) {
		return nil, nil, fmt.Errorf("%w: %s has %d lines, %s has %d", ErrLengthMismatch, stdPath, len(std), ugcPath, len(ugc))
	}
	return std, ugc, nil
}
