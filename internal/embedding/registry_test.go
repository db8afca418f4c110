package embedding

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/ugcdrift/internal/config"
)

func TestRegistry_Lookup(t *testing.T) {
	r, err := NewRegistry(config.DefaultModels())
	if err != nil {
		t.Fatal(err)
	}
	spec, err := r.Lookup("RoLASER")
	if err != nil {
		t.Fatal(err)
	}
	if spec.DisplayName != "RoLASER" || spec.Tokenizer != TokenizerRoBERTa {
		t.Errorf("spec = %+v", spec)
	}
	if spec, _ := r.Lookup("c-rolaser"); spec.Tokenizer != TokenizerChar {
		t.Errorf("c-rolaser tokenizer = %q", spec.Tokenizer)
	}
	_, err = r.Lookup("bert")
	if !errors.Is(err, ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "known: c-rolaser, laser2, rolaser") {
		t.Errorf("error should list registered models: %v", err)
	}
	if name, ok := r.DisplayName("mystery"); ok || name != "mystery" {
		t.Errorf("DisplayName(unknown) = %q, %v", name, ok)
	}
	if keys := r.Keys(); len(keys) != 3 || keys[0] != "c-rolaser" {
		t.Errorf("Keys = %v", keys)
	}
}

func TestNewRegistry_BadTokenizer(t *testing.T) {
	_, err := NewRegistry(map[string]config.ModelConfig{"x": {Tokenizer: "wordpiece"}})
	if err == nil {
		t.Error("expected error for unknown tokenizer")
	}
}

func TestModelNameFromPath(t *testing.T) {
	for in, want := range map[string]string{
		"/models/rolaser.onnx":      "rolaser",
		"c-rolaser.v2.onnx":         "c-rolaser",
		"laser2":                    "laser2",
		"dir.with.dots/laser2.onnx": "laser2",
	} {
		if got := ModelNameFromPath(in); got != want {
			t.Errorf("ModelNameFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFindModelFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.onnx", "a.onnx", "a.cvocab", "sentencepiece-tokenizer.json", "notes.txt"} {
		touch(t, filepath.Join(dir, name))
	}
	files, err := FindModelFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(files.Checkpoint) != "a.onnx" {
		t.Errorf("Checkpoint = %s", files.Checkpoint)
	}
	if filepath.Base(files.Vocab) != "a.cvocab" {
		t.Errorf("Vocab = %s", files.Vocab)
	}
	if filepath.Base(files.Tokenizer) != "sentencepiece-tokenizer.json" {
		t.Errorf("Tokenizer = %s", files.Tokenizer)
	}
}

func TestFindModelFiles_Missing(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "model.onnx"))
	if _, err := FindModelFiles(dir); !errors.Is(err, ErrNoModelFile) {
		t.Errorf("expected ErrNoModelFile, got %v", err)
	}
}

func TestFilesForCheckpoint(t *testing.T) {
	dir := t.TempDir()
	ckpt := filepath.Join(dir, "rolaser.onnx")
	touch(t, ckpt)
	if _, err := FilesForCheckpoint(ckpt); !errors.Is(err, ErrNoModelFile) {
		t.Errorf("missing vocab: got %v", err)
	}
	touch(t, filepath.Join(dir, "rolaser.cvocab"))
	touch(t, filepath.Join(dir, "tokenizer.json"))
	files, err := FilesForCheckpoint(ckpt)
	if err != nil {
		t.Fatal(err)
	}
	if files.Vocab != filepath.Join(dir, "rolaser.cvocab") {
		t.Errorf("Vocab = %s", files.Vocab)
	}
	if files.Tokenizer != filepath.Join(dir, "tokenizer.json") {
		t.Errorf("Tokenizer = %s", files.Tokenizer)
	}
}

func TestModelFiles_Fingerprint(t *testing.T) {
	dir := t.TempDir()
	files := &ModelFiles{
		Checkpoint: filepath.Join(dir, "rolaser.onnx"),
		Vocab:      filepath.Join(dir, "rolaser.cvocab"),
	}
	for _, p := range []string{files.Checkpoint, files.Vocab} {
		if err := os.WriteFile(p, []byte("v1"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	base, err := files.Fingerprint(TokenizerRoBERTa, 1024)
	if err != nil {
		t.Fatal(err)
	}
	if again, _ := files.Fingerprint(TokenizerRoBERTa, 1024); again != base {
		t.Errorf("fingerprint not stable: %s vs %s", base, again)
	}
	if fp, _ := files.Fingerprint(TokenizerChar, 1024); fp == base {
		t.Error("tokenizer kind should change the fingerprint")
	}
	if fp, _ := files.Fingerprint(TokenizerRoBERTa, 768); fp == base {
		t.Error("dimensions should change the fingerprint")
	}

	if err := os.WriteFile(files.Checkpoint, []byte("retrained"), 0644); err != nil {
		t.Fatal(err)
	}
	if fp, _ := files.Fingerprint(TokenizerRoBERTa, 1024); fp == base {
		t.Error("a rewritten checkpoint should change the fingerprint")
	}

	elsewhere := &ModelFiles{Checkpoint: filepath.Join(t.TempDir(), "rolaser.onnx"), Vocab: files.Vocab}
	if err := os.WriteFile(elsewhere.Checkpoint, []byte("retrained"), 0644); err != nil {
		t.Fatal(err)
	}
	if fp, _ := elsewhere.Fingerprint(TokenizerRoBERTa, 1024); fp == base {
		t.Error("a checkpoint at another path should change the fingerprint")
	}

	missing := &ModelFiles{Checkpoint: filepath.Join(dir, "gone.onnx")}
	if _, err := missing.Fingerprint(TokenizerSPM, 1024); err == nil {
		t.Error("expected error for missing checkpoint")
	}
}
