package augment

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewMixer_unknownTransformation(t *testing.T) {
	_, err := NewMixer(0, 0.1, WithTransformations([]string{"abr1", "bogus"}))
	if err == nil {
		t.Fatal("expected error for unknown transformation")
	}
}

func TestMixer_CorruptProbZero(t *testing.T) {
	m, err := NewMixer(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	sentence, log, err := m.Corrupt("Nothing changes here.  \n")
	if err != nil {
		t.Fatal(err)
	}
	if sentence != "Nothing changes here. \n" {
		t.Errorf("sentence = %q", sentence)
	}
	if log != "\n" {
		t.Errorf("log = %q, want empty line", log)
	}
}

func TestMixer_CorruptProbOne(t *testing.T) {
	m, err := NewMixer(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	_, log, err := m.Corrupt("I do not know what to do on Monday")
	if err != nil {
		t.Fatal(err)
	}
	entries := strings.Split(strings.TrimSuffix(log, "\n"), ";")
	if len(entries) != len(m.names) {
		t.Fatalf("got %d entries %q, want %d", len(entries), log, len(m.names))
	}
	seen := map[string]bool{}
	for _, e := range entries {
		name, _, _ := strings.Cut(e, ",")
		seen[name] = true
	}
	for _, name := range m.names {
		if !seen[name] {
			t.Errorf("transformation %s missing from log %q", name, log)
		}
	}
}

func TestMixer_Reproducible(t *testing.T) {
	sentences := []string{
		"Please see you tomorrow.",
		"By the way, I do not know their address.",
		"It is a really great weekend for friends.",
	}
	run := func() []string {
		m, err := NewMixer(5, 0.5)
		if err != nil {
			t.Fatal(err)
		}
		var out []string
		for _, s := range sentences {
			a, b, err := m.Corrupt(s)
			if err != nil {
				t.Fatal(err)
			}
			out = append(out, a, b)
		}
		return out
	}
	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("output %d differs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestOutputPaths(t *testing.T) {
	ugc, trans := OutputPaths(filepath.Join("data", "test.en"), 3)
	if want := filepath.Join("data", "ugc", "3", "test_mix_all.en"); ugc != want {
		t.Errorf("ugc path = %q, want %q", ugc, want)
	}
	if want := filepath.Join("data", "trans", "3", "test_mix_all_trans.en"); trans != want {
		t.Errorf("trans path = %q, want %q", trans, want)
	}
}

func TestMixer_Run(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "clean.txt")
	if err := os.WriteFile(input, []byte("first line\nsecond line  \n"), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := NewMixer(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	res, err := m.Run(context.Background(), input)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Sentences != 2 {
		t.Errorf("Sentences = %d, want 2", res.Sentences)
	}
	got, err := os.ReadFile(res.UGCFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "first line \nsecond line \n" {
		t.Errorf("ugc file = %q", got)
	}
	logData, err := os.ReadFile(res.TransFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(logData) != "\n\n" {
		t.Errorf("trans file = %q", logData)
	}
	if res.UGCFile != filepath.Join(dir, "ugc", "0", "clean_mix_all.txt") {
		t.Errorf("UGCFile = %q", res.UGCFile)
	}
}

func TestMixer_RunRepeatable(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "clean.txt")
	content := "Please see you tomorrow.\nI do not know their address.\nBy the way it is Monday.\n"
	if err := os.WriteFile(input, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := NewMixer(1, 0.6)
	if err != nil {
		t.Fatal(err)
	}
	res, err := m.Run(context.Background(), input)
	if err != nil {
		t.Fatal(err)
	}
	first, _ := os.ReadFile(res.UGCFile)
	if _, err := m.Run(context.Background(), input); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(res.UGCFile)
	if string(first) != string(second) {
		t.Errorf("repeated runs differ:\n%s\n%s", first, second)
	}
	if n := strings.Count(string(first), "\n"); n != 3 {
		t.Errorf("got %d lines, want 3", n)
	}
}

func TestMixer_RunCancelled(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "clean.txt")
	if err := os.WriteFile(input, []byte("a\n"), 0644); err != nil {
		t.Fatal(err)
	}
	m, _ := NewMixer(0, 0.1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Run(ctx, input); err == nil {
		t.Error("expected context error")
	}
}
