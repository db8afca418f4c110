package storage

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/ugcdrift/internal/models"
)

func TestSQLiteStorage_Embeddings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	ids := []string{"a", "b"}
	vecs := [][]float32{{1, 2, 3}, {0.5, -0.5, 0}}
	if err := store.PutEmbeddings(ctx, "rolaser", ids, vecs); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetEmbeddings(ctx, "rolaser", []string{"a", "b", "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 cached vectors, got %d", len(got))
	}
	if v := got["b"]; len(v) != 3 || v[0] != 0.5 || v[1] != -0.5 {
		t.Errorf("b = %v", v)
	}

	other, err := store.GetEmbeddings(ctx, "laser2", ids)
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("vectors must not leak across models, got %v", other)
	}

	// Replace keeps a single row per key.
	if err := store.PutEmbeddings(ctx, "rolaser", []string{"a"}, [][]float32{{9, 9, 9}}); err != nil {
		t.Fatal(err)
	}
	n, err := store.CountEmbeddings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("CountEmbeddings = %d, want 2", n)
	}
}

func TestSQLiteStorage_PutEmbeddingsMismatch(t *testing.T) {
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if err := store.PutEmbeddings(context.Background(), "m", []string{"a"}, nil); err == nil {
		t.Error("expected error for length mismatch")
	}
}

func TestSQLiteStorage_Runs(t *testing.T) {
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	older := &models.Run{Model: "laser2", Command: "cosdist", Pairs: 3, MeanCos: 0.2,
		CreatedAt: time.Now().Add(-time.Hour)}
	if err := store.CreateRun(ctx, older); err != nil {
		t.Fatal(err)
	}
	if older.ID == "" {
		t.Error("run ID should be assigned")
	}
	newer := &models.Run{Model: "rolaser", Command: "evalfiles", StdFile: "std.txt", UGCFile: "ugc.txt",
		Pairs: 0, MeanCos: math.NaN()}
	if err := store.CreateRun(ctx, newer); err != nil {
		t.Fatal(err)
	}

	all, err := store.ListRuns(ctx, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(all))
	}
	if all[0].ID != newer.ID {
		t.Errorf("most recent run should come first, got %s", all[0].Model)
	}
	if !math.IsNaN(all[0].MeanCos) {
		t.Errorf("NaN mean should round-trip as NaN, got %v", all[0].MeanCos)
	}
	if all[0].StdFile != "std.txt" {
		t.Errorf("std file = %q", all[0].StdFile)
	}

	filtered, err := store.ListRuns(ctx, "laser2", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 1 || filtered[0].MeanCos != 0.2 {
		t.Errorf("filtered runs = %+v", filtered)
	}
}

func TestSQLiteStorage_DiskUsage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	before, err := store.DiskUsage()
	if err != nil {
		t.Fatal(err)
	}
	if before <= 0 {
		t.Fatalf("expected a non-empty database, got %d bytes", before)
	}

	vecs := make([][]float32, 200)
	ids := make([]string, len(vecs))
	for i := range vecs {
		ids[i] = fmt.Sprintf("id-%d", i)
		vecs[i] = make([]float32, 256)
	}
	if err := store.PutEmbeddings(ctx, "rolaser", ids, vecs); err != nil {
		t.Fatal(err)
	}
	after, err := store.DiskUsage()
	if err != nil {
		t.Fatal(err)
	}
	if after <= before {
		t.Errorf("disk usage did not grow: %d -> %d", before, after)
	}

	var want int64
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if info, err := os.Stat(p); err == nil {
			want += info.Size()
		}
	}
	if after != want {
		t.Errorf("DiskUsage = %d, want sum of database files %d", after, want)
	}
}
