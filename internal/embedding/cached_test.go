package embedding

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hyperjump/ugcdrift/internal/storage"
)

type countingEmbedder struct {
	*MockEmbedder
	calls int
	texts int
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls++
	c.texts += len(texts)
	return c.MockEmbedder.EmbedBatch(ctx, texts)
}

func TestCachedEmbedder(t *testing.T) {
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	inner := &countingEmbedder{MockEmbedder: NewMockEmbedder(16)}
	c := NewCachedEmbedder(inner, store, "rolaser")

	first, err := c.EmbedBatch(ctx, []string{"hello", "world", "hello"})
	if err != nil {
		t.Fatal(err)
	}
	if inner.texts != 2 {
		t.Errorf("expected 2 distinct texts encoded, got %d", inner.texts)
	}
	if len(first) != 3 || first[0][0] != first[2][0] {
		t.Error("duplicate texts should share an embedding")
	}

	second, err := c.EmbedBatch(ctx, []string{"world", "hello"})
	if err != nil {
		t.Fatal(err)
	}
	if inner.calls != 1 {
		t.Errorf("second batch should be served from cache, inner calls = %d", inner.calls)
	}
	if second[0][3] != first[1][3] {
		t.Error("cached vector differs from encoded vector")
	}

	if n, _ := store.CountEmbeddings(ctx); n != 2 {
		t.Errorf("CountEmbeddings = %d, want 2", n)
	}
	if c.Dimensions() != 16 {
		t.Errorf("Dimensions = %d", c.Dimensions())
	}
}

func TestCachedEmbedder_SeparatesEncodersSharingAName(t *testing.T) {
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()
	texts := []string{"see you tomorrow", "c u tmrw"}

	small := NewCachedEmbedder(NewMockEmbedder(8), store, "rolaser")
	if _, err := small.EmbedBatch(ctx, texts); err != nil {
		t.Fatal(err)
	}

	t.Run("different dimensions", func(t *testing.T) {
		inner := &countingEmbedder{MockEmbedder: NewMockEmbedder(64)}
		large := NewCachedEmbedder(inner, store, "rolaser")
		got, err := large.EmbedBatch(ctx, texts)
		if err != nil {
			t.Fatal(err)
		}
		if inner.texts != 2 {
			t.Errorf("expected both texts encoded by the new encoder, got %d", inner.texts)
		}
		for i, v := range got {
			if len(v) != 64 {
				t.Errorf("vector %d has %d dims, want 64", i, len(v))
			}
		}
	})

	t.Run("different fingerprint", func(t *testing.T) {
		inner := &countingEmbedder{MockEmbedder: NewMockEmbedder(8)}
		other := NewCachedEmbedder(inner, store, "rolaser", WithFingerprint("other-checkpoint"))
		if other.Namespace() == small.Namespace() {
			t.Fatalf("namespaces collide: %s", other.Namespace())
		}
		if _, err := other.EmbedBatch(ctx, texts); err != nil {
			t.Fatal(err)
		}
		if inner.texts != 2 {
			t.Errorf("expected a cache miss for another checkpoint, got %d texts encoded", inner.texts)
		}
	})

	t.Run("same encoder hits", func(t *testing.T) {
		inner := &countingEmbedder{MockEmbedder: NewMockEmbedder(8)}
		again := NewCachedEmbedder(inner, store, "rolaser")
		if _, err := again.EmbedBatch(ctx, texts); err != nil {
			t.Fatal(err)
		}
		if inner.calls != 0 {
			t.Errorf("expected cache hits, inner called %d times", inner.calls)
		}
	})
}
