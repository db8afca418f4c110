// Package storage defines the persistence interface for cached encodings and evaluation runs.
package storage

import (
	"context"

	"github.com/hyperjump/ugcdrift/internal/models"
)

// Storage defines encoding cache and run log persistence operations.
type Storage interface {
	// Encoding cache, keyed by model and textid.TextID
	GetEmbeddings(ctx context.Context, model string, ids []string) (map[string][]float32, error)
	PutEmbeddings(ctx context.Context, model string, ids []string, vectors [][]float32) error
	CountEmbeddings(ctx context.Context) (int64, error)
	DiskUsage() (int64, error)

	// Run log
	CreateRun(ctx context.Context, run *models.Run) error
	ListRuns(ctx context.Context, model string, limit int) ([]*models.Run, error)

	Close() error
}
