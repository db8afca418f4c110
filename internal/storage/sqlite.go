// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/ugcdrift/internal/models"
)

// maxQueryIDs bounds the number of placeholders in one IN (...) lookup.
const maxQueryIDs = 500

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db, path: dbPath}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS embeddings (
		model TEXT NOT NULL,
		text_id TEXT NOT NULL,
		dims INTEGER NOT NULL,
		vector BLOB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (model, text_id)
	);

	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		model TEXT NOT NULL,
		command TEXT NOT NULL,
		std_file TEXT,
		ugc_file TEXT,
		pairs INTEGER NOT NULL,
		mean_cos REAL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_model_created ON runs(model, created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// GetEmbeddings returns the cached vectors for ids under model. Missing ids are absent from the map.
func (s *SQLiteStorage) GetEmbeddings(ctx context.Context, model string, ids []string) (map[string][]float32, error) {
	out := make(map[string][]float32, len(ids))
	for start := 0; start < len(ids); start += maxQueryIDs {
		end := start + maxQueryIDs
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]
		args := make([]interface{}, 0, len(batch)+1)
		args = append(args, model)
		for _, id := range batch {
			args = append(args, id)
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(batch)), ",")
		rows, err := s.db.QueryContext(ctx,
			`SELECT text_id, dims, vector FROM embeddings WHERE model = ? AND text_id IN (`+placeholders+`)`,
			args...,
		)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var id string
			var dims int
			var blob []byte
			if err := rows.Scan(&id, &dims, &blob); err != nil {
				rows.Close()
				return nil, err
			}
			if len(blob) != dims*4 {
				rows.Close()
				return nil, fmt.Errorf("corrupt embedding %s: %d bytes for %d dims", id, len(blob), dims)
			}
			out[id] = decodeVector(blob)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return out, nil
}

// PutEmbeddings inserts or replaces vectors for ids under model in one transaction.
func (s *SQLiteStorage) PutEmbeddings(ctx context.Context, model string, ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("ids and vectors length mismatch")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO embeddings (model, text_id, dims, vector, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for i, id := range ids {
		if _, err := stmt.ExecContext(ctx, model, id, len(vectors[i]), encodeVector(vectors[i]), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CountEmbeddings returns the total number of cached vectors.
func (s *SQLiteStorage) CountEmbeddings(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM embeddings`).Scan(&count)
	return count, err
}

// DiskUsage returns the bytes held by the database file and its WAL side files.
func (s *SQLiteStorage) DiskUsage() (int64, error) {
	var total int64
	for _, p := range []string{s.path, s.path + "-wal", s.path + "-shm"} {
		info, err := os.Stat(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		total += info.Size()
	}
	return total, nil
}

// CreateRun inserts a run, assigning an ID and timestamp when unset.
func (s *SQLiteStorage) CreateRun(ctx context.Context, run *models.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	var mean interface{}
	if !math.IsNaN(run.MeanCos) {
		mean = run.MeanCos
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, model, command, std_file, ugc_file, pairs, mean_cos, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Model, run.Command, run.StdFile, run.UGCFile, run.Pairs, mean, run.CreatedAt,
	)
	return err
}

// ListRuns returns the most recent runs first. An empty model lists every model; limit <= 0 means no limit.
func (s *SQLiteStorage) ListRuns(ctx context.Context, model string, limit int) ([]*models.Run, error) {
	query := `SELECT id, model, command, std_file, ugc_file, pairs, mean_cos, created_at FROM runs`
	var args []interface{}
	if model != "" {
		query += ` WHERE model = ?`
		args = append(args, model)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		var run models.Run
		var stdFile, ugcFile sql.NullString
		var mean sql.NullFloat64
		if err := rows.Scan(&run.ID, &run.Model, &run.Command, &stdFile, &ugcFile, &run.Pairs, &mean, &run.CreatedAt); err != nil {
			return nil, err
		}
		run.StdFile = stdFile.String
		run.UGCFile = ugcFile.String
		run.MeanCos = math.NaN()
		if mean.Valid {
			run.MeanCos = mean.Float64
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func encodeVector(v []float32) []byte {
	out := make([]byte, len(v)*4)
	for i, x := range v {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(x))
	}
	return out
}

func decodeVector(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}
