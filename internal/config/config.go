// Package config provides configuration loading and structs for ugcdrift.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool                   `yaml:"debug"`
	Server    ServerConfig           `yaml:"server"`
	Storage   StorageConfig          `yaml:"storage"`
	Embedding EmbeddingConfig        `yaml:"embedding"`
	Models    map[string]ModelConfig `yaml:"models"`
	Augment   AugmentConfig          `yaml:"augment"`
	Data      DataConfig             `yaml:"data"`
}

// ServerConfig holds demo UI server settings.
type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	MaxPairs int    `yaml:"max_pairs"`
}

// StorageConfig holds the SQLite store location.
type StorageConfig struct {
	DatabasePath   string `yaml:"database_path"`
	EmbeddingCache *bool  `yaml:"embedding_cache"`
}

// EmbeddingCacheOrDefault returns whether encodings are cached in SQLite; defaults to true when unset.
func (s *StorageConfig) EmbeddingCacheOrDefault() bool {
	if s.EmbeddingCache != nil {
		return *s.EmbeddingCache
	}
	return true
}

// EmbeddingConfig holds encoder settings.
type EmbeddingConfig struct {
	Dimensions int  `yaml:"dimensions"`
	MaxTokens  int  `yaml:"max_tokens"`
	CacheSize  int  `yaml:"cache_size"`
	BatchSize  int  `yaml:"batch_size"`
	Workers    int  `yaml:"workers"`
	FP16       bool `yaml:"fp16"`
}

// ModelConfig describes one known encoder: how it is labelled in reports and which tokenizer it needs.
type ModelConfig struct {
	DisplayName string `yaml:"display_name"`
	Tokenizer   string `yaml:"tokenizer"`
}

// AugmentConfig holds noise-injection defaults.
type AugmentConfig struct {
	Seed            int64    `yaml:"seed"`
	Prob            *float64 `yaml:"prob"`
	Transformations []string `yaml:"transformations"`
}

// DefaultAugmentProb is the selection probability used when augment.prob is unset.
const DefaultAugmentProb = 0.1

// ProbOrDefault returns the selection probability; an explicit 0 is kept.
func (a *AugmentConfig) ProbOrDefault() float64 {
	if a.Prob != nil {
		return *a.Prob
	}
	return DefaultAugmentProb
}

// DataConfig holds default input and output locations.
type DataConfig struct {
	UGCFile   string `yaml:"ugc_file"`
	StdFile   string `yaml:"std_file"`
	OutputDir string `yaml:"output_dir"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Data.UGCFile = expandPath(cfg.Data.UGCFile, configDir)
	cfg.Data.StdFile = expandPath(cfg.Data.StdFile, configDir)
	cfg.Data.OutputDir = expandPath(cfg.Data.OutputDir, configDir)

	return &cfg, nil
}

// Default returns a config with every default applied, used when no config file exists.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, ".")
	return &cfg
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
