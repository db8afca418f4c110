package config

// DefaultTransformations is the noise catalog applied by augment when none is configured.
// "case" is left out because LASER preprocessing lowercases its input.
var DefaultTransformations = []string{"abr1", "abr2", "abr3", "fing", "homo", "cont", "dysl", "leet", "spel", "slng", "week", "spac"}

// DefaultModels maps the checkpoint names used in the experiments to their report labels and tokenizers.
func DefaultModels() map[string]ModelConfig {
	return map[string]ModelConfig{
		"laser2":    {DisplayName: "LASER", Tokenizer: "spm"},
		"rolaser":   {DisplayName: "RoLASER", Tokenizer: "roberta"},
		"c-rolaser": {DisplayName: "c-RoLASER", Tokenizer: "char"},
	}
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8501
	}
	if cfg.Server.MaxPairs == 0 {
		cfg.Server.MaxPairs = 10
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = ".ugcdrift/cache.db"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 1024
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 512
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = 32
	}
	if cfg.Embedding.Workers == 0 {
		cfg.Embedding.Workers = 2
	}
	if cfg.Models == nil {
		cfg.Models = DefaultModels()
	}
	for key, m := range cfg.Models {
		if m.DisplayName == "" {
			m.DisplayName = key
			cfg.Models[key] = m
		}
	}
	if cfg.Augment.Prob == nil {
		p := DefaultAugmentProb
		cfg.Augment.Prob = &p
	}
	if cfg.Augment.Transformations == nil {
		cfg.Augment.Transformations = append([]string(nil), DefaultTransformations...)
	}
	if cfg.Data.UGCFile == "" {
		cfg.Data.UGCFile = "./data/demo_ugc.txt"
	}
	if cfg.Data.StdFile == "" {
		cfg.Data.StdFile = "./data/demo_std.txt"
	}
	if cfg.Data.OutputDir == "" {
		cfg.Data.OutputDir = "."
	}
}
