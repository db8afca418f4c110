// Package main is the ugcdrift CLI entry point.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hyperjump/ugcdrift/internal/config"
	"github.com/hyperjump/ugcdrift/internal/embedding"
	"github.com/hyperjump/ugcdrift/internal/evaluation"
	"github.com/hyperjump/ugcdrift/internal/storage"
	"github.com/hyperjump/ugcdrift/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "config.yaml"

// loadConfig loads config from path. A missing file at the default path is not an error:
// the built-in defaults are used instead. Returns the config and the path that was loaded
// ("" for built-in defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	args := os.Args[2:]
	switch command {
	case "cosdist":
		runCosDist(args)
	case "compare":
		runCompare(args)
	case "evalfiles":
		runEvalFiles(args)
	case "aggregate":
		runAggregate(args)
	case "augment":
		runAugment(args)
	case "inspect":
		runInspect(args)
	case "runs":
		runRuns(args)
	case "config":
		runConfig(args)
	case "server":
		runServer(args)
	case "version", "--version":
		fmt.Printf("ugcdrift version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// fail prints "Failed to <action>: <err>" and exits with status 1.
func fail(action string, err error) {
	fmt.Printf("Failed to %s: %v\n", action, err)
	os.Exit(1)
}

// stringFlag registers a string flag under a short and a long name sharing one value.
func stringFlag(fs *flag.FlagSet, p *string, short, long, value, usage string) {
	fs.StringVar(p, long, value, usage)
	if short != "" {
		fs.StringVar(p, short, value, usage+" (shorthand)")
	}
}

// int64Flag is an int64 flag that records whether it was given, so any value (negative
// included) can override the configuration.
type int64Flag struct {
	value int64
	set   bool
}

func (f *int64Flag) String() string { return strconv.FormatInt(f.value, 10) }

func (f *int64Flag) Set(s string) error {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	f.value, f.set = v, true
	return nil
}

// float64Flag is the float64 counterpart of int64Flag.
type float64Flag struct {
	value float64
	set   bool
}

func (f *float64Flag) String() string { return strconv.FormatFloat(f.value, 'g', -1, 64) }

func (f *float64Flag) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	f.value, f.set = v, true
	return nil
}

// commonFlags are accepted by every subcommand that reads the configuration.
type commonFlags struct {
	configPath string
	debug      bool
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	c := &commonFlags{}
	fs.StringVar(&c.configPath, "config", defaultConfigPath, "config file path")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging")
	return c
}

// setup loads the configuration and creates the logger, exiting on failure.
func (c *commonFlags) setup() (*config.Config, *zap.Logger) {
	cfg, resolved, err := loadConfig(c.configPath)
	if err != nil {
		fail("load config", err)
	}
	debugMode := cfg.Debug || c.debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fail("create logger", err)
	}
	if resolved == "" {
		resolved = "(defaults)"
	}
	logger.Debug("config loaded", zap.String("config_path", resolved), zap.Bool("debug", debugMode))
	return cfg, logger
}

// encoderFlags select the encoder of an evaluation command.
type encoderFlags struct {
	model     string
	modelDir  string
	tokenizer string
	mock      bool
}

// encoderSource is a resolved encoder: its model name, files and tokenizer.
type encoderSource struct {
	Name      string
	Files     *embedding.ModelFiles
	Tokenizer embedding.TokenizerKind
	Mock      bool
}

// checkpointSource resolves an encoder from a checkpoint path. The model name is the
// checkpoint basename up to the first "." and must be registered; it picks the tokenizer.
func checkpointSource(registry *embedding.Registry, checkpoint string, mock bool) (*encoderSource, error) {
	if mock {
		name := "mock"
		if checkpoint != "" {
			name = embedding.ModelNameFromPath(checkpoint)
		}
		return &encoderSource{Name: name, Mock: true}, nil
	}
	if checkpoint == "" {
		return nil, errors.New("--model is required")
	}
	name := embedding.ModelNameFromPath(checkpoint)
	spec, err := registry.Lookup(name)
	if err != nil {
		return nil, err
	}
	files, err := embedding.FilesForCheckpoint(checkpoint)
	if err != nil {
		return nil, err
	}
	return &encoderSource{Name: name, Files: files, Tokenizer: spec.Tokenizer}, nil
}

// dirSource resolves an encoder from a model directory named after the model. An explicit
// tokenizer wins over the registry entry.
func dirSource(registry *embedding.Registry, dir, tokenizer string, mock bool) (*encoderSource, error) {
	name := "mock"
	if dir != "" {
		name = filepath.Base(filepath.Clean(dir))
	}
	if mock {
		return &encoderSource{Name: name, Mock: true}, nil
	}
	if dir == "" {
		return nil, errors.New("--model-dir is required")
	}
	var kind embedding.TokenizerKind
	if tokenizer != "" {
		k, err := embedding.ParseTokenizerKind(tokenizer)
		if err != nil {
			return nil, err
		}
		kind = k
	} else {
		spec, err := registry.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("%w (pass --tokenizer)", err)
		}
		kind = spec.Tokenizer
	}
	files, err := embedding.FindModelFiles(dir)
	if err != nil {
		return nil, err
	}
	return &encoderSource{Name: name, Files: files, Tokenizer: kind}, nil
}

// Components holds initialized services.
type Components struct {
	Storage   storage.Storage
	Embedder  embedding.Embedder
	Evaluator *evaluation.Evaluator
}

// Close releases the embedder and the store.
func (c *Components) Close() {
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

// openStore opens the SQLite store named in cfg.
func openStore(cfg *config.Config) (storage.Storage, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return store, nil
}

// initializeComponents opens the store, builds the encoder described by src (nil for none)
// and wires the evaluator around it.
func initializeComponents(cfg *config.Config, logger *zap.Logger, src *encoderSource) (*Components, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	c := &Components{Storage: store}
	if src == nil {
		return c, nil
	}

	var inner embedding.Embedder
	if src.Mock {
		inner = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	} else {
		enc, err := embedding.NewEncoder(embedding.EncoderOptions{
			Files:      src.Files,
			Tokenizer:  src.Tokenizer,
			Dimensions: cfg.Embedding.Dimensions,
			MaxTokens:  cfg.Embedding.MaxTokens,
			CacheSize:  cfg.Embedding.CacheSize,
		})
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to load encoder %s: %w", src.Name, err)
		}
		inner = enc
	}
	c.Embedder = inner
	if cfg.Storage.EmbeddingCacheOrDefault() {
		fp := "mock"
		if !src.Mock {
			if fp, err = src.Files.Fingerprint(src.Tokenizer, cfg.Embedding.Dimensions); err != nil {
				c.Close()
				return nil, err
			}
		}
		c.Embedder = embedding.NewCachedEmbedder(inner, store, src.Name,
			embedding.WithLogger(logger),
			embedding.WithFingerprint(fp),
		)
	}
	logger.Info("encoder initialized",
		zap.String("model", src.Name),
		zap.String("tokenizer", string(src.Tokenizer)),
		zap.Bool("mock", src.Mock),
		zap.Int("dimensions", c.Embedder.Dimensions()),
	)

	c.Evaluator = evaluation.NewEvaluator(c.Embedder, src.Name,
		evaluation.WithLogger(logger),
		evaluation.WithStore(store),
		evaluation.WithBatchSize(cfg.Embedding.BatchSize),
		evaluation.WithWorkers(cfg.Embedding.Workers),
		evaluation.WithFP16(cfg.Embedding.FP16),
	)
	return c, nil
}

// newRegistry builds the model registry from cfg, exiting on failure.
func newRegistry(cfg *config.Config) *embedding.Registry {
	registry, err := embedding.NewRegistry(cfg.Models)
	if err != nil {
		fail("load model registry", err)
	}
	return registry
}

// argsReorder moves flags that follow positional arguments to the front, so that
// "ugcdrift inspect query --limit 5" parses the same as "ugcdrift inspect --limit 5 query".
func argsReorder(args []string) []string {
	firstFlag := -1
	for i, a := range args {
		if strings.HasPrefix(a, "-") && a != "-" {
			firstFlag = i
			break
		}
	}
	if firstFlag <= 0 {
		return args
	}
	out := make([]string, 0, len(args))
	out = append(out, args[firstFlag:]...)
	out = append(out, args[:firstFlag]...)
	return out
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printUsage() {
	fmt.Println(`ugcdrift - Measure how far sentence encoders drift on user-generated content

Usage:
  ugcdrift cosdist [flags]              Score a parallel corpus with a model checkpoint
  ugcdrift compare [flags]              Print every pair distance for a model directory
  ugcdrift evalfiles [flags]            Embed corpus files to .bin caches and score them
  ugcdrift aggregate [flags]            Combine outputs_*.json into tables and a box plot
  ugcdrift augment [flags]              Inject synthetic UGC noise into a clean corpus
  ugcdrift inspect [flags] <query>      Keyword search over aggregated score files
  ugcdrift runs [flags]                 List recorded evaluation runs
  ugcdrift config [flags]               Print or write the effective configuration
  ugcdrift server [flags]               Start the demo UI
  ugcdrift version                      Show version
  ugcdrift help                         Show this help

Common Flags:
  --config string    Config file path (default: config.yaml when present, else built-in defaults)
  --debug            Enable debug logging

Cosdist Flags:
  --ugc-file string        UGC data file (default from config: ./data/demo_ugc.txt)
  --std-file string        Standard data file (default from config: ./data/demo_std.txt)
  -m, --model string       Path to the model checkpoint (<name>.onnx); required
  -o, --output-dir string  Directory for outputs_<model>.json (default from config)
  -v, --verbose            Print scores line by line
  --mock                   Use the deterministic mock encoder

Compare Flags:
  -m, --model-dir string   Path to the model directory; required
  -t, --tokenizer string   Tokenizer type: spm, roberta or char; required
  --ugc-file, --std-file, --mock as above

Evalfiles Flags:
  -m, --model-dir string   Path to the model directory
  -t, --tokenizer string   Tokenizer type (default from the model registry)
  -o, --output-dir string  Directory for embeddings/ and outputs_<model>.txt
  --ugc-file, --std-file, --mock as above

Aggregate Flags:
  -o, --output-dir string  Directory holding outputs_*.json (default from config)
  --watch                  Re-run whenever a score file changes
  --debounce duration      Quiet period before a watched re-run (default: 500ms)

Augment Flags:
  -i, --input-file string        Raw input file; required
  -s, --seed int                 Random seed (default from config: 0)
  -p, --prob float               Probability of adding each UGC phenomenon (default from config: 0.1)
  --transformations string       Comma-separated transformation names (default from config)

Inspect Flags:
  -o, --output-dir string  Directory holding outputs_*.json
  --model string           Restrict to one model label
  --field string           Restrict matching to ugc or std
  --limit int              Number of results (default: 10)
  --fuzzy                  Enable typo-tolerant matching
  --output string          Output format: text or json (default: text)

Runs Flags:
  --model string     Restrict to one model
  --limit int        Number of runs (default: 20)
  --output string    Output format: text or json (default: text)
  --stats            Also print cache statistics

Config Flags:
  --write string     Write the effective configuration to this path instead of stdout

Server Flags:
  --host string, --port int     Override the listen address
  -m, --model-dir string        Model directory enabling cosine distances on the page
  -t, --tokenizer string        Tokenizer for --model-dir
  --mock                        Score pairs with the mock encoder

Examples:
  ugcdrift cosdist -m models/rolaser.onnx -v
  ugcdrift compare -m models/c-rolaser -t char
  ugcdrift evalfiles -m models/laser2 -o results
  ugcdrift aggregate -o results
  ugcdrift aggregate -o results --watch
  ugcdrift augment -i data/test.en -s 1 -p 0.2
  ugcdrift inspect -o results --fuzzy tomorow
  ugcdrift runs --output json
  ugcdrift config --write config.yaml
  ugcdrift server --mock`)
}
