package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hyperjump/ugcdrift/internal/config"
	"github.com/hyperjump/ugcdrift/internal/evaluation"
	"github.com/hyperjump/ugcdrift/internal/report"
)

// corpusFlags are the parallel corpus inputs of the evaluation commands.
type corpusFlags struct {
	ugcFile string
	stdFile string
}

func addCorpusFlags(fs *flag.FlagSet) *corpusFlags {
	c := &corpusFlags{}
	fs.StringVar(&c.ugcFile, "ugc-file", "", "path to UGC data file (default from config)")
	fs.StringVar(&c.stdFile, "std-file", "", "path to standard data file (default from config)")
	return c
}

// resolve fills unset files from the config data section.
func (c *corpusFlags) resolve(cfg *config.Config) {
	if c.ugcFile == "" {
		c.ugcFile = cfg.Data.UGCFile
	}
	if c.stdFile == "" {
		c.stdFile = cfg.Data.StdFile
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runCosDist(args []string) {
	fs := flag.NewFlagSet("cosdist", flag.ExitOnError)
	common := addCommonFlags(fs)
	files := addCorpusFlags(fs)
	var enc encoderFlags
	var outputDir string
	var verbose bool
	stringFlag(fs, &enc.model, "m", "model", "", "path to model checkpoint")
	stringFlag(fs, &outputDir, "o", "output-dir", "", "path to output directory (default from config)")
	fs.BoolVar(&verbose, "verbose", false, "print scores line by line")
	fs.BoolVar(&verbose, "v", false, "print scores line by line (shorthand)")
	fs.BoolVar(&enc.mock, "mock", false, "use the deterministic mock encoder")
	_ = fs.Parse(args)

	cfg, logger := common.setup()
	defer logger.Sync()
	files.resolve(cfg)
	if outputDir == "" {
		outputDir = cfg.Data.OutputDir
	}

	src, err := checkpointSource(newRegistry(cfg), enc.model, enc.mock)
	if err != nil {
		fail("resolve model", err)
	}
	components, err := initializeComponents(cfg, logger, src)
	if err != nil {
		fail("initialize components", err)
	}
	defer components.Close()

	ctx, cancel := signalContext()
	defer cancel()
	result, err := components.Evaluator.EvaluateCorpus(ctx, files.stdFile, files.ugcFile)
	if err != nil {
		fail("compute distances", err)
	}
	components.Evaluator.RecordRun(ctx, "cosdist", files.stdFile, files.ugcFile, result)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fail("create output directory", err)
	}
	outputFile := report.OutputPath(outputDir, src.Name, ".json")
	if err := report.WriteJSON(outputFile, result); err != nil {
		fail("write outputs", err)
	}
	fmt.Println("Outputs saved in", outputFile)
	if err := report.WriteConsole(os.Stdout, result, verbose); err != nil {
		fail("print report", err)
	}
}

func runCompare(args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	common := addCommonFlags(fs)
	files := addCorpusFlags(fs)
	var enc encoderFlags
	stringFlag(fs, &enc.modelDir, "m", "model-dir", "", "path to model directory")
	stringFlag(fs, &enc.tokenizer, "t", "tokenizer", "", "tokenizer type: spm, roberta or char")
	fs.BoolVar(&enc.mock, "mock", false, "use the deterministic mock encoder")
	_ = fs.Parse(args)

	cfg, logger := common.setup()
	defer logger.Sync()
	files.resolve(cfg)
	if !enc.mock && enc.tokenizer == "" {
		fail("resolve model", fmt.Errorf("--tokenizer is required (spm, roberta or char)"))
	}

	src, err := dirSource(newRegistry(cfg), enc.modelDir, enc.tokenizer, enc.mock)
	if err != nil {
		fail("resolve model", err)
	}
	components, err := initializeComponents(cfg, logger, src)
	if err != nil {
		fail("initialize components", err)
	}
	defer components.Close()

	ctx, cancel := signalContext()
	defer cancel()
	result, err := components.Evaluator.EvaluateCorpus(ctx, files.stdFile, files.ugcFile)
	if err != nil {
		fail("compute distances", err)
	}
	components.Evaluator.RecordRun(ctx, "compare", files.stdFile, files.ugcFile, result)
	if err := report.WriteConsole(os.Stdout, result, true); err != nil {
		fail("print report", err)
	}
}

func runEvalFiles(args []string) {
	fs := flag.NewFlagSet("evalfiles", flag.ExitOnError)
	common := addCommonFlags(fs)
	files := addCorpusFlags(fs)
	var enc encoderFlags
	var outputDir string
	stringFlag(fs, &enc.modelDir, "m", "model-dir", "", "path to model directory")
	stringFlag(fs, &enc.tokenizer, "t", "tokenizer", "", "tokenizer type (default from the model registry)")
	stringFlag(fs, &outputDir, "o", "output-dir", "", "path to directory to save embeddings and results (default from config)")
	fs.BoolVar(&enc.mock, "mock", false, "use the deterministic mock encoder")
	_ = fs.Parse(args)

	cfg, logger := common.setup()
	defer logger.Sync()
	files.resolve(cfg)
	if outputDir == "" {
		outputDir = cfg.Data.OutputDir
	}

	src, err := dirSource(newRegistry(cfg), enc.modelDir, enc.tokenizer, enc.mock)
	if err != nil {
		fail("resolve model", err)
	}
	components, err := initializeComponents(cfg, logger, src)
	if err != nil {
		fail("initialize components", err)
	}
	defer components.Close()

	ctx, cancel := signalContext()
	defer cancel()
	fmt.Println("Embedding UGC file", files.ugcFile)
	fmt.Println("Embedding standard file", files.stdFile)
	result, err := components.Evaluator.EvaluateFiles(ctx, evaluation.FilesOptions{
		StdFile:   files.stdFile,
		UGCFile:   files.ugcFile,
		OutputDir: outputDir,
	})
	if err != nil {
		fail("compute distances", err)
	}
	components.Evaluator.RecordRun(ctx, "evalfiles", files.stdFile, files.ugcFile, result)

	fmt.Println("Computing pairwise cosine distances from", src.Name)
	outputFile := report.OutputPath(outputDir, src.Name, ".txt")
	f, err := os.Create(outputFile)
	if err != nil {
		fail("create output file", err)
	}
	if err := report.WriteText(f, result); err != nil {
		_ = f.Close()
		fail("write outputs", err)
	}
	if err := f.Close(); err != nil {
		fail("write outputs", err)
	}
	fmt.Println("Outputs written in", outputFile)
}
