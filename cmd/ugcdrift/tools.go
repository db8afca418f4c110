package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hyperjump/ugcdrift/internal/aggregate"
	"github.com/hyperjump/ugcdrift/internal/augment"
	"github.com/hyperjump/ugcdrift/internal/config"
	"github.com/hyperjump/ugcdrift/internal/keyword"
	"github.com/hyperjump/ugcdrift/internal/models"
	"github.com/hyperjump/ugcdrift/internal/report"
	"github.com/hyperjump/ugcdrift/internal/server"
	"github.com/hyperjump/ugcdrift/internal/watcher"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func printOutputs(out *aggregate.Outputs) {
	fmt.Printf("Aggregated %d scores from %d files\n", out.Rows, len(out.Files))
	for _, m := range out.Models {
		fmt.Printf("  %-12s n=%d mean=%s\n", m.Model, m.Count, report.FormatFloat(m.Mean))
	}
	fmt.Println("Outputs saved in", out.AllScores)
	fmt.Println("Outputs saved in", out.Summary)
	fmt.Println("Outputs saved in", out.Workbook)
	fmt.Println("Outputs saved in", out.BoxPlot)
}

func runAggregate(args []string) {
	fs := flag.NewFlagSet("aggregate", flag.ExitOnError)
	common := addCommonFlags(fs)
	var outputDir string
	stringFlag(fs, &outputDir, "o", "output-dir", "", "path to output directory (default from config)")
	watch := fs.Bool("watch", false, "re-run whenever a score file changes")
	debounce := fs.Duration("debounce", 500*time.Millisecond, "quiet period before a watched re-run")
	_ = fs.Parse(args)

	cfg, logger := common.setup()
	defer logger.Sync()
	if outputDir == "" {
		outputDir = cfg.Data.OutputDir
	}
	agg := aggregate.NewAggregator(newRegistry(cfg), aggregate.WithLogger(logger))

	if !*watch {
		out, err := agg.Run(outputDir)
		if err != nil {
			fail("aggregate scores", err)
		}
		printOutputs(out)
		return
	}

	if out, err := agg.Run(outputDir); err != nil {
		logger.Warn("initial aggregation skipped", zap.Error(err))
	} else {
		printOutputs(out)
	}
	ctx, cancel := signalContext()
	defer cancel()
	fmt.Printf("Watching %s for %s changes (Ctrl+C to stop)\n", outputDir, aggregate.ScoreFilePattern)
	err := agg.Watch(ctx, outputDir, func(out *aggregate.Outputs, err error) {
		if err != nil {
			logger.Warn("aggregation failed", zap.Error(err))
			return
		}
		printOutputs(out)
	}, watcher.WithDebounce(*debounce))
	if err != nil {
		fail("watch scores", err)
	}
}

func runAugment(args []string) {
	fs := flag.NewFlagSet("augment", flag.ExitOnError)
	common := addCommonFlags(fs)
	var input, transformations string
	stringFlag(fs, &input, "i", "input-file", "", "path to raw input file")
	var seed int64Flag
	var prob float64Flag
	fs.Var(&seed, "seed", "random seed (default from config)")
	fs.Var(&seed, "s", "random seed (shorthand)")
	fs.Var(&prob, "prob", "probability of adding each UGC phenomenon (default from config)")
	fs.Var(&prob, "p", "probability (shorthand)")
	fs.StringVar(&transformations, "transformations", "", "comma-separated transformation names (default from config)")
	_ = fs.Parse(args)

	cfg, logger := common.setup()
	defer logger.Sync()
	if input == "" {
		fail("augment corpus", fmt.Errorf("--input-file is required"))
	}
	ac := augmentSettings(cfg.Augment, seed, prob, transformations)

	mixer, err := augment.NewMixer(ac.Seed, ac.ProbOrDefault(),
		augment.WithLogger(logger),
		augment.WithTransformations(ac.Transformations),
	)
	if err != nil {
		fail("create mixer", err)
	}
	ctx, cancel := signalContext()
	defer cancel()
	res, err := mixer.Run(ctx, input)
	if err != nil {
		fail("augment corpus", err)
	}
	fmt.Println("Writing new sentences in", res.UGCFile)
	fmt.Println("Writing transformations in", res.TransFile)
}

// augmentSettings overlays the flags given on the command line on the configured augment defaults.
func augmentSettings(base config.AugmentConfig, seed int64Flag, prob float64Flag, transformations string) config.AugmentConfig {
	out := base
	if seed.set {
		out.Seed = seed.value
	}
	if prob.set {
		p := prob.value
		out.Prob = &p
	}
	if names := splitList(transformations); len(names) > 0 {
		out.Transformations = names
	}
	return out
}

// searchPairs indexes rows, runs query and returns the matching pairs ordered by cosine
// distance, most distant first. When nothing matches an exact query, the query is respelled
// from the indexed vocabulary and retried; the query actually used is returned.
func searchPairs(ctx context.Context, rows []*models.ScoreRow, query string, limit int, opts *keyword.SearchOptions) ([]*models.PairMatch, string, error) {
	idx, err := keyword.NewPairIndex()
	if err != nil {
		return nil, query, err
	}
	defer idx.Close()
	ids := make([]string, len(rows))
	docs := make([]*keyword.PairDoc, len(rows))
	for i, r := range rows {
		ids[i] = strconv.Itoa(i)
		docs[i] = &keyword.PairDoc{Model: r.Model, UGC: r.UGC, Std: r.Std, Cos: r.Cos}
	}
	if err := idx.IndexBatch(ctx, ids, docs); err != nil {
		return nil, query, err
	}

	hits, err := idx.Search(ctx, query, limit, opts)
	if err != nil {
		return nil, query, err
	}
	if len(hits) == 0 && (opts == nil || !opts.Fuzzy) {
		suggester, err := keyword.NewSuggester(idx, 2, 5)
		if err != nil {
			return nil, query, err
		}
		if corrected, ok := suggester.CorrectQuery(query); ok {
			query = corrected
			if hits, err = idx.Search(ctx, query, limit, opts); err != nil {
				return nil, query, err
			}
		}
	}

	matches := make([]*models.PairMatch, 0, len(hits))
	for _, h := range hits {
		i, err := strconv.Atoi(h.ID)
		if err != nil || i < 0 || i >= len(rows) {
			continue
		}
		matches = append(matches, &models.PairMatch{ScoreRow: *rows[i], Score: h.Score})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Cos > matches[j].Cos })
	return matches, query, nil
}

func runInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	common := addCommonFlags(fs)
	var outputDir string
	stringFlag(fs, &outputDir, "o", "output-dir", "", "directory holding outputs_*.json (default from config)")
	model := fs.String("model", "", "restrict to one model label")
	field := fs.String("field", "", "restrict matching to ugc or std")
	limit := fs.Int("limit", 10, "number of results")
	fuzzy := fs.Bool("fuzzy", false, "enable typo-tolerant matching")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(argsReorder(args))

	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		fmt.Println("Usage: ugcdrift inspect [flags] <query>")
		fs.PrintDefaults()
		os.Exit(1)
	}
	format := report.OutputFormat(*output)
	if format != report.OutputText && format != report.OutputJSON {
		fail("inspect scores", fmt.Errorf("unknown output format %q", *output))
	}
	if *field != "" && *field != keyword.FieldUGC && *field != keyword.FieldStd {
		fail("inspect scores", fmt.Errorf("--field must be %s or %s", keyword.FieldUGC, keyword.FieldStd))
	}

	cfg, logger := common.setup()
	defer logger.Sync()
	if outputDir == "" {
		outputDir = cfg.Data.OutputDir
	}
	agg := aggregate.NewAggregator(newRegistry(cfg), aggregate.WithLogger(logger))
	rows, files, err := agg.Collect(outputDir)
	if err != nil {
		fail("collect scores", err)
	}
	logger.Debug("collected scores", zap.Int("files", len(files)), zap.Int("rows", len(rows)))

	ctx, cancel := signalContext()
	defer cancel()
	matches, used, err := searchPairs(ctx, rows, query, *limit, &keyword.SearchOptions{
		Field: *field,
		Model: *model,
		Fuzzy: *fuzzy,
	})
	if err != nil {
		fail("search pairs", err)
	}
	if used != query && format == report.OutputText {
		fmt.Printf("No matches for %q, showing results for %q\n", query, used)
	}
	if err := report.WriteMatches(os.Stdout, used, matches, format); err != nil {
		fail("print matches", err)
	}
}

func runRuns(args []string) {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	common := addCommonFlags(fs)
	model := fs.String("model", "", "restrict to one model")
	limit := fs.Int("limit", 20, "number of runs")
	output := fs.String("output", "text", "output format: text or json")
	stats := fs.Bool("stats", false, "also print cache statistics")
	_ = fs.Parse(args)

	format := report.OutputFormat(*output)
	if format != report.OutputText && format != report.OutputJSON {
		fail("list runs", fmt.Errorf("unknown output format %q", *output))
	}
	cfg, logger := common.setup()
	defer logger.Sync()

	store, err := openStore(cfg)
	if err != nil {
		fail("initialize components", err)
	}
	defer store.Close()

	ctx := context.Background()
	runs, err := store.ListRuns(ctx, *model, *limit)
	if err != nil {
		fail("list runs", err)
	}
	if err := report.WriteRuns(os.Stdout, runs, format); err != nil {
		fail("print runs", err)
	}
	if *stats && format == report.OutputText {
		count, err := store.CountEmbeddings(ctx)
		if err != nil {
			fail("count cached encodings", err)
		}
		size, err := store.DiskUsage()
		if err != nil {
			fail("measure cache size", err)
		}
		fmt.Printf("\nCached encodings: %d\nDatabase: %s (%s)\n", count, cfg.Storage.DatabasePath, formatBytes(size))
	}
}

// formatBytes renders n with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func runConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	common := addCommonFlags(fs)
	write := fs.String("write", "", "write the effective configuration to this path instead of stdout")
	_ = fs.Parse(args)

	cfg, logger := common.setup()
	defer logger.Sync()
	if *write != "" {
		if err := config.Save(*write, cfg); err != nil {
			fail("write config", err)
		}
		fmt.Println("Configuration written to", *write)
		return
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		fail("encode config", err)
	}
	_, _ = os.Stdout.Write(data)
}

func runServer(args []string) {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	common := addCommonFlags(fs)
	var enc encoderFlags
	host := fs.String("host", "", "listen host (default from config)")
	port := fs.Int("port", 0, "listen port (default from config)")
	stringFlag(fs, &enc.modelDir, "m", "model-dir", "", "model directory enabling cosine distances")
	stringFlag(fs, &enc.tokenizer, "t", "tokenizer", "", "tokenizer type for --model-dir")
	fs.BoolVar(&enc.mock, "mock", false, "score pairs with the mock encoder")
	_ = fs.Parse(args)

	cfg, logger := common.setup()
	defer logger.Sync()
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	var src *encoderSource
	if enc.mock || enc.modelDir != "" {
		s, err := dirSource(newRegistry(cfg), enc.modelDir, enc.tokenizer, enc.mock)
		if err != nil {
			fail("resolve model", err)
		}
		src = s
	}
	components, err := initializeComponents(cfg, logger, src)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	opts := []server.Option{server.WithLogger(logger)}
	if components.Evaluator != nil {
		opts = append(opts, server.WithEvaluator(components.Evaluator))
	}
	srv, err := server.NewServer(&cfg.Server, opts...)
	if err != nil {
		fail("create server", err)
	}
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	ctx, cancel := signalContext()
	defer cancel()
	<-ctx.Done()

	logger.Info("Shutting down...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	_ = srv.Stop(shutdownCtx)
}
