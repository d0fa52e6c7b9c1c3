package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/xhad/memogen/internal/logger"
	"github.com/xhad/memogen/internal/models"
	"github.com/xhad/memogen/internal/types"
	cfgPkg "github.com/xhad/memogen/pkg/config"
	"github.com/xhad/memogen/pkg/lang"
	"github.com/xhad/memogen/pkg/llm"
	"github.com/xhad/memogen/pkg/memo"
	"github.com/xhad/memogen/pkg/parser"
	"github.com/xhad/memogen/pkg/processor"
	"github.com/xhad/memogen/pkg/store"
	"github.com/xhad/memogen/server"
)

type Options struct {
	ConfigPath  string
	InputDir    string
	DBURL       string
	OllamaURL   string
	Query       string
	TopN        int
	DataPath    string
	Language    string
	CleanupDays int
	OutPath     string
	Addr        string
}

func main() {
	opts, mode := parseFlags()

	if err := run(mode, opts); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() (Options, string) {
	var opts Options

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to config file")
	flag.StringVar(&opts.InputDir, "input", "", "Input directory (overrides config)")
	flag.StringVar(&opts.DBURL, "db-url", "", "Database connection URL (overrides config)")
	flag.StringVar(&opts.OllamaURL, "ollama-url", "", "Ollama server URL (overrides config)")
	flag.StringVar(&opts.Query, "query", "", "Search query")
	flag.IntVar(&opts.TopN, "top", 5, "Number of search results")
	flag.StringVar(&opts.DataPath, "data", "", "Financial data JSON file for memo generation")
	flag.StringVar(&opts.Language, "language", "english", "Memo language (dutch or english)")
	flag.IntVar(&opts.CleanupDays, "days", 30, "Age in days for cleanup")
	flag.StringVar(&opts.OutPath, "out", "", "Output file for the generated memo")
	flag.StringVar(&opts.Addr, "addr", ":8080", "Listen address for serve mode")
	flag.Parse()

	mode := flag.Arg(0)
	if mode == "" {
		mode = "ingest"
	}

	return opts, mode
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func run(mode string, opts Options) error {
	cfg, err := cfgPkg.LoadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts)

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("config: %v", e)
		}
		return fmt.Errorf("invalid configuration")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	zlog := logger.New()

	switch mode {
	case "ingest":
		return runIngest(cfg, zlog)
	case "search":
		return runSearch(cfg, zlog, opts)
	case "memo":
		return runMemo(cfg, opts)
	case "cleanup":
		return runCleanup(cfg, zlog, opts)
	case "serve":
		return runServe(cfg, zlog, opts)
	default:
		return fmt.Errorf("unknown mode %q (want ingest, search, memo, cleanup or serve)", mode)
	}
}

// applyOverrides folds flag values over the loaded config. Overrides run
// before validation and directory creation so both act on the effective
// values.
func applyOverrides(cfg *cfgPkg.Config, opts Options) {
	if opts.InputDir != "" {
		cfg.Paths.InputDir = opts.InputDir
	}
	if opts.DBURL != "" {
		cfg.Database.URL = opts.DBURL
	}
	if opts.OllamaURL != "" {
		cfg.LLM.BaseURL = opts.OllamaURL
	}
}

func openStore(cfg *cfgPkg.Config, zlog zerolog.Logger) (types.VectorStore, error) {
	embedder, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		Model:   cfg.LLM.EmbeddingModel,
		BaseURL: cfg.LLM.BaseURL,
	})
	if err != nil {
		return nil, err
	}

	return store.NewWithConfig(store.VectorStoreConfig{
		ConnString: cfg.Database.URL,
		TableName:  cfg.Database.TableName,
		VectorDim:  cfg.Database.VectorDim,
		BatchSize:  cfg.Database.BatchSize,
	}, embedder, zlog)
}

// runIngest processes every file in the input directory.
func runIngest(cfg *cfgPkg.Config, zlog zerolog.Logger) error {
	ctx := context.Background()

	entries, err := os.ReadDir(cfg.Paths.InputDir)
	if err != nil {
		return err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, filepath.Join(cfg.Paths.InputDir, entry.Name()))
		}
	}
	if len(files) == 0 {
		color.Yellow("no files in %s", cfg.Paths.InputDir)
		return nil
	}

	proc, err := processor.NewWithConfig(processor.ProcessorConfig{
		ChunkSize:    cfg.Processor.ChunkSize,
		ChunkOverlap: cfg.Processor.ChunkOverlap,
	})
	if err != nil {
		return err
	}

	vectorStore, err := openStore(cfg, zlog)
	if err != nil {
		return fmt.Errorf("failed to initialize vector store: %v", err)
	}
	defer vectorStore.Close()

	indexed, skipped := ingestFiles(ctx, files, parser.New(lang.New(), zlog), proc, vectorStore)

	if err := vectorStore.Persist(ctx); err != nil {
		return err
	}

	color.Green("\n✓ Indexed %d documents (%d skipped)", indexed, skipped)
	return nil
}

// ingestFiles parses, chunks and indexes each file in turn. A failure on
// one file is reported and skipped; it never aborts the rest of the batch.
func ingestFiles(ctx context.Context, files []string, p types.Parser, proc processor.Processor, vs types.VectorStore) (indexed, skipped int) {
	bar := getProgressBar(len(files), " Ingesting documents")

	for _, file := range files {
		bar.Add(1)

		doc, err := p.Parse(file)
		if err != nil {
			color.Red("\nskipping %s: %v", filepath.Base(file), err)
			skipped++
			continue
		}

		doc.Chunks = proc.Chunk(doc.Text)

		if err := vs.AddDocument(ctx, doc); err != nil {
			color.Red("\nfailed to index %s: %v", doc.Metadata.Filename, err)
			skipped++
			continue
		}

		if doc.Tabular() && doc.IsFinancial {
			if err := vs.AddFinancialData(ctx, doc); err != nil {
				color.Red("\nfinancial data for %s: %v", doc.Metadata.Filename, err)
			}
		}

		indexed++
	}
	bar.Finish()

	return indexed, skipped
}

func runSearch(cfg *cfgPkg.Config, zlog zerolog.Logger, opts Options) error {
	if opts.Query == "" {
		return fmt.Errorf("search requires -query")
	}

	vectorStore, err := openStore(cfg, zlog)
	if err != nil {
		return err
	}
	defer vectorStore.Close()

	results, err := vectorStore.SemanticSearch(context.Background(), opts.Query, opts.TopN, nil)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		color.Yellow("no matches")
		return nil
	}

	for i, r := range results {
		color.Cyan("%d. %s (distance %.4f)", i+1, r.ID, r.Distance)
		fmt.Println(truncate(r.Content, 300))
	}
	return nil
}

func runMemo(cfg *cfgPkg.Config, opts Options) error {
	if opts.DataPath == "" {
		return fmt.Errorf("memo requires -data")
	}

	language := models.Language(strings.ToLower(opts.Language))
	if language != models.LanguageDutch && language != models.LanguageEnglish {
		return fmt.Errorf("unsupported language %q", opts.Language)
	}

	data, err := memo.LoadFinancialData(opts.DataPath)
	if err != nil {
		return err
	}

	client, err := llm.NewWithConfig(llm.ClientConfig{
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		BaseURL:     cfg.LLM.BaseURL,
		RateLimit:   cfg.LLM.RateLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize LLM client: %v", err)
	}

	color.Cyan("Generating memo sections...")
	start := time.Now()

	text, err := memo.NewGenerator(client).GenerateMemo(context.Background(), data, language)
	if err != nil {
		return err
	}

	out := opts.OutPath
	if out == "" {
		out = filepath.Join(cfg.Paths.OutputDir, "memo.txt")
	}
	if err := os.WriteFile(out, []byte(text), 0644); err != nil {
		return err
	}

	color.Green("✓ Memo written to %s (%.1fs)", out, time.Since(start).Seconds())
	return nil
}

func runCleanup(cfg *cfgPkg.Config, zlog zerolog.Logger, opts Options) error {
	vectorStore, err := openStore(cfg, zlog)
	if err != nil {
		return err
	}
	defer vectorStore.Close()

	deleted, err := vectorStore.CleanupOldEntries(context.Background(), opts.CleanupDays)
	if err != nil {
		return err
	}

	color.Green("✓ Deleted %d entries older than %d days", deleted, opts.CleanupDays)
	return nil
}

// runServe exposes search and analysis over a websocket until interrupted.
func runServe(cfg *cfgPkg.Config, zlog zerolog.Logger, opts Options) error {
	vectorStore, err := openStore(cfg, zlog)
	if err != nil {
		return err
	}
	defer vectorStore.Close()

	client, err := llm.NewWithConfig(llm.ClientConfig{
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		BaseURL:     cfg.LLM.BaseURL,
		RateLimit:   cfg.LLM.RateLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize LLM client: %v", err)
	}

	srv := server.New(server.Config{Addr: opts.Addr, TopN: opts.TopN}, client, vectorStore, zlog)
	return srv.Start()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
