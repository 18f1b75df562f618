package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"topictag/internal/config"
	"topictag/internal/domain"
	"topictag/internal/service"
	"topictag/internal/topics"
	"topictag/internal/tui"
	"topictag/internal/vectorstore"
)

func main() {
	_ = godotenv.Load()
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// run parses args, tags the record and writes the report to stdout. Every
// failure is returned so deferred cleanup runs before the process exits.
func run(args []string, stdout io.Writer) error {
	var (
		cfgPath  string
		index    string
		vectorID string
		text     string
		file     string
		nTopics  int
		useTUI   bool
		dryRun   bool
		verbose  bool
	)
	flags := flag.NewFlagSet("topictag", flag.ContinueOnError)
	flags.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ./topictag.yaml or ~/.config/topictag/config.yaml if not provided)")
	flags.StringVar(&index, "index", "", "Name of the vector index holding the record")
	flags.StringVar(&vectorID, "id", "", "Id of the record to tag")
	flags.StringVar(&text, "text", "", "Text to extract topics from")
	flags.StringVar(&file, "file", "", "Read the text from a file ('-' for stdin)")
	flags.IntVar(&nTopics, "topics", 0, "Number of topics (default from config, 3)")
	flags.BoolVar(&useTUI, "tui", false, "Open the interactive topic explorer")
	flags.BoolVar(&dryRun, "dry-run", false, "Extract and print topics without updating the index")
	flags.BoolVar(&verbose, "v", false, "Verbose logging")
	if err := flags.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	job := cfg.Job
	if index != "" {
		job.IndexName = index
	}
	if vectorID != "" {
		job.VectorID = vectorID
	}
	if nTopics != 0 {
		job.NTopics = nTopics
	}
	if job.Text, err = readText(text, file, flags.Args(), job.Text); err != nil {
		return fmt.Errorf("failed to read text: %w", err)
	}
	if job.VectorID != "" && job.VectorID == job.Text {
		logger.Warn("vector id and text are identical; check the caller's argument wiring", "vector_id", job.VectorID)
	}
	if !useTUI {
		if err := job.Validate(!dryRun); err != nil {
			fmt.Fprintln(os.Stderr, "Usage: topictag [-config=topictag.yaml] -index=NAME -id=VECTOR_ID [-topics=N] (-text=TEXT | -file=PATH | TEXT...)")
			return err
		}
	}

	extractor, err := topics.NewExtractor(topics.Options{
		Engine:      cfg.Extractor.Engine,
		MaxFeatures: cfg.Extractor.MaxFeatures,
		TopWords:    cfg.Extractor.TopWords,
		Seed:        cfg.Extractor.Seed,
		MaxIter:     cfg.Extractor.MaxIter,
	})
	if err != nil {
		return fmt.Errorf("extractor init failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var store vectorstore.Storage
	if !dryRun {
		store, err = newStore(cfg.VectorStore)
		if err != nil {
			return fmt.Errorf("vector store init failed: %w", err)
		}
		if err := store.Open(ctx); err != nil {
			return fmt.Errorf("%s: open failed: %w", store.Name(), err)
		}
		defer store.Close()
	}

	svc := service.NewTaggingService(extractor, store, logger)
	d := domain.Job{Text: job.Text, NTopics: job.NTopics, IndexName: job.IndexName, VectorID: job.VectorID}

	if useTUI {
		_, err := tea.NewProgram(tui.New(ctx, svc, d)).Run()
		return err
	}

	var result []domain.TopicDescriptor
	if dryRun {
		result, err = svc.Extract(d.Text, d.NTopics)
	} else {
		result, err = svc.Tag(ctx, d)
	}
	if err != nil {
		return fmt.Errorf("tagging failed: %w", err)
	}
	if err := service.WriteReport(stdout, result); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// readText picks the text from -text, -file, positional arguments or the
// config, in that order.
func readText(text, file string, args []string, fallback string) (string, error) {
	switch {
	case text != "":
		return text, nil
	case file == "-":
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	case file != "":
		data, err := os.ReadFile(file)
		return string(data), err
	case len(args) > 0:
		return strings.Join(args, " "), nil
	}
	return fallback, nil
}
