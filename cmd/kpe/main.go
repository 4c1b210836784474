package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/chriscorrea/kpe/internal/app"
	"github.com/chriscorrea/kpe/internal/config"
	"github.com/chriscorrea/kpe/internal/ingest"

	"github.com/spf13/cobra"
)

// setupLogger configures the default slog logger; debug wins over level
func setupLogger(debug bool, level string) {
	var lvl slog.Level
	switch {
	case debug:
		lvl = slog.LevelDebug
	case strings.EqualFold(level, "debug"):
		lvl = slog.LevelDebug
	case strings.EqualFold(level, "info"):
		lvl = slog.LevelInfo
	case strings.EqualFold(level, "error"):
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})
	slog.SetDefault(slog.New(handler))
}

// loadConfig layers the config file and environment over base, then applies
// flags the user set explicitly and configures logging.
func loadConfig(cmd *cobra.Command, base *config.Config) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadOver(base, path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	quiet, _ := flags.GetBool("quiet")
	if quiet {
		cfg.LogLevel = "error"
	}
	debug, _ := flags.GetBool("debug")
	setupLogger(debug, cfg.LogLevel)

	if flags.Changed("size") {
		cfg.N, _ = flags.GetInt("size")
	}
	if flags.Changed("top") {
		cfg.K, _ = flags.GetInt("top")
	}
	if flags.Changed("stopwords") {
		cfg.Stopwords, _ = flags.GetBool("stopwords")
	}
	if flags.Changed("stoplist") {
		cfg.Stoplist, _ = flags.GetStringSlice("stoplist")
	}
	if flags.Changed("languages") {
		cfg.Languages, _ = flags.GetStringSlice("languages")
	}
	if flags.Changed("tags") {
		cfg.Tags, _ = flags.GetStringSlice("tags")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("normalization") {
		cfg.Normalization, _ = flags.GetString("normalization")
	}
	if flags.Changed("method") {
		cfg.Method, _ = flags.GetString("method")
	}
	if flags.Changed("redundancy-removal") {
		cfg.RedundancyRemoval, _ = flags.GetBool("redundancy-removal")
	}
	if flags.Changed("truncate") {
		cfg.Truncate, _ = flags.GetInt("truncate")
	}
	if flags.Changed("lang") {
		cfg.Language, _ = flags.GetString("lang")
	}
	if flags.Changed("window") {
		cfg.TextRank.Window, _ = flags.GetInt("window")
	}
	if flags.Changed("vertices") {
		cfg.TextRank.Top, _ = flags.GetString("vertices")
	}
	if flags.Changed("pos") {
		cfg.TextRank.POS, _ = flags.GetStringSlice("pos")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newRunner builds a runner whose progress indicator is silenced by --quiet
func newRunner(cmd *cobra.Command, cfg *config.Config) *app.Runner {
	var progressOut io.Writer = os.Stderr
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		progressOut = nil
	}
	return app.NewRunner(cfg.Stoplist, progressOut)
}

// signalContext returns a context cancelled on interrupt
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// reportFailures prints a one-line summary of skipped corpus items
func reportFailures(cmd *cobra.Command, results []ingest.Result) {
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		return
	}
	if failed := ingest.Failed(results); len(failed) > 0 {
		fmt.Fprintf(os.Stderr, "Skipped %d of %d items\n", len(failed), len(results))
	}
}

var rootCmd = &cobra.Command{
	Use:   "kpe",
	Short: "A CLI tool for keyphrase extraction",
	Long: `Kpe extracts keyphrases from documents with TF-IDF or TextRank.

Examples:
  kpe docfreq --input corpus/ --output model/
  kpe extract --input corpus/ --model model/ --output keyphrases.csv
  kpe keyphrases https://example.com/article
  cat paper.txt | kpe keyphrases --method textrank`,
	SilenceUsage: true,
}

var docfreqCmd = &cobra.Command{
	Use:   "docfreq",
	Short: "Compute document frequency tables from a corpus",
	Long: `Compute one document frequency table per language from a folder of XML
records (.xml) and compressed archives of records (.tgz). Tables are written as
docfreq_<lang>.tsv files in the output folder.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		base := config.Default()
		base.N = 5
		cfg, err := loadConfig(cmd, base)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		db, _ := cmd.Flags().GetString("sqlite")

		ctx, stop := signalContext()
		defer stop()

		report, err := newRunner(cmd, cfg).BuildDocFreq(ctx, app.DocFreqJob{
			Input:  input,
			Output: output,
			SQLite: db,
			Config: cfg,
		})
		if err != nil {
			return fmt.Errorf("docfreq failed: %w", err)
		}
		reportFailures(cmd, report.Results)
		slog.Info("Document frequency tables written", "languages", len(report.Tables), "documents", report.Documents)
		return nil
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract keyphrases from every record of a corpus",
	Long: `Extract keyphrases from a folder of XML records and write one row per record
with the columns name, keyphrases, and lang.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd, config.Default())
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		input, _ := cmd.Flags().GetString("input")
		model, _ := cmd.Flags().GetString("model")
		output, _ := cmd.Flags().GetString("output")
		db, _ := cmd.Flags().GetString("sqlite")
		formatFlag, _ := cmd.Flags().GetString("format")
		format, err := app.ParseOutputFormat(formatFlag)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		if cfg.Method == config.MethodTFIDF && model == "" && db == "" {
			return fmt.Errorf("configuration error: --model or --sqlite is required for tfidf")
		}

		ctx, stop := signalContext()
		defer stop()

		report, err := newRunner(cmd, cfg).ExtractCorpus(ctx, app.ExtractJob{
			Input:  input,
			Model:  model,
			SQLite: db,
			Output: output,
			Format: format,
			Config: cfg,
		})
		if err != nil {
			return fmt.Errorf("extract failed: %w", err)
		}
		reportFailures(cmd, report.Results)
		slog.Info("Keyphrases written", "records", len(report.Records), "output", output)
		return nil
	},
}

var keyphrasesCmd = &cobra.Command{
	Use:   "keyphrases [sources...]",
	Short: "Extract keyphrases from URLs, files, or standard input",
	Long: `Extract keyphrases from one or more sources combined into a single document.
HTML sources are reduced to their main content first.

Examples:
  kpe keyphrases https://example.com
  kpe keyphrases --model model/docfreq_en.tsv paper.txt
  cat notes.txt | kpe keyphrases --method textrank --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		base := config.Default()
		base.K = 10
		base.Method = config.MethodTextRank
		cfg, err := loadConfig(cmd, base)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		sources := args
		if len(sources) == 0 {
			sources = []string{"-"}
		}
		model, _ := cmd.Flags().GetString("model")
		selector, _ := cmd.Flags().GetString("selector")
		includeAll, _ := cmd.Flags().GetBool("include-all")
		jsonFlag, _ := cmd.Flags().GetBool("json")

		format := app.Text
		if jsonFlag {
			format = app.JSON
		}

		ctx, stop := signalContext()
		defer stop()

		job := app.TextJob{Sources: sources, Model: model, Config: cfg}
		job.Source.Selector = selector
		job.Source.IncludeAll = includeAll

		kps, err := newRunner(cmd, cfg).ExtractText(ctx, job)
		if err != nil {
			return fmt.Errorf("keyphrases failed: %w", err)
		}
		return app.WriteKeyphrases(os.Stdout, format, kps)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML config file (default: $KPE_CONFIG)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress and warnings")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "Enable debug logging")
	_ = rootCmd.PersistentFlags().MarkHidden("debug")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")

	// docfreq
	docfreqCmd.Flags().String("input", "", "Folder of XML records and .tgz archives")
	docfreqCmd.Flags().String("output", "", "Folder receiving docfreq_<lang>.tsv files")
	docfreqCmd.Flags().IntP("size", "n", 5, "Maximum size (n-gram) of counted terms")
	docfreqCmd.Flags().String("sqlite", "", "Also save one snapshot per language to this SQLite database")
	_ = docfreqCmd.MarkFlagRequired("input")
	_ = docfreqCmd.MarkFlagRequired("output")

	// extract
	extractCmd.Flags().String("input", "", "Folder of XML records and .tgz archives")
	extractCmd.Flags().String("model", "", "Folder of docfreq_<lang>.tsv files")
	extractCmd.Flags().String("sqlite", "", "Read document frequencies from this SQLite database instead of --model")
	extractCmd.Flags().String("output", "-", "Output file, - for standard output")
	extractCmd.Flags().IntP("size", "n", 3, "Maximum size (n-gram) of extracted keyphrases")
	extractCmd.Flags().IntP("top", "k", 30, "Maximum number of keyphrases per record, 0 for all")
	extractCmd.Flags().String("format", "csv", "Output format: csv or json")
	extractCmd.Flags().Int("truncate", 100, "Description tokens used when a record has no abstract")
	_ = extractCmd.MarkFlagRequired("input")

	// keyphrases
	keyphrasesCmd.Flags().String("model", "", "Document frequency TSV file for tfidf (default: empty corpus)")
	keyphrasesCmd.Flags().IntP("size", "n", 3, "Maximum size (n-gram) of tfidf candidates")
	keyphrasesCmd.Flags().IntP("top", "k", 10, "Maximum number of keyphrases, 0 for all")
	keyphrasesCmd.Flags().String("lang", "en", "Language of the sources (ISO 639-1)")
	keyphrasesCmd.Flags().StringP("selector", "s", "", "CSS selector restricting HTML extraction")
	keyphrasesCmd.Flags().BoolP("include-all", "i", false, "Include all HTML content without readability filtering")
	keyphrasesCmd.Flags().Bool("json", false, "Output in JSON format")

	for _, cmd := range []*cobra.Command{docfreqCmd, extractCmd, keyphrasesCmd} {
		cmd.Flags().Bool("stopwords", false, "Reject candidates containing stopwords")
		cmd.Flags().StringSlice("stoplist", nil, "Extra stopwords")
		cmd.Flags().StringSlice("languages", nil, "Only process documents in these languages")
		cmd.Flags().StringSlice("tags", ingest.DefaultTags, "Record fields to read")
		cmd.Flags().Int("workers", 0, "Parallel workers (default: number of CPUs, at most 8)")
		cmd.Flags().String("normalization", "stemming", "Term normalization: stemming or lowercase")
	}
	for _, cmd := range []*cobra.Command{extractCmd, keyphrasesCmd} {
		cmd.Flags().String("method", "", "Scoring method: tfidf or textrank")
		cmd.Flags().Bool("redundancy-removal", false, "Remove keyphrases contained in a higher-ranked one (slow)")
		cmd.Flags().Int("window", 2, "TextRank co-occurrence window")
		cmd.Flags().String("vertices", "0.33", "TextRank vertices kept: all, a count, or a fraction")
		cmd.Flags().StringSlice("pos", nil, "TextRank coarse tags allowed as vertices (default: NOUN,PROPN,ADJ)")
	}

	rootCmd.AddCommand(docfreqCmd, extractCmd, keyphrasesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
