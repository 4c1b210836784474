// Package app contains the batch and single-document workflows of the kpe CLI.
// It wires corpus ingestion, annotation, and the scorers together, separated from CLI concerns.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/chriscorrea/kpe/internal/annotate"
	"github.com/chriscorrea/kpe/internal/config"
	"github.com/chriscorrea/kpe/internal/docfreq"
	"github.com/chriscorrea/kpe/internal/filter"
	"github.com/chriscorrea/kpe/internal/ingest"
	"github.com/chriscorrea/kpe/internal/keyphrase"
	"github.com/chriscorrea/kpe/internal/progress"
	"github.com/chriscorrea/kpe/internal/textrank"
	"github.com/chriscorrea/kpe/internal/tfidf"
)

// OutputFormat defines how extraction results are written.
type OutputFormat int

const (
	// CSV output with a name,keyphrases,lang header (default for corpora)
	CSV OutputFormat = iota
	// JSON output, one object per line for corpora
	JSON
	// Text output, one phrase and score per line
	Text
)

// String returns the string representation of the output format.
func (f OutputFormat) String() string {
	switch f {
	case CSV:
		return "csv"
	case JSON:
		return "json"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// ParseOutputFormat parses csv, json, or text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return CSV, nil
	case "json", "jsonl":
		return JSON, nil
	case "text", "txt", "tsv":
		return Text, nil
	default:
		return CSV, fmt.Errorf("unknown output format %q", s)
	}
}

// Runner executes kpe workflows with shared annotators.
type Runner struct {
	Annotators *annotate.Registry
	// Progress receives the activity indicator; nil disables it.
	Progress io.Writer

	warned sync.Map // once-per-key warnings
}

// NewRunner returns a Runner building Prose annotators with extra stopwords.
func NewRunner(stoplist []string, progressOut io.Writer) *Runner {
	return &Runner{
		Annotators: annotate.NewRegistry(annotate.ProseFactory(stoplist)),
		Progress:   progressOut,
	}
}

// warnOnce logs a warning the first time key is seen.
func (r *Runner) warnOnce(key, msg string, args ...any) {
	if _, seen := r.warned.LoadOrStore(key, struct{}{}); !seen {
		slog.Warn(msg, args...)
	}
}

func (r *Runner) startProgress(ctx context.Context, label string) *progress.Indicator {
	if r.Progress == nil {
		return nil
	}
	p := progress.New(ctx, r.Progress, label)
	p.Start()
	return p
}

// annotator returns the annotator for language, or nil after warning once.
func (r *Runner) annotator(language string) annotate.Annotator {
	a, err := r.Annotators.Get(language)
	if err != nil {
		r.warnOnce("annotator:"+language, "No annotator for language", "language", language, "error", err)
		return nil
	}
	return a
}

// newExtractor builds the configured scorer. table is only used by TF-IDF.
func newExtractor(cfg *config.Config, table *docfreq.Table) keyphrase.Extractor {
	if cfg.Method == config.MethodTextRank {
		return textrank.New(
			textrank.WithTags(cfg.TextRank.POS...),
			textrank.WithWindow(cfg.TextRank.Window),
			textrank.WithTop(cfg.TextRankTop()),
			textrank.WithNormalization(cfg.NormalizationMode()),
		)
	}
	return tfidf.New(table,
		tfidf.WithMaxLength(cfg.N),
		tfidf.WithNormalization(cfg.NormalizationMode()),
		tfidf.WithStopwords(filter.Stopwords(cfg.Stopwords, nil)),
	)
}

// feed walks dir and sends every parsed record to out, closing it when done.
func feed(ctx context.Context, dir string, out chan<- *ingest.Record) ([]ingest.Result, error) {
	defer close(out)
	return ingest.Walk(ctx, dir, func(name string, rd io.Reader) error {
		rec, err := ingest.ParseRecord(rd, name)
		if err != nil {
			return err
		}
		select {
		case out <- rec:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// fanOut runs work on n goroutines over records; worker receives its index.
func fanOut(n int, records <-chan *ingest.Record, work func(worker int, rec *ingest.Record)) {
	var wg sync.WaitGroup
	for w := 0; w < n; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for rec := range records {
				work(worker, rec)
			}
		}(w)
	}
	wg.Wait()
}
