package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/chriscorrea/kpe/internal/config"
	"github.com/chriscorrea/kpe/internal/docfreq"
	"github.com/chriscorrea/kpe/internal/keyphrase"
	"github.com/chriscorrea/kpe/internal/source"
)

// TextJob describes keyphrase extraction over ad hoc sources.
type TextJob struct {
	Sources []string // URLs, file paths, or "-" for stdin
	Model   string   // optional docfreq TSV file for TF-IDF
	Source  source.Options
	Config  *config.Config
}

// ExtractText combines the paragraphs of every source into one document and
// extracts its keyphrases. Sources that fail are skipped with a warning.
func (r *Runner) ExtractText(ctx context.Context, job TextJob) ([]keyphrase.Keyphrase, error) {
	cfg := job.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(job.Sources) == 0 {
		return nil, fmt.Errorf("no sources provided")
	}

	var table *docfreq.Table
	if cfg.Method == config.MethodTFIDF && job.Model != "" {
		t, err := docfreq.ReadFile(job.Model)
		if err != nil {
			return nil, err
		}
		table = t
	}

	var paragraphs []string
	for _, src := range job.Sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ps, err := source.Paragraphs(ctx, src, job.Source)
		if err != nil {
			slog.Warn("Failed to process source", "source", src, "error", err)
			continue
		}
		paragraphs = append(paragraphs, ps...)
	}
	if len(paragraphs) == 0 {
		return nil, fmt.Errorf("no content extracted from any source")
	}

	a, err := r.Annotators.Get(cfg.Language)
	if err != nil {
		return nil, err
	}
	doc, err := a.Annotate(paragraphs...)
	if err != nil {
		return nil, fmt.Errorf("failed to annotate text: %w", err)
	}

	kps := keyphrase.Extract(newExtractor(cfg, table), doc, keyphrase.Options{
		K:               cfg.K,
		RemoveRedundant: cfg.RedundancyRemoval,
	})
	slog.Debug("Extracted keyphrases", "method", cfg.Method, "paragraphs", len(paragraphs), "keyphrases", len(kps))
	return kps, nil
}

// WriteKeyphrases writes ranked keyphrases as phrase<TAB>score lines, or a JSON array.
func WriteKeyphrases(w io.Writer, format OutputFormat, kps []keyphrase.Keyphrase) error {
	if format == JSON {
		if kps == nil {
			kps = []keyphrase.Keyphrase{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(kps)
	}
	for _, kp := range kps {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", kp.Phrase, strconv.FormatFloat(kp.Score, 'f', 4, 64)); err != nil {
			return err
		}
	}
	return nil
}
