package app

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/chriscorrea/kpe/internal/config"
	"github.com/chriscorrea/kpe/internal/docfreq"
	"github.com/chriscorrea/kpe/internal/docfreq/sqlite"
	"github.com/chriscorrea/kpe/internal/filter"
	"github.com/chriscorrea/kpe/internal/ingest"
)

// DocFreqJob describes a document-frequency build over a corpus folder.
type DocFreqJob struct {
	Input  string // folder of .xml records and .tgz archives
	Output string // folder receiving docfreq_<lang>.tsv files
	SQLite string // optional database receiving one snapshot per language
	Config *config.Config
}

// DocFreqReport summarizes a build.
type DocFreqReport struct {
	Tables    map[string]*docfreq.Table
	Snapshots map[string]string // language to snapshot id
	Results   []ingest.Result
	Documents int // annotated field documents
}

// BuildDocFreq counts, per language, the documents containing each term.
// Every configured field of a record is one document. Workers keep private
// accumulators that are merged once the walk is over.
func (r *Runner) BuildDocFreq(ctx context.Context, job DocFreqJob) (*DocFreqReport, error) {
	cfg := job.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	workers := cfg.EffectiveWorkers()
	shards := make([]map[string]*docfreq.Accumulator, workers)
	counts := make([]int, workers)
	for i := range shards {
		shards[i] = make(map[string]*docfreq.Accumulator)
	}
	newAccumulator := func() *docfreq.Accumulator {
		return docfreq.NewAccumulator(
			docfreq.WithMaxLength(cfg.N),
			docfreq.WithNormalization(cfg.NormalizationMode()),
			docfreq.WithStopwords(filter.Stopwords(cfg.Stopwords, nil)),
		)
	}

	p := r.startProgress(ctx, "Counting document frequencies")
	records := make(chan *ingest.Record, workers)
	var results []ingest.Result
	var walkErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		results, walkErr = feed(ctx, job.Input, records)
	}()

	fanOut(workers, records, func(worker int, rec *ingest.Record) {
		for _, tag := range cfg.Tags {
			field, ok := rec.Field(tag)
			if !ok || len(field.Text) == 0 || !cfg.AllowsLanguage(field.Language) {
				continue
			}
			a := r.annotator(field.Language)
			if a == nil {
				continue
			}
			doc, err := a.Annotate(field.Text...)
			if err != nil {
				slog.Warn("Skipping field", "name", rec.Name, "tag", tag, "error", err)
				continue
			}
			acc, ok := shards[worker][field.Language]
			if !ok {
				acc = newAccumulator()
				shards[worker][field.Language] = acc
			}
			acc.Process(doc)
			counts[worker]++
		}
		if p != nil {
			p.Inc()
		}
	})
	<-done
	if p != nil {
		p.Stop()
	}
	if walkErr != nil {
		return nil, walkErr
	}

	report := &DocFreqReport{
		Tables:    make(map[string]*docfreq.Table),
		Snapshots: make(map[string]string),
		Results:   results,
	}
	merged := make(map[string]*docfreq.Accumulator)
	for worker, shard := range shards {
		report.Documents += counts[worker]
		for lang, acc := range shard {
			if into, ok := merged[lang]; ok {
				into.Merge(acc)
			} else {
				merged[lang] = acc
			}
		}
	}
	for lang, acc := range merged {
		report.Tables[lang] = acc.Table()
	}

	if err := docfreq.WriteDir(job.Output, report.Tables); err != nil {
		return nil, err
	}
	slog.Debug("Wrote document frequency tables", "dir", job.Output, "languages", len(report.Tables), "documents", report.Documents)

	if job.SQLite != "" {
		if err := saveSnapshots(ctx, job.SQLite, report); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func saveSnapshots(ctx context.Context, path string, report *DocFreqReport) error {
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, lang := range slices.Sorted(maps.Keys(report.Tables)) {
		id, err := store.Save(ctx, lang, report.Tables[lang])
		if err != nil {
			return fmt.Errorf("failed to save %s snapshot: %w", lang, err)
		}
		report.Snapshots[lang] = id
	}
	return nil
}
