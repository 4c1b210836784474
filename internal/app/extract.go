package app

import (
	"cmp"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/chriscorrea/kpe/internal/config"
	"github.com/chriscorrea/kpe/internal/docfreq"
	"github.com/chriscorrea/kpe/internal/docfreq/sqlite"
	"github.com/chriscorrea/kpe/internal/document"
	"github.com/chriscorrea/kpe/internal/ingest"
	"github.com/chriscorrea/kpe/internal/keyphrase"
)

// ExtractJob describes keyphrase extraction over a corpus folder.
type ExtractJob struct {
	Input  string // folder of .xml records and .tgz archives
	Model  string // folder of docfreq_<lang>.tsv files
	SQLite string // optional snapshot database used instead of Model
	Output string // result file, "-" for stdout
	Format OutputFormat
	Config *config.Config
}

// RecordKeyphrases is the extraction result of one record.
type RecordKeyphrases struct {
	Name       string   `json:"name"`
	Keyphrases []string `json:"keyphrases"`
	Lang       string   `json:"lang"`
}

// ExtractReport summarizes a corpus extraction.
type ExtractReport struct {
	Records []RecordKeyphrases // sorted by name
	Results []ingest.Result
}

// tableCache loads one document-frequency table per language on first use.
type tableCache struct {
	mu     sync.Mutex
	load   func(language string) (*docfreq.Table, error)
	tables map[string]*docfreq.Table
	failed map[string]bool
}

func newTableCache(load func(language string) (*docfreq.Table, error)) *tableCache {
	return &tableCache{load: load, tables: make(map[string]*docfreq.Table), failed: make(map[string]bool)}
}

// get returns nil when the language has no usable table; the miss is logged once.
func (c *tableCache) get(language string) *docfreq.Table {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.tables[language]; ok {
		return t
	}
	if c.failed[language] {
		return nil
	}
	t, err := c.load(language)
	if err != nil {
		slog.Warn("Unsupported language, no document frequency table", "language", language, "error", err)
		c.failed[language] = true
		return nil
	}
	slog.Debug("Loaded document frequency table", "language", language, "documents", t.TotalDocuments, "terms", t.Len())
	c.tables[language] = t
	return t
}

// ExtractCorpus extracts keyphrases from every record of a corpus and writes them to job.Output.
//
// A record's language is its abstract language, else its description language.
// Scores come from the abstract plus every configured field in that language;
// candidates come from the abstract only. A record without an abstract uses
// the first Truncate tokens of its description instead.
func (r *Runner) ExtractCorpus(ctx context.Context, job ExtractJob) (*ExtractReport, error) {
	cfg := job.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var tables *tableCache
	if cfg.Method == config.MethodTFIDF {
		load, closeStore, err := tableLoader(ctx, job)
		if err != nil {
			return nil, err
		}
		defer closeStore()
		tables = newTableCache(load)
	}

	workers := cfg.EffectiveWorkers()
	p := r.startProgress(ctx, "Extracting keyphrases")
	records := make(chan *ingest.Record, workers)
	var results []ingest.Result
	var walkErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		results, walkErr = feed(ctx, job.Input, records)
	}()

	var mu sync.Mutex
	var extracted []RecordKeyphrases
	fanOut(workers, records, func(_ int, rec *ingest.Record) {
		out, ok := r.extractRecord(cfg, tables, rec)
		if p != nil {
			p.Inc()
		}
		if !ok {
			return
		}
		mu.Lock()
		extracted = append(extracted, out)
		mu.Unlock()
	})
	<-done
	if p != nil {
		p.Stop()
	}
	if walkErr != nil {
		return nil, walkErr
	}

	slices.SortStableFunc(extracted, func(a, b RecordKeyphrases) int {
		return cmp.Compare(a.Name, b.Name)
	})
	report := &ExtractReport{Records: extracted, Results: results}

	if err := writeOutput(job.Output, func(w io.Writer) error {
		return WriteRecords(w, job.Format, extracted)
	}); err != nil {
		return nil, err
	}
	return report, nil
}

// tableLoader reads tables from the snapshot database when configured, else from the model folder.
func tableLoader(ctx context.Context, job ExtractJob) (func(string) (*docfreq.Table, error), func(), error) {
	if job.SQLite == "" {
		return func(language string) (*docfreq.Table, error) {
			return docfreq.ReadFile(docfreq.Path(job.Model, language))
		}, func() {}, nil
	}

	store, err := sqlite.Open(ctx, job.SQLite)
	if err != nil {
		return nil, nil, err
	}
	load := func(language string) (*docfreq.Table, error) {
		return store.Latest(ctx, language)
	}
	return load, func() { store.Close() }, nil
}

// extractRecord returns false when the record is skipped.
func (r *Runner) extractRecord(cfg *config.Config, tables *tableCache, rec *ingest.Record) (RecordKeyphrases, bool) {
	lang := rec.Language()
	abstract, hasAbstract := rec.Field(ingest.TagAbstract)
	description, hasDescription := rec.Field(ingest.TagDescription)
	if lang == "" || (!hasAbstract && !hasDescription) {
		return RecordKeyphrases{}, false
	}
	if !cfg.AllowsLanguage(lang) {
		return RecordKeyphrases{}, false
	}

	var table *docfreq.Table
	if tables != nil {
		if table = tables.get(lang); table == nil {
			return RecordKeyphrases{}, false
		}
	}
	a := r.annotator(lang)
	if a == nil {
		return RecordKeyphrases{}, false
	}

	var text []string
	if !cfg.HasTag(ingest.TagAbstract) {
		text = append(text, abstract.Text...)
	}
	for _, tag := range cfg.Tags {
		if field, ok := rec.Field(tag); ok && field.Language == lang {
			text = append(text, field.Text...)
		}
	}

	doc, err := a.Annotate(text...)
	if err != nil {
		slog.Warn("Skipping record", "name", rec.Name, "error", err)
		return RecordKeyphrases{}, false
	}

	var source *document.Document
	if hasAbstract {
		if source, err = a.Annotate(abstract.Text...); err != nil {
			slog.Warn("Skipping record", "name", rec.Name, "error", err)
			return RecordKeyphrases{}, false
		}
	} else {
		full, err := a.Annotate(description.Text...)
		if err != nil {
			slog.Warn("Skipping record", "name", rec.Name, "error", err)
			return RecordKeyphrases{}, false
		}
		source = full.Truncate(cfg.Truncate)
		if !cfg.HasTag(ingest.TagDescription) {
			doc.Append(source)
		}
	}

	extractor := newExtractor(cfg, table)
	scores := extractor.Score(doc, extractor.Candidates(doc))
	kps := extractor.Keyphrases(extractor.Candidates(source), scores, keyphrase.Options{
		K:               cfg.K,
		RemoveRedundant: cfg.RedundancyRemoval,
	})

	return RecordKeyphrases{Name: rec.Name, Keyphrases: keyphrase.Phrases(kps), Lang: lang}, true
}

// WriteRecords writes corpus results in format; Text is written as CSV.
func WriteRecords(w io.Writer, format OutputFormat, records []RecordKeyphrases) error {
	if format == JSON {
		enc := json.NewEncoder(w)
		for _, rec := range records {
			if rec.Keyphrases == nil {
				rec.Keyphrases = []string{}
			}
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("failed to encode %q: %w", rec.Name, err)
			}
		}
		return nil
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "keyphrases", "lang"}); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write([]string{rec.Name, PythonList(rec.Keyphrases), rec.Lang}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// PythonList renders phrases as a Python list literal, e.g. ['a', 'b'].
func PythonList(phrases []string) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, p := range phrases {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(pythonString(p))
	}
	sb.WriteByte(']')
	return sb.String()
}

// pythonString quotes s as Python's repr does: single quotes unless s holds
// a single quote and no double quote.
func pythonString(s string) string {
	quote := byte('\'')
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		quote = '"'
	}

	var sb strings.Builder
	sb.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			sb.WriteString(`\\`)
		case r == rune(quote):
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte(quote)
	return sb.String()
}

// writeOutput runs write against path, or stdout for "-" and "".
func writeOutput(path string, write func(io.Writer) error) (err error) {
	if path == "" || path == "-" {
		return write(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output %q: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return write(f)
}
