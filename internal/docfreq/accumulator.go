package docfreq

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/chriscorrea/kpe/internal/document"
	"github.com/chriscorrea/kpe/internal/filter"
)

// DefaultMaxLength is the default maximum term length in tokens.
const DefaultMaxLength = 3

// Accumulator counts document frequencies one document at a time.
// Process must be called exactly once per document; it is not safe for concurrent use.
type Accumulator struct {
	table         *Table
	maxLength     int
	normalization document.Normalization
	filters       filter.Chain
}

// Option configures an Accumulator.
type Option func(*Accumulator)

// WithMaxLength sets the maximum term length in tokens.
func WithMaxLength(n int) Option {
	return func(a *Accumulator) { a.maxLength = n }
}

// WithNormalization sets how candidates are grouped into terms.
func WithNormalization(n document.Normalization) Option {
	return func(a *Accumulator) { a.normalization = n }
}

// WithStopwords replaces the stopword filter of the counting chain.
func WithStopwords(f filter.Stopword) Option {
	return func(a *Accumulator) { a.filters = filter.Counting(f) }
}

// NewAccumulator returns an empty accumulator. Stopwords are not filtered by default.
func NewAccumulator(opts ...Option) *Accumulator {
	a := &Accumulator{
		table:         NewTable(),
		maxLength:     DefaultMaxLength,
		normalization: document.Stemming,
		filters:       filter.Counting(filter.Stopwords(false, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Process counts each distinct term of doc once and increments the document total.
func (a *Accumulator) Process(doc *document.Document) {
	candidates := a.filters.Apply(document.Generate(doc, a.maxLength))

	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		term := a.normalization.Term(c)
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		a.table.Add(term, 1)
	}
	a.table.TotalDocuments++

	slog.Debug("Processed document", "candidates", len(candidates), "distinctTerms", len(seen), "documents", a.table.TotalDocuments)
}

// Table returns the accumulated table. Callers must not modify it while processing.
func (a *Accumulator) Table() *Table {
	return a.table
}

// Merge folds a shard's table into the accumulator.
func (a *Accumulator) Merge(other *Accumulator) {
	a.table.Merge(other.table)
}

// Load replaces the accumulated state with a persisted table.
// On failure the previous state is left untouched.
func (a *Accumulator) Load(r io.Reader) error {
	table, err := ReadTable(r)
	if err != nil {
		return fmt.Errorf("failed to load accumulator: %w", err)
	}
	a.table = table
	return nil
}

// Save writes the accumulated table in the persisted format.
func (a *Accumulator) Save(w io.Writer) error {
	if _, err := a.table.WriteTo(w); err != nil {
		return fmt.Errorf("failed to save accumulator: %w", err)
	}
	return nil
}
