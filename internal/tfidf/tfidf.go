// Package tfidf provides TF-IDF (Term Frequency-Inverse Document Frequency) keyphrase scoring.
//
// This package scores candidate phrases of a single document against a
// precomputed corpus document-frequency table:
//   - Term Frequency (TF): how many filtered candidates of the document share a normalized term
//   - Inverse Document Frequency (IDF): log2((N + 1) / (df + 1)) over a corpus of N documents
//
// Terms missing from the corpus table get df = 0 and therefore the largest
// IDF available for N; rare, corpus-novel phrases are favored.
//
// Usage Example:
//
//	scorer := tfidf.New(table, tfidf.WithMaxLength(3))
//	keyphrases := keyphrase.Extract(scorer, doc, keyphrase.Options{K: 10})
package tfidf

import (
	"log/slog"
	"math"

	"github.com/chriscorrea/kpe/internal/docfreq"
	"github.com/chriscorrea/kpe/internal/document"
	"github.com/chriscorrea/kpe/internal/filter"
	"github.com/chriscorrea/kpe/internal/keyphrase"
)

// DefaultMaxLength is the default maximum candidate length in tokens.
const DefaultMaxLength = 3

// Scorer ranks candidates by TF-IDF. It only reads its table and is safe for concurrent use.
type Scorer struct {
	table         *docfreq.Table
	maxLength     int
	normalization document.Normalization
	filters       filter.Chain
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithMaxLength sets the maximum candidate length in tokens.
func WithMaxLength(n int) Option {
	return func(s *Scorer) { s.maxLength = n }
}

// WithNormalization sets how candidates are grouped into terms.
func WithNormalization(n document.Normalization) Option {
	return func(s *Scorer) { s.normalization = n }
}

// WithStopwords replaces the stopword filter of the default chain.
func WithStopwords(f filter.Stopword) Option {
	return func(s *Scorer) { s.filters = filter.Default(f) }
}

// New creates a Scorer over a corpus table. A nil table behaves as an empty corpus.
func New(table *docfreq.Table, opts ...Option) *Scorer {
	if table == nil {
		slog.Debug("Empty document frequency table provided")
		table = docfreq.NewTable()
	}
	s := &Scorer{
		table:         table,
		maxLength:     DefaultMaxLength,
		normalization: document.Stemming,
		filters:       filter.Default(filter.FlagStopwords()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Candidates generates candidates up to the maximum length and applies the default chain.
func (s *Scorer) Candidates(doc *document.Document) []document.Candidate {
	return s.filters.Apply(document.Generate(doc, s.maxLength))
}

// Score returns the TF-IDF score of every normalized term among candidates.
// doc is not consulted; term frequency is local to the given candidates.
func (s *Scorer) Score(_ *document.Document, candidates []document.Candidate) keyphrase.Scores {
	termFreq := calculateTermFrequency(candidates, s.normalization)

	scores := make(keyphrase.Scores, len(termFreq))
	for term, tf := range termFreq {
		df := s.table.Freq(term)
		idf := IDF(s.table.TotalDocuments, df)
		scores[term] = float64(tf) * idf
	}

	slog.Debug("TF-IDF scoring completed", "candidates", len(candidates), "terms", len(scores), "documents", s.table.TotalDocuments)
	return scores
}

// Keyphrases ranks candidates by direct lookup of their term score.
func (s *Scorer) Keyphrases(candidates []document.Candidate, scores keyphrase.Scores, opts keyphrase.Options) []keyphrase.Keyphrase {
	return keyphrase.Select(candidates, func(c document.Candidate) (string, float64) {
		term := s.normalization.Term(c)
		return term, scores[term]
	}, opts)
}

// IDF computes log2((n + 1) / (df + 1)) for a corpus of n documents.
func IDF(n, df int) float64 {
	return math.Log2(float64(n+1) / float64(df+1))
}

// calculateTermFrequency counts candidates per normalized term.
func calculateTermFrequency(candidates []document.Candidate, norm document.Normalization) map[string]int {
	counts := make(map[string]int)
	for _, c := range candidates {
		counts[norm.Term(c)]++
	}
	return counts
}
