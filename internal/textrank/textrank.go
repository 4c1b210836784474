// Package textrank scores keyphrases with TextRank.
//
// Candidates are the maximal runs of tokens whose coarse tag is allowed. A
// co-occurrence graph links allowed tokens that appear within a sliding
// window; PageRank over that graph gives each token a score and a candidate
// scores the sum of its tokens. When a top limit is set, only the best
// vertices keep a score; the others count as negative infinity, so any
// candidate containing them is never selected.
package textrank

import (
	"cmp"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/chriscorrea/kpe/internal/document"
	"github.com/chriscorrea/kpe/internal/keyphrase"
)

const (
	defaultWindow = 2
	defaultRatio  = 0.33
)

// DefaultTags are the coarse tags allowed as graph vertices.
var DefaultTags = []string{"NOUN", "PROPN", "ADJ"}

// Top limits the vertices that keep a score after PageRank.
// The zero value keeps every vertex.
type Top struct {
	Count int     // absolute number of vertices, used when > 0
	Ratio float64 // fraction of vertices rounded up, used when Count is 0
}

// Limit returns how many of n vertices are retained.
func (t Top) Limit(n int) int {
	switch {
	case t.Count > 0:
		return min(t.Count, n)
	case t.Ratio > 0:
		return min(int(math.Ceil(t.Ratio*float64(n))), n)
	default:
		return n
	}
}

// String returns the flag representation of t.
func (t Top) String() string {
	switch {
	case t.Count > 0:
		return strconv.Itoa(t.Count)
	case t.Ratio > 0:
		return strconv.FormatFloat(t.Ratio, 'g', -1, 64)
	default:
		return "all"
	}
}

// ParseTop parses "all", a positive integer count, or a fraction in (0, 1].
// A count of 0 is rejected: it would retain no vertex and select nothing.
func ParseTop(s string) (Top, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "all" {
		return Top{}, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return Top{}, fmt.Errorf("top count %d must be positive", n)
		}
		return Top{Count: n}, nil
	}
	r, err := strconv.ParseFloat(s, 64)
	if err != nil || r <= 0 || r > 1 {
		return Top{}, fmt.Errorf("invalid top %q: want all, a count, or a fraction in (0, 1]", s)
	}
	return Top{Ratio: r}, nil
}

// Scorer ranks keyphrases by TextRank. It holds no per-document state.
type Scorer struct {
	tags          map[string]struct{}
	window        int
	top           Top
	normalization document.Normalization
	whitelist     map[string]struct{}
	damping       float64
	tolerance     float64
	maxIter       int
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithTags sets the coarse tags allowed as vertices and candidate tokens.
func WithTags(tags ...string) Option {
	return func(s *Scorer) {
		s.tags = make(map[string]struct{}, len(tags))
		for _, t := range tags {
			s.tags[t] = struct{}{}
		}
	}
}

// WithWindow sets the co-occurrence window; tokens i < j < i+w are linked.
func WithWindow(w int) Option {
	return func(s *Scorer) { s.window = w }
}

// WithTop sets the vertex retention limit.
func WithTop(t Top) Option {
	return func(s *Scorer) { s.top = t }
}

// WithNormalization sets the token form used for vertices.
func WithNormalization(n document.Normalization) Option {
	return func(s *Scorer) { s.normalization = n }
}

// WithWhitelist restricts candidate tokens to the given normalized forms.
func WithWhitelist(forms []string) Option {
	return func(s *Scorer) {
		s.whitelist = make(map[string]struct{}, len(forms))
		for _, f := range forms {
			s.whitelist[f] = struct{}{}
		}
	}
}

// New returns a Scorer using nouns, proper nouns and adjectives, a window of 2,
// the top third of vertices and lowercase normalization unless overridden.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		window:        defaultWindow,
		top:           Top{Ratio: defaultRatio},
		normalization: document.Lowercase,
		damping:       defaultDamping,
		tolerance:     defaultTolerance,
		maxIter:       defaultMaxIter,
	}
	WithTags(DefaultTags...)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scorer) allowed(tag string) bool {
	_, ok := s.tags[tag]
	return ok
}

func (s *Scorer) whitelisted(form string) bool {
	if len(s.whitelist) == 0 {
		return true
	}
	_, ok := s.whitelist[form]
	return ok
}

// Candidates returns the maximal runs of allowed (and whitelisted) tokens of each sentence.
func (s *Scorer) Candidates(doc *document.Document) []document.Candidate {
	if doc == nil {
		return nil
	}

	var candidates []document.Candidate
	for k := range doc.Sentences {
		sentence := &doc.Sentences[k]
		forms := s.normalization.TokenForms(sentence)
		tags := sentence.CoarseTags

		i := 0
		for i < sentence.Len() {
			if !s.allowed(tags[i]) || !s.whitelisted(forms[i]) {
				i++
				continue
			}
			j := i + 1
			for j < sentence.Len() && s.allowed(tags[j]) && s.whitelisted(forms[j]) {
				j++
			}
			candidates = append(candidates, document.NewCandidate(sentence, i, j))
			i = j
		}
	}

	slog.Debug("Extracted TextRank candidates", "sentences", len(doc.Sentences), "candidates", len(candidates))
	return candidates
}

// BuildGraph links every pair of allowed tokens within the window of each sentence.
func (s *Scorer) BuildGraph(doc *document.Document) *Graph {
	g := NewGraph()
	if doc == nil {
		return g
	}
	for k := range doc.Sentences {
		sentence := &doc.Sentences[k]
		forms := s.normalization.TokenForms(sentence)
		tags := sentence.CoarseTags
		n := sentence.Len()
		for i := 0; i < n; i++ {
			if !s.allowed(tags[i]) {
				continue
			}
			for j := i + 1; j < min(i+s.window, n); j++ {
				if s.allowed(tags[j]) {
					g.AddEdge(forms[i], forms[j])
				}
			}
		}
	}
	return g
}

// Score runs PageRank over the graph of doc and returns the retained vertex scores.
// candidates are not consulted.
func (s *Scorer) Score(doc *document.Document, _ []document.Candidate) keyphrase.Scores {
	g := s.BuildGraph(doc)
	weights := g.PageRank(s.damping, s.tolerance, s.maxIter)

	limit := s.top.Limit(len(weights))
	if limit == len(weights) {
		return weights
	}
	return retainTop(g.Vertices(), weights, limit)
}

// retainTop keeps the limit highest-scoring vertices; ties keep vertex order.
func retainTop(vertices []string, weights map[string]float64, limit int) keyphrase.Scores {
	ordered := slices.Clone(vertices)
	slices.SortStableFunc(ordered, func(a, b string) int {
		return cmp.Compare(weights[b], weights[a])
	})

	kept := make(keyphrase.Scores, limit)
	for _, v := range ordered[:limit] {
		kept[v] = weights[v]
	}
	slog.Debug("Retained top vertices", "vertices", len(vertices), "kept", limit)
	return kept
}

// Keyphrases scores each candidate as the sum of its token vertex scores.
// A token without a retained score contributes negative infinity.
func (s *Scorer) Keyphrases(candidates []document.Candidate, scores keyphrase.Scores, opts keyphrase.Options) []keyphrase.Keyphrase {
	return keyphrase.Select(candidates, func(c document.Candidate) (string, float64) {
		forms := s.normalization.Forms(c)
		total := 0.0
		for _, form := range forms {
			v, ok := scores[form]
			if !ok {
				v = math.Inf(-1)
			}
			total += v
		}
		return strings.Join(forms, " "), total
	}, opts)
}
