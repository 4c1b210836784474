// Package filter provides candidate filters for keyphrase extraction.
//
// A Filter is a predicate that rejects a candidate. Filters are composed as an
// ordered Chain; a candidate survives only when no filter in the chain rejects
// it. Evaluation stops at the first rejection.
//
// Usage Example:
//
//	chain := filter.Default(filter.FlagStopwords())
//	kept := chain.Apply(candidates)
package filter

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/chriscorrea/kpe/internal/document"
)

// Filter decides whether a candidate should be removed.
type Filter interface {
	// Reject returns true when the candidate must be removed.
	Reject(c document.Candidate) bool
}

// Chain is an ordered list of filters. A Chain is itself a Filter.
type Chain []Filter

// Reject reports whether any filter in the chain rejects c.
func (ch Chain) Reject(c document.Candidate) bool {
	for _, f := range ch {
		if f.Reject(c) {
			return true
		}
	}
	return false
}

// Apply returns the candidates that pass every filter, preserving their order.
func (ch Chain) Apply(candidates []document.Candidate) []document.Candidate {
	kept := make([]document.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !ch.Reject(c) {
			kept = append(kept, c)
		}
	}
	slog.Debug("Filtered candidates", "filters", len(ch), "input", len(candidates), "kept", len(kept))
	return kept
}

// Default returns the chain used by keyphrase extractors: empty token,
// punctuation, token length above 1, then the given stopword filter.
func Default(stopwords Filter) Chain {
	return Chain{
		EmptyToken{},
		NewPunctuation(),
		TokenLength{Min: 1},
		stopwords,
	}
}

// Counting returns the chain used for document-frequency accumulation:
// empty token, punctuation, then the given stopword filter.
func Counting(stopwords Filter) Chain {
	return Chain{
		EmptyToken{},
		NewPunctuation(),
		stopwords,
	}
}

// EmptyToken rejects candidates with at least one blank token.
type EmptyToken struct{}

func (EmptyToken) Reject(c document.Candidate) bool {
	for _, token := range c.SurfaceForms() {
		if strings.TrimSpace(token) == "" {
			return true
		}
	}
	return false
}

// asciiPunctuation mirrors the ASCII punctuation set; '-' is left out to allow hyphenation.
const asciiPunctuation = "!\"#$%&'()*+,./:;<=>?@[\\]^_`{|}~"

// Punctuation rejects candidates with any token made only of punctuation characters.
type Punctuation struct {
	Set map[rune]struct{}
}

// NewPunctuation returns a Punctuation filter over ASCII punctuation without '-'.
func NewPunctuation() Punctuation {
	set := make(map[rune]struct{}, len(asciiPunctuation))
	for _, r := range asciiPunctuation {
		set[r] = struct{}{}
	}
	return Punctuation{Set: set}
}

func (p Punctuation) Reject(c document.Candidate) bool {
	for _, token := range c.SurfaceForms() {
		if p.allPunctuation(token) {
			return true
		}
	}
	return false
}

// allPunctuation is true for the empty string as well.
func (p Punctuation) allPunctuation(token string) bool {
	for _, r := range token {
		if _, ok := p.Set[r]; !ok {
			return false
		}
	}
	return true
}

// TokenLength rejects candidates with any token whose rune length is not
// strictly between Min and Max. Max <= 0 means unbounded. A lone "-" always passes.
type TokenLength struct {
	Min int
	Max int
}

func (f TokenLength) Reject(c document.Candidate) bool {
	for _, token := range c.SurfaceForms() {
		if token == "-" {
			continue
		}
		n := utf8.RuneCountInString(token)
		if n <= f.Min || (f.Max > 0 && n >= f.Max) {
			return true
		}
	}
	return false
}

// MinimumLength rejects candidates whose concatenated tokens are shorter than Length runes.
type MinimumLength struct {
	Length int
}

func (f MinimumLength) Reject(c document.Candidate) bool {
	return utf8.RuneCountInString(strings.Join(c.SurfaceForms(), "")) < f.Length
}
