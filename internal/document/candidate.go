package document

import (
	"log/slog"
	"strings"
)

// Candidate is a contiguous token span [I, J) within one sentence.
// It references the sentence; it does not own it.
type Candidate struct {
	Sentence *Sentence
	I, J     int

	surfaceForms []string
	lexicalForms []string
	surface      string
	lexical      string
}

// NewCandidate builds the candidate for span [i, j) of s. Callers must ensure 0 <= i < j <= s.Len().
func NewCandidate(s *Sentence, i, j int) Candidate {
	c := Candidate{Sentence: s, I: i, J: j}
	c.surfaceForms = lowerAll(s.Words[i:j])
	c.lexicalForms = lowerAll(s.Stems[i:j])
	c.surface = strings.Join(c.surfaceForms, " ")
	c.lexical = strings.Join(c.lexicalForms, " ")
	return c
}

func lowerAll(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.ToLower(t)
	}
	return out
}

// Len returns the number of tokens in the span.
func (c Candidate) Len() int { return c.J - c.I }

// Surface returns the lowercase surface form, tokens joined by spaces.
func (c Candidate) Surface() string { return c.surface }

// Lexical returns the lowercase stemmed form, tokens joined by spaces.
func (c Candidate) Lexical() string { return c.lexical }

// SurfaceForms returns the lowercase surface tokens.
func (c Candidate) SurfaceForms() []string { return c.surfaceForms }

// LexicalForms returns the lowercase stemmed tokens.
func (c Candidate) LexicalForms() []string { return c.lexicalForms }

func (c Candidate) Words() []string      { return c.Sentence.Words[c.I:c.J] }
func (c Candidate) Lemmas() []string     { return c.Sentence.Lemmas[c.I:c.J] }
func (c Candidate) Stems() []string      { return c.Sentence.Stems[c.I:c.J] }
func (c Candidate) CoarseTags() []string { return c.Sentence.CoarseTags[c.I:c.J] }
func (c Candidate) FineTags() []string   { return c.Sentence.FineTags[c.I:c.J] }
func (c Candidate) Stopwords() []bool    { return c.Sentence.Stopwords[c.I:c.J] }

// String returns the surface form.
func (c Candidate) String() string { return c.surface }

// Generate enumerates every span of up to n tokens in every sentence of doc.
// Order is sentence, then start index, then increasing length.
func Generate(doc *Document, n int) []Candidate {
	if doc == nil || n < 1 {
		return nil
	}

	var candidates []Candidate
	for s := range doc.Sentences {
		sentence := &doc.Sentences[s]
		length := sentence.Len()
		for i := 0; i < length; i++ {
			for k := 1; k <= min(n, length-i); k++ {
				candidates = append(candidates, NewCandidate(sentence, i, i+k))
			}
		}
	}

	slog.Debug("Generated candidates", "sentences", len(doc.Sentences), "maxLength", n, "candidates", len(candidates))
	return candidates
}
