// Package document provides the annotated document model used by keyphrase extraction.
//
// A Document is an ordered list of sentences. Each Sentence holds parallel,
// equal-length token attribute slices (surface words, lemmas, stems, coarse
// and fine POS tags, stopword flags) filled by an external annotator; index k
// across the slices always refers to the same token.
//
// A Candidate is a half-open token span [I, J) over one sentence. Candidates
// compute their lowercase surface and stemmed forms once at construction;
// the normalized form selected by a Normalization is the grouping key used
// by the scorers.
//
// Usage Example:
//
//	doc := annotator.Annotate("Keyphrase extraction ranks candidate phrases.")
//	candidates := document.Generate(doc, 3)
package document

import "strings"

// Sentence is one annotated sentence. All attribute slices have the same length.
type Sentence struct {
	Words      []string // surface forms
	Lemmas     []string
	Stems      []string
	CoarseTags []string // universal POS tags (NOUN, ADJ, ...)
	FineTags   []string // treebank-specific tags (NN, JJ, ...)
	Stopwords  []bool
}

// Len returns the number of tokens in the sentence.
func (s *Sentence) Len() int {
	return len(s.Words)
}

// Slice returns a sub-sentence over tokens [i, j), clamped to the sentence bounds.
// The returned sentence shares backing arrays with s.
func (s *Sentence) Slice(i, j int) Sentence {
	n := s.Len()
	if i < 0 {
		i = 0
	}
	if j > n {
		j = n
	}
	if i > j {
		i = j
	}
	return Sentence{
		Words:      s.Words[i:j],
		Lemmas:     s.Lemmas[i:j],
		Stems:      s.Stems[i:j],
		CoarseTags: s.CoarseTags[i:j],
		FineTags:   s.FineTags[i:j],
		Stopwords:  s.Stopwords[i:j],
	}
}

// String joins the surface words with single spaces.
func (s *Sentence) String() string {
	return strings.Join(s.Words, " ")
}

// Document is an ordered sequence of sentences in a single language.
type Document struct {
	Language  string // ISO 639-1 code
	Sentences []Sentence
}

// TokenCount returns the total number of tokens across all sentences.
func (d *Document) TokenCount() int {
	total := 0
	for i := range d.Sentences {
		total += d.Sentences[i].Len()
	}
	return total
}

// Truncate returns a new document holding at most the first limit tokens of d.
// Sentences are sliced, not split; the last retained sentence may be partial.
func (d *Document) Truncate(limit int) *Document {
	out := &Document{Language: d.Language}
	for i := range d.Sentences {
		if limit <= 0 {
			break
		}
		out.Sentences = append(out.Sentences, d.Sentences[i].Slice(0, limit))
		limit -= d.Sentences[i].Len()
	}
	return out
}

// Append adds the sentences of other to d.
func (d *Document) Append(other *Document) {
	if other == nil {
		return
	}
	d.Sentences = append(d.Sentences, other.Sentences...)
}

// String renders the document one sentence per line.
func (d *Document) String() string {
	lines := make([]string, len(d.Sentences))
	for i := range d.Sentences {
		lines[i] = d.Sentences[i].String()
	}
	return strings.Join(lines, "\n")
}

// Token carries the annotation of a single token.
type Token struct {
	Word   string
	Lemma  string
	Stem   string
	Coarse string
	Fine   string
	Stop   bool
}

// NewSentence assembles a sentence from per-token annotations.
func NewSentence(tokens []Token) Sentence {
	s := Sentence{
		Words:      make([]string, len(tokens)),
		Lemmas:     make([]string, len(tokens)),
		Stems:      make([]string, len(tokens)),
		CoarseTags: make([]string, len(tokens)),
		FineTags:   make([]string, len(tokens)),
		Stopwords:  make([]bool, len(tokens)),
	}
	for i, t := range tokens {
		s.Words[i] = t.Word
		s.Lemmas[i] = t.Lemma
		s.Stems[i] = t.Stem
		s.CoarseTags[i] = t.Coarse
		s.FineTags[i] = t.Fine
		s.Stopwords[i] = t.Stop
	}
	return s
}
