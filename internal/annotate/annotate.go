// Package annotate turns raw text into annotated documents.
//
// The Prose annotator segments sentences, tokenizes, and tags English text
// with prose; tokens are stemmed with the Snowball stemmer of the document
// language. Stems fall back to lemmas when no stemmer exists for a language.
// Prose provides no lemmatizer, so lemmas are lowercase surface forms.
//
// Annotators are cached per language in a Registry.
package annotate

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"
	"github.com/kljensen/snowball"

	"github.com/chriscorrea/kpe/internal/document"
)

// ErrUnsupportedLanguage is returned when no annotator exists for a language.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Annotator produces a Document from paragraphs of raw text.
type Annotator interface {
	Annotate(paragraphs ...string) (*document.Document, error)
}

// snowballLanguages maps ISO 639-1 codes to Snowball stemmer names.
var snowballLanguages = map[string]string{
	"en": "english",
	"es": "spanish",
	"fr": "french",
	"hu": "hungarian",
	"no": "norwegian",
	"ru": "russian",
	"sv": "swedish",
}

// untaggedTag is assigned to every token when POS tagging is unavailable.
const untaggedTag = "X"

// Prose annotates text with prose and Snowball.
type Prose struct {
	language  string
	stemmer   string // snowball language name, empty when none
	tagging   bool
	model     *prose.Model // shared tagger, nil when tagging is off
	stopwords map[string]struct{}
}

// NewProse returns an annotator for language. Tagging is enabled for English only.
// extraStopwords are added to the built-in list for the language. The tagging
// model is loaded once and shared by every Annotate call.
func NewProse(language string, extraStopwords []string) (*Prose, error) {
	stemmer, ok := snowballLanguages[language]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}

	stops := make(map[string]struct{})
	for _, w := range builtinStopwords[language] {
		stops[w] = struct{}{}
	}
	for _, w := range extraStopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}

	p := &Prose{
		language:  language,
		stemmer:   stemmer,
		tagging:   language == "en",
		stopwords: stops,
	}
	if p.tagging {
		p.model = prose.ModelFromData(language)
	}
	return p, nil
}

// Language returns the ISO 639-1 code handled by the annotator.
func (p *Prose) Language() string {
	return p.language
}

// Annotate processes each paragraph independently and concatenates their sentences.
// Each paragraph is segmented, tokenized and tagged in a single pass.
func (p *Prose) Annotate(paragraphs ...string) (*document.Document, error) {
	doc := &document.Document{Language: p.language}

	for _, paragraph := range paragraphs {
		if strings.TrimSpace(paragraph) == "" {
			continue
		}

		opts := []prose.DocOpt{prose.WithTagging(p.tagging), prose.WithExtraction(false)}
		if p.model != nil {
			opts = append(opts, prose.UsingModel(p.model))
		}
		parsed, err := prose.NewDocument(paragraph, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to annotate paragraph: %w", err)
		}

		for _, tokens := range splitSentences(parsed.Sentences(), parsed.Tokens()) {
			if len(tokens) > 0 {
				doc.Sentences = append(doc.Sentences, p.sentence(tokens))
			}
		}
	}

	slog.Debug("Annotated text", "language", p.language, "paragraphs", len(paragraphs), "sentences", len(doc.Sentences), "tokens", doc.TokenCount())
	return doc, nil
}

// quoteFolding mirrors the quote normalization prose applies before tokenizing.
var quoteFolding = strings.NewReplacer(
	"\u201c", `"`,
	"\u201d", `"`,
	"\u2018", "'",
	"\u2019", "'",
	"&rsquo;", "'")

// splitSentences assigns paragraph tokens to sentences in order. A sentence
// takes tokens until their non-space runes cover its own; tokens left over
// after the last sentence join it.
func splitSentences(sentences []prose.Sentence, tokens []prose.Token) [][]prose.Token {
	if len(sentences) == 0 {
		if len(tokens) == 0 {
			return nil
		}
		return [][]prose.Token{tokens}
	}

	out := make([][]prose.Token, len(sentences))
	next := 0
	for k, sent := range sentences {
		budget := visibleRunes(quoteFolding.Replace(sent.Text))
		for next < len(tokens) && budget > 0 {
			budget -= visibleRunes(tokens[next].Text)
			out[k] = append(out[k], tokens[next])
			next++
		}
	}
	last := len(out) - 1
	out[last] = append(out[last], tokens[next:]...)
	return out
}

func visibleRunes(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

func (p *Prose) sentence(proseTokens []prose.Token) document.Sentence {
	tokens := make([]document.Token, 0, len(proseTokens))
	for _, tok := range proseTokens {
		lemma := strings.ToLower(tok.Text)
		fine, coarse := untaggedTag, untaggedTag
		if p.tagging {
			fine = tok.Tag
			coarse = Universal(tok.Tag)
		}
		_, stop := p.stopwords[lemma]
		tokens = append(tokens, document.Token{
			Word:   tok.Text,
			Lemma:  lemma,
			Stem:   p.stem(tok.Text, lemma),
			Coarse: coarse,
			Fine:   fine,
			Stop:   stop,
		})
	}
	return document.NewSentence(tokens)
}

// stem falls back to the lemma when stemming fails.
func (p *Prose) stem(word, lemma string) string {
	if p.stemmer == "" {
		return lemma
	}
	stemmed, err := snowball.Stem(word, p.stemmer, true)
	if err != nil || stemmed == "" {
		return lemma
	}
	return stemmed
}
