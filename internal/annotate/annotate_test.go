package annotate

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jdkato/prose/v2"
)

func TestUniversal(t *testing.T) {
	tests := []struct {
		penn string
		want string
	}{
		{"NN", "NOUN"},
		{"NNS", "NOUN"},
		{"NNP", "PROPN"},
		{"JJS", "ADJ"},
		{"VBZ", "VERB"},
		{"IN", "ADP"},
		{"DT", "DET"},
		{".", "PUNCT"},
		{"CD", "NUM"},
		{"???", "X"},
		{"", "X"},
	}

	for _, tt := range tests {
		t.Run(tt.penn, func(t *testing.T) {
			if got := Universal(tt.penn); got != tt.want {
				t.Errorf("Universal(%q) = %q, want %q", tt.penn, got, tt.want)
			}
		})
	}
}

func TestNewProseUnsupported(t *testing.T) {
	_, err := NewProse("xx", nil)
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Fatalf("NewProse(xx) error = %v, want ErrUnsupportedLanguage", err)
	}
}

func TestProseAnnotateEnglish(t *testing.T) {
	a, err := NewProse("en", nil)
	if err != nil {
		t.Fatalf("NewProse: %v", err)
	}

	doc, err := a.Annotate("The cats sat on the mat. Dogs were running outside.")
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if doc.Language != "en" {
		t.Errorf("Language = %q, want en", doc.Language)
	}
	if len(doc.Sentences) != 2 {
		t.Fatalf("got %d sentences, want 2", len(doc.Sentences))
	}

	first := doc.Sentences[0]
	wantWords := []string{"The", "cats", "sat", "on", "the", "mat", "."}
	if !reflect.DeepEqual(first.Words, wantWords) {
		t.Errorf("Words = %v, want %v", first.Words, wantWords)
	}
	if first.Lemmas[0] != "the" {
		t.Errorf("Lemmas[0] = %q, want lowercase surface", first.Lemmas[0])
	}
	if first.Stems[1] != "cat" {
		t.Errorf("Stems[1] = %q, want cat", first.Stems[1])
	}
	if !first.Stopwords[0] || !first.Stopwords[4] || first.Stopwords[1] {
		t.Errorf("Stopwords = %v, want the flagged and cats unflagged", first.Stopwords)
	}

	for i, fine := range first.FineTags {
		if fine == "" {
			t.Errorf("FineTags[%d] empty", i)
		}
		if got := Universal(fine); got != first.CoarseTags[i] {
			t.Errorf("CoarseTags[%d] = %q, want Universal(%q) = %q", i, first.CoarseTags[i], fine, got)
		}
	}
	if first.CoarseTags[6] != "PUNCT" {
		t.Errorf("CoarseTags[6] = %q, want PUNCT", first.CoarseTags[6])
	}

	second := doc.Sentences[1]
	if second.Stems[2] != "run" {
		t.Errorf("Stems[2] = %q, want run", second.Stems[2])
	}
}

func TestProseAnnotateUntagged(t *testing.T) {
	a, err := NewProse("fr", nil)
	if err != nil {
		t.Fatalf("NewProse: %v", err)
	}

	doc, err := a.Annotate("les chats noirs")
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if len(doc.Sentences) != 1 {
		t.Fatalf("got %d sentences, want 1", len(doc.Sentences))
	}
	s := doc.Sentences[0]
	for i := range s.Words {
		if s.CoarseTags[i] != "X" || s.FineTags[i] != "X" {
			t.Errorf("token %d tags = %q/%q, want X/X", i, s.CoarseTags[i], s.FineTags[i])
		}
	}
	if !s.Stopwords[0] {
		t.Errorf("les not flagged as stopword")
	}
}

func TestProseAnnotateParagraphs(t *testing.T) {
	a, err := NewProse("en", []string{"Widget"})
	if err != nil {
		t.Fatalf("NewProse: %v", err)
	}

	doc, err := a.Annotate("", "   ", "A widget works.", "Gears turn.")
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if len(doc.Sentences) != 2 {
		t.Fatalf("got %d sentences, want 2", len(doc.Sentences))
	}
	if !doc.Sentences[0].Stopwords[1] {
		t.Errorf("extra stopword widget not flagged")
	}

	empty, err := a.Annotate()
	if err != nil {
		t.Fatalf("Annotate(): %v", err)
	}
	if empty.TokenCount() != 0 {
		t.Errorf("empty annotate produced %d tokens", empty.TokenCount())
	}
}

func TestProseAnnotateMultiSentenceParagraph(t *testing.T) {
	a, err := NewProse("en", nil)
	if err != nil {
		t.Fatalf("NewProse: %v", err)
	}

	doc, err := a.Annotate("Neural networks learn features. Researchers train large models quickly. It works.")
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	wantWords := [][]string{
		{"Neural", "networks", "learn", "features", "."},
		{"Researchers", "train", "large", "models", "quickly", "."},
		{"It", "works", "."},
	}
	if len(doc.Sentences) != len(wantWords) {
		t.Fatalf("got %d sentences, want %d", len(doc.Sentences), len(wantWords))
	}
	for i, want := range wantWords {
		if !reflect.DeepEqual(doc.Sentences[i].Words, want) {
			t.Errorf("sentence %d words = %v, want %v", i, doc.Sentences[i].Words, want)
		}
	}

	if got := doc.Sentences[0].CoarseTags[1]; got != "NOUN" {
		t.Errorf("networks coarse tag = %q, want NOUN", got)
	}
	if got := doc.Sentences[1].CoarseTags[3]; got != "NOUN" {
		t.Errorf("models coarse tag = %q, want NOUN", got)
	}
	for i, s := range doc.Sentences {
		if got := s.CoarseTags[s.Len()-1]; got != "PUNCT" {
			t.Errorf("sentence %d final tag = %q, want PUNCT", i, got)
		}
	}

	again, err := a.Annotate("Neural networks learn features. Researchers train large models quickly. It works.")
	if err != nil {
		t.Fatalf("second Annotate: %v", err)
	}
	if !reflect.DeepEqual(again, doc) {
		t.Error("annotating the same paragraph twice gave different documents")
	}
}

func TestSplitSentences(t *testing.T) {
	tok := func(words ...string) []prose.Token {
		out := make([]prose.Token, len(words))
		for i, w := range words {
			out[i] = prose.Token{Text: w}
		}
		return out
	}
	texts := func(groups [][]prose.Token) [][]string {
		var out [][]string
		for _, g := range groups {
			var words []string
			for _, t := range g {
				words = append(words, t.Text)
			}
			out = append(out, words)
		}
		return out
	}

	tests := []struct {
		name      string
		sentences []string
		tokens    []prose.Token
		want      [][]string
	}{
		{
			name:      "two sentences",
			sentences: []string{"Cats sleep.", "Dogs don't."},
			tokens:    tok("Cats", "sleep", ".", "Dogs", "do", "n't", "."),
			want:      [][]string{{"Cats", "sleep", "."}, {"Dogs", "do", "n't", "."}},
		},
		{
			name:      "curly quotes are folded",
			sentences: []string{"\u201cYes,\u201d she said.", "Fine."},
			tokens:    tok(`"`, "Yes", ",", `"`, "she", "said", ".", "Fine", "."),
			want:      [][]string{{`"`, "Yes", ",", `"`, "she", "said", "."}, {"Fine", "."}},
		},
		{
			name:      "leftover tokens join the last sentence",
			sentences: []string{"One."},
			tokens:    tok("One", ".", "extra"),
			want:      [][]string{{"One", ".", "extra"}},
		},
		{
			name:      "no segmentation",
			sentences: nil,
			tokens:    tok("just", "words"),
			want:      [][]string{{"just", "words"}},
		},
		{
			name:      "nothing",
			sentences: nil,
			tokens:    nil,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sentences := make([]prose.Sentence, len(tt.sentences))
			for i, s := range tt.sentences {
				sentences[i] = prose.Sentence{Text: s}
			}
			if got := texts(splitSentences(sentences, tt.tokens)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitSentences() = %q, want %q", got, tt.want)
			}
		})
	}
}
