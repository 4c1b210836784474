package textrank

import (
	"math"
	"strings"
	"testing"

	"github.com/chriscorrea/kpe/internal/document"
	"github.com/chriscorrea/kpe/internal/keyphrase"
)

// tagged parses "word/TAG word/TAG ..." into a sentence.
func tagged(text string) document.Sentence {
	var tokens []document.Token
	for _, field := range strings.Fields(text) {
		word, tag, _ := strings.Cut(field, "/")
		lw := strings.ToLower(word)
		tokens = append(tokens, document.Token{Word: word, Lemma: lw, Stem: strings.TrimSuffix(lw, "s"), Coarse: tag, Fine: tag})
	}
	return document.NewSentence(tokens)
}

func docOf(sentences ...string) *document.Document {
	doc := &document.Document{Language: "en"}
	for _, s := range sentences {
		doc.Sentences = append(doc.Sentences, tagged(s))
	}
	return doc
}

const corpus = "Compatibility/NOUN of/ADP systems/NOUN of/ADP linear/ADJ constraints/NOUN over/ADP the/DET set/NOUN of/ADP natural/ADJ numbers/NOUN ./PUNCT"

func TestCandidatesMaximalRuns(t *testing.T) {
	s := New()
	doc := docOf(corpus, "Minimal/ADJ generating/VERB sets/NOUN")

	var got []string
	for _, c := range s.Candidates(doc) {
		got = append(got, c.Surface())
	}
	want := []string{"compatibility", "systems", "linear constraints", "set", "natural numbers", "minimal", "sets"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Candidates() = %v, want %v", got, want)
	}
}

func TestCandidatesWhitelist(t *testing.T) {
	s := New(WithWhitelist([]string{"linear", "numbers"}))
	doc := docOf(corpus)

	var got []string
	for _, c := range s.Candidates(doc) {
		got = append(got, c.Surface())
	}
	if strings.Join(got, "|") != "linear|numbers" {
		t.Errorf("Candidates() = %v, want [linear numbers]", got)
	}
}

func TestBuildGraphWindow(t *testing.T) {
	doc := docOf("a/NOUN b/NOUN c/ADJ x/VERB d/NOUN")

	g2 := New(WithWindow(2)).BuildGraph(doc)
	if !g2.HasEdge("a", "b") || !g2.HasEdge("b", "c") {
		t.Error("window 2 should link adjacent allowed tokens")
	}
	if g2.HasEdge("a", "c") {
		t.Error("window 2 should not link tokens two apart")
	}
	if g2.HasEdge("c", "d") {
		t.Error("disallowed token must not be bridged with window 2")
	}
	if g2.Len() != 3 {
		t.Errorf("vertices = %v, want a b c", g2.Vertices())
	}

	g3 := New(WithWindow(3)).BuildGraph(doc)
	if !g3.HasEdge("a", "c") || !g3.HasEdge("c", "d") {
		t.Error("window 3 should link tokens two apart")
	}
	if g3.HasEdge("x", "d") {
		t.Error("verbs are not vertices")
	}
}

func TestBuildGraphCaseInsensitiveNoSelfLoops(t *testing.T) {
	doc := docOf("Data/NOUN data/NOUN model/NOUN")
	g := New().BuildGraph(doc)

	if g.Len() != 2 {
		t.Errorf("vertices = %v, want [data model]", g.Vertices())
	}
	if g.HasEdge("data", "data") {
		t.Error("self-loop created")
	}
	if got := g.Neighbors("data"); len(got) != 1 || got[0] != "model" {
		t.Errorf("Neighbors(data) = %v", got)
	}
}

func TestPageRankConservation(t *testing.T) {
	g := NewGraph()
	edges := [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "a"}, {"a", "c"}, {"d", "e"}}
	for _, e := range edges {
		g.AddEdge(e[0], e[1])
	}

	scores := g.PageRank(defaultDamping, defaultTolerance, defaultMaxIter)
	total := 0.0
	for _, v := range scores {
		total += v
	}
	if math.Abs(total-1) > 1e-3 {
		t.Errorf("sum of scores = %f, want 1", total)
	}
	if !(scores["a"] > scores["e"]) {
		t.Errorf("hub a (%f) should outrank leaf e (%f)", scores["a"], scores["e"])
	}
}

func TestPageRankSymmetric(t *testing.T) {
	g := NewGraph()
	g.AddEdge("x", "y")
	scores := g.PageRank(defaultDamping, defaultTolerance, defaultMaxIter)
	if math.Abs(scores["x"]-0.5) > 1e-6 || math.Abs(scores["y"]-0.5) > 1e-6 {
		t.Errorf("scores = %v, want 0.5 each", scores)
	}
}

func TestPageRankTerminatesAtCap(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	// tolerance 0 can never be met exactly on a path graph
	scores := g.PageRank(defaultDamping, 0, 5)
	if len(scores) != 3 {
		t.Errorf("scores = %v", scores)
	}
}

func TestPageRankEmpty(t *testing.T) {
	if got := NewGraph().PageRank(defaultDamping, defaultTolerance, defaultMaxIter); len(got) != 0 {
		t.Errorf("PageRank(empty) = %v", got)
	}
}

func TestTopLimit(t *testing.T) {
	tests := []struct {
		top  Top
		n    int
		want int
	}{
		{top: Top{}, n: 7, want: 7},
		{top: Top{Count: 3}, n: 7, want: 3},
		{top: Top{Count: 10}, n: 7, want: 7},
		{top: Top{Ratio: 0.33}, n: 7, want: 3},
		{top: Top{Ratio: 0.33}, n: 3, want: 1},
		{top: Top{Ratio: 0.5}, n: 0, want: 0},
	}
	for _, tt := range tests {
		if got := tt.top.Limit(tt.n); got != tt.want {
			t.Errorf("%+v.Limit(%d) = %d, want %d", tt.top, tt.n, got, tt.want)
		}
	}
}

func TestParseTop(t *testing.T) {
	tests := []struct {
		in      string
		want    Top
		wantErr bool
	}{
		{in: "all", want: Top{}},
		{in: "", want: Top{}},
		{in: "5", want: Top{Count: 5}},
		{in: "0.33", want: Top{Ratio: 0.33}},
		{in: "1.5", wantErr: true},
		{in: "-2", wantErr: true},
		{in: "0", wantErr: true},
		{in: "1", want: Top{Count: 1}},
		{in: "many", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseTop(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTop(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseTop(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestKeyphrasesSumVertexScores(t *testing.T) {
	s := New(WithTop(Top{}))
	doc := docOf(corpus)
	candidates := s.Candidates(doc)
	scores := s.Score(doc, candidates)

	kps := s.Keyphrases(candidates, scores, keyphrase.Options{})
	byPhrase := map[string]float64{}
	for _, kp := range kps {
		byPhrase[kp.Phrase] = kp.Score
	}

	want := scores["linear"] + scores["constraints"]
	if math.Abs(byPhrase["linear constraints"]-want) > 1e-12 {
		t.Errorf("score(linear constraints) = %f, want %f", byPhrase["linear constraints"], want)
	}
	// isolated nouns never enter the graph and are excluded
	for _, isolated := range []string{"compatibility", "systems", "set"} {
		if _, ok := byPhrase[isolated]; ok {
			t.Errorf("isolated token %q should not be selected", isolated)
		}
	}
}

func TestTopPruningExcludesDroppedVertices(t *testing.T) {
	doc := docOf(
		"central/ADJ hub/NOUN",
		"hub/NOUN node/NOUN",
		"hub/NOUN graph/NOUN",
		"hub/NOUN edge/NOUN",
	)
	s := New(WithTop(Top{Count: 1}))
	candidates := s.Candidates(doc)
	scores := s.Score(doc, candidates)

	if len(scores) != 1 {
		t.Fatalf("retained %d vertices, want 1: %v", len(scores), scores)
	}
	if _, ok := scores["hub"]; !ok {
		t.Fatalf("retained %v, want hub", scores)
	}

	kps := s.Keyphrases(candidates, scores, keyphrase.Options{})
	if len(kps) != 0 {
		t.Errorf("every candidate contains a dropped vertex, got %v", kps)
	}

	s = New(WithTop(Top{Count: 2}))
	scores = s.Score(doc, s.Candidates(doc))
	kps = s.Keyphrases(s.Candidates(doc), scores, keyphrase.Options{})
	if len(kps) != 1 {
		t.Errorf("Keyphrases() = %v, want the single fully retained candidate", kps)
	}
}

func TestStemmingNormalization(t *testing.T) {
	s := New(WithNormalization(document.Stemming), WithTop(Top{}))
	doc := docOf("graph/NOUN models/NOUN", "graph/NOUN model/NOUN")
	g := s.BuildGraph(doc)
	if g.Len() != 2 || !g.HasEdge("graph", "model") {
		t.Errorf("stemmed vertices = %v", g.Vertices())
	}

	kps := s.Keyphrases(s.Candidates(doc), s.Score(doc, nil), keyphrase.Options{})
	if len(kps) != 1 || kps[0].Phrase != "graph models" {
		t.Errorf("Keyphrases() = %v, want first surface form", kps)
	}
}

func TestExtractRedundancyRemoval(t *testing.T) {
	s := New(WithTop(Top{}))
	doc := docOf(
		"neural/ADJ network/NOUN",
		"the/DET network/NOUN ,/PUNCT neural/ADJ network/NOUN training/NOUN",
	)
	all := keyphrase.Extract(s, doc, keyphrase.Options{})
	pruned := keyphrase.Extract(s, doc, keyphrase.Options{RemoveRedundant: true})

	for _, kp := range pruned {
		if kp.Phrase == "network" || kp.Phrase == "neural network" {
			t.Errorf("redundant phrase %q kept: %v", kp.Phrase, pruned)
		}
	}
	if len(pruned) >= len(all) {
		t.Errorf("redundancy removal kept %d of %d", len(pruned), len(all))
	}
}

func TestEmptyDocument(t *testing.T) {
	s := New()
	doc := &document.Document{}
	if scores := s.Score(doc, nil); len(scores) != 0 {
		t.Errorf("Score(empty) = %v", scores)
	}
	if kps := keyphrase.Extract(s, doc, keyphrase.Options{}); len(kps) != 0 {
		t.Errorf("Extract(empty) = %v", kps)
	}
}
