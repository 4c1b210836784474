// Package keyphrase ranks scored candidates into a deduplicated keyphrase list.
//
// Candidates are grouped by normalized term. Each term keeps the surface form
// of the first candidate seen for it and is ranked by score, then by the
// length of the normalized term, so longer terms win ties. Optional redundancy
// removal drops terms that are substrings of a higher-ranked term.
//
// Scorers implement the Extractor interface; Extract runs the full
// candidates -> scores -> keyphrases pipeline for one document.
package keyphrase

import (
	"log/slog"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/chriscorrea/kpe/internal/document"
)

// Keyphrase is a ranked phrase and its score.
type Keyphrase struct {
	Phrase string  `json:"phrase"`
	Score  float64 `json:"score"`
}

// Scores maps normalized terms (or graph vertices) to scores.
type Scores map[string]float64

// Options controls selection.
type Options struct {
	K               int  // maximum number of keyphrases; <= 0 keeps all
	RemoveRedundant bool // drop terms contained in a higher-ranked term (quadratic)
}

// Extractor is implemented by every scoring strategy.
type Extractor interface {
	// Candidates generates and filters the candidates of doc.
	Candidates(doc *document.Document) []document.Candidate
	// Score computes the scores used to rank candidates of doc.
	Score(doc *document.Document, candidates []document.Candidate) Scores
	// Keyphrases ranks candidates using scores produced by Score.
	Keyphrases(candidates []document.Candidate, scores Scores, opts Options) []Keyphrase
}

// Extract runs e end to end over one document.
func Extract(e Extractor, doc *document.Document, opts Options) []Keyphrase {
	if doc == nil || len(doc.Sentences) == 0 {
		return nil
	}
	candidates := e.Candidates(doc)
	scores := e.Score(doc, candidates)
	return e.Keyphrases(candidates, scores, opts)
}

// TermScorer maps a candidate to its normalized term and that term's score.
type TermScorer func(c document.Candidate) (term string, score float64)

// Ranked is a normalized term with its score.
type Ranked struct {
	Term  string
	Score float64
}

// Select groups candidates by term, ranks the terms and returns up to opts.K keyphrases.
// Terms scoring negative infinity are excluded.
func Select(candidates []document.Candidate, score TermScorer, opts Options) []Keyphrase {
	if len(candidates) == 0 {
		return nil
	}

	surfaces := make(map[string]string)
	var ranked []Ranked
	positions := make(map[string]int)

	for _, c := range candidates {
		term, s := score(c)
		if idx, seen := positions[term]; seen {
			ranked[idx].Score = s
			continue
		}
		positions[term] = len(ranked)
		surfaces[term] = c.Surface()
		ranked = append(ranked, Ranked{Term: term, Score: s})
	}

	ranked = slices.DeleteFunc(ranked, func(r Ranked) bool {
		return math.IsInf(r.Score, -1)
	})
	Sort(ranked)

	if opts.RemoveRedundant {
		ranked = RemoveRedundant(ranked)
	}

	k := opts.K
	if k <= 0 || k > len(ranked) {
		k = len(ranked)
	}

	result := make([]Keyphrase, k)
	for i := range k {
		result[i] = Keyphrase{Phrase: surfaces[ranked[i].Term], Score: ranked[i].Score}
	}

	slog.Debug("Selected keyphrases", "candidates", len(candidates), "terms", len(positions), "selected", len(result))
	return result
}

// Sort orders terms by descending score, then by descending rune length of
// the term. Equal keys keep their input order.
func Sort(ranked []Ranked) {
	slices.SortStableFunc(ranked, compareRanked)
}

func compareRanked(a, b Ranked) int {
	if a.Score != b.Score {
		if a.Score > b.Score {
			return -1
		}
		return 1
	}
	la, lb := utf8.RuneCountInString(a.Term), utf8.RuneCountInString(b.Term)
	if la != lb {
		if la > lb {
			return -1
		}
		return 1
	}
	return 0
}

// RemoveRedundant keeps a term only if it is not a substring of any term already kept.
// Input must be ranked; the scan is O(n^2).
func RemoveRedundant(ranked []Ranked) []Ranked {
	kept := make([]Ranked, 0, len(ranked))
	for _, r := range ranked {
		if slices.ContainsFunc(kept, func(other Ranked) bool {
			return strings.Contains(other.Term, r.Term)
		}) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// Phrases returns the phrase strings of kps in order.
func Phrases(kps []Keyphrase) []string {
	out := make([]string, len(kps))
	for i, kp := range kps {
		out[i] = kp.Phrase
	}
	return out
}
