package document

import "fmt"

// Normalization selects which representation of a candidate is its grouping key.
type Normalization int

const (
	// Stemming groups candidates by their lowercase stemmed form (default)
	Stemming Normalization = iota
	// Lowercase groups candidates by their lowercase surface form
	Lowercase
)

// String returns the string representation of the normalization mode.
func (n Normalization) String() string {
	switch n {
	case Stemming:
		return "stemming"
	case Lowercase:
		return "lowercase"
	default:
		return "unknown"
	}
}

// ParseNormalization parses "stemming" or "lowercase".
func ParseNormalization(s string) (Normalization, error) {
	switch s {
	case "stemming", "":
		return Stemming, nil
	case "lowercase":
		return Lowercase, nil
	default:
		return Stemming, fmt.Errorf("unknown normalization %q", s)
	}
}

// Term returns the normalized term of c.
func (n Normalization) Term(c Candidate) string {
	if n == Lowercase {
		return c.Surface()
	}
	return c.Lexical()
}

// Forms returns the normalized per-token forms of c.
func (n Normalization) Forms(c Candidate) []string {
	if n == Lowercase {
		return c.SurfaceForms()
	}
	return c.LexicalForms()
}

// TokenForms returns the normalized forms of every token of s.
func (n Normalization) TokenForms(s *Sentence) []string {
	if n == Lowercase {
		return lowerAll(s.Words)
	}
	return lowerAll(s.Stems)
}
