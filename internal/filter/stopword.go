package filter

import (
	"strings"

	"github.com/chriscorrea/kpe/internal/document"
)

// Stopword rejects candidates containing a stopword.
// When Words is nil, the per-token stopword flags from annotation are used;
// otherwise a lowercase surface token is a stopword iff it is in Words.
type Stopword struct {
	Words map[string]struct{}
}

// FlagStopwords returns a Stopword filter driven by the annotator's stopword flags.
func FlagStopwords() Stopword {
	return Stopword{}
}

// ListStopwords returns a Stopword filter over an explicit word list.
// An empty list yields a filter that never rejects.
func ListStopwords(words []string) Stopword {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return Stopword{Words: set}
}

// Stopwords maps the extractor setting to a filter: enabled uses annotation
// flags unless extra words are given, disabled never rejects.
func Stopwords(enabled bool, words []string) Stopword {
	if !enabled {
		return ListStopwords(nil)
	}
	if len(words) > 0 {
		return ListStopwords(words)
	}
	return FlagStopwords()
}

func (f Stopword) Reject(c document.Candidate) bool {
	if f.Words != nil {
		for _, token := range c.SurfaceForms() {
			if _, ok := f.Words[token]; ok {
				return true
			}
		}
		return false
	}
	for _, isStop := range c.Stopwords() {
		if isStop {
			return true
		}
	}
	return false
}
