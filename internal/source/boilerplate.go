package source

import (
	"math"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// boilerplateStems are English stems typical of page furniture: navigation,
// legal footers, and publishing metadata.
var boilerplateStems = map[string]struct{}{
	// publishing
	"author": {}, "appendix": {}, "chapter": {}, "content": {}, "edit": {}, "ebook": {},
	"footer": {}, "glossari": {}, "navig": {}, "page": {}, "publish": {}, "subscrib": {},
	// navigation
	"home": {}, "login": {}, "menu": {}, "profil": {}, "share": {}, "search": {},
	"sign": {}, "updat": {}, "newslett": {}, "cooki": {},
	// legal
	"copyright": {}, "permiss": {}, "polici": {}, "privaci": {}, "reproduc": {}, "reserv": {},
	"right": {}, "term": {}, "use": {},
	// references
	"citat": {}, "https": {}, "isbn": {}, "doi": {},
}

// Position-dependent thresholds on the share of boilerplate stems.
const (
	edgeThreshold   = 0.1
	middleThreshold = 0.33
	shortThreshold  = 0.5 // documents of at most three paragraphs
)

// DropBoilerplate removes paragraphs that look like page furniture. A
// paragraph is dropped when its share of boilerplate stems exceeds a
// threshold that is lowest at the start and end of the document.
func DropBoilerplate(paragraphs []string) []string {
	kept := make([]string, 0, len(paragraphs))
	for i, p := range paragraphs {
		if !isBoilerplate(p, i, len(paragraphs)) {
			kept = append(kept, p)
		}
	}
	return kept
}

func isBoilerplate(text string, index, total int) bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(words) == 0 {
		return true
	}

	hits := 0
	for _, w := range words {
		stem, err := snowball.Stem(w, "english", true)
		if err != nil {
			stem = w
		}
		if _, ok := boilerplateStems[stem]; ok {
			hits++
		}
	}
	return float64(hits)/float64(len(words)) > threshold(index, total)
}

// threshold interpolates from edgeThreshold at both ends to middleThreshold
// at the center of the document.
func threshold(index, total int) float64 {
	if total <= 3 {
		return shortThreshold
	}
	pos := float64(index) / float64(total-1)
	peak := 1 - math.Abs(2*pos-1)
	return edgeThreshold + (middleThreshold-edgeThreshold)*peak
}
