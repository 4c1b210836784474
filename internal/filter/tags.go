package filter

import "github.com/chriscorrea/kpe/internal/document"

// TagLevel selects which POS tag attribute a tag filter inspects.
type TagLevel int

const (
	// Coarse inspects universal POS tags
	Coarse TagLevel = iota
	// Fine inspects treebank-specific tags
	Fine
)

func (l TagLevel) tags(c document.Candidate) []string {
	if l == Fine {
		return c.FineTags()
	}
	return c.CoarseTags()
}

func newTagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

// TagBlacklist rejects candidates with any token tag in Tags.
type TagBlacklist struct {
	Level TagLevel
	Tags  map[string]struct{}
}

// NewTagBlacklist builds a TagBlacklist at the given level.
func NewTagBlacklist(level TagLevel, tags ...string) TagBlacklist {
	return TagBlacklist{Level: level, Tags: newTagSet(tags)}
}

func (f TagBlacklist) Reject(c document.Candidate) bool {
	for _, tag := range f.Level.tags(c) {
		if _, ok := f.Tags[tag]; ok {
			return true
		}
	}
	return false
}

// TagWhitelist keeps only candidates whose token tags are all in Tags.
type TagWhitelist struct {
	Level TagLevel
	Tags  map[string]struct{}
}

// NewTagWhitelist builds a TagWhitelist at the given level.
func NewTagWhitelist(level TagLevel, tags ...string) TagWhitelist {
	return TagWhitelist{Level: level, Tags: newTagSet(tags)}
}

func (f TagWhitelist) Reject(c document.Candidate) bool {
	for _, tag := range f.Level.tags(c) {
		if _, ok := f.Tags[tag]; !ok {
			return true
		}
	}
	return false
}
