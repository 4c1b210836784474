package annotate

// pennToUniversal maps Penn Treebank tags to Universal POS tags.
var pennToUniversal = map[string]string{
	"NN": "NOUN", "NNS": "NOUN",
	"NNP": "PROPN", "NNPS": "PROPN",
	"JJ": "ADJ", "JJR": "ADJ", "JJS": "ADJ",
	"VB": "VERB", "VBD": "VERB", "VBG": "VERB", "VBN": "VERB", "VBP": "VERB", "VBZ": "VERB",
	"MD": "AUX",
	"RB": "ADV", "RBR": "ADV", "RBS": "ADV", "WRB": "ADV",
	"IN": "ADP",
	"DT": "DET", "PDT": "DET", "WDT": "DET",
	"PRP": "PRON", "PRP$": "PRON", "WP": "PRON", "WP$": "PRON", "EX": "PRON",
	"CC": "CCONJ", "CD": "NUM", "UH": "INTJ",
	"RP": "PART", "TO": "PART", "POS": "PART",
	"SYM": "SYM", "$": "SYM", "#": "SYM",
	".": "PUNCT", ",": "PUNCT", ":": "PUNCT", "(": "PUNCT", ")": "PUNCT",
	"``": "PUNCT", "''": "PUNCT", "-LRB-": "PUNCT", "-RRB-": "PUNCT", "HYPH": "PUNCT", "NFP": "PUNCT",
	"FW": "X", "LS": "X", "GW": "X", "XX": "X", "ADD": "X", "AFX": "ADJ",
}

// Universal returns the Universal POS tag for a Penn Treebank tag, "X" when unknown.
func Universal(penn string) string {
	if u, ok := pennToUniversal[penn]; ok {
		return u
	}
	return untaggedTag
}
