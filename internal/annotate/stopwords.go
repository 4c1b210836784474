package annotate

// builtinStopwords holds the stopword lists flagged on annotated tokens, keyed
// by ISO 639-1 code. English follows the NLTK list.
var builtinStopwords = map[string][]string{
	"en": {
		"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you",
		"you're", "you've", "you'll", "you'd", "your", "yours", "yourself",
		"yourselves", "he", "him", "his", "himself", "she", "she's", "her", "hers",
		"herself", "it", "it's", "its", "itself", "they", "them", "their",
		"theirs", "themselves", "what", "which", "who", "whom", "this", "that",
		"that'll", "these", "those", "am", "is", "are", "was", "were", "be",
		"been", "being", "have", "has", "had", "having", "do", "does", "did",
		"doing", "a", "an", "the", "and", "but", "if", "or", "because", "as",
		"until", "while", "of", "at", "by", "for", "with", "about", "against",
		"between", "into", "through", "during", "before", "after", "above",
		"below", "to", "from", "up", "down", "in", "out", "on", "off", "over",
		"under", "again", "further", "then", "once", "here", "there", "when",
		"where", "why", "how", "all", "any", "both", "each", "few", "more", "most",
		"other", "some", "such", "no", "nor", "not", "only", "own", "same", "so",
		"than", "too", "very", "s", "t", "can", "will", "just", "don", "don't",
		"should", "should've", "now", "d", "ll", "m", "o", "re", "ve", "y", "ain",
		"aren", "aren't", "couldn", "couldn't", "didn", "didn't", "doesn",
		"doesn't", "hadn", "hadn't", "hasn", "hasn't", "haven", "haven't", "isn",
		"isn't", "ma", "mightn", "mightn't", "mustn", "mustn't", "needn",
		"needn't", "shan", "shan't", "shouldn", "shouldn't", "wasn", "wasn't",
		"weren", "weren't", "won", "won't", "wouldn", "wouldn't",
	},
	"es": {
		"de", "la", "que", "el", "en", "y", "a", "los", "del", "se", "las", "por",
		"un", "para", "con", "no", "una", "su", "al", "lo", "como", "más", "pero",
		"sus", "le", "ya", "o", "este", "sí", "porque", "esta", "entre", "cuando",
		"muy", "sin", "sobre", "también", "me", "hasta", "hay", "donde", "quien",
		"desde", "todo", "nos", "durante", "todos", "uno", "les", "ni", "contra",
		"otros", "ese", "eso", "ante", "ellos", "e", "esto", "mí", "antes",
	},
	"fr": {
		"au", "aux", "avec", "ce", "ces", "dans", "de", "des", "du", "elle", "en",
		"et", "eux", "il", "je", "la", "le", "les", "leur", "lui", "ma", "mais",
		"me", "même", "mes", "moi", "mon", "ne", "nos", "notre", "nous", "on",
		"ou", "par", "pas", "pour", "qu", "que", "qui", "sa", "se", "ses", "son",
		"sur", "ta", "te", "tes", "toi", "ton", "tu", "un", "une", "vos", "votre",
		"vous", "c", "d", "j", "l", "à", "m", "n", "s", "t", "y", "est", "sont",
	},
	"hu": {
		"a", "az", "egy", "be", "ki", "le", "fel", "meg", "el", "át", "rá", "ide",
		"oda", "szét", "össze", "vissza", "de", "hát", "és", "vagy", "hogy", "van",
		"lesz", "volt", "csak", "nem", "igen", "mint", "én", "te", "ő", "mi", "ti",
		"ők", "ez", "is", "ha", "már", "még", "sem",
	},
	"no": {
		"og", "i", "jeg", "det", "at", "en", "et", "den", "til", "er", "som", "på",
		"de", "med", "han", "av", "ikke", "der", "så", "var", "meg", "seg", "men",
		"ett", "har", "om", "vi", "min", "mitt", "ha", "hadde", "hun", "nå", "over",
		"da", "ved", "fra", "du", "ut", "sin", "dem", "oss", "opp", "man", "kan",
	},
	"ru": {
		"и", "в", "во", "не", "что", "он", "на", "я", "с", "со", "как", "а", "то",
		"все", "она", "так", "его", "но", "да", "ты", "к", "у", "же", "вы", "за",
		"бы", "по", "только", "ее", "мне", "было", "вот", "от", "меня", "еще",
		"нет", "о", "из", "ему", "теперь", "когда", "даже", "ну", "вдруг", "ли",
		"если", "уже", "или", "ни", "быть", "был", "него", "до", "вас", "нибудь",
	},
	"sv": {
		"och", "det", "att", "i", "en", "jag", "hon", "som", "han", "på", "den",
		"med", "var", "sig", "för", "så", "till", "är", "men", "ett", "om", "hade",
		"de", "av", "icke", "mig", "du", "henne", "då", "sin", "nu", "har", "inte",
		"hans", "honom", "skulle", "hennes", "där", "min", "man", "ej", "vid",
	},
}
