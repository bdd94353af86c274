package stoplist

import "github.com/intertext/tessella/pkg/tessella/unit"

// Built-in base stopword lists, one per supported language, already in
// normalized orthography. Callers can override them with a loaded list.

var latinBase = []string{
	"et", "in", "est", "non", "ut", "cum", "si", "ad", "quis",
	"sed", "a", "ab", "atque", "aut", "dum", "ego", "enim", "ex",
	"hic", "iam", "ille", "ipse", "is", "ita", "nam", "ne", "nec",
	"neque", "nunc", "o", "per", "qui", "quam", "que", "quid",
	"quod", "se", "sic", "sum", "suus", "tamen", "tu", "tum",
	"de", "e", "ac", "at",
}

var greekBase = []string{
	"ο", "και", "δε", "τε", "μεν", "γαρ", "εν", "αυτοσ", "εγω",
	"ειμι", "εισ", "επι", "η", "κατα", "με", "μη", "ου", "ουτε",
	"προσ", "συ", "τισ", "ωσ", "αλλα", "αν", "απο", "αρα", "γε",
	"δια", "ειπον", "εκ", "επει", "ετι", "εχω", "ιδε", "ινα",
	"νυν", "οδε", "οσ", "οτε", "οτι", "ουτοσ", "παρα", "περι",
	"ποτε", "υπο",
}

var englishBase = []string{
	"the", "and", "of", "to", "a", "in", "that", "is", "was",
	"he", "for", "it", "with", "as", "his", "on", "be", "at",
	"by", "i", "this", "had", "not", "are", "but", "from", "or",
	"have", "an", "they", "which", "one", "you", "were", "her",
	"all", "she", "there", "would", "their", "we", "him", "been",
	"has", "when", "who", "will", "no",
}

// BaseList returns the built-in stopword list for a language, empty for
// unknown languages.
func BaseList(lang unit.Language) []string {
	switch lang {
	case unit.Latin:
		return latinBase
	case unit.Greek:
		return greekBase
	case unit.English:
		return englishBase
	}
	return nil
}
