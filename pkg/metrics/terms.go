package metrics

import "github.com/xhad/memogen/internal/models"

// Canonical metric keys. Extracted metrics are only ever stored under one
// of these; source terms in either language map onto them.
const (
	KeyRevenue = "revenue"
	KeyProfit  = "profit"
	KeyEBITDA  = "ebitda"
	KeyMargin  = "margin"
	KeyCosts   = "costs"
	KeyBalance = "balance"
)

// CanonicalTerms lists the closed vocabulary in a stable order.
var CanonicalTerms = []string{
	KeyRevenue,
	KeyProfit,
	KeyEBITDA,
	KeyMargin,
	KeyCosts,
	KeyBalance,
}

// synonyms maps each canonical key to its per-language synonym lists. The
// lists are intentionally small closed sets, not an attempt at full NLP
// coverage of financial vocabulary.
var synonyms = map[string]map[models.Language][]string{
	KeyRevenue: {
		models.LanguageDutch:   {"omzet", "opbrengsten"},
		models.LanguageEnglish: {"revenue", "turnover"},
	},
	KeyProfit: {
		models.LanguageDutch:   {"winst", "resultaat"},
		models.LanguageEnglish: {"profit", "net income"},
	},
	KeyEBITDA: {
		models.LanguageDutch:   {"ebitda", "bedrijfsresultaat"},
		models.LanguageEnglish: {"ebitda"},
	},
	KeyMargin: {
		models.LanguageDutch:   {"marge"},
		models.LanguageEnglish: {"margin"},
	},
	KeyCosts: {
		models.LanguageDutch:   {"kosten", "lasten"},
		models.LanguageEnglish: {"costs", "expenses"},
	},
	KeyBalance: {
		models.LanguageDutch:   {"balans"},
		models.LanguageEnglish: {"balance"},
	},
}

// Synonyms returns the synonym list for a canonical key in the given
// language. Unknown keys yield nil.
func Synonyms(key string, language models.Language) []string {
	return synonyms[key][language]
}
