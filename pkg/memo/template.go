package memo

import "github.com/xhad/memogen/internal/models"

// Section names are the slots of the memo template. The slot structure is
// language-invariant; only the surrounding framing text differs per
// language.
const (
	SectionExecutiveSummary  = "executive_summary"
	SectionFinancialAnalysis = "financial_analysis"
	SectionMarketAnalysis    = "market_analysis"
	SectionRecommendation    = "recommendation"
)

// RequiredSections lists every slot a compiled memo must fill, in memo
// order.
var RequiredSections = []string{
	SectionExecutiveSummary,
	SectionFinancialAnalysis,
	SectionMarketAnalysis,
	SectionRecommendation,
}

var memoTemplates = map[models.Language]string{
	models.LanguageEnglish: `INVESTMENT MEMORANDUM

1. Executive Summary

{{.executive_summary}}

2. Financial Analysis

{{.financial_analysis}}

3. Market Analysis

{{.market_analysis}}

4. Recommendation

{{.recommendation}}
`,
	models.LanguageDutch: `INVESTERINGSMEMORANDUM

1. Samenvatting

{{.executive_summary}}

2. Financiële Analyse

{{.financial_analysis}}

3. Marktanalyse

{{.market_analysis}}

4. Aanbeveling

{{.recommendation}}
`,
}
