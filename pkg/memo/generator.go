package memo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xhad/memogen/internal/models"
	"github.com/xhad/memogen/internal/types"
)

// Generator synthesizes a full investment memo: one LLM call per section,
// each prompted from the caller-supplied financial data, then compiled into
// the language-keyed template. Sections are generated sequentially; a
// failed section aborts the memo.
type Generator struct {
	llm      types.Generator
	compiler *Compiler
}

func NewGenerator(llm types.Generator) *Generator {
	return &Generator{
		llm:      llm,
		compiler: NewCompiler(),
	}
}

// GenerateMemo produces the final memo text for the given financial data in
// the target language.
func (g *Generator) GenerateMemo(ctx context.Context, data models.FinancialData, language models.Language) (string, error) {
	sections := make(map[string]string, len(RequiredSections))

	for _, name := range RequiredSections {
		text, err := g.llm.GenerateMemoSection(ctx, name, sectionContext(name, data), language)
		if err != nil {
			return "", fmt.Errorf("section %s: %w", name, err)
		}
		sections[name] = text
	}

	return g.compiler.Compile(sections, language)
}

// sectionContext selects the data points each section is prompted with.
func sectionContext(name string, data models.FinancialData) map[string]any {
	switch name {
	case SectionExecutiveSummary:
		return map[string]any{
			"revenue":     fmt.Sprintf("%.2f", data.Revenue),
			"ebitda":      fmt.Sprintf("%.2f", data.EBITDA),
			"growth_rate": fmt.Sprintf("%.1f%%", data.GrowthRate),
			"market_size": fmt.Sprintf("%.2f", data.MarketSize),
		}
	case SectionFinancialAnalysis:
		values := map[string]any{
			"revenue": fmt.Sprintf("%.2f", data.Revenue),
			"costs":   fmt.Sprintf("%.2f", data.Costs),
			"ebitda":  fmt.Sprintf("%.2f", data.EBITDA),
		}
		for k, v := range data.KeyMetrics {
			values[k] = v
		}
		return values
	case SectionMarketAnalysis:
		return map[string]any{
			"market_size": fmt.Sprintf("%.2f", data.MarketSize),
			"competitors": strings.Join(data.Competitors, ", "),
		}
	case SectionRecommendation:
		return map[string]any{
			"revenue":     fmt.Sprintf("%.2f", data.Revenue),
			"ebitda":      fmt.Sprintf("%.2f", data.EBITDA),
			"growth_rate": fmt.Sprintf("%.1f%%", data.GrowthRate),
		}
	}
	return nil
}

// LoadFinancialData reads memo input from a JSON file.
func LoadFinancialData(path string) (models.FinancialData, error) {
	var data models.FinancialData

	raw, err := os.ReadFile(path)
	if err != nil {
		return data, fmt.Errorf("error reading financial data: %w", err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("error parsing financial data: %w", err)
	}
	return data, nil
}
