package memo_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/memogen/internal/models"
	"github.com/xhad/memogen/pkg/memo"
)

// fakeGenerator records the sections it was asked for and returns canned
// text, so memo assembly can be tested without an LLM backend.
type fakeGenerator struct {
	sections  []string
	languages []models.Language
	contexts  []map[string]any
	fail      bool
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt, systemPrompt string) (string, error) {
	return "generated", nil
}

func (f *fakeGenerator) GenerateMemoSection(ctx context.Context, sectionName string, sectionContext map[string]any, language models.Language) (string, error) {
	if f.fail {
		return "", fmt.Errorf("backend unavailable")
	}
	f.sections = append(f.sections, sectionName)
	f.languages = append(f.languages, language)
	f.contexts = append(f.contexts, sectionContext)
	return "text for " + sectionName, nil
}

func (f *fakeGenerator) AnalyzeDocuments(ctx context.Context, documents []string, query string) (string, error) {
	return "analysis", nil
}

func sampleData() models.FinancialData {
	return models.FinancialData{
		Revenue:     10_000_000,
		Costs:       7_000_000,
		EBITDA:      3_000_000,
		GrowthRate:  25.5,
		MarketSize:  1_000_000_000,
		Competitors: []string{"Competitor A", "Competitor B"},
		KeyMetrics:  map[string]any{"gross_margin": "30%"},
	}
}

func TestGenerateMemo(t *testing.T) {
	fake := &fakeGenerator{}
	g := memo.NewGenerator(fake)

	out, err := g.GenerateMemo(context.Background(), sampleData(), models.LanguageEnglish)
	require.NoError(t, err)

	assert.Equal(t, memo.RequiredSections, fake.sections)
	for _, language := range fake.languages {
		assert.Equal(t, models.LanguageEnglish, language)
	}
	for _, name := range memo.RequiredSections {
		assert.Contains(t, out, "text for "+name)
	}
}

func TestGenerateMemoSectionContexts(t *testing.T) {
	fake := &fakeGenerator{}
	g := memo.NewGenerator(fake)

	_, err := g.GenerateMemo(context.Background(), sampleData(), models.LanguageDutch)
	require.NoError(t, err)

	require.Len(t, fake.contexts, len(memo.RequiredSections))

	summary := fake.contexts[0]
	assert.Equal(t, "10000000.00", summary["revenue"])
	assert.Equal(t, "25.5%", summary["growth_rate"])

	financial := fake.contexts[1]
	assert.Equal(t, "30%", financial["gross_margin"])

	market := fake.contexts[2]
	assert.Equal(t, "Competitor A, Competitor B", market["competitors"])
}

func TestGenerateMemoSectionFailureAborts(t *testing.T) {
	g := memo.NewGenerator(&fakeGenerator{fail: true})

	_, err := g.GenerateMemo(context.Background(), sampleData(), models.LanguageEnglish)
	require.Error(t, err)
	assert.Contains(t, err.Error(), memo.SectionExecutiveSummary)
}

func TestLoadFinancialData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	data := `{
		"revenue": 10000000,
		"costs": 7000000,
		"ebitda": 3000000,
		"growth_rate": 25.5,
		"market_size": 1000000000,
		"competitors": ["Competitor A"],
		"key_metrics": {"arr": "$8M"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	loaded, err := memo.LoadFinancialData(path)
	require.NoError(t, err)

	assert.Equal(t, 10_000_000.0, loaded.Revenue)
	assert.Equal(t, 25.5, loaded.GrowthRate)
	assert.Equal(t, []string{"Competitor A"}, loaded.Competitors)
	assert.Equal(t, "$8M", loaded.KeyMetrics["arr"])
}

func TestLoadFinancialDataMissingFile(t *testing.T) {
	_, err := memo.LoadFinancialData(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
