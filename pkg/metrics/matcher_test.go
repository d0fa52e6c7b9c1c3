package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xhad/memogen/internal/models"
	"github.com/xhad/memogen/pkg/metrics"
)

func TestExtractFromText(t *testing.T) {
	m := metrics.New()

	tests := []struct {
		name     string
		text     string
		language models.Language
		want     map[string]string
	}{
		{
			name:     "dutch revenue and ebitda",
			text:     "Total omzet 2023: 4500000 euro\nEBITDA 1200000",
			language: models.LanguageDutch,
			want:     map[string]string{"revenue": "4500000", "ebitda": "1200000"},
		},
		{
			name:     "english synonyms",
			text:     "Revenue for the year was 8000000\nTotal costs came to 5500000.",
			language: models.LanguageEnglish,
			want:     map[string]string{"revenue": "8000000", "costs": "5500000"},
		},
		{
			name:     "term without a nearby number is not captured",
			text:     "De omzet groeide aanzienlijk dit jaar",
			language: models.LanguageDutch,
			want:     map[string]string{},
		},
		{
			name:     "last match wins on duplicates",
			text:     "omzet 100\nomzet 200",
			language: models.LanguageDutch,
			want:     map[string]string{"revenue": "200"},
		},
		{
			name:     "no matches on unrelated text",
			text:     "Dit document bevat geen financiele gegevens",
			language: models.LanguageDutch,
			want:     map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.ExtractFromText(tt.text, tt.language))
		})
	}
}

func TestExtractFromTable(t *testing.T) {
	m := metrics.New()

	table := models.Table{
		Name:    "Sheet1",
		Columns: []string{"Quarter", "Revenue", "Notes"},
		Rows: [][]string{
			{"Q1", "100", "first"},
			{"Q2", "200", ""},
			{"Q3", "", "no revenue recorded"},
		},
	}

	got := m.ExtractFromTable(table)

	// Last non-empty value under the first matching column wins.
	assert.Equal(t, map[string]string{"revenue": "200"}, got)
}

func TestExtractFromTableMatchesSubstringHeaders(t *testing.T) {
	m := metrics.New()

	table := models.Table{
		Columns: []string{"Year", "Total Revenue (EUR)", "Operating Costs"},
		Rows: [][]string{
			{"2022", "4000000", "2500000"},
			{"2023", "4500000", "2700000"},
		},
	}

	got := m.ExtractFromTable(table)

	assert.Equal(t, "4500000", got["revenue"])
	assert.Equal(t, "2700000", got["costs"])
}

func TestIsFinancialTable(t *testing.T) {
	m := metrics.New()

	financial := models.Table{Columns: []string{"Kwartaal", "Omzet", "Kosten"}}
	assert.True(t, m.IsFinancialTable(financial, models.LanguageDutch))

	plain := models.Table{Columns: []string{"Name", "Address", "City"}}
	assert.False(t, m.IsFinancialTable(plain, models.LanguageEnglish))
}

func TestSynonymsClosedVocabulary(t *testing.T) {
	// Unknown canonical keys never resolve to synonyms, so nothing outside
	// the closed vocabulary can be stored.
	assert.Nil(t, metrics.Synonyms("headcount", models.LanguageEnglish))
	assert.NotEmpty(t, metrics.Synonyms(metrics.KeyRevenue, models.LanguageDutch))
}
