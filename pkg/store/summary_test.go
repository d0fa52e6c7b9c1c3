package store

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/memogen/internal/models"
)

func sampleTable() models.Table {
	return models.Table{
		Name:    "Q1",
		Columns: []string{"Quarter", "Revenue", "Notes"},
		Rows: [][]string{
			{"Q1", "1,000", "solid"},
			{"Q2", "2000", ""},
			{"Q3", "", "n/a"},
			{"Q4", "3000.5", "strong"},
		},
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sampleTable())

	assert.Equal(t, []string{"Quarter", "Revenue", "Notes"}, summary.Columns)

	revenue, ok := summary.Summary["Revenue"]
	require.True(t, ok)
	assert.Equal(t, 3, revenue.Count)
	assert.InDelta(t, 2000.1666, revenue.Mean, 0.001)
	assert.Equal(t, 1000.0, revenue.Min)
	assert.Equal(t, 3000.5, revenue.Max)

	// Text-only columns never get stats.
	_, ok = summary.Summary["Quarter"]
	assert.False(t, ok)
	_, ok = summary.Summary["Notes"]
	assert.False(t, ok)

	assert.Equal(t, 4, summary.NonNullCounts["Quarter"])
	assert.Equal(t, 3, summary.NonNullCounts["Revenue"])
	assert.Equal(t, 3, summary.NonNullCounts["Notes"])
}

func TestSummarizeRaggedRows(t *testing.T) {
	table := models.Table{
		Name:    "Sheet1",
		Columns: []string{"A", "B"},
		Rows: [][]string{
			{"1"},
			{"2", "10"},
		},
	}

	summary := Summarize(table)
	assert.Equal(t, 1, summary.NonNullCounts["B"])
	assert.Equal(t, 10.0, summary.Summary["B"].Min)
}

func TestSummaryRoundTrip(t *testing.T) {
	original := Summarize(sampleTable())

	content, err := MarshalSummary(original)
	require.NoError(t, err)
	assert.Contains(t, content, `"non_null_counts"`)

	decoded, err := UnmarshalSummary(content)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestUnmarshalSummaryInvalid(t *testing.T) {
	_, err := UnmarshalSummary("not json")
	assert.Error(t, err)
}

func TestChunkMetadata(t *testing.T) {
	doc := &models.ProcessedDocument{
		Metadata: models.Metadata{
			Filename: "report.pdf",
			Language: models.LanguageDutch,
		},
	}
	indexedAt := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

	md := ChunkMetadata(doc, 2, 5, indexedAt)
	assert.Equal(t, "report.pdf", md["filename"])
	assert.Equal(t, "dutch", md["language"])
	assert.Equal(t, 2, md["chunk_index"])
	assert.Equal(t, 5, md["total_chunks"])
	assert.Equal(t, "2026-03-15T09:30:00Z", md["indexed_at"])
}

func TestFinancialMetadata(t *testing.T) {
	doc := &models.ProcessedDocument{
		Metadata: models.Metadata{
			Filename: "numbers.xlsx",
			Language: models.LanguageEnglish,
		},
	}
	table := sampleTable()
	indexedAt := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

	md := FinancialMetadata(doc, table, indexedAt)
	assert.Equal(t, "numbers.xlsx", md["filename"])
	assert.Equal(t, "financial", md["data_type"])
	assert.Equal(t, "Q1", md["sheet_name"])
	assert.Equal(t, []string{"Quarter", "Revenue", "Notes"}, md["columns"])
	assert.Equal(t, "2026-03-15T09:30:00Z", md["indexed_at"])
}

func TestSanitizeUTF8(t *testing.T) {
	// Valid multilingual text passes through untouched.
	assert.Equal(t, "Financiële analyse van één positie", sanitizeUTF8("Financiële analyse van één positie"))

	// Stray bytes, like a multi-byte rune truncated mid-sequence, are
	// dropped while every intact rune survives.
	broken := "Financi\xc3" + "le analyse"
	cleaned := sanitizeUTF8(broken)
	assert.True(t, utf8.ValidString(cleaned))
	assert.Equal(t, "Financile analyse", cleaned)
}

func TestCleanupCutoff(t *testing.T) {
	now := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	cutoff := CleanupCutoff(now, 30)
	assert.Equal(t, "2026-02-13T09:30:00Z", cutoff)

	// Entries indexed before the cutoff sort strictly below it; entries at or
	// after the cutoff do not. The delete predicate is plain string comparison.
	older := now.AddDate(0, 0, -31).Format(time.RFC3339)
	newer := now.AddDate(0, 0, -29).Format(time.RFC3339)
	assert.Less(t, older, cutoff)
	assert.Greater(t, newer, cutoff)
}

func TestCleanupCutoffNormalizesZone(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, loc)
	assert.Equal(t, "2026-02-13T09:30:00Z", CleanupCutoff(now, 30))
}
