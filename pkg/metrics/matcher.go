package metrics

import (
	"strings"

	"github.com/xhad/memogen/internal/models"
)

// Matcher scans document text or table headers for the canonical financial
// vocabulary and associates nearby numeric tokens as extracted values. It is
// a heuristic: it trades precision for simplicity given heterogeneous,
// unstructured real-world filings. Duplicate matches overwrite, so the last
// matched line (or last non-empty column value) wins.
type Matcher struct{}

func New() *Matcher {
	return &Matcher{}
}

// ExtractFromText scans each lowercased line for the synonyms of the given
// language. When a synonym appears in a line, the first digit-bearing token
// on that line is recorded under the canonical key. The token is captured as
// found, without numeric parsing.
func (m *Matcher) ExtractFromText(text string, language models.Language) map[string]string {
	result := make(map[string]string)

	for _, line := range strings.Split(strings.ToLower(text), "\n") {
		value, ok := firstNumericToken(line)
		if !ok {
			continue
		}
		for _, key := range CanonicalTerms {
			for _, syn := range Synonyms(key, language) {
				if strings.Contains(line, syn) {
					result[key] = value
					break
				}
			}
		}
	}

	return result
}

// ExtractFromTable matches the English canonical vocabulary against column
// headers, regardless of the document language. For each term the first
// matching column is taken and the last non-empty cell wins, relying on the
// original row order to mean "most recent last".
func (m *Matcher) ExtractFromTable(table models.Table) map[string]string {
	result := make(map[string]string)

	for _, key := range CanonicalTerms {
		col := -1
		for c, header := range table.Columns {
			if strings.Contains(strings.ToLower(header), key) {
				col = c
				break
			}
		}
		if col < 0 {
			continue
		}

		for _, row := range table.Rows {
			if col < len(row) && strings.TrimSpace(row[col]) != "" {
				result[key] = strings.TrimSpace(row[col])
			}
		}
	}

	return result
}

// IsFinancialTable reports whether any synonym for the given language
// appears in the table's header text. It gates whether metric extraction is
// attempted at all.
func (m *Matcher) IsFinancialTable(table models.Table, language models.Language) bool {
	headers := strings.ToLower(strings.Join(table.Columns, " "))

	for _, key := range CanonicalTerms {
		for _, syn := range Synonyms(key, language) {
			if strings.Contains(headers, syn) {
				return true
			}
		}
	}
	return false
}

// firstNumericToken returns the first whitespace-split token on the line
// that carries a digit. Digit tokens ending in a colon are labels
// ("2023:"), not values, and are skipped. Trailing sentence punctuation is
// trimmed; the value is otherwise kept as found.
func firstNumericToken(line string) (string, bool) {
	for _, tok := range strings.Fields(line) {
		if !containsDigit(tok) {
			continue
		}
		if strings.HasSuffix(tok, ":") {
			continue
		}
		return strings.TrimRight(tok, ",.;"), true
	}
	return "", false
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
