package store

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/xhad/memogen/internal/models"
)

// Summarize reduces a table to its descriptive statistics: per-column
// count/mean/min/max over the cells that parse as numbers, the column list,
// and non-null counts. This is the structured form persisted for financial
// sheets.
func Summarize(table models.Table) models.FinancialSummary {
	summary := models.FinancialSummary{
		Summary:       make(map[string]models.ColumnStats),
		Columns:       table.Columns,
		NonNullCounts: make(map[string]int),
	}

	for _, column := range table.Columns {
		nonNull := 0
		var nums []float64

		for r := range table.Rows {
			cell := strings.TrimSpace(table.Cell(r, column))
			if cell == "" {
				continue
			}
			nonNull++

			if v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64); err == nil {
				nums = append(nums, v)
			}
		}

		summary.NonNullCounts[column] = nonNull

		if len(nums) > 0 {
			stats := models.ColumnStats{
				Count: len(nums),
				Min:   nums[0],
				Max:   nums[0],
			}
			sum := 0.0
			for _, v := range nums {
				sum += v
				if v < stats.Min {
					stats.Min = v
				}
				if v > stats.Max {
					stats.Max = v
				}
			}
			stats.Mean = sum / float64(len(nums))
			summary.Summary[column] = stats
		}
	}

	return summary
}

// MarshalSummary serializes a financial summary to the JSON blob stored as
// entry content. UnmarshalSummary reverses it on retrieval.
func MarshalSummary(summary models.FinancialSummary) (string, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func UnmarshalSummary(content string) (models.FinancialSummary, error) {
	var summary models.FinancialSummary
	err := json.Unmarshal([]byte(content), &summary)
	return summary, err
}
