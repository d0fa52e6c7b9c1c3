package models

// ColumnStats is the per-column slice of a financial summary: descriptive
// statistics computed over the numeric cells of one table column.
type ColumnStats struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// FinancialSummary is the structured form serialized into a financial
// vector-store entry and recovered from it on retrieval.
type FinancialSummary struct {
	Summary       map[string]ColumnStats `json:"summary"`
	Columns       []string               `json:"columns"`
	NonNullCounts map[string]int         `json:"non_null_counts"`
}

// FinancialData is the caller-supplied input for memo generation. It is
// independent of the ingestion pipeline; callers assemble it themselves,
// typically from a JSON file.
type FinancialData struct {
	Revenue     float64        `json:"revenue"`
	Costs       float64        `json:"costs"`
	EBITDA      float64        `json:"ebitda"`
	GrowthRate  float64        `json:"growth_rate"`
	MarketSize  float64        `json:"market_size"`
	Competitors []string       `json:"competitors"`
	KeyMetrics  map[string]any `json:"key_metrics"`
}

// SearchResult is one ranked hit from a semantic search, best matches first
// by ascending embedding distance.
type SearchResult struct {
	ID       string
	Content  string
	Metadata map[string]any
	Distance float32
}

// FinancialEntry is a retrieved financial vector-store entry with its
// content deserialized back into structured form.
type FinancialEntry struct {
	ID       string
	Data     FinancialSummary
	Metadata map[string]any
}
