package models

import (
	"fmt"
	"time"
)

// Language is one of the two languages the pipeline understands. Anything
// the detector cannot place confidently falls back to English.
type Language string

const (
	LanguageDutch   Language = "dutch"
	LanguageEnglish Language = "english"
)

// Metadata identifies a document within a processing run. It is set once
// when the file is parsed and never mutated afterwards.
type Metadata struct {
	Filename    string
	Language    Language
	ProcessedAt time.Time
}

// Table is a normalized tabular payload: ordered rows under named columns.
// Spreadsheets contribute their first sheet; CSV files contribute a single
// table named after the file.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Cell returns the value at row r under column name, or "" when the column
// does not exist or the row is ragged.
func (t *Table) Cell(r int, column string) string {
	for c, name := range t.Columns {
		if name == column {
			if r < len(t.Rows) && c < len(t.Rows[r]) {
				return t.Rows[r][c]
			}
			return ""
		}
	}
	return ""
}

// ProcessedDocument is the output of parsing plus metric extraction for one
// source file. Exactly one of Text or Tables carries the content, depending
// on the document type. IsFinancial holds iff Metrics is non-empty.
type ProcessedDocument struct {
	Metadata Metadata

	Text   string
	Tables []Table

	Metrics     map[string]string
	IsFinancial bool

	Chunks []string
}

// ChunkID returns the persisted identifier for chunk i of this document.
func (d *ProcessedDocument) ChunkID(i int) string {
	return fmt.Sprintf("%s_%d", d.Metadata.Filename, i)
}

// Tabular reports whether the document's content is a tabular structure.
func (d *ProcessedDocument) Tabular() bool {
	return len(d.Tables) > 0
}
