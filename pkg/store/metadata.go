package store

import (
	"time"

	"github.com/xhad/memogen/internal/models"
)

// ChunkMetadata is the metadata snapshot persisted with chunk i of a
// document: the document identity plus chunk position and the indexing
// timestamp. total_chunks always equals the number of chunks submitted in
// the same batch.
func ChunkMetadata(doc *models.ProcessedDocument, i, total int, indexedAt time.Time) map[string]any {
	return map[string]any{
		"filename":     doc.Metadata.Filename,
		"language":     string(doc.Metadata.Language),
		"chunk_index":  i,
		"total_chunks": total,
		"indexed_at":   indexedAt.UTC().Format(time.RFC3339),
	}
}

// FinancialMetadata is the metadata snapshot for a financial sheet entry.
func FinancialMetadata(doc *models.ProcessedDocument, table models.Table, indexedAt time.Time) map[string]any {
	return map[string]any{
		"filename":   doc.Metadata.Filename,
		"language":   string(doc.Metadata.Language),
		"data_type":  "financial",
		"sheet_name": table.Name,
		"columns":    table.Columns,
		"indexed_at": indexedAt.UTC().Format(time.RFC3339),
	}
}
