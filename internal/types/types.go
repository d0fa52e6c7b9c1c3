package types

import (
	"context"

	"github.com/xhad/memogen/internal/models"
)

// Core interfaces
type Parser interface {
	Parse(path string) (*models.ProcessedDocument, error)
}

type VectorStore interface {
	AddDocument(ctx context.Context, doc *models.ProcessedDocument) error
	AddFinancialData(ctx context.Context, doc *models.ProcessedDocument) error
	SemanticSearch(ctx context.Context, query string, topN int, filters map[string]any) ([]models.SearchResult, error)
	GetFinancialData(ctx context.Context, filename, sheetName string) ([]models.FinancialEntry, error)
	CleanupOldEntries(ctx context.Context, daysOld int) (int64, error)
	Persist(ctx context.Context) error
	Close()
}

type Embedder interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

type Detector interface {
	Detect(text string) models.Language
}

type Generator interface {
	GenerateText(ctx context.Context, prompt, systemPrompt string) (string, error)
	GenerateMemoSection(ctx context.Context, sectionName string, sectionContext map[string]any, language models.Language) (string, error)
	AnalyzeDocuments(ctx context.Context, documents []string, query string) (string, error)
}
