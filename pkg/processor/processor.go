package processor

import (
	"fmt"

	"github.com/xhad/memogen/internal/models"
)

type ProcessorConfig struct {
	ChunkSize    int
	ChunkOverlap int
}

// Processor splits normalized document text into overlapping fixed-size
// windows for embedding. Windows run left to right and make no attempt to
// respect sentence or paragraph boundaries; re-chunking identical text with
// identical config yields an identical sequence.
type Processor struct {
	config ProcessorConfig
}

func NewWithConfig(config ProcessorConfig) (Processor, error) {
	if config.ChunkSize == 0 {
		config.ChunkSize = 1000
	}
	if config.ChunkOverlap == 0 {
		config.ChunkOverlap = 200
	}

	if config.ChunkSize < 1 {
		return Processor{}, fmt.Errorf("chunk size must be positive")
	}
	if config.ChunkOverlap < 0 || config.ChunkOverlap >= config.ChunkSize {
		return Processor{}, fmt.Errorf("chunk overlap must be non-negative and less than chunk size")
	}

	return Processor{config: config}, nil
}

// Process fills in the chunk sequence for each document. Tabular documents
// carry no normalized text and yield zero chunks; their content reaches the
// store through the financial-data path instead.
func (p *Processor) Process(docs []*models.ProcessedDocument) error {
	for _, doc := range docs {
		doc.Chunks = p.Chunk(doc.Text)
	}
	return nil
}

// Chunk splits text into the ordered overlapping window sequence. Windows
// are measured in runes, never bytes, so a multi-byte character ("ë" in
// "Financiële") cannot be split across a boundary. Empty text yields zero
// chunks. Consecutive chunks overlap by exactly the configured overlap,
// except possibly the final chunk.
func (p *Processor) Chunk(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	step := p.config.ChunkSize - p.config.ChunkOverlap

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + p.config.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}

	return chunks
}
