package parser

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xhad/memogen/internal/models"
	"github.com/xhad/memogen/internal/types"
	"github.com/xhad/memogen/pkg/metrics"
)

// Parser turns a source file into a ProcessedDocument: normalized content,
// detected language and extracted financial metrics. Dispatch is a closed
// switch over supported extensions; anything else is an
// UnsupportedFormatError rather than a runtime lookup failure.
type Parser struct {
	detector types.Detector
	matcher  *metrics.Matcher
	logger   zerolog.Logger
}

func New(detector types.Detector, logger zerolog.Logger) *Parser {
	return &Parser{
		detector: detector,
		matcher:  metrics.New(),
		logger:   logger,
	}
}

func (p *Parser) Parse(path string) (*models.ProcessedDocument, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &FileNotFoundError{Path: path}
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		text, err := extractPDF(path)
		if err != nil {
			return nil, p.parseFailure(path, err)
		}
		return p.textDocument(path, text), nil

	case ".docx", ".doc":
		text, err := extractWord(path, ext)
		if err != nil {
			return nil, p.parseFailure(path, err)
		}
		return p.textDocument(path, text), nil

	case ".html", ".htm":
		text, err := extractHTML(path)
		if err != nil {
			return nil, p.parseFailure(path, err)
		}
		return p.textDocument(path, text), nil

	case ".xlsx", ".xls":
		table, err := extractWorkbook(path)
		if err != nil {
			return nil, p.parseFailure(path, err)
		}
		return p.tableDocument(path, table), nil

	case ".csv":
		table, err := extractCSV(path)
		if err != nil {
			return nil, p.parseFailure(path, err)
		}
		return p.tableDocument(path, table), nil

	default:
		return nil, &UnsupportedFormatError{Ext: ext}
	}
}

// textDocument builds a ProcessedDocument around plain text: language from
// the full text, metrics from a line scan.
func (p *Parser) textDocument(path, text string) *models.ProcessedDocument {
	language := p.detector.Detect(text)
	found := p.matcher.ExtractFromText(text, language)

	return &models.ProcessedDocument{
		Metadata: models.Metadata{
			Filename:    filepath.Base(path),
			Language:    language,
			ProcessedAt: time.Now(),
		},
		Text:        text,
		Metrics:     found,
		IsFinancial: len(found) > 0,
	}
}

// tableDocument builds a ProcessedDocument around tabular content. The
// language is detected from the concatenated column headers, not from cell
// content, and extraction only runs when the headers carry financial
// vocabulary.
func (p *Parser) tableDocument(path string, table models.Table) *models.ProcessedDocument {
	language := p.detector.Detect(strings.Join(table.Columns, " "))

	found := map[string]string{}
	if p.matcher.IsFinancialTable(table, language) {
		found = p.matcher.ExtractFromTable(table)
	}

	return &models.ProcessedDocument{
		Metadata: models.Metadata{
			Filename:    filepath.Base(path),
			Language:    language,
			ProcessedAt: time.Now(),
		},
		Tables:      []models.Table{table},
		Metrics:     found,
		IsFinancial: len(found) > 0,
	}
}

func (p *Parser) parseFailure(path string, err error) error {
	p.logger.Error().Err(err).Str("file", path).Msg("failed to parse document")
	return &ParseError{File: filepath.Base(path), Err: err}
}
