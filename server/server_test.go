package server

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/memogen/internal/logger"
	"github.com/xhad/memogen/internal/models"
)

type fakeStore struct {
	results []models.SearchResult
	entries []models.FinancialEntry
	fail    bool
}

func (f *fakeStore) AddDocument(ctx context.Context, doc *models.ProcessedDocument) error {
	return nil
}

func (f *fakeStore) AddFinancialData(ctx context.Context, doc *models.ProcessedDocument) error {
	return nil
}

func (f *fakeStore) SemanticSearch(ctx context.Context, query string, topN int, filters map[string]any) ([]models.SearchResult, error) {
	if f.fail {
		return nil, fmt.Errorf("store unavailable")
	}
	return f.results, nil
}

func (f *fakeStore) GetFinancialData(ctx context.Context, filename, sheetName string) ([]models.FinancialEntry, error) {
	if f.fail {
		return nil, fmt.Errorf("store unavailable")
	}
	return f.entries, nil
}

func (f *fakeStore) CleanupOldEntries(ctx context.Context, daysOld int) (int64, error) {
	return 0, nil
}

func (f *fakeStore) Persist(ctx context.Context) error { return nil }

func (f *fakeStore) Close() {}

type fakeClient struct {
	queries []string
	docs    [][]string
}

func (f *fakeClient) GenerateText(ctx context.Context, prompt, systemPrompt string) (string, error) {
	return "generated", nil
}

func (f *fakeClient) GenerateMemoSection(ctx context.Context, sectionName string, sectionContext map[string]any, language models.Language) (string, error) {
	return "section", nil
}

func (f *fakeClient) AnalyzeDocuments(ctx context.Context, documents []string, query string) (string, error) {
	f.docs = append(f.docs, documents)
	f.queries = append(f.queries, query)
	return "the revenue grew", nil
}

func testContext() context.Context {
	return logger.WithContext(context.Background(), logger.NewWithWriter(io.Discard))
}

func TestHandleSearch(t *testing.T) {
	store := &fakeStore{results: []models.SearchResult{
		{ID: "report.pdf_0", Content: "revenue grew"},
	}}
	s := New(Config{}, &fakeClient{}, store, logger.NewWithWriter(io.Discard))

	reply := s.handle(testContext(), Message{Type: "search", Content: "revenue"})

	assert.Equal(t, "results", reply.Type)
	assert.Equal(t, store.results, reply.Data)
}

func TestHandleAskFeedsRetrievedDocuments(t *testing.T) {
	store := &fakeStore{results: []models.SearchResult{
		{ID: "a_0", Content: "first chunk"},
		{ID: "a_1", Content: "second chunk"},
	}}
	client := &fakeClient{}
	s := New(Config{}, client, store, logger.NewWithWriter(io.Discard))

	reply := s.handle(testContext(), Message{Type: "ask", Content: "how did revenue develop?"})

	assert.Equal(t, "answer", reply.Type)
	assert.Equal(t, "the revenue grew", reply.Content)
	require.Len(t, client.docs, 1)
	assert.Equal(t, []string{"first chunk", "second chunk"}, client.docs[0])
	assert.Equal(t, "how did revenue develop?", client.queries[0])
}

func TestHandleFinancial(t *testing.T) {
	store := &fakeStore{entries: []models.FinancialEntry{{ID: "numbers.xlsx_Sheet1_financial"}}}
	s := New(Config{}, &fakeClient{}, store, logger.NewWithWriter(io.Discard))

	reply := s.handle(testContext(), Message{Type: "financial", Content: "numbers.xlsx"})

	assert.Equal(t, "financial", reply.Type)
	assert.Equal(t, store.entries, reply.Data)
}

func TestHandleStoreFailure(t *testing.T) {
	s := New(Config{}, &fakeClient{}, &fakeStore{fail: true}, logger.NewWithWriter(io.Discard))

	reply := s.handle(testContext(), Message{Type: "search", Content: "revenue"})

	assert.Equal(t, "error", reply.Type)
	assert.Contains(t, reply.Content, "store unavailable")
}

func TestHandleUnknownType(t *testing.T) {
	s := New(Config{}, &fakeClient{}, &fakeStore{}, logger.NewWithWriter(io.Discard))

	reply := s.handle(testContext(), Message{Type: "bogus"})

	assert.Equal(t, "error", reply.Type)
	assert.Contains(t, reply.Content, "bogus")
}

func TestNewDefaults(t *testing.T) {
	s := New(Config{}, &fakeClient{}, &fakeStore{}, logger.NewWithWriter(io.Discard))

	assert.Equal(t, ":8080", s.config.Addr)
	assert.Equal(t, 5, s.config.TopN)
}
