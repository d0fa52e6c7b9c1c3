package store

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog"
	"github.com/xhad/memogen/internal/models"
	"github.com/xhad/memogen/internal/types"
)

type VectorStoreConfig struct {
	ConnString string
	TableName  string
	VectorDim  int
	BatchSize  int
}

// VectorStore persists document chunks and financial summaries in a
// pgvector-backed collection and serves filtered similarity search over
// them. All operations return explicit errors so callers can tell "no
// matches" from "query failed"; it is up to the caller whether a failure
// aborts the run or is logged and skipped.
//
// Concurrency relies on Postgres itself: the adapter adds no locking or
// retries and assumes single-writer access per document.
type VectorStore struct {
	config   VectorStoreConfig
	pool     *pgxpool.Pool
	embedder types.Embedder
	logger   zerolog.Logger
}

func NewWithConfig(config VectorStoreConfig, embedder types.Embedder, logger zerolog.Logger) (*VectorStore, error) {
	if config.TableName == "" {
		config.TableName = "investment_docs"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 768
	}
	if config.BatchSize == 0 {
		config.BatchSize = 100
	}

	pool, err := pgxpool.New(context.Background(), config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	vs := &VectorStore{
		config:   config,
		pool:     pool,
		embedder: embedder,
		logger:   logger,
	}

	if err := vs.initialize(); err != nil {
		pool.Close()
		return nil, err
	}

	return vs, nil
}

func (vs *VectorStore) initialize() error {
	ctx := context.Background()

	// Enable pgvector extension
	_, err := vs.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("failed to create vector extension: %v", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			embedding vector(%d),
			metadata JSONB NOT NULL
		)`, vs.config.TableName, vs.config.VectorDim)

	_, err = vs.pool.Exec(ctx, createTable)
	if err != nil {
		return fmt.Errorf("failed to create table: %v", err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`,
		vs.config.TableName, vs.config.TableName)

	_, err = vs.pool.Exec(ctx, createIndex)
	if err != nil {
		return fmt.Errorf("failed to create index: %v", err)
	}

	return nil
}

// AddDocument embeds and inserts every chunk of the document in one
// transaction: ids are {filename}_{index}, each row carries the metadata
// snapshot for its chunk. A document without chunks is a no-op.
func (vs *VectorStore) AddDocument(ctx context.Context, doc *models.ProcessedDocument) error {
	if len(doc.Chunks) == 0 {
		vs.logger.Debug().Str("filename", doc.Metadata.Filename).Msg("document has no chunks, nothing to index")
		return nil
	}

	indexedAt := time.Now()
	total := len(doc.Chunks)

	// Postgres rejects invalid UTF-8 in TEXT columns, and parsers can emit
	// stray bytes from corrupt files. Sanitize before embedding so content
	// and vector stay in sync.
	chunks := make([]string, total)
	for i, chunk := range doc.Chunks {
		chunks[i] = sanitizeUTF8(chunk)
	}

	embeddings, err := vs.embedChunks(ctx, chunks)
	if err != nil {
		vs.logger.Error().Err(err).Str("filename", doc.Metadata.Filename).Msg("failed to embed chunks")
		return fmt.Errorf("failed to create embeddings: %w", err)
	}

	tx, err := vs.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, content, embedding, metadata)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			metadata = EXCLUDED.metadata`,
		vs.config.TableName)

	for i, chunk := range chunks {
		_, err = tx.Exec(ctx, stmt,
			doc.ChunkID(i),
			chunk,
			pgvector.NewVector(embeddings[i]),
			ChunkMetadata(doc, i, total, indexedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %d: %v", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	vs.logger.Info().Str("filename", doc.Metadata.Filename).Int("chunks", total).Msg("document indexed")
	return nil
}

// AddFinancialData stores one entry per sheet of a tabular document: the
// sheet's descriptive summary serialized to JSON, tagged data_type=financial
// with the sheet name in metadata. Non-tabular documents fail without side
// effects. Sheets are isolated: one bad sheet does not abort the others, and
// the errors of failed sheets are joined into the result.
func (vs *VectorStore) AddFinancialData(ctx context.Context, doc *models.ProcessedDocument) error {
	if !doc.Tabular() {
		return fmt.Errorf("document %s has no tabular content", doc.Metadata.Filename)
	}

	var errs []error
	for _, table := range doc.Tables {
		if err := vs.addSheet(ctx, doc, table); err != nil {
			vs.logger.Error().Err(err).
				Str("filename", doc.Metadata.Filename).
				Str("sheet", table.Name).
				Msg("failed to store financial sheet")
			errs = append(errs, fmt.Errorf("sheet %s: %w", table.Name, err))
		}
	}

	return errors.Join(errs...)
}

func (vs *VectorStore) addSheet(ctx context.Context, doc *models.ProcessedDocument, table models.Table) error {
	content, err := MarshalSummary(Summarize(table))
	if err != nil {
		return err
	}

	embeddings, err := vs.embedChunks(ctx, []string{content})
	if err != nil {
		return fmt.Errorf("failed to create embedding: %w", err)
	}

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, content, embedding, metadata)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			metadata = EXCLUDED.metadata`,
		vs.config.TableName)

	id := fmt.Sprintf("%s_%s_financial", doc.Metadata.Filename, table.Name)

	_, err = vs.pool.Exec(ctx, stmt,
		id,
		content,
		pgvector.NewVector(embeddings[0]),
		FinancialMetadata(doc, table, time.Now()),
	)
	return err
}

// SemanticSearch embeds the query and returns up to topN entries ordered by
// ascending embedding distance, optionally narrowed by metadata containment
// filters.
func (vs *VectorStore) SemanticSearch(ctx context.Context, query string, topN int, filters map[string]any) ([]models.SearchResult, error) {
	if topN <= 0 {
		topN = 5
	}

	embeddings, err := vs.embedChunks(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	sql := fmt.Sprintf(`
		SELECT id, content, metadata, embedding <=> $1 AS distance
		FROM %s`, vs.config.TableName)

	args := []any{pgvector.NewVector(embeddings[0])}
	if len(filters) > 0 {
		sql += " WHERE metadata @> $2"
		args = append(args, filters)
	}
	sql += fmt.Sprintf(" ORDER BY distance LIMIT %d", topN)

	rows, err := vs.pool.Query(ctx, sql, args...)
	if err != nil {
		vs.logger.Error().Err(err).Msg("semantic search failed")
		return nil, fmt.Errorf("failed to query documents: %v", err)
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var r models.SearchResult
		if err := rows.Scan(&r.ID, &r.Content, &r.Metadata, &r.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// GetFinancialData retrieves entries tagged financial, optionally narrowed
// by filename and sheet name, with each entry's content deserialized back
// into its structured summary.
func (vs *VectorStore) GetFinancialData(ctx context.Context, filename, sheetName string) ([]models.FinancialEntry, error) {
	filters := map[string]any{"data_type": "financial"}
	if filename != "" {
		filters["filename"] = filename
	}
	if sheetName != "" {
		filters["sheet_name"] = sheetName
	}

	sql := fmt.Sprintf(`SELECT id, content, metadata FROM %s WHERE metadata @> $1`, vs.config.TableName)

	rows, err := vs.pool.Query(ctx, sql, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to query financial data: %v", err)
	}
	defer rows.Close()

	var entries []models.FinancialEntry
	for rows.Next() {
		var entry models.FinancialEntry
		var content string
		if err := rows.Scan(&entry.ID, &content, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}

		entry.Data, err = UnmarshalSummary(content)
		if err != nil {
			return nil, fmt.Errorf("failed to decode financial entry %s: %w", entry.ID, err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// CleanupOldEntries irreversibly deletes every entry whose indexing
// timestamp is strictly older than now minus daysOld days. It returns the
// number of deleted entries.
func (vs *VectorStore) CleanupOldEntries(ctx context.Context, daysOld int) (int64, error) {
	cutoff := CleanupCutoff(time.Now(), daysOld)

	sql := fmt.Sprintf(`DELETE FROM %s WHERE metadata->>'indexed_at' < $1`, vs.config.TableName)

	tag, err := vs.pool.Exec(ctx, sql, cutoff)
	if err != nil {
		vs.logger.Error().Err(err).Msg("cleanup failed")
		return 0, fmt.Errorf("failed to delete old entries: %v", err)
	}

	vs.logger.Info().Int64("deleted", tag.RowsAffected()).Str("cutoff", cutoff).Msg("cleanup complete")
	return tag.RowsAffected(), nil
}

// CleanupCutoff renders the deletion cutoff as the RFC3339 UTC string the
// indexed_at metadata is stored in; string comparison then matches
// chronological comparison.
func CleanupCutoff(now time.Time, daysOld int) string {
	return now.AddDate(0, 0, -daysOld).UTC().Format(time.RFC3339)
}

// Persist is an idempotent durability point. Postgres commits are already
// durable, so this degrades to a connectivity check.
func (vs *VectorStore) Persist(ctx context.Context) error {
	return vs.pool.Ping(ctx)
}

func (vs *VectorStore) Close() {
	if vs.pool != nil {
		vs.pool.Close()
	}
}

// sanitizeUTF8 drops invalid byte sequences, keeping every valid rune.
// Valid input is returned unchanged.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	v := make([]rune, 0, len(s))
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				continue
			}
		}
		v = append(v, r)
	}
	return string(v)
}

// embedChunks embeds texts in batches of the configured batch size.
func (vs *VectorStore) embedChunks(ctx context.Context, texts []string) ([][]float32, error) {
	var all [][]float32
	for start := 0; start < len(texts); start += vs.config.BatchSize {
		end := start + vs.config.BatchSize
		if end > len(texts) {
			end = len(texts)
		}

		embeddings, err := vs.embedder.CreateEmbedding(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		all = append(all, embeddings...)
	}

	if len(all) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(all), len(texts))
	}
	return all, nil
}
