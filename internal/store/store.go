// Package store persists document chunks with their embeddings in
// PostgreSQL and serves nearest-neighbor search via pgvector.
//
// The store exclusively owns persisted chunks. Upsert is atomic per row and
// keyed by chunk ID, so re-ingesting a document overwrites in place instead
// of duplicating rows.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"github.com/pollinet/knowledgebot/internal/log"
)

// VectorDimension is the width of the embedding column. It must match the
// dimension produced by the configured embedding model; see the
// document_embeddings migration.
const VectorDimension = 1536

// Chunk is one persisted slice of a source document.
type Chunk struct {
	ID        string            // {document_name}_{chunk_index}, stable across re-ingestion
	Content   string            // UTF-8 text
	Embedding []float32         // never empty once persisted
	Metadata  map[string]string // source, category, document, chunk_index, ...
	CreatedAt time.Time         // set by the database at first insert
}

// Store provides chunk persistence and similarity search.
// It is safe for concurrent use by multiple goroutines; the pgx pool handles
// connection management.
type Store struct {
	pool   *pgxpool.Pool
	logger log.Logger
}

// NewPool creates a pgx connection pool with pgvector types registered on
// every connection.
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	return pool, nil
}

// New creates a Store backed by the given pool.
func New(pool *pgxpool.Pool, logger log.Logger) *Store {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Store{pool: pool, logger: logger}
}

// Upsert inserts the chunk or, when the ID already exists, replaces its
// content, embedding, and metadata. created_at is set once at first insert
// and never updated.
func (s *Store) Upsert(ctx context.Context, chunk Chunk) error {
	metadataJSON, err := json.Marshal(chunk.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling metadata for %q: %w", chunk.ID, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO document_embeddings (id, content, embedding, metadata)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET content = EXCLUDED.content,
		    embedding = EXCLUDED.embedding,
		    metadata = EXCLUDED.metadata`,
		chunk.ID, chunk.Content, pgvector.NewVector(chunk.Embedding), metadataJSON)
	if err != nil {
		return fmt.Errorf("upserting chunk %q: %w", chunk.ID, err)
	}

	s.logger.Debug("upserted chunk", "id", chunk.ID, "content_length", len(chunk.Content))
	return nil
}

// Search returns the content of the k chunks nearest to queryVec by cosine
// distance, nearest first. Fewer than k rows come back only when the store
// holds fewer rows in total.
func (s *Store) Search(ctx context.Context, queryVec []float32, k int) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT content
		FROM document_embeddings
		ORDER BY embedding <=> $1
		LIMIT $2`,
		pgvector.NewVector(queryVec), k)
	if err != nil {
		return nil, fmt.Errorf("searching similar chunks: %w", err)
	}
	defer rows.Close()

	return collectContents(rows)
}

// ListRecent returns chunk content ordered by insertion time ascending,
// bounded by limit. Used by the fallback generation path to assemble a
// whole-corpus context without unbounded token cost.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT content
		FROM document_embeddings
		ORDER BY created_at
		LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}
	defer rows.Close()

	return collectContents(rows)
}

// Count returns the total number of stored chunks.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM document_embeddings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

func collectContents(rows pgx.Rows) ([]string, error) {
	var contents []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("scanning chunk content: %w", err)
		}
		contents = append(contents, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading chunk rows: %w", err)
	}
	return contents, nil
}
