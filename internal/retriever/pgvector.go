// Package retriever stores chunk embeddings in Postgres with pgvector and
// serves nearest-neighbor lookups for the query engine.
package retriever

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/agenthands/staygraph/internal/core/model"
	"github.com/agenthands/staygraph/internal/llm"
)

const (
	DefaultTable      = "chunk_embeddings"
	DefaultDimensions = 1536
)

// VectorStore indexes text chunks by embedding and retrieves the closest ones
// by cosine distance.
type VectorStore struct {
	Pool       *pgxpool.Pool
	Embedder   llm.EmbedderClient
	Table      string
	Dimensions int

	log *log.Logger
}

// NewVectorStore connects, verifies the connection and ensures the extension
// and table exist. An unreachable database is a fatal configuration error.
func NewVectorStore(ctx context.Context, dsn, table string, embedder llm.EmbedderClient) (*VectorStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid vector store dsn: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("vector store unreachable: %w", err)
	}

	if table == "" {
		table = DefaultTable
	}
	s := &VectorStore{
		Pool:       pool,
		Embedder:   embedder,
		Table:      table,
		Dimensions: DefaultDimensions,
		log:        log.With("component", "retriever"),
	}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("connected to vector store", "table", table)
	return s, nil
}

func (s *VectorStore) ensureSchema(ctx context.Context) error {
	if _, err := s.Pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to enable pgvector extension: %w", err)
	}
	create := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id text PRIMARY KEY,
		content text NOT NULL,
		embedding vector(%d) NOT NULL
	)`, s.Table, s.Dimensions)
	if _, err := s.Pool.Exec(ctx, create); err != nil {
		return fmt.Errorf("failed to create embeddings table: %w", err)
	}
	return nil
}

// IndexChunks embeds and upserts every chunk. A chunk that fails to embed is
// logged and skipped; indexing the rest still succeeds.
func (s *VectorStore) IndexChunks(ctx context.Context, chunks []model.TextChunk) error {
	upsert := fmt.Sprintf(`INSERT INTO %s (id, content, embedding) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET content = EXCLUDED.content, embedding = EXCLUDED.embedding`, s.Table)

	indexed := 0
	for _, chunk := range chunks {
		embedding, err := s.Embedder.Embed(ctx, chunk.Text)
		if err != nil {
			s.log.Warn("failed to embed chunk, skipping", "chunk", chunk.ID, "err", err)
			continue
		}
		if _, err := s.Pool.Exec(ctx, upsert, chunk.ID, chunk.Text, pgvector.NewVector(embedding)); err != nil {
			return fmt.Errorf("failed to index chunk %s: %w", chunk.ID, err)
		}
		indexed++
	}

	s.log.Info("indexed chunks", "count", indexed, "total", len(chunks))
	return nil
}

// Retrieve returns the contents of the topK chunks closest to the query by
// cosine distance.
func (s *VectorStore) Retrieve(ctx context.Context, query string, topK int) ([]string, error) {
	embedding, err := s.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	sql := fmt.Sprintf("SELECT content FROM %s ORDER BY embedding <=> $1 LIMIT $2", s.Table)
	rows, err := s.Pool.Query(ctx, sql, pgvector.NewVector(embedding), topK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer rows.Close()

	var contents []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, err
		}
		contents = append(contents, content)
	}
	return contents, rows.Err()
}

func (s *VectorStore) Close() {
	s.Pool.Close()
}
