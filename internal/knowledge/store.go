// Package knowledge manages the vector-indexed document store backing the
// retrieval tool. Embedding generation and nearest-neighbor search live
// here; nothing in this package knows about the orchestration loop.
package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"

	"github.com/adler0/ragent/internal/log"
)

// DB is the subset of pgxpool.Pool the store needs. Defined by the consumer
// so tests can substitute a fake (same approach as io.Reader, sql.Driver).
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Embedder is the slice of ai.Embedder the store uses. Satisfied by any
// Genkit embedder.
type Embedder interface {
	Embed(ctx context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error)
}

// Store manages documents with vector search over PostgreSQL + pgvector.
//
// Safe for concurrent use.
type Store struct {
	db       DB
	embedder Embedder
	logger   log.Logger
}

// New creates a Store. A nil logger discards output.
func New(db DB, embedder Embedder, logger log.Logger) *Store {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Store{db: db, embedder: embedder, logger: logger}
}

// Add upserts a document, generating its embedding from the content.
func (s *Store) Add(ctx context.Context, doc Document) error {
	vec, err := s.embed(ctx, doc.Content)
	if err != nil {
		return fmt.Errorf("embedding document %q: %w", doc.ID, err)
	}

	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling metadata for %q: %w", doc.ID, err)
	}

	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO documents (id, content, embedding, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET content = EXCLUDED.content,
		    embedding = EXCLUDED.embedding,
		    metadata = EXCLUDED.metadata`,
		doc.ID, doc.Content, vec, metadataJSON, createdAt)
	if err != nil {
		return fmt.Errorf("upserting document %q: %w", doc.ID, err)
	}

	s.logger.Debug("added document", "id", doc.ID, "content_length", len(doc.Content))
	return nil
}

// Search returns the documents most similar to the query, best first.
// A per-search timeout guards against slow vector scans.
func (s *Store) Search(ctx context.Context, query string, opts ...SearchOption) ([]Result, error) {
	cfg := buildSearchConfig(opts)

	queryCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	vec, err := s.embed(queryCtx, query)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("query embedding timeout: %w", err)
		}
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := s.db.Query(queryCtx, `
		SELECT id, content, metadata, created_at,
		       1 - (embedding <=> $1) AS similarity
		FROM documents
		ORDER BY embedding <=> $1
		LIMIT $2`,
		vec, cfg.topK)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("search query timeout: %w", err)
		}
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			doc          Document
			metadataJSON []byte
			similarity   float32
		)
		if err := rows.Scan(&doc.ID, &doc.Content, &metadataJSON, &doc.CreatedAt, &similarity); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &doc.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshaling metadata for %q: %w", doc.ID, err)
			}
		}
		results = append(results, Result{Document: doc, Similarity: similarity})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search rows: %w", err)
	}

	s.logger.Debug("vector search complete",
		"query_length", len(query),
		"results", len(results),
		"top_k", cfg.topK)
	return results, nil
}

// Count returns the total number of stored documents.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM documents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

// Delete removes a document by ID. Deleting an absent ID is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting document %q: %w", id, err)
	}
	return nil
}

// embed generates the embedding vector for one text.
func (s *Store) embed(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := s.embedder.Embed(ctx, &ai.EmbedRequest{
		Input: []*ai.Document{ai.DocumentFromText(text, nil)},
	})
	if err != nil {
		return pgvector.Vector{}, err
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return pgvector.Vector{}, errors.New("embedder returned no vector")
	}
	return pgvector.NewVector(resp.Embeddings[0].Embedding), nil
}
