package rag

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/adler0/ragent/internal/knowledge"
	"github.com/adler0/ragent/internal/log"
)

// Source type values recorded in chunk metadata.
const (
	SourceTypeWeb  = "web"
	SourceTypeFile = "file"
)

// Store is the storage surface the Indexer needs. knowledge.Store
// satisfies it.
type Store interface {
	Add(ctx context.Context, doc knowledge.Document) error
}

// IndexResult summarizes one ingestion run.
type IndexResult struct {
	Source       string
	Title        string
	ChunksAdded  int
	ChunksFailed int
	TotalRunes   int
	Duration     time.Duration
}

// Indexer loads a source, chunks it, and writes every chunk to the store.
// A failing chunk is counted and skipped; it never aborts the run.
type Indexer struct {
	store   Store
	loader  *Loader
	chunker *Chunker
	logger  log.Logger
}

// NewIndexer creates an Indexer. A nil chunker selects the default
// geometry.
func NewIndexer(store Store, loader *Loader, chunker *Chunker, logger log.Logger) (*Indexer, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if logger == nil {
		logger = log.NewNop()
	}
	if chunker == nil {
		var err error
		chunker, err = NewChunker(0, 0)
		if err != nil {
			return nil, err
		}
	}
	return &Indexer{store: store, loader: loader, chunker: chunker, logger: logger}, nil
}

// IndexURL fetches a web page and ingests its readable text.
func (idx *Indexer) IndexURL(ctx context.Context, rawURL string) (*IndexResult, error) {
	page, err := idx.loader.LoadURL(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return idx.ingest(ctx, page, SourceTypeWeb)
}

// IndexFile ingests a local text file.
func (idx *Indexer) IndexFile(ctx context.Context, path string) (*IndexResult, error) {
	page, err := idx.loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return idx.ingest(ctx, page, SourceTypeFile)
}

func (idx *Indexer) ingest(ctx context.Context, page *Page, sourceType string) (*IndexResult, error) {
	start := time.Now()
	chunks := idx.chunker.Split(page.Text)

	res := &IndexResult{Source: page.Source, Title: page.Title}
	for i, chunk := range chunks {
		doc := knowledge.Document{
			ID:      chunkID(page.Source, i),
			Content: chunk,
			Metadata: map[string]string{
				"source":      page.Source,
				"source_type": sourceType,
				"title":       page.Title,
				"chunk":       strconv.Itoa(i),
				"indexed_at":  time.Now().UTC().Format(time.RFC3339),
			},
		}

		if err := idx.store.Add(ctx, doc); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			idx.logger.Warn("chunk not stored", "source", page.Source, "chunk", i, "error", err)
			res.ChunksFailed++
			continue
		}
		res.ChunksAdded++
		res.TotalRunes += len([]rune(chunk))
	}

	res.Duration = time.Since(start)
	idx.logger.Info("source indexed",
		"source", page.Source,
		"chunks_added", res.ChunksAdded,
		"chunks_failed", res.ChunksFailed)
	return res, nil
}
