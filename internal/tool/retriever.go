package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/adler0/ragent/internal/knowledge"
	"github.com/adler0/ragent/internal/log"
)

// RetrieverName is the tool name advertised to the model for knowledge
// retrieval.
const RetrieverName = "retrieve_context"

// Searcher is the slice of the knowledge store the retriever needs.
type Searcher interface {
	Search(ctx context.Context, query string, opts ...knowledge.SearchOption) ([]knowledge.Result, error)
}

// Retriever exposes vector search as an invokable tool. Its output is
// already text by the time it reaches the conversation log: ranked passages
// separated by blank lines.
type Retriever struct {
	store  Searcher
	topK   int
	logger log.Logger
}

// NewRetriever creates the retrieval tool. topK <= 0 uses the store's
// default result count.
func NewRetriever(store Searcher, topK int, logger log.Logger) (*Retriever, error) {
	if store == nil {
		return nil, errors.New("knowledge store is required")
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Retriever{store: store, topK: topK, logger: logger}, nil
}

// Name implements Tool.
func (r *Retriever) Name() string { return RetrieverName }

// Description implements Tool.
func (r *Retriever) Description() string {
	return "Search the indexed knowledge base and return the passages most relevant to the query."
}

// InputSchema implements Tool.
func (r *Retriever) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The search query to look up in the knowledge base.",
			},
		},
		"required": []string{"query"},
	}
}

// Invoke implements Tool. The query argument is required and must be a
// non-empty string.
func (r *Retriever) Invoke(ctx context.Context, args map[string]any) (string, error) {
	raw, ok := args["query"]
	if !ok {
		return "", errors.New(`missing required argument "query"`)
	}
	query, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf(`argument "query" must be a string, got %T`, raw)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.New(`argument "query" must not be empty`)
	}

	var opts []knowledge.SearchOption
	if r.topK > 0 {
		opts = append(opts, knowledge.WithTopK(r.topK))
	}

	results, err := r.store.Search(ctx, query, opts...)
	if err != nil {
		return "", fmt.Errorf("searching knowledge base: %w", err)
	}

	r.logger.Debug("retrieval complete", "query_length", len(query), "passages", len(results))

	if len(results) == 0 {
		return "No relevant passages found.", nil
	}
	return FormatPassages(results), nil
}

// FormatPassages renders search results as plain text, best match first,
// passages separated by a blank line.
func FormatPassages(results []knowledge.Result) string {
	var sb strings.Builder
	for i, res := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(res.Document.Content)
	}
	return sb.String()
}
