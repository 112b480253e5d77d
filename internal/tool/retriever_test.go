package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adler0/ragent/internal/knowledge"
	"github.com/adler0/ragent/internal/log"
)

type fakeSearcher struct {
	results []knowledge.Result
	err     error

	gotQuery string
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ ...knowledge.SearchOption) ([]knowledge.Result, error) {
	f.gotQuery = query
	return f.results, f.err
}

func newTestRetriever(t *testing.T, store Searcher) *Retriever {
	t.Helper()
	r, err := NewRetriever(store, 4, log.NewNop())
	require.NoError(t, err)
	return r
}

func TestNewRetriever_RequiresStore(t *testing.T) {
	t.Parallel()

	_, err := NewRetriever(nil, 4, log.NewNop())
	assert.Error(t, err)
}

func TestRetriever_Invoke(t *testing.T) {
	t.Parallel()

	store := &fakeSearcher{results: []knowledge.Result{
		{Document: knowledge.Document{Content: "first passage"}, Similarity: 0.9},
		{Document: knowledge.Document{Content: "second passage"}, Similarity: 0.7},
	}}
	r := newTestRetriever(t, store)

	out, err := r.Invoke(context.Background(), map[string]any{"query": "reward hacking"})
	require.NoError(t, err)
	assert.Equal(t, "first passage\n\nsecond passage", out)
	assert.Equal(t, "reward hacking", store.gotQuery)
}

func TestRetriever_Invoke_ArgumentValidation(t *testing.T) {
	t.Parallel()

	r := newTestRetriever(t, &fakeSearcher{})

	tests := []struct {
		name string
		args map[string]any
	}{
		{name: "missing query", args: map[string]any{}},
		{name: "non-string query", args: map[string]any{"query": 42}},
		{name: "empty query", args: map[string]any{"query": "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := r.Invoke(context.Background(), tt.args)
			assert.Error(t, err)
		})
	}
}

func TestRetriever_Invoke_NoResults(t *testing.T) {
	t.Parallel()

	r := newTestRetriever(t, &fakeSearcher{})

	out, err := r.Invoke(context.Background(), map[string]any{"query": "anything"})
	require.NoError(t, err)
	assert.Equal(t, "No relevant passages found.", out)
}

func TestRetriever_Invoke_SearchError(t *testing.T) {
	t.Parallel()

	r := newTestRetriever(t, &fakeSearcher{err: errors.New("connection refused")})

	_, err := r.Invoke(context.Background(), map[string]any{"query": "anything"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRetriever_SchemaRequiresQuery(t *testing.T) {
	t.Parallel()

	r := newTestRetriever(t, &fakeSearcher{})
	schema := r.InputSchema()
	assert.Equal(t, []string{"query"}, schema["required"])
}
