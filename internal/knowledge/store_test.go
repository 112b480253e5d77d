package knowledge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ai.EmbedResponse{
		Embeddings: []*ai.Embedding{{Embedding: f.vec}},
	}, nil
}

type fakeDB struct {
	execErr  error
	queryErr error

	execSQL  string
	execArgs []any
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = sql
	f.execArgs = args
	return pgconn.CommandTag{}, f.execErr
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, f.queryErr
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func TestStoreAdd(t *testing.T) {
	t.Parallel()

	db := &fakeDB{}
	store := New(db, &fakeEmbedder{vec: []float32{0.1, 0.2}}, nil)

	doc := Document{
		ID:       "chunk_abc",
		Content:  "some indexed passage",
		Metadata: map[string]string{"source": "test"},
	}
	require.NoError(t, store.Add(context.Background(), doc))

	assert.Contains(t, db.execSQL, "INSERT INTO documents")
	assert.Contains(t, db.execSQL, "ON CONFLICT (id) DO UPDATE")
	require.Len(t, db.execArgs, 5)
	assert.Equal(t, "chunk_abc", db.execArgs[0])

	// Zero CreatedAt is replaced with the current time.
	created, ok := db.execArgs[4].(time.Time)
	require.True(t, ok)
	assert.False(t, created.IsZero())
}

func TestStoreAddEmbeddingFails(t *testing.T) {
	t.Parallel()

	boom := errors.New("quota exceeded")
	store := New(&fakeDB{}, &fakeEmbedder{err: boom}, nil)

	err := store.Add(context.Background(), Document{ID: "x", Content: "y"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestStoreAddEmptyEmbedding(t *testing.T) {
	t.Parallel()

	store := New(&fakeDB{}, &fakeEmbedder{vec: nil}, nil)

	err := store.Add(context.Background(), Document{ID: "x", Content: "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no vector")
}

func TestStoreAddExecFails(t *testing.T) {
	t.Parallel()

	db := &fakeDB{execErr: errors.New("connection reset")}
	store := New(db, &fakeEmbedder{vec: []float32{0.5}}, nil)

	err := store.Add(context.Background(), Document{ID: "x", Content: "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upserting document")
}

func TestStoreSearchQueryFails(t *testing.T) {
	t.Parallel()

	db := &fakeDB{queryErr: errors.New("relation missing")}
	store := New(db, &fakeEmbedder{vec: []float32{0.5}}, nil)

	_, err := store.Search(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "searching documents")
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()

	db := &fakeDB{}
	store := New(db, &fakeEmbedder{vec: []float32{0.5}}, nil)

	require.NoError(t, store.Delete(context.Background(), "chunk_abc"))
	assert.Contains(t, db.execSQL, "DELETE FROM documents")
}
