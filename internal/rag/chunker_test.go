package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChunker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{name: "defaults", size: 0, overlap: 0},
		{name: "explicit", size: 100, overlap: 20},
		{name: "no overlap", size: 100, overlap: 0},
		{name: "negative size", size: -1, overlap: 0, wantErr: true},
		{name: "negative overlap", size: 100, overlap: -1, wantErr: true},
		{name: "overlap equals size", size: 100, overlap: 100, wantErr: true},
		{name: "overlap exceeds size", size: 100, overlap: 150, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewChunker(tt.size, tt.overlap)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, c)
		})
	}
}

func TestChunkerDefaults(t *testing.T) {
	t.Parallel()

	c, err := NewChunker(0, 0)
	require.NoError(t, err)

	assert.Equal(t, DefaultChunkSize, c.size)
	assert.Equal(t, DefaultChunkOverlap, c.overlap)
}

func TestChunkerSplit(t *testing.T) {
	t.Parallel()

	c, err := NewChunker(10, 4)
	require.NoError(t, err)

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, c.Split(""))
	})

	t.Run("short input is a single chunk", func(t *testing.T) {
		t.Parallel()
		chunks := c.Split("hello")
		require.Len(t, chunks, 1)
		assert.Equal(t, "hello", chunks[0])
	})

	t.Run("input exactly one window", func(t *testing.T) {
		t.Parallel()
		chunks := c.Split("0123456789")
		require.Len(t, chunks, 1)
		assert.Equal(t, "0123456789", chunks[0])
	})

	t.Run("adjacent chunks share the overlap", func(t *testing.T) {
		t.Parallel()

		chunks := c.Split("abcdefghijklmnop")
		require.Len(t, chunks, 2)
		assert.Equal(t, "abcdefghij", chunks[0])
		assert.Equal(t, "ghijklmnop", chunks[1])
	})

	t.Run("multi-byte runes never split", func(t *testing.T) {
		t.Parallel()

		text := strings.Repeat("日本語テキスト分割", 5)
		for _, chunk := range c.Split(text) {
			assert.True(t, strings.Contains(text, chunk))
		}
	})

	t.Run("whitespace chunks are dropped", func(t *testing.T) {
		t.Parallel()

		small, err := NewChunker(4, 0)
		require.NoError(t, err)

		chunks := small.Split("abcd        efgh")
		assert.Equal(t, []string{"abcd", "efgh"}, chunks)
	})
}

func TestChunkerSplitCoversWholeInput(t *testing.T) {
	t.Parallel()

	c, err := NewChunker(50, 10)
	require.NoError(t, err)

	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 20)
	chunks := c.Split(text)
	require.NotEmpty(t, chunks)

	// The last chunk ends where the input ends.
	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(strings.TrimSpace(text), last))
}

func TestChunkIDStability(t *testing.T) {
	t.Parallel()

	a := chunkID("https://example.com/post", 0)
	b := chunkID("https://example.com/post", 0)
	c := chunkID("https://example.com/post", 1)
	d := chunkID("https://example.com/other", 0)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.True(t, strings.HasPrefix(a, "chunk_"))
}
