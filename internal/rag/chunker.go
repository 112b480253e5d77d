// Package rag implements knowledge ingestion: loading source material,
// splitting it into overlapping chunks, and writing the chunks to the
// knowledge store for later retrieval.
package rag

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Default chunking geometry. Sized for embedding models with a token limit
// around 2048: roughly 4 bytes per token leaves ample headroom.
const (
	DefaultChunkSize    = 2000
	DefaultChunkOverlap = 200
)

// Chunker splits text into fixed-size overlapping windows. Sizes are in
// runes so multi-byte text never splits mid-character.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a Chunker. Size and overlap of zero select the
// defaults; overlap must be smaller than size.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size == 0 && overlap == 0 {
		size = DefaultChunkSize
		overlap = DefaultChunkOverlap
	}

	if size <= 0 {
		return nil, errors.New("chunk size must be positive")
	}
	if overlap < 0 {
		return nil, errors.New("chunk overlap must not be negative")
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", overlap, size)
	}

	return &Chunker{size: size, overlap: overlap}, nil
}

// Split cuts text into chunks of the configured size, each sharing the
// configured overlap with its predecessor. Whitespace-only chunks are
// dropped. Empty input yields no chunks.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := c.size - c.overlap
	chunks := make([]string, 0, (len(runes)+step-1)/step)

	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(runes) {
			break
		}
	}
	return chunks
}

// chunkID derives a stable document ID from the source identifier and the
// chunk position. Re-ingesting the same source overwrites its previous
// chunks instead of accumulating duplicates.
func chunkID(source string, index int) string {
	hash := sha256.Sum256(fmt.Appendf(nil, "%s#%d", source, index))
	return "chunk_" + hex.EncodeToString(hash[:16])
}
