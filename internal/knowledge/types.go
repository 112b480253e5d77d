package knowledge

import "time"

// Document is one indexed passage in the knowledge store.
type Document struct {
	ID        string            // Deterministic identifier (content hash + chunk position)
	Content   string            // Passage text
	Metadata  map[string]string // Source attributes (url, title, chunk index)
	CreatedAt time.Time
}

// Result is a single search hit with its similarity score.
type Result struct {
	Document   Document
	Similarity float32 // Cosine similarity in [0, 1]
}

// SearchOption configures a search using the functional options pattern.
type SearchOption func(*searchConfig)

type searchConfig struct {
	topK    int
	timeout time.Duration
}

// WithTopK sets the maximum number of results. Default is 4.
func WithTopK(k int) SearchOption {
	return func(c *searchConfig) {
		if k > 0 {
			c.topK = k
		}
	}
}

// WithTimeout overrides the per-search timeout. Default is 10 seconds.
func WithTimeout(d time.Duration) SearchOption {
	return func(c *searchConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func buildSearchConfig(opts []SearchOption) *searchConfig {
	cfg := &searchConfig{
		topK:    4,
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
