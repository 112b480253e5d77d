package rag

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/adler0/ragent/internal/log"
)

// MaxPageBytes bounds how much of a fetched page is read. Pages beyond
// this are truncated, not rejected.
const MaxPageBytes = 4 << 20 // 4 MiB

// DefaultFetchTimeout applies when the Loader is built without a client.
const DefaultFetchTimeout = 30 * time.Second

// Page is the extracted text of one source.
type Page struct {
	Source string // URL or file path
	Title  string
	Text   string
}

// Loader fetches web pages and reads local files, reducing both to plain
// text suitable for chunking.
type Loader struct {
	client *http.Client
	logger log.Logger
}

// NewLoader creates a Loader. A nil client gets a default one with
// DefaultFetchTimeout.
func NewLoader(client *http.Client, logger log.Logger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Loader{client: client, logger: logger}
}

// LoadURL fetches rawURL and extracts its readable article text, stripping
// navigation, ads and boilerplate.
func (l *Loader) LoadURL(ctx context.Context, rawURL string) (*Page, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if pageURL.Scheme != "http" && pageURL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", pageURL.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %q: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %q: unexpected status %d", rawURL, resp.StatusCode)
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, MaxPageBytes), pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract article from %q: %w", rawURL, err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return nil, fmt.Errorf("no readable text in %q", rawURL)
	}

	l.logger.Debug("page loaded", "url", rawURL, "title", article.Title, "bytes", len(text))
	return &Page{Source: pageURL.String(), Title: article.Title, Text: text}, nil
}

// LoadFile reads a local text file. The title is the base file name.
func (l *Loader) LoadFile(path string) (*Page, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, fmt.Errorf("file %q is empty", path)
	}

	return &Page{Source: abs, Title: filepath.Base(abs), Text: text}, nil
}
