// Package fetch retrieves remote URLs and converts their bodies to plain text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/langbridge/langbridge/internal/docext"
)

// Browser-like identity; some origins refuse requests without one.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Fetcher downloads URLs and extracts text by response content type.
type Fetcher struct {
	// MaxDownloadSize caps response bodies at this many bytes. Zero means no cap.
	MaxDownloadSize int64

	client    *http.Client
	extractor *docext.Extractor
	logger    *slog.Logger
}

// Config configures a Fetcher.
type Config struct {
	Timeout         time.Duration // default 30s
	MaxDownloadSize int64
	Extractor       *docext.Extractor // for PDF bodies; required
	Logger          *slog.Logger
	HTTPClient      *http.Client // optional (tests)
}

// New creates a Fetcher.
func New(cfg Config) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Fetcher{
		MaxDownloadSize: cfg.MaxDownloadSize,
		client:          client,
		extractor:       cfg.Extractor,
		logger:          cfg.Logger,
	}
}

// IsURL reports whether s should be treated as a remote reference.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ExtractText downloads url and returns its plain-text content.
func (f *Fetcher) ExtractText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body := resp.Body
	if f.MaxDownloadSize > 0 {
		body = readCapped(resp.Body, f.MaxDownloadSize)
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	f.logger.Debug("fetched url", "url", url, "status", resp.StatusCode, "content_type", contentType)

	switch {
	case strings.Contains(contentType, "text/html"):
		return docext.ExtractHTML(body)
	case strings.HasPrefix(contentType, "text/"):
		return readAllText(body)
	case strings.Contains(contentType, "application/pdf"):
		return f.extractPDFBody(body)
	default:
		return readAllText(body)
	}
}

// extractPDFBody spools a PDF response to a temp file and runs the PDF
// handler over it. The temp file is removed before returning.
func (f *Fetcher) extractPDFBody(body io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "langbridge-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to spool PDF: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to spool PDF: %w", err)
	}

	return f.extractor.ExtractFile(tmp.Name())
}

func readAllText(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return strings.ToValidUTF8(string(data), ""), nil
}

// readCapped wraps r so reading past limit bytes fails instead of truncating
// silently.
func readCapped(r io.Reader, limit int64) io.ReadCloser {
	return &cappedReader{r: io.LimitReader(r, limit+1), limit: limit}
}

type cappedReader struct {
	r     io.Reader
	limit int64
	read  int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	if c.read > c.limit {
		return n, fmt.Errorf("response larger than %d bytes", c.limit)
	}
	return n, err
}

func (c *cappedReader) Close() error { return nil }
