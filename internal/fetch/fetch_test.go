package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/langbridge/langbridge/internal/docext"
)

func newTestFetcher(maxDownload int64) *Fetcher {
	return New(Config{
		MaxDownloadSize: maxDownload,
		Extractor:       docext.New(0, nil),
	})
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"http://example.com", true},
		{"https://example.com/doc.pdf", true},
		{"ftp://example.com", false},
		{"just some text", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsURL(tt.input); got != tt.expected {
				t.Errorf("IsURL(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExtractTextHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Mozilla") {
			t.Errorf("missing browser user agent, got %q", ua)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><h1>Title</h1><script>bad()</script><p>Body</p></body></html>`))
	}))
	defer srv.Close()

	text, err := newTestFetcher(0).ExtractText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Title\nBody" {
		t.Errorf("got %q, want %q", text, "Title\nBody")
	}
}

func TestExtractTextPlain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("raw body text"))
	}))
	defer srv.Close()

	text, err := newTestFetcher(0).ExtractText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "raw body text" {
		t.Errorf("got %q", text)
	}
}

func TestExtractTextUnknownTypeFallsBackToText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("binary-ish but treated as text"))
	}))
	defer srv.Close()

	text, err := newTestFetcher(0).ExtractText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "binary-ish but treated as text" {
		t.Errorf("got %q", text)
	}
}

func TestExtractTextErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher(0).ExtractText(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("got %v", err)
	}
}

func TestExtractTextUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately, so the address refuses connections

	_, err := newTestFetcher(0).ExtractText(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}
}

func TestExtractTextDownloadCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write(make([]byte, 2048))
	}))
	defer srv.Close()

	_, err := newTestFetcher(1024).ExtractText(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for oversized response")
	}
	if !strings.Contains(err.Error(), "larger than") {
		t.Errorf("got %v", err)
	}
}
