package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestArtFetcher_FetchHTTP(t *testing.T) {
	tests := []struct {
		name           string
		contentType    string
		responseBody   []byte
		statusCode     int
		ctxFunc        func() (context.Context, context.CancelFunc)
		expectedError  string
		expectedLength int
	}{
		{
			name:           "Success - Valid Image",
			contentType:    "image/jpeg",
			responseBody:   []byte("fake-image-data"),
			statusCode:     http.StatusOK,
			expectedLength: 15,
		},
		{
			name:          "Error - 404 Not Found",
			contentType:   "image/jpeg",
			statusCode:    http.StatusNotFound,
			expectedError: "unexpected status code: 404",
		},
		{
			name:          "Error - Invalid Content Type",
			contentType:   "text/plain",
			responseBody:  []byte("not-an-image"),
			statusCode:    http.StatusOK,
			expectedError: "url is not an image",
		},
		{
			name:           "Truncated - Response Too Large",
			contentType:    "image/png",
			responseBody:   []byte(strings.Repeat("a", 11*1024*1024)),
			statusCode:     http.StatusOK,
			expectedLength: _maxImageSize,
		},
		{
			name: "Error - Context Cancelled",
			ctxFunc: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx, cancel
			},
			expectedError: "context canceled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write(tt.responseBody)
			}))
			defer server.Close()

			var ctx context.Context
			var cancel context.CancelFunc
			if tt.ctxFunc != nil {
				ctx, cancel = tt.ctxFunc()
			} else {
				ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
			}
			defer cancel()

			data, err := NewArtFetcher(zap.NewNop()).Fetch(ctx, server.URL)

			if tt.expectedError != "" {
				if err == nil {
					t.Fatalf("expected error containing '%s', got nil", tt.expectedError)
				}
				if !strings.Contains(err.Error(), tt.expectedError) {
					t.Errorf("expected error '%s' to contain '%s'", err.Error(), tt.expectedError)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(data) != tt.expectedLength {
				t.Errorf("expected data length %d, got %d", tt.expectedLength, len(data))
			}
		})
	}
}

func TestArtFetcher_FetchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cover.jpg")
	if err := os.WriteFile(path, []byte("local-cover"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	f := NewArtFetcher(zap.NewNop())

	for _, ref := range []string{"file://" + path, path} {
		data, err := f.Fetch(context.Background(), ref)
		if err != nil {
			t.Fatalf("Fetch(%s): unexpected error: %v", ref, err)
		}
		if string(data) != "local-cover" {
			t.Errorf("Fetch(%s): got %q", ref, data)
		}
	}
}

func TestArtFetcher_Errors(t *testing.T) {
	f := NewArtFetcher(zap.NewNop())

	tests := []struct {
		name          string
		url           string
		expectedError string
	}{
		{"Missing file", "file:///nonexistent/decksync/cover.png", "failed to open artwork file"},
		{"Unsupported scheme", "ftp://example.com/cover.png", "unsupported artwork scheme"},
		{"Malformed URL", "http://[::1", "invalid artwork url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), tt.url)
			if err == nil {
				t.Fatalf("expected error containing '%s', got nil", tt.expectedError)
			}
			if !strings.Contains(err.Error(), tt.expectedError) {
				t.Errorf("expected error '%s' to contain '%s'", err.Error(), tt.expectedError)
			}
		})
	}
}
