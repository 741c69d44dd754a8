package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

const _maxImageSize = 10 * 1024 * 1024 // 10 MB

// ArtFetcher reads artwork referenced by an MPRIS art URL.
// Players publish either remote http(s) URLs or local file:// URLs.
type ArtFetcher struct {
	logger *zap.Logger
	client *http.Client
}

// NewArtFetcher creates a fetcher for http, https and file URLs
func NewArtFetcher(logger *zap.Logger) *ArtFetcher {
	return &ArtFetcher{
		logger: logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Fetch returns the raw artwork bytes behind rawURL
func (f *ArtFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid artwork url: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return f.fetchHTTP(ctx, rawURL)
	case "file":
		return f.fetchFile(ctx, u.Path)
	case "":
		return f.fetchFile(ctx, rawURL)
	default:
		return nil, fmt.Errorf("unsupported artwork scheme: %s", u.Scheme)
	}
}

func (f *ArtFetcher) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "decksync/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "image/") {
		return nil, fmt.Errorf("url is not an image: %s", resp.Header.Get("Content-Type"))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, _maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	f.logger.Debug("Artwork fetched", zap.Int("bytes", len(data)), zap.String("url", rawURL))
	return data, nil
}

func (f *ArtFetcher) fetchFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artwork file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, _maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read artwork file: %w", err)
	}

	f.logger.Debug("Artwork read", zap.Int("bytes", len(data)), zap.String("path", path))
	return data, nil
}
