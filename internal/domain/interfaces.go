package domain

import (
	"context"
	"image"
	"time"
)

//go:generate mockgen -destination=mocks/domain_mock.go -package=mocks github.com/genricoloni/decksync/internal/domain MediaProvider,Deck,DeckOpener,FavoritesStore

// MediaProvider returns the currently playing media.
// Fetch never fails: provider errors are folded into a degraded snapshot.
type MediaProvider interface {
	Fetch(ctx context.Context) MediaSnapshot
}

// Monitor is a MediaProvider with a lifecycle (D-Bus connection, signal handling)
type Monitor interface {
	MediaProvider

	// Start connects to the media source. It must not block until shutdown.
	Start(ctx context.Context) error

	// Stop releases the media source connection
	Stop(ctx context.Context) error
}

// Fetcher retrieves album artwork
type Fetcher interface {
	// Fetch downloads or reads image data from a URL or local path
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Renderer turns snapshots into images for the device regions.
// Implementations must be deterministic and side-effect free.
type Renderer interface {
	// RenderBanner composes title, artist and album for the text region
	RenderBanner(s MediaSnapshot) image.Image

	// RenderArtwork returns the key icon for the snapshot's artwork,
	// or the placeholder when there is none or it cannot be decoded
	RenderArtwork(s MediaSnapshot) image.Image

	// Placeholder returns the blank key icon
	Placeholder() image.Image
}

// KeyHandler receives button transitions from the device
type KeyHandler func(ev KeyEvent)

// Deck is an opened display device
type Deck interface {
	// SetTextRegion draws img into region of the touch strip
	SetTextRegion(img image.Image, region image.Rectangle) error

	// SetKeyIcon sets the image of the key at index key
	SetKeyIcon(key int, img image.Image) error

	// Listen starts delivering key events to handler. The returned channel
	// receives the error that ended the device transport.
	Listen(handler KeyHandler) <-chan error

	// Close releases the device
	Close() error
}

// DeckOpener finds and opens a compatible device
type DeckOpener interface {
	// Open returns ErrNoDevice when no compatible device is connected
	Open(ctx context.Context) (Deck, error)
}

// FavoritesStore persists favorite tracks
type FavoritesStore interface {
	// Record appends f unless it equals the last recorded entry.
	// It reports whether a record was written.
	Record(f Favorite) (bool, error)
}

// Config defines the interface for application configuration
type Config interface {
	// GetPollInterval returns the delay between two ticks
	GetPollInterval() time.Duration

	// GetRetryInterval returns the delay between two device enumerations
	GetRetryInterval() time.Duration

	// GetProviderTimeout bounds a single media provider query
	GetProviderTimeout() time.Duration

	// GetRefreshKey returns the key index that forces a refresh
	GetRefreshKey() int

	// GetFavoriteKey returns the key index that records a favorite.
	// The artwork is shown on the same key.
	GetFavoriteKey() int

	// GetMaxPushFailures returns how many consecutive failing ticks end a device session
	GetMaxPushFailures() int

	// GetFavoritesPath returns the favorites log location
	GetFavoritesPath() string

	// GetFontPath returns a TTF path, empty for the embedded font
	GetFontPath() string

	// GetFontSize returns the banner font size in points
	GetFontSize() float64

	// GetMetricsAddr returns the listen address of the metrics endpoint, empty when disabled
	GetMetricsAddr() string
}
