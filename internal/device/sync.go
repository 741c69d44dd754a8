// Package device pushes rendered images to the Stream Deck and translates
// its key presses into loop actions.
package device

import (
	"errors"
	"image"
	"sync"

	"github.com/genricoloni/decksync/internal/domain"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Sync serializes pushes to one opened deck. Each push holds the mutex for
// its whole duration so Close waits for an in-flight push.
type Sync struct {
	logger     *zap.Logger
	deck       domain.Deck
	artworkKey int

	mu     sync.Mutex
	closed bool
}

// NewSync wraps deck. The artwork is shown on artworkKey.
func NewSync(logger *zap.Logger, deck domain.Deck, artworkKey int) *Sync {
	return &Sync{
		logger:     logger,
		deck:       deck,
		artworkKey: artworkKey,
	}
}

// PushText draws the banner into the text region of the touch strip
func (s *Sync) PushText(img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrDeviceClosed
	}
	if err := s.deck.SetTextRegion(img, domain.TextRegion); err != nil {
		return &domain.DeviceError{Region: domain.RegionText, Err: err}
	}
	return nil
}

// PushArtwork sets the artwork key icon
func (s *Sync) PushArtwork(img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrDeviceClosed
	}
	if err := s.deck.SetKeyIcon(s.artworkKey, img); err != nil {
		return &domain.DeviceError{Region: domain.RegionArtwork, Err: err}
	}
	return nil
}

// PushArtworkWithFallback pushes img and, if that fails, retries once with
// placeholder. pushed reports whether img itself landed. A nil error with
// pushed false means the placeholder is showing. When both attempts fail
// the returned error combines both causes.
func (s *Sync) PushArtworkWithFallback(img, placeholder image.Image) (pushed bool, err error) {
	primary := s.PushArtwork(img)
	if primary == nil {
		return true, nil
	}
	if errors.Is(primary, domain.ErrDeviceClosed) {
		return false, primary
	}

	s.logger.Warn("Artwork push failed, retrying with placeholder", zap.Error(primary))

	if fallback := s.PushArtwork(placeholder); fallback != nil {
		return false, multierr.Combine(primary, fallback)
	}
	return false, nil
}

// Close stops further pushes and releases the deck. It waits for an
// in-flight push and is safe to call more than once.
func (s *Sync) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.deck.Close()
}
