package device

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/genricoloni/decksync/internal/domain"
	"go.uber.org/zap"
	"rafaelmartins.com/p/streamdeck"
)

// StreamDeckOpener finds Stream Deck devices over USB HID
type StreamDeckOpener struct {
	logger *zap.Logger
}

// NewStreamDeckOpener creates an opener
func NewStreamDeckOpener(logger *zap.Logger) *StreamDeckOpener {
	return &StreamDeckOpener{logger: logger}
}

// Open opens the first connected device with a touch strip
func (o *StreamDeckOpener) Open(ctx context.Context) (domain.Deck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	devices, err := streamdeck.Enumerate()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	for _, dev := range devices {
		if !dev.GetTouchStripSupported() {
			o.logger.Debug("Skipping device without touch strip")
			continue
		}

		if err := dev.Open(); err != nil {
			o.logger.Warn("Failed to open device", zap.Error(err))
			continue
		}

		rect, err := dev.GetTouchStripImageRectangle()
		if err != nil {
			o.logger.Warn("Failed to read touch strip geometry", zap.Error(err))
			if cerr := dev.Close(); cerr != nil {
				o.logger.Debug("Failed to close device", zap.Error(cerr))
			}
			continue
		}

		o.logger.Info("Stream Deck opened",
			zap.Int("stripWidth", rect.Dx()),
			zap.Int("stripHeight", rect.Dy()))
		return newStreamDeck(o.logger, dev, rect), nil
	}

	return nil, domain.ErrNoDevice
}

// StreamDeck adapts an opened device to domain.Deck. The touch strip only
// accepts full images, so regions are composited into a persistent canvas.
type StreamDeck struct {
	logger *zap.Logger
	dev    *streamdeck.Device

	mu    sync.Mutex
	strip *image.NRGBA
}

func newStreamDeck(logger *zap.Logger, dev *streamdeck.Device, rect image.Rectangle) *StreamDeck {
	return &StreamDeck{
		logger: logger,
		dev:    dev,
		strip:  imaging.New(rect.Dx(), rect.Dy(), color.Black),
	}
}

// SetTextRegion draws img at region and pushes the whole strip
func (d *StreamDeck) SetTextRegion(img image.Image, region image.Rectangle) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.strip = pasteRegion(d.strip, img, region)
	if err := d.dev.SetTouchStripImage(d.strip); err != nil {
		return fmt.Errorf("failed to set touch strip image: %w", err)
	}
	return nil
}

// SetKeyIcon sets the image of the key at the zero-based index key
func (d *StreamDeck) SetKeyIcon(key int, img image.Image) error {
	if key < 0 || key >= domain.KeyCount {
		return fmt.Errorf("key index %d out of range", key)
	}
	if err := d.dev.SetKeyImage(streamdeck.KEY_1+streamdeck.KeyID(key), img); err != nil {
		return fmt.Errorf("failed to set key %d image: %w", key, err)
	}
	return nil
}

// Listen registers a press handler on every key and starts the device read
// loop. The returned channel receives the error that ended it.
func (d *StreamDeck) Listen(handler domain.KeyHandler) <-chan error {
	done := make(chan error, 1)

	for i := 0; i < domain.KeyCount; i++ {
		index := i
		err := d.dev.AddKeyHandler(streamdeck.KEY_1+streamdeck.KeyID(i), func(_ *streamdeck.Device, _ *streamdeck.Key) error {
			handler(domain.KeyEvent{Key: index, Pressed: true})
			return nil
		})
		if err != nil {
			done <- fmt.Errorf("failed to register key %d handler: %w", i, err)
			return done
		}
	}

	go func() {
		// handlers never fail, so no handler error channel is needed
		err := d.dev.Listen(nil)
		if err == nil {
			err = domain.ErrDeviceClosed
		}
		d.logger.Debug("Device read loop ended", zap.Error(err))
		done <- err
	}()

	return done
}

// Close releases the device
func (d *StreamDeck) Close() error {
	return d.dev.Close()
}

// pasteRegion draws img into region of strip, scaling it to the region size
// when they differ. Strip coordinates start at zero.
func pasteRegion(strip *image.NRGBA, img image.Image, region image.Rectangle) *image.NRGBA {
	region = region.Intersect(strip.Bounds())
	if region.Empty() {
		return strip
	}

	src := img
	if b := img.Bounds(); b.Dx() != region.Dx() || b.Dy() != region.Dy() {
		src = imaging.Resize(img, region.Dx(), region.Dy(), imaging.Lanczos)
	}
	return imaging.Paste(strip, src, region.Min)
}
