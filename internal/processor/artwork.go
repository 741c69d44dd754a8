package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // GIF format support
	_ "image/jpeg" // JPEG format support
	_ "image/png"  // PNG format support

	"github.com/disintegration/imaging"
	"github.com/genricoloni/decksync/internal/domain"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // WebP format support
)

// RenderArtwork returns the artwork resized to the key icon, or the
// placeholder when there is no artwork or it cannot be decoded.
func (r *Renderer) RenderArtwork(s domain.MediaSnapshot) image.Image {
	if s.Artwork.Kind != domain.ArtworkBytes {
		return r.placeholder
	}

	icon, err := r.decodeIcon(s.Artwork.Data)
	if err != nil {
		r.logger.Warn("Artwork decode failed, using placeholder",
			zap.String("title", s.Title),
			zap.Int("bytes", len(s.Artwork.Data)),
			zap.Error(err))
		return r.placeholder
	}
	return icon
}

// decodeIcon decodes raw artwork and fits it to the icon square on black
func (r *Renderer) decodeIcon(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &domain.DecodeError{Err: err}
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, &domain.DecodeError{Err: fmt.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())}
	}

	resized := imaging.Resize(img, r.iconSize, r.iconSize, imaging.Lanczos)
	background := imaging.New(r.iconSize, r.iconSize, color.Black)
	return imaging.Overlay(background, resized, image.Pt(0, 0), 1.0), nil
}
