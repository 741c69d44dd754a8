package processor

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/genricoloni/decksync/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

const (
	bannerWidth  = 600
	bannerHeight = 100
	bannerTop    = 4    // top of the first text line
	bannerCenter = 0.5  // horizontal anchor as a fraction of the width
	lineSpacing  = 1.15 // multiple of the font height
)

// Renderer draws the banner and artwork images pushed to the device
type Renderer struct {
	logger      *zap.Logger
	face        font.Face
	iconSize    int
	placeholder *image.NRGBA
}

// NewRenderer loads the banner font. An empty font path selects the embedded Go Bold face.
func NewRenderer(logger *zap.Logger, cfg domain.Config) (*Renderer, error) {
	face, err := loadFace(cfg.GetFontPath(), cfg.GetFontSize())
	if err != nil {
		return nil, err
	}

	logger.Info("Renderer ready",
		zap.String("font", fontName(cfg.GetFontPath())),
		zap.Float64("size", cfg.GetFontSize()),
		zap.Int("iconSize", domain.IconSize))

	return &Renderer{
		logger:      logger,
		face:        face,
		iconSize:    domain.IconSize,
		placeholder: imaging.New(domain.IconSize, domain.IconSize, color.Black),
	}, nil
}

func loadFace(path string, size float64) (font.Face, error) {
	if path != "" {
		face, err := gg.LoadFontFace(path, size)
		if err != nil {
			return nil, fmt.Errorf("failed to load font %s: %w", path, err)
		}
		return face, nil
	}

	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

func fontName(path string) string {
	if path == "" {
		return "embedded:gobold"
	}
	return path
}

// Placeholder returns the blank key icon. Callers must not modify it.
func (r *Renderer) Placeholder() image.Image {
	return r.placeholder
}
