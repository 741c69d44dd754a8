package processor

import (
	"image"
	"strings"
	"unicode"

	"github.com/fogleman/gg"
	"github.com/genricoloni/decksync/internal/domain"
)

// TitleWrapWidth is the character budget of one title line
const TitleWrapWidth = 65

// RenderBanner draws title, artist and album as white centered lines on a
// black 600x100 canvas. The same snapshot always yields the same pixels.
func (r *Renderer) RenderBanner(s domain.MediaSnapshot) image.Image {
	dc := gg.NewContext(bannerWidth, bannerHeight)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	dc.SetFontFace(r.face)
	dc.SetRGB(1, 1, 1)

	lineHeight := dc.FontHeight() * lineSpacing
	x := float64(bannerWidth) * bannerCenter
	for i, line := range BannerLines(s) {
		y := float64(bannerTop) + float64(i)*lineHeight
		dc.DrawStringAnchored(line, x, y, 0.5, 1)
	}

	return dc.Image()
}

// BannerLines returns the text lines of the banner, top to bottom
func BannerLines(s domain.MediaSnapshot) []string {
	var lines []string
	if title := WrapTitle(SanitizeText(s.Title), TitleWrapWidth); title != "" {
		lines = append(lines, strings.Split(title, "\n")...)
	}
	if artist := SanitizeText(s.Artist); artist != "" {
		lines = append(lines, artist)
	}
	if album := SanitizeText(s.Album); album != "" {
		lines = append(lines, album)
	}
	return lines
}

// SanitizeText keeps printable ASCII only and trims surrounding whitespace
func SanitizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		if c < unicode.MaxASCII && unicode.IsPrint(c) {
			b.WriteRune(c)
		}
	}
	return strings.TrimSpace(b.String())
}

// WrapTitle inserts at most one line break so the first line fits in width
// characters. It breaks at the last space within the budget, or hard-wraps
// at the budget when the first line has no space. s must be ASCII.
func WrapTitle(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}

	if i := strings.LastIndexByte(s[:width+1], ' '); i > 0 {
		return s[:i] + "\n" + strings.TrimLeft(s[i+1:], " ")
	}
	return s[:width] + "\n" + s[width:]
}
