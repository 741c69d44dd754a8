package processor

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/genricoloni/decksync/internal/domain"
	"go.uber.org/zap"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Plain Title", "Plain Title"},
		{"  padded  ", "padded"},
		{"Café del Mar", "Caf del Mar"},
		{"東京 Tokyo", "Tokyo"},
		{"tab\tand\nnewline", "tabandnewline"},
		{"  nbsp  ", "nbsp"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeText(tt.input); got != tt.expected {
			t.Errorf("SanitizeText(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestWrapTitle(t *testing.T) {
	long := strings.Repeat("a", 70)
	spaced := strings.TrimSpace(strings.Repeat("word ", 15)) // 74 chars

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Short title untouched",
			input:    "Short",
			expected: []string{"Short"},
		},
		{
			name:     "Exactly at budget",
			input:    strings.Repeat("b", TitleWrapWidth),
			expected: []string{strings.Repeat("b", TitleWrapWidth)},
		},
		{
			name:     "No natural break hard-wraps at budget",
			input:    long,
			expected: []string{long[:TitleWrapWidth], long[TitleWrapWidth:]},
		},
		{
			name:     "Natural break before budget",
			input:    spaced,
			expected: []string{strings.TrimSpace(strings.Repeat("word ", 13)), "word word"},
		},
		{
			name:     "Very long title still gets one break",
			input:    strings.Repeat("c", 200),
			expected: []string{strings.Repeat("c", 65), strings.Repeat("c", 135)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Split(WrapTitle(tt.input, TitleWrapWidth), "\n")
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d lines, got %d: %q", len(tt.expected), len(got), got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("line %d: expected %q, got %q", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestBannerLines(t *testing.T) {
	tests := []struct {
		name     string
		snapshot domain.MediaSnapshot
		expected []string
	}{
		{
			name:     "Title only",
			snapshot: domain.MediaSnapshot{Title: "Song"},
			expected: []string{"Song"},
		},
		{
			name:     "Full metadata",
			snapshot: domain.MediaSnapshot{Title: " Song ", Artist: "Artist", Album: "Album"},
			expected: []string{"Song", "Artist", "Album"},
		},
		{
			name:     "Missing artist keeps album",
			snapshot: domain.MediaSnapshot{Title: "Song", Album: "Album"},
			expected: []string{"Song", "Album"},
		},
		{
			name:     "Long title wraps before artist",
			snapshot: domain.MediaSnapshot{Title: strings.Repeat("x", 66), Artist: "A"},
			expected: []string{strings.Repeat("x", 65), "x", "A"},
		},
		{
			name:     "Nothing playing",
			snapshot: domain.UnavailableSnapshot(),
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BannerLines(tt.snapshot)
			if strings.Join(got, "|") != strings.Join(tt.expected, "|") {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestRenderer_RenderBanner(t *testing.T) {
	r := newTestRenderer(t)
	snapshot := domain.MediaSnapshot{Title: "Bohemian Rhapsody", Artist: "Queen", Album: "A Night at the Opera"}

	first := r.RenderBanner(snapshot)
	bounds := first.Bounds()
	if bounds.Dx() != 600 || bounds.Dy() != 100 {
		t.Fatalf("expected 600x100, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	if !hasLitPixel(first) {
		t.Error("expected text pixels on the banner")
	}

	second := r.RenderBanner(snapshot)
	if !bytes.Equal(rgba(t, first).Pix, rgba(t, second).Pix) {
		t.Error("rendering the same snapshot twice produced different pixels")
	}

	other := r.RenderBanner(domain.MediaSnapshot{Title: "Another One Bites the Dust", Artist: "Queen"})
	if bytes.Equal(rgba(t, first).Pix, rgba(t, other).Pix) {
		t.Error("different snapshots produced identical banners")
	}
}

func TestRenderer_RenderBanner_Empty(t *testing.T) {
	r := newTestRenderer(t)

	img := r.RenderBanner(domain.UnavailableSnapshot())
	if hasLitPixel(img) {
		t.Error("expected a blank banner when nothing is playing")
	}
}

func TestRenderer_RenderArtwork(t *testing.T) {
	r := newTestRenderer(t)

	tests := []struct {
		name            string
		artwork         domain.Artwork
		wantPlaceholder bool
		wantColor       *color.NRGBA
	}{
		{
			name:      "Success - JPEG",
			artwork:   domain.ArtworkFromBytes(createTestJPEG(300, 300, color.RGBA{R: 255, A: 255})),
			wantColor: &color.NRGBA{R: 255, A: 255},
		},
		{
			name:      "Success - Non-square PNG is stretched",
			artwork:   domain.ArtworkFromBytes(createTestPNG(40, 10, color.RGBA{G: 255, A: 255})),
			wantColor: &color.NRGBA{G: 255, A: 255},
		},
		{
			name:      "Transparent PNG flattened on black",
			artwork:   domain.ArtworkFromBytes(createTestPNG(10, 10, color.RGBA{})),
			wantColor: &color.NRGBA{A: 255},
		},
		{
			name:            "Corrupted bytes fall back",
			artwork:         domain.ArtworkFromBytes([]byte{0xFF, 0xD8, 0xFF, 0x00, 0x00}),
			wantPlaceholder: true,
		},
		{
			name:            "No artwork",
			artwork:         domain.Artwork{Kind: domain.NoArtwork},
			wantPlaceholder: true,
		},
		{
			name:            "Provider unavailable",
			artwork:         domain.Artwork{Kind: domain.ArtworkUnavailable},
			wantPlaceholder: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := r.RenderArtwork(domain.MediaSnapshot{Title: "t", Artwork: tt.artwork})

			bounds := img.Bounds()
			if bounds.Dx() != 120 || bounds.Dy() != 120 {
				t.Fatalf("expected 120x120, got %dx%d", bounds.Dx(), bounds.Dy())
			}

			if tt.wantPlaceholder {
				if img != r.Placeholder() {
					t.Error("expected the placeholder image")
				}
				return
			}

			if img == r.Placeholder() {
				t.Fatal("did not expect the placeholder image")
			}
			if tt.wantColor != nil {
				got := color.NRGBAModel.Convert(img.At(60, 60)).(color.NRGBA)
				if !closeColor(got, *tt.wantColor) {
					t.Errorf("center pixel: expected %v, got %v", *tt.wantColor, got)
				}
			}
		})
	}
}

func TestNewRenderer_BadFontPath(t *testing.T) {
	_, err := NewRenderer(zap.NewNop(), &mockConfig{fontPath: "/nonexistent/font.ttf"})
	if err == nil {
		t.Fatal("expected error for missing font file")
	}
	if !strings.Contains(err.Error(), "failed to load font") {
		t.Errorf("unexpected error: %v", err)
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(zap.NewNop(), &mockConfig{})
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	return r
}

func rgba(t *testing.T, img image.Image) *image.RGBA {
	t.Helper()
	out, ok := img.(*image.RGBA)
	if !ok {
		t.Fatalf("expected *image.RGBA, got %T", img)
	}
	return out
}

func hasLitPixel(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r > 0 || g > 0 || bl > 0 {
				return true
			}
		}
	}
	return false
}

func closeColor(a, b color.NRGBA) bool {
	diff := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return diff(a.R, b.R) < 8 && diff(a.G, b.G) < 8 && diff(a.B, b.B) < 8 && diff(a.A, b.A) < 8
}

// createTestJPEG generates a solid JPEG image for testing
func createTestJPEG(width, height int, col color.Color) []byte {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, solid(width, height, col), &jpeg.Options{Quality: 90}); err != nil {
		panic("failed to create test JPEG: " + err.Error())
	}
	return buf.Bytes()
}

// createTestPNG generates a solid PNG image for testing
func createTestPNG(width, height int, col color.Color) []byte {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, solid(width, height, col)); err != nil {
		panic("failed to create test PNG: " + err.Error())
	}
	return buf.Bytes()
}

func solid(width, height int, col color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, col)
		}
	}
	return img
}

// mockConfig is a simple implementation of domain.Config for testing
type mockConfig struct {
	fontPath string
	fontSize float64
}

func (m *mockConfig) GetPollInterval() time.Duration    { return 500 * time.Millisecond }
func (m *mockConfig) GetRetryInterval() time.Duration   { return time.Second }
func (m *mockConfig) GetProviderTimeout() time.Duration { return time.Second }
func (m *mockConfig) GetRefreshKey() int                { return 5 }
func (m *mockConfig) GetFavoriteKey() int               { return 6 }
func (m *mockConfig) GetMaxPushFailures() int           { return 3 }
func (m *mockConfig) GetFavoritesPath() string          { return "" }
func (m *mockConfig) GetFontPath() string               { return m.fontPath }
func (m *mockConfig) GetMetricsAddr() string            { return "" }

func (m *mockConfig) GetFontSize() float64 {
	if m.fontSize == 0 {
		return 18
	}
	return m.fontSize
}
