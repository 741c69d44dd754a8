package domain

import "image"

// ArtworkKind tags the state of a snapshot's artwork
type ArtworkKind int

const (
	// ArtworkUnavailable means the provider could not be queried or the art fetch failed
	ArtworkUnavailable ArtworkKind = iota
	// NoArtwork means a session exists but exposes no artwork
	NoArtwork
	// ArtworkBytes means raw image data is present
	ArtworkBytes
)

func (k ArtworkKind) String() string {
	switch k {
	case NoArtwork:
		return "none"
	case ArtworkBytes:
		return "bytes"
	default:
		return "unavailable"
	}
}

// Artwork is a tagged variant: Data is only meaningful when Kind is ArtworkBytes
type Artwork struct {
	Kind ArtworkKind
	Data []byte
}

// ArtworkFromBytes copies data into a new Artwork. Empty data is NoArtwork.
func ArtworkFromBytes(data []byte) Artwork {
	if len(data) == 0 {
		return Artwork{Kind: NoArtwork}
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return Artwork{Kind: ArtworkBytes, Data: buf}
}

// MediaSnapshot is one point-in-time read of the currently playing media
type MediaSnapshot struct {
	// Title of the current track, empty when nothing is playing
	Title string
	// Artist name, empty when absent
	Artist string
	// Album name, empty when absent
	Album string
	// Genres in provider order
	Genres []string
	// Artwork state and raw bytes
	Artwork Artwork
}

// Playing reports whether the snapshot describes an active session
func (s MediaSnapshot) Playing() bool {
	return s.Title != ""
}

// Favorite returns the triple recorded by the favorites log
func (s MediaSnapshot) Favorite() Favorite {
	return Favorite{Title: s.Title, Artist: s.Artist, Album: s.Album}
}

// UnavailableSnapshot is the degraded snapshot returned when the provider fails
func UnavailableSnapshot() MediaSnapshot {
	return MediaSnapshot{Artwork: Artwork{Kind: ArtworkUnavailable}}
}

// Fingerprint identifies artwork content. Sentinel kinds never collide with
// real hashes because Kind is part of the value.
type Fingerprint struct {
	Kind ArtworkKind
	Sum  uint64
}

// SyncState is what the device currently shows, as far as the loop knows.
// It is owned by a single device session.
type SyncState struct {
	LastRenderedTitle      string
	LastArtworkFingerprint *Fingerprint
}

// Favorite is one row of the favorites log
type Favorite struct {
	Title  string
	Artist string
	Album  string
}

// Region names one of the device's display areas
type Region string

const (
	// RegionText is the banner on the touch strip
	RegionText Region = "text"
	// RegionArtwork is the icon on the artwork key
	RegionArtwork Region = "artwork"
)

// KeyEvent is a button transition delivered by the device
type KeyEvent struct {
	Key     int
	Pressed bool
}

// KeyAction is what the loop should do in response to a key event
type KeyAction int

const (
	ActionNone KeyAction = iota
	ActionRefresh
	ActionFavorite
)

func (a KeyAction) String() string {
	switch a {
	case ActionRefresh:
		return "refresh"
	case ActionFavorite:
		return "favorite"
	default:
		return "none"
	}
}

// Geometry of the device regions
var (
	// TextRegion is where the banner lands on the touch strip
	TextRegion = image.Rect(200, 0, 800, 100)
	// IconSize is the edge length of a key icon
	IconSize = 120
)

// KeyCount is the number of LCD keys on touch strip models
const KeyCount = 8
