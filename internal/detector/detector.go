// Package detector decides which device regions need a re-render.
//
// Text and artwork are judged independently: they live in different regions
// with different rendering costs, so a title change must not re-push the
// artwork and vice versa.
package detector

import (
	"github.com/cespare/xxhash/v2"
	"github.com/genricoloni/decksync/internal/domain"
)

// TextChanged reports whether the banner must be re-rendered.
// An empty title never triggers a re-render.
func TextChanged(prev domain.SyncState, next domain.MediaSnapshot) bool {
	return next.Title != "" && next.Title != prev.LastRenderedTitle
}

// ArtworkChanged reports whether the artwork key must be re-rendered, along
// with the fingerprint to store once the push succeeds.
func ArtworkChanged(prev domain.SyncState, next domain.MediaSnapshot) (bool, domain.Fingerprint) {
	fp := Fingerprint(next.Artwork)
	if prev.LastArtworkFingerprint == nil {
		return true, fp
	}
	return *prev.LastArtworkFingerprint != fp, fp
}

// Fingerprint hashes the raw provider bytes. Missing and unavailable artwork
// map to fixed sentinels that differ from each other and from any hash.
func Fingerprint(a domain.Artwork) domain.Fingerprint {
	if a.Kind != domain.ArtworkBytes {
		return domain.Fingerprint{Kind: a.Kind}
	}
	return domain.Fingerprint{Kind: domain.ArtworkBytes, Sum: xxhash.Sum64(a.Data)}
}
