//go:build !linux
// +build !linux

package monitor

import (
	"context"

	"github.com/genricoloni/decksync/internal/domain"
	"go.uber.org/zap"
)

// MprisProvider stub for non-Linux platforms
type MprisProvider struct {
	logger *zap.Logger
}

// NewMprisProvider creates a stub provider that never reports any media
func NewMprisProvider(logger *zap.Logger, cfg domain.Config, fetcher domain.Fetcher) *MprisProvider {
	return &MprisProvider{logger: logger}
}

// Start logs that MPRIS is unavailable on this platform
func (p *MprisProvider) Start(ctx context.Context) error {
	p.logger.Warn("MPRIS monitoring is only supported on Linux systems")
	return nil
}

// Fetch always returns the unavailable snapshot
func (p *MprisProvider) Fetch(ctx context.Context) domain.MediaSnapshot {
	return domain.UnavailableSnapshot()
}

// Stop is a no-op on non-Linux platforms
func (p *MprisProvider) Stop(ctx context.Context) error {
	return nil
}
