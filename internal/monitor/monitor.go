//go:build linux

package monitor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/genricoloni/decksync/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	mprisPrefix  = "org.mpris.MediaPlayer2."
	mprisPath    = "/org/mpris/MediaPlayer2"
	playerIface  = "org.mpris.MediaPlayer2.Player"
	metadataProp = playerIface + ".Metadata"
	statusProp   = playerIface + ".PlaybackStatus"
)

var (
	errNoPlayer = errors.New("no active MPRIS player")
	errStopped  = errors.New("provider stopped")
)

// MprisProvider reads the currently playing media from MPRIS players on the
// session bus. A background goroutine tracks which player was active last;
// the metadata itself is queried on every Fetch.
type MprisProvider struct {
	logger  *zap.Logger
	fetcher domain.Fetcher
	timeout time.Duration
	dial    func() (DBusClient, error)

	mu          sync.RWMutex
	conn        DBusClient        // nil until connected, reset when the bus goes away
	players     []string          // well-known names, most recently active first
	playerNames map[string]string // Maps unique bus names (:1.45) to well-known names (org.mpris.MediaPlayer2.spotify)
	stopped     bool

	runCtx context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup // Tracks signal goroutines
}

// NewMprisProvider creates a provider. No connection is made until Start or the first Fetch.
func NewMprisProvider(logger *zap.Logger, cfg domain.Config, fetcher domain.Fetcher) *MprisProvider {
	ctx, cancel := context.WithCancel(context.Background())
	return &MprisProvider{
		logger:      logger,
		fetcher:     fetcher,
		timeout:     cfg.GetProviderTimeout(),
		dial:        func() (DBusClient, error) { return NewStdDBusClient() },
		playerNames: make(map[string]string),
		runCtx:      ctx,
		cancel:      cancel,
	}
}

// Start connects to the session bus. A failed connection is not fatal:
// Fetch retries it lazily.
func (p *MprisProvider) Start(ctx context.Context) error {
	if _, err := p.connect(); err != nil {
		p.logger.Warn("MPRIS provider not connected, will retry on demand", zap.Error(err))
		return nil
	}
	p.logger.Info("MPRIS provider started")
	return nil
}

// Stop cancels signal handling and closes the connection
func (p *MprisProvider) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	p.cancel()
	conn := p.conn
	p.conn = nil
	p.mu.Unlock()

	p.logger.Debug("Waiting for signal goroutines to finish")
	p.wg.Wait()

	if conn != nil {
		if err := conn.Close(); err != nil {
			p.logger.Warn("Failed to close D-Bus connection", zap.Error(err))
		}
	}

	p.logger.Info("MPRIS provider shutdown complete")
	return nil
}

// Fetch returns the snapshot of the most recently active player. It never
// fails: any error yields the unavailable snapshot.
func (p *MprisProvider) Fetch(ctx context.Context) domain.MediaSnapshot {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	snapshot, err := p.fetch(ctx)
	if err != nil {
		p.logger.Debug("Media provider unavailable", zap.Error(err))
		return domain.UnavailableSnapshot()
	}
	return snapshot
}

func (p *MprisProvider) fetch(ctx context.Context) (domain.MediaSnapshot, error) {
	conn, err := p.connect()
	if err != nil {
		return domain.MediaSnapshot{}, &domain.ProviderError{Op: "connect", Err: err}
	}

	player, metadata, err := p.selectPlayer(ctx, conn)
	if err != nil {
		return domain.MediaSnapshot{}, err
	}

	snapshot, artURL := p.parseMetadata(metadata)
	snapshot.Artwork = p.fetchArtwork(ctx, artURL)

	p.logger.Debug("Media snapshot",
		zap.String("player", player),
		zap.String("title", snapshot.Title),
		zap.Stringer("artwork", snapshot.Artwork.Kind))
	return snapshot, nil
}

// selectPlayer returns the most recent Playing player, falling back to the
// most recent player that has a title
func (p *MprisProvider) selectPlayer(ctx context.Context, conn DBusClient) (string, map[string]dbus.Variant, error) {
	var (
		fallbackName string
		fallback     map[string]dbus.Variant
	)

	for _, name := range p.candidates() {
		status, err := p.playbackStatus(ctx, conn, name)
		if err != nil {
			if fatal := p.queryFailed(conn, name, err); fatal != nil {
				return "", nil, fatal
			}
			continue
		}

		playing := status == "Playing"
		if !playing && fallback != nil {
			continue
		}

		metadata, err := p.metadata(ctx, conn, name)
		if err != nil {
			if fatal := p.queryFailed(conn, name, err); fatal != nil {
				return "", nil, fatal
			}
			continue
		}
		if stringValue(metadata["xesam:title"]) == "" {
			continue
		}

		if playing {
			return name, metadata, nil
		}
		fallbackName, fallback = name, metadata
	}

	if fallback != nil {
		return fallbackName, fallback, nil
	}
	return "", nil, &domain.ProviderError{Op: "select", Err: errNoPlayer}
}

// queryFailed classifies a per-player query error. It returns a non-nil
// error when the whole fetch must be abandoned.
func (p *MprisProvider) queryFailed(conn DBusClient, player string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return &domain.ProviderError{Op: "query", Err: err}
	case errors.Is(err, dbus.ErrClosed):
		p.dropConnection(conn)
		return &domain.ProviderError{Op: "query", Err: err}
	default:
		p.logger.Debug("Skipping player", zap.String("player", player), zap.Error(err))
		return nil
	}
}

func (p *MprisProvider) playbackStatus(ctx context.Context, conn DBusClient, player string) (string, error) {
	variant, err := conn.GetProperty(ctx, player, mprisPath, statusProp)
	if err != nil {
		return "", fmt.Errorf("failed to get playback status: %w", err)
	}
	status, ok := variant.Value().(string)
	if !ok {
		return "", fmt.Errorf("invalid playback status format")
	}
	return status, nil
}

func (p *MprisProvider) metadata(ctx context.Context, conn DBusClient, player string) (map[string]dbus.Variant, error) {
	variant, err := conn.GetProperty(ctx, player, mprisPath, metadataProp)
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}
	// SAFE CAST: Some players return nil or unexpected types when idle
	metadata, ok := variant.Value().(map[string]dbus.Variant)
	if !ok {
		return nil, fmt.Errorf("metadata variant is %T, not a map", variant.Value())
	}
	return metadata, nil
}

// parseMetadata converts MPRIS metadata to a snapshot and returns the art URL
func (p *MprisProvider) parseMetadata(metadata map[string]dbus.Variant) (domain.MediaSnapshot, string) {
	snapshot := domain.MediaSnapshot{
		Title: stringValue(metadata["xesam:title"]),
		Album: stringValue(metadata["xesam:album"]),
	}

	// Artist and genre are lists per MPRIS, but some players send plain strings
	if v, ok := metadata["xesam:artist"]; ok {
		artists, ok := stringList(v)
		if !ok {
			p.logger.Debug("Unexpected artist type in metadata",
				zap.String("type", fmt.Sprintf("%T", v.Value())))
		}
		snapshot.Artist = strings.Join(artists, ", ")
	}
	if v, ok := metadata["xesam:genre"]; ok {
		snapshot.Genres, _ = stringList(v)
	}

	return snapshot, stringValue(metadata["mpris:artUrl"])
}

func (p *MprisProvider) fetchArtwork(ctx context.Context, artURL string) domain.Artwork {
	if artURL == "" {
		return domain.Artwork{Kind: domain.NoArtwork}
	}

	data, err := p.fetcher.Fetch(ctx, artURL)
	if err != nil {
		p.logger.Debug("Artwork fetch failed", zap.String("url", artURL), zap.Error(err))
		return domain.Artwork{Kind: domain.ArtworkUnavailable}
	}
	return domain.ArtworkFromBytes(data)
}

// connect returns the live connection, dialing and subscribing on first use
func (p *MprisProvider) connect() (DBusClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return nil, errStopped
	}
	if p.conn != nil {
		return p.conn, nil
	}

	conn, err := p.dial()
	if err != nil {
		return nil, fmt.Errorf("session bus connection failed: %w", err)
	}

	if err := p.detectExistingPlayers(conn); err != nil {
		p.logger.Warn("Failed to detect existing players", zap.Error(err))
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(mprisPath),
		dbus.WithMatchInterface("org.freedesktop.DBus.Properties"),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		// Player order then only follows NameOwnerChanged
		p.logger.Warn("Failed to add PropertiesChanged match signal", zap.Error(err))
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
	); err != nil {
		p.logger.Warn("Failed to add NameOwnerChanged match signal", zap.Error(err))
	} else {
		p.logger.Debug("Dynamic player tracking enabled via NameOwnerChanged")
	}

	signals := make(chan *dbus.Signal, 10)
	conn.Signal(signals)

	p.wg.Add(1)
	go p.monitorSignals(p.runCtx, signals)

	p.conn = conn
	p.logger.Info("Connected to session bus", zap.Int("players", len(p.players)))
	return conn, nil
}

// dropConnection forgets conn so the next Fetch reconnects
func (p *MprisProvider) dropConnection(conn DBusClient) {
	p.mu.Lock()
	if p.conn != conn {
		p.mu.Unlock()
		return
	}
	p.conn = nil
	p.players = nil
	p.playerNames = make(map[string]string)
	p.mu.Unlock()

	p.logger.Warn("Session bus connection lost")
	if err := conn.Close(); err != nil {
		p.logger.Debug("Failed to close D-Bus connection", zap.Error(err))
	}
}

// detectExistingPlayers queries D-Bus for currently running MPRIS players.
// Callers hold p.mu.
func (p *MprisProvider) detectExistingPlayers(conn DBusClient) error {
	names, err := conn.ListNames()
	if err != nil {
		return fmt.Errorf("failed to list bus names: %w", err)
	}

	p.players = p.players[:0]
	for _, name := range names {
		if !strings.HasPrefix(name, mprisPrefix) {
			continue
		}
		p.players = append(p.players, name)
		p.logger.Info("Detected MPRIS player", zap.String("name", name))

		uniqueName, err := conn.GetNameOwner(name)
		if err != nil {
			p.logger.Debug("Failed to resolve player owner", zap.String("name", name), zap.Error(err))
			continue
		}
		p.playerNames[uniqueName] = name
	}

	p.logger.Info("Player detection complete", zap.Int("count", len(p.players)))
	return nil
}

// monitorSignals listens for D-Bus signals and keeps the player order current
func (p *MprisProvider) monitorSignals(ctx context.Context, signals <-chan *dbus.Signal) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-signals:
			if !ok {
				return
			}
			if sig == nil {
				continue
			}
			if sig.Name == "org.freedesktop.DBus.NameOwnerChanged" {
				p.handleNameOwnerChanged(sig)
			} else {
				p.handleSignal(sig)
			}
		}
	}
}

// handleNameOwnerChanged processes NameOwnerChanged signals to track player lifecycle
func (p *MprisProvider) handleNameOwnerChanged(sig *dbus.Signal) {
	if len(sig.Body) < 3 {
		return
	}

	name, ok := sig.Body[0].(string)
	if !ok || !strings.HasPrefix(name, mprisPrefix) {
		return // Not an MPRIS player
	}

	oldOwner, _ := sig.Body[1].(string)
	newOwner, _ := sig.Body[2].(string)

	p.mu.Lock()
	defer p.mu.Unlock()

	if oldOwner != "" {
		delete(p.playerNames, oldOwner)
	}

	if newOwner == "" {
		p.removePlayer(name)
		p.logger.Info("MPRIS player removed", zap.String("player", name))
		return
	}

	p.playerNames[newOwner] = name
	p.touchPlayer(name)
	p.logger.Info("MPRIS player appeared",
		zap.String("player", name),
		zap.String("unique", newOwner))
}

// handleSignal marks the sender of a player PropertiesChanged signal as most recent
func (p *MprisProvider) handleSignal(sig *dbus.Signal) {
	// Body: interface name, changed properties, invalidated properties
	if sig.Name != "org.freedesktop.DBus.Properties.PropertiesChanged" || len(sig.Body) < 2 {
		return
	}

	interfaceName, ok := sig.Body[0].(string)
	if !ok || interfaceName != playerIface {
		return
	}

	changedProps, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return
	}
	_, hasMetadata := changedProps["Metadata"]
	_, hasStatus := changedProps["PlaybackStatus"]
	if !hasMetadata && !hasStatus {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	name, known := p.playerNames[sig.Sender]
	if !known {
		p.logger.Debug("PropertiesChanged from unknown sender", zap.String("sender", sig.Sender))
		return
	}
	p.touchPlayer(name)
	p.logger.Debug("Player activity", zap.String("player", name))
}

// touchPlayer moves name to the front of the player order. Callers hold p.mu.
func (p *MprisProvider) touchPlayer(name string) {
	p.removePlayer(name)
	p.players = append([]string{name}, p.players...)
}

// removePlayer drops name from the player order. Callers hold p.mu.
func (p *MprisProvider) removePlayer(name string) {
	for i, existing := range p.players {
		if existing == name {
			p.players = append(p.players[:i], p.players[i+1:]...)
			return
		}
	}
}

// candidates returns a copy of the player order
func (p *MprisProvider) candidates() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.players...)
}

func stringValue(v dbus.Variant) string {
	s, _ := v.Value().(string)
	return s
}

func stringList(v dbus.Variant) ([]string, bool) {
	switch value := v.Value().(type) {
	case []string:
		return value, true
	case string:
		if value == "" {
			return nil, true
		}
		return []string{value}, true
	default:
		return nil, false
	}
}
