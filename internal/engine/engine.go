package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/genricoloni/decksync/internal/detector"
	"github.com/genricoloni/decksync/internal/device"
	"github.com/genricoloni/decksync/internal/domain"
	"github.com/genricoloni/decksync/internal/metrics"
	"go.uber.org/zap"
)

// keyEventBuffer bounds the key events waiting for the loop
const keyEventBuffer = 16

// Engine is the sync loop. It waits for a device, then keeps the touch strip
// banner and the artwork key in step with the media provider. All pushes and
// the SyncState are owned by the loop goroutine.
type Engine struct {
	logger     *zap.Logger
	cfg        domain.Config
	provider   domain.MediaProvider
	renderer   domain.Renderer
	opener     domain.DeckOpener
	favorites  domain.FavoritesStore
	dispatcher *device.Dispatcher
	metrics    *metrics.Metrics

	keyEvents       chan domain.KeyEvent
	mu              sync.Mutex
	lastDropWarning time.Time // Rate limiting for "channel full" warnings
	cancel          context.CancelFunc
	wg              sync.WaitGroup
}

// session is one bound device and what it currently shows
type session struct {
	sync     *device.Sync
	state    domain.SyncState
	failures int // consecutive ticks with a failed push
}

// NewEngine creates a new sync loop
func NewEngine(
	logger *zap.Logger,
	cfg domain.Config,
	provider domain.MediaProvider,
	renderer domain.Renderer,
	opener domain.DeckOpener,
	favorites domain.FavoritesStore,
	m *metrics.Metrics,
) *Engine {
	return &Engine{
		logger:     logger,
		cfg:        cfg,
		provider:   provider,
		renderer:   renderer,
		opener:     opener,
		favorites:  favorites,
		dispatcher: device.NewDispatcher(cfg),
		metrics:    m,
		keyEvents:  make(chan domain.KeyEvent, keyEventBuffer),
	}
}

// Start launches the loop in a goroutine.
// It returns immediately (non-blocking).
func (e *Engine) Start(ctx context.Context) error {
	e.logger.Info("Engine starting...",
		zap.Duration("pollInterval", e.cfg.GetPollInterval()),
		zap.Duration("retryInterval", e.cfg.GetRetryInterval()))

	// The start context ends with app startup, the loop must outlive it
	loopCtx, cancel := context.WithCancel(context.Background())
	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()

	e.wg.Add(1)
	go e.runLoop(loopCtx)
	return nil
}

// Stop cancels the loop and waits for it, including any in-flight push
func (e *Engine) Stop(ctx context.Context) error {
	e.logger.Info("Engine stopping...")

	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("Engine stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop alternates between enumerating devices and syncing a bound one.
// Every Open after the first waits the retry interval.
func (e *Engine) runLoop(ctx context.Context) {
	defer e.wg.Done()

	retry := time.NewTimer(0)
	defer retry.Stop()
	waiting := false

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Engine loop stopped")
			return
		case <-retry.C:
		}
		// select picks at random when both are ready
		if ctx.Err() != nil {
			e.logger.Info("Engine loop stopped")
			return
		}

		deck, err := e.opener.Open(ctx)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNoDevice):
				if !waiting {
					e.logger.Info("Waiting for a Stream Deck")
				}
			case ctx.Err() != nil:
				continue
			default:
				e.logger.Warn("Failed to open device", zap.Error(err))
			}
			waiting = true
			retry.Reset(e.cfg.GetRetryInterval())
			continue
		}

		waiting = false
		e.runSession(ctx, deck)
		if ctx.Err() != nil {
			e.logger.Info("Engine loop stopped")
			return
		}

		// A device that fails right after opening must not be reopened in a tight loop
		retry.Reset(e.cfg.GetRetryInterval())
	}
}

// runSession syncs deck until the context ends, the transport fails or
// pushes keep failing. The deck is closed on return.
func (e *Engine) runSession(ctx context.Context, deck domain.Deck) {
	sess := &session{sync: device.NewSync(e.logger, deck, e.cfg.GetFavoriteKey())}
	transport := deck.Listen(e.postKeyEvent)

	e.metrics.SessionOpened()
	e.logger.Info("Device session started")

	defer func() {
		if err := sess.sync.Close(); err != nil {
			e.logger.Warn("Failed to close device", zap.Error(err))
		}
		e.drainKeyEvents()
		e.metrics.SessionClosed()
		e.logger.Info("Device session ended")
	}()

	ticker := time.NewTicker(e.cfg.GetPollInterval())
	defer ticker.Stop()

	e.tick(ctx, sess, false)

	for {
		select {
		case <-ctx.Done():
			return

		case err := <-transport:
			e.logger.Warn("Device transport lost", zap.Error(err))
			return

		case ev := <-e.keyEvents:
			e.handleKey(ctx, sess, ev)

		case <-ticker.C:
			e.tick(ctx, sess, false)
		}

		if limit := e.cfg.GetMaxPushFailures(); sess.failures >= limit {
			e.logger.Warn("Too many failed pushes, dropping device",
				zap.Int("consecutiveFailures", sess.failures))
			return
		}
	}
}

// tick fetches a snapshot and pushes whatever changed. force pushes both
// regions regardless of change detection. Each SyncState field is updated
// only after its push succeeded.
func (e *Engine) tick(ctx context.Context, sess *session, force bool) {
	start := time.Now()
	defer func() { e.metrics.ObserveTick(time.Since(start)) }()

	snapshot := e.provider.Fetch(ctx)
	if ctx.Err() != nil {
		return
	}

	failed := false

	if force || detector.TextChanged(sess.state, snapshot) {
		if err := sess.sync.PushText(e.renderer.RenderBanner(snapshot)); err != nil {
			e.logger.Warn("Failed to push banner", zap.String("title", snapshot.Title), zap.Error(err))
			e.metrics.Push(domain.RegionText, metrics.ResultError)
			failed = true
		} else {
			e.logger.Info("Banner updated",
				zap.String("title", snapshot.Title),
				zap.String("artist", snapshot.Artist),
				zap.String("album", snapshot.Album))
			e.metrics.Push(domain.RegionText, metrics.ResultOK)
			sess.state.LastRenderedTitle = snapshot.Title
		}
	}

	changed, fingerprint := detector.ArtworkChanged(sess.state, snapshot)
	if force || changed {
		pushed, err := sess.sync.PushArtworkWithFallback(e.renderer.RenderArtwork(snapshot), e.renderer.Placeholder())
		switch {
		case err != nil:
			e.logger.Warn("Failed to push artwork", zap.String("title", snapshot.Title), zap.Error(err))
			e.metrics.Push(domain.RegionArtwork, metrics.ResultError)
			failed = true
		case pushed:
			e.logger.Debug("Artwork updated",
				zap.String("title", snapshot.Title),
				zap.Stringer("kind", snapshot.Artwork.Kind))
			e.metrics.Push(domain.RegionArtwork, metrics.ResultOK)
			sess.state.LastArtworkFingerprint = &fingerprint
		default:
			// Placeholder is showing, retry the artwork next tick
			e.metrics.Push(domain.RegionArtwork, metrics.ResultPlaceholder)
			sess.state.LastArtworkFingerprint = nil
		}
	}

	if failed {
		sess.failures++
	} else {
		sess.failures = 0
	}
}

// handleKey runs the action bound to a key press on the loop goroutine
func (e *Engine) handleKey(ctx context.Context, sess *session, ev domain.KeyEvent) {
	action := e.dispatcher.Action(ev)
	if action == domain.ActionNone {
		return
	}
	e.logger.Debug("Key action", zap.Int("key", ev.Key), zap.Stringer("action", action))

	switch action {
	case domain.ActionRefresh:
		e.logger.Info("Refresh requested")
		e.tick(ctx, sess, true)
	case domain.ActionFavorite:
		e.recordFavorite(ctx)
	}
}

// recordFavorite stores the track playing right now
func (e *Engine) recordFavorite(ctx context.Context) {
	snapshot := e.provider.Fetch(ctx)
	if !snapshot.Playing() {
		e.logger.Info("Nothing playing, favorite not recorded")
		e.metrics.Favorite(metrics.FavoriteSkipped)
		return
	}

	recorded, err := e.favorites.Record(snapshot.Favorite())
	switch {
	case err != nil:
		e.logger.Error("Failed to record favorite", zap.String("title", snapshot.Title), zap.Error(err))
		e.metrics.Favorite(metrics.FavoriteError)
	case recorded:
		e.metrics.Favorite(metrics.FavoriteRecorded)
	default:
		e.logger.Info("Favorite already recorded", zap.String("title", snapshot.Title))
		e.metrics.Favorite(metrics.FavoriteDuplicate)
	}
}

// postKeyEvent is called from the device goroutine. It never blocks.
func (e *Engine) postKeyEvent(ev domain.KeyEvent) {
	select {
	case e.keyEvents <- ev:
	default:
		e.logChannelFullWarning()
	}
}

// drainKeyEvents discards presses addressed to a session that is gone
func (e *Engine) drainKeyEvents() {
	for {
		select {
		case <-e.keyEvents:
		default:
			return
		}
	}
}

// logChannelFullWarning logs a warning about the key channel being full, but
// rate-limited to avoid log spam when keys are hammered
func (e *Engine) logChannelFullWarning() {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Rate limit to max one warning per 5 seconds
	const warningInterval = 5 * time.Second
	now := time.Now()

	if now.Sub(e.lastDropWarning) >= warningInterval {
		e.logger.Warn("Key event channel full, dropping key press")
		e.lastDropWarning = now
	}
}
