package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/genricoloni/decksync/internal/config"
	"github.com/genricoloni/decksync/internal/device"
	"github.com/genricoloni/decksync/internal/domain"
	"github.com/genricoloni/decksync/internal/engine"
	"github.com/genricoloni/decksync/internal/favorites"
	"github.com/genricoloni/decksync/internal/fetcher"
	"github.com/genricoloni/decksync/internal/metrics"
	"github.com/genricoloni/decksync/internal/monitor"
	"github.com/genricoloni/decksync/internal/processor"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// AppOptions is the full dependency graph of the daemon
var AppOptions = fx.Options(
	// Logger configuration
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log}
	}),

	// Provide dependencies
	fx.Provide(
		newLogger,
		fx.Annotate(config.NewAppConfig, fx.As(new(domain.Config))),
		fx.Annotate(fetcher.NewArtFetcher, fx.As(new(domain.Fetcher))),
		fx.Annotate(monitor.NewMprisProvider, fx.As(new(domain.Monitor))),
		fx.Annotate(processor.NewRenderer, fx.As(new(domain.Renderer))),
		fx.Annotate(device.NewStreamDeckOpener, fx.As(new(domain.DeckOpener))),
		fx.Annotate(favorites.NewRecorder, fx.As(new(domain.FavoritesStore))),
		newMediaProvider,
		metrics.New,
		metrics.NewServer,
		engine.NewEngine,
	),

	// Lifecycle hooks
	fx.Invoke(registerHooks),
)

func main() {
	app := fx.New(AppOptions)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Start the application
	if err := app.Start(ctx); err != nil {
		panic(err)
	}

	// Wait for interrupt signal
	<-ctx.Done()

	// Stop the application gracefully
	if err := app.Stop(context.Background()); err != nil {
		panic(err)
	}
}

// newLogger creates a new zap logger instance. DECKSYNC_DEBUG=true selects
// the development logger.
func newLogger() (*zap.Logger, error) {
	if debug, _ := strconv.ParseBool(os.Getenv("DECKSYNC_DEBUG")); debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newMediaProvider exposes the monitor to the loop as a plain snapshot source
func newMediaProvider(m domain.Monitor) domain.MediaProvider {
	return m
}

// registerHooks sets up application lifecycle hooks. Hooks stop in reverse
// order, so the loop ends before the provider and metrics go away.
func registerHooks(
	lc fx.Lifecycle,
	logger *zap.Logger,
	mon domain.Monitor,
	srv *metrics.Server,
	eng *engine.Engine,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Decksync Daemon Started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			_ = logger.Sync() // fails on terminals, nothing to do about it
			return nil
		},
	})
	lc.Append(fx.Hook{OnStart: srv.Start, OnStop: srv.Stop})
	lc.Append(fx.Hook{OnStart: mon.Start, OnStop: mon.Stop})
	lc.Append(fx.Hook{OnStart: eng.Start, OnStop: eng.Stop})
}
