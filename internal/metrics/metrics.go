// Package metrics exposes sync loop counters for Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/genricoloni/decksync/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Push results
const (
	ResultOK          = "ok"
	ResultError       = "error"
	ResultPlaceholder = "placeholder"
)

// Favorite results
const (
	FavoriteRecorded  = "recorded"
	FavoriteDuplicate = "duplicate"
	FavoriteSkipped   = "skipped"
	FavoriteError     = "error"
)

// Metrics holds the loop counters on a private registry
type Metrics struct {
	registry *prometheus.Registry

	ticks         prometheus.Counter
	tickDuration  prometheus.Histogram
	pushes        *prometheus.CounterVec
	favorites     *prometheus.CounterVec
	sessions      prometheus.Counter
	sessionActive prometheus.Gauge
}

// New creates and registers the counters
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "decksync_ticks_total", Help: "Sync ticks run"},
		),
		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "decksync_tick_duration_seconds",
				Help:    "Time spent in one sync tick",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2},
			},
		),
		pushes: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "decksync_pushes_total", Help: "Device pushes"},
			[]string{"region", "result"},
		),
		favorites: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "decksync_favorites_total", Help: "Favorite key presses"},
			[]string{"result"},
		),
		sessions: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "decksync_device_sessions_total", Help: "Device sessions opened"},
		),
		sessionActive: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "decksync_device_connected", Help: "1 while a device session is active"},
		),
	}
	m.registry.MustRegister(m.ticks, m.tickDuration, m.pushes, m.favorites, m.sessions, m.sessionActive)
	return m
}

// Registry returns the registry the counters live on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveTick counts one tick and its duration
func (m *Metrics) ObserveTick(d time.Duration) {
	m.ticks.Inc()
	m.tickDuration.Observe(d.Seconds())
}

// Push counts one push to region with result
func (m *Metrics) Push(region domain.Region, result string) {
	m.pushes.WithLabelValues(string(region), result).Inc()
}

// Favorite counts one favorite key press outcome
func (m *Metrics) Favorite(result string) {
	m.favorites.WithLabelValues(result).Inc()
}

// SessionOpened marks a device as bound
func (m *Metrics) SessionOpened() {
	m.sessions.Inc()
	m.sessionActive.Set(1)
}

// SessionClosed marks the device as gone
func (m *Metrics) SessionClosed() {
	m.sessionActive.Set(0)
}

// Server serves /metrics when an address is configured
type Server struct {
	logger *zap.Logger
	addr   string
	srv    *http.Server
}

// NewServer creates the endpoint. An empty address disables it.
func NewServer(logger *zap.Logger, cfg domain.Config, m *Metrics) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))

	return &Server{
		logger: logger,
		addr:   cfg.GetMetricsAddr(),
		srv: &http.Server{
			Addr:              cfg.GetMetricsAddr(),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start binds the listener and serves in the background
func (s *Server) Start(ctx context.Context) error {
	if s.addr == "" {
		s.logger.Debug("Metrics endpoint disabled")
		return nil
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Metrics server failed", zap.Error(err))
		}
	}()

	s.logger.Info("Metrics exposed", zap.String("url", "http://"+ln.Addr().String()+"/metrics"))
	return nil
}

// Stop shuts the endpoint down
func (s *Server) Stop(ctx context.Context) error {
	if s.addr == "" {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
