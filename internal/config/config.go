package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/genricoloni/decksync/internal/domain"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	envPrefix = "DECKSYNC"

	defaultPollInterval    = 500 * time.Millisecond
	defaultRetryInterval   = time.Second
	defaultProviderTimeout = 2 * time.Second
	defaultRefreshKey      = 5
	defaultFavoriteKey     = 6
	defaultMaxPushFailures = 3
	defaultFavoritesPath   = "~/.local/share/decksync/favorites.csv"
	defaultFontSize        = 18.0
)

// AppConfig holds application configuration
type AppConfig struct {
	logger          *zap.Logger
	pollInterval    time.Duration
	retryInterval   time.Duration
	providerTimeout time.Duration
	refreshKey      int
	favoriteKey     int
	maxPushFailures int
	favoritesPath   string
	fontPath        string
	fontSize        float64
	metricsAddr     string
}

// NewAppConfig reads DECKSYNC_* environment variables, falling back to defaults.
// No configuration file is read.
func NewAppConfig(logger *zap.Logger) *AppConfig {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("poll_interval", defaultPollInterval)
	v.SetDefault("retry_interval", defaultRetryInterval)
	v.SetDefault("provider_timeout", defaultProviderTimeout)
	v.SetDefault("refresh_key", defaultRefreshKey)
	v.SetDefault("favorite_key", defaultFavoriteKey)
	v.SetDefault("max_push_failures", defaultMaxPushFailures)
	v.SetDefault("favorites_path", defaultFavoritesPath)
	v.SetDefault("font_path", "")
	v.SetDefault("font_size", defaultFontSize)
	v.SetDefault("metrics_addr", "")

	cfg := &AppConfig{
		logger:          logger,
		pollInterval:    positiveDuration(logger, v, "poll_interval", defaultPollInterval),
		retryInterval:   positiveDuration(logger, v, "retry_interval", defaultRetryInterval),
		providerTimeout: positiveDuration(logger, v, "provider_timeout", defaultProviderTimeout),
		refreshKey:      keyIndex(logger, v, "refresh_key", defaultRefreshKey),
		favoriteKey:     keyIndex(logger, v, "favorite_key", defaultFavoriteKey),
		maxPushFailures: nonNegativeInt(logger, v, "max_push_failures", defaultMaxPushFailures),
		favoritesPath:   expandPath(v.GetString("favorites_path")),
		fontPath:        expandPath(v.GetString("font_path")),
		fontSize:        v.GetFloat64("font_size"),
		metricsAddr:     strings.TrimSpace(v.GetString("metrics_addr")),
	}

	if cfg.fontSize <= 0 {
		logger.Warn("Invalid font size, using default", zap.Float64("fontSize", cfg.fontSize))
		cfg.fontSize = defaultFontSize
	}
	if cfg.maxPushFailures == 0 {
		cfg.maxPushFailures = defaultMaxPushFailures
	}
	if cfg.refreshKey == cfg.favoriteKey {
		logger.Warn("Refresh and favorite keys collide, using defaults",
			zap.Int("key", cfg.refreshKey))
		cfg.refreshKey = defaultRefreshKey
		cfg.favoriteKey = defaultFavoriteKey
	}

	logger.Info("Configuration loaded",
		zap.Duration("pollInterval", cfg.pollInterval),
		zap.Duration("retryInterval", cfg.retryInterval),
		zap.Int("refreshKey", cfg.refreshKey),
		zap.Int("favoriteKey", cfg.favoriteKey),
		zap.String("favoritesPath", cfg.favoritesPath),
		zap.String("metricsAddr", cfg.metricsAddr))

	return cfg
}

func positiveDuration(logger *zap.Logger, v *viper.Viper, key string, def time.Duration) time.Duration {
	d := v.GetDuration(key)
	if d <= 0 {
		logger.Warn("Invalid duration, using default",
			zap.String("key", key),
			zap.String("value", v.GetString(key)),
			zap.Duration("default", def))
		return def
	}
	return d
}

func nonNegativeInt(logger *zap.Logger, v *viper.Viper, key string, def int) int {
	n := v.GetInt(key)
	if n < 0 {
		logger.Warn("Invalid integer, using default",
			zap.String("key", key),
			zap.Int("value", n),
			zap.Int("default", def))
		return def
	}
	return n
}

// keyIndex reads a zero-based key index that must address a key on the device
func keyIndex(logger *zap.Logger, v *viper.Viper, key string, def int) int {
	n := v.GetInt(key)
	if n < 0 || n >= domain.KeyCount {
		logger.Warn("Key index out of range, using default",
			zap.String("key", key),
			zap.Int("value", n),
			zap.Int("keys", domain.KeyCount),
			zap.Int("default", def))
		return def
	}
	return n
}

// expandPath expands environment variables and a leading ~
func expandPath(p string) string {
	p = os.ExpandEnv(strings.TrimSpace(p))
	if len(p) > 0 && p[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}

// GetPollInterval returns the delay between two ticks
func (c *AppConfig) GetPollInterval() time.Duration {
	return c.pollInterval
}

// GetRetryInterval returns the delay between two device enumerations
func (c *AppConfig) GetRetryInterval() time.Duration {
	return c.retryInterval
}

// GetProviderTimeout bounds one media provider query
func (c *AppConfig) GetProviderTimeout() time.Duration {
	return c.providerTimeout
}

// GetRefreshKey returns the key index that forces a refresh
func (c *AppConfig) GetRefreshKey() int {
	return c.refreshKey
}

// GetFavoriteKey returns the artwork key index, which also records favorites
func (c *AppConfig) GetFavoriteKey() int {
	return c.favoriteKey
}

// GetMaxPushFailures returns how many consecutive failing ticks end a session
func (c *AppConfig) GetMaxPushFailures() int {
	return c.maxPushFailures
}

// GetFavoritesPath returns the favorites log location
func (c *AppConfig) GetFavoritesPath() string {
	return c.favoritesPath
}

// GetFontPath returns the banner font, empty for the embedded one
func (c *AppConfig) GetFontPath() string {
	return c.fontPath
}

// GetFontSize returns the banner font size in points
func (c *AppConfig) GetFontSize() float64 {
	return c.fontSize
}

// GetMetricsAddr returns the metrics listen address, empty when disabled
func (c *AppConfig) GetMetricsAddr() string {
	return c.metricsAddr
}
