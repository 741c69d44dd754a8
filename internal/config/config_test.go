package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewAppConfig_Defaults(t *testing.T) {
	cfg := NewAppConfig(zap.NewNop())

	assert.Equal(t, 500*time.Millisecond, cfg.GetPollInterval())
	assert.Equal(t, time.Second, cfg.GetRetryInterval())
	assert.Equal(t, 2*time.Second, cfg.GetProviderTimeout())
	assert.Equal(t, 5, cfg.GetRefreshKey())
	assert.Equal(t, 6, cfg.GetFavoriteKey())
	assert.Equal(t, 3, cfg.GetMaxPushFailures())
	assert.Equal(t, 18.0, cfg.GetFontSize())
	assert.Empty(t, cfg.GetFontPath())
	assert.Empty(t, cfg.GetMetricsAddr())

	home, err := os.UserHomeDir()
	if err == nil {
		assert.Equal(t, filepath.Join(home, ".local/share/decksync/favorites.csv"), cfg.GetFavoritesPath())
	}
}

func TestNewAppConfig_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DECKSYNC_POLL_INTERVAL", "250ms")
	t.Setenv("DECKSYNC_RETRY_INTERVAL", "3s")
	t.Setenv("DECKSYNC_REFRESH_KEY", "0")
	t.Setenv("DECKSYNC_FAVORITE_KEY", "7")
	t.Setenv("DECKSYNC_MAX_PUSH_FAILURES", "10")
	t.Setenv("DECKSYNC_FAVORITES_PATH", filepath.Join(dir, "favs.csv"))
	t.Setenv("DECKSYNC_FONT_SIZE", "22")
	t.Setenv("DECKSYNC_METRICS_ADDR", " 127.0.0.1:9100 ")

	cfg := NewAppConfig(zap.NewNop())

	assert.Equal(t, 250*time.Millisecond, cfg.GetPollInterval())
	assert.Equal(t, 3*time.Second, cfg.GetRetryInterval())
	assert.Equal(t, 0, cfg.GetRefreshKey())
	assert.Equal(t, 7, cfg.GetFavoriteKey())
	assert.Equal(t, 10, cfg.GetMaxPushFailures())
	assert.Equal(t, filepath.Join(dir, "favs.csv"), cfg.GetFavoritesPath())
	assert.Equal(t, 22.0, cfg.GetFontSize())
	assert.Equal(t, "127.0.0.1:9100", cfg.GetMetricsAddr())
}

func TestNewAppConfig_InvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(*testing.T, *AppConfig)
	}{
		{
			name: "Unparsable poll interval",
			env:  map[string]string{"DECKSYNC_POLL_INTERVAL": "soon"},
			check: func(t *testing.T, c *AppConfig) {
				assert.Equal(t, defaultPollInterval, c.GetPollInterval())
			},
		},
		{
			name: "Negative retry interval",
			env:  map[string]string{"DECKSYNC_RETRY_INTERVAL": "-1s"},
			check: func(t *testing.T, c *AppConfig) {
				assert.Equal(t, defaultRetryInterval, c.GetRetryInterval())
			},
		},
		{
			name: "Negative key index",
			env:  map[string]string{"DECKSYNC_REFRESH_KEY": "-2"},
			check: func(t *testing.T, c *AppConfig) {
				assert.Equal(t, defaultRefreshKey, c.GetRefreshKey())
			},
		},
		{
			name: "Key index past the last key",
			env:  map[string]string{"DECKSYNC_REFRESH_KEY": "8", "DECKSYNC_FAVORITE_KEY": "12"},
			check: func(t *testing.T, c *AppConfig) {
				assert.Equal(t, defaultRefreshKey, c.GetRefreshKey())
				assert.Equal(t, defaultFavoriteKey, c.GetFavoriteKey())
			},
		},
		{
			name: "Last key is accepted",
			env:  map[string]string{"DECKSYNC_FAVORITE_KEY": "7"},
			check: func(t *testing.T, c *AppConfig) {
				assert.Equal(t, 7, c.GetFavoriteKey())
			},
		},
		{
			name: "Colliding keys",
			env:  map[string]string{"DECKSYNC_REFRESH_KEY": "3", "DECKSYNC_FAVORITE_KEY": "3"},
			check: func(t *testing.T, c *AppConfig) {
				assert.Equal(t, defaultRefreshKey, c.GetRefreshKey())
				assert.Equal(t, defaultFavoriteKey, c.GetFavoriteKey())
			},
		},
		{
			name: "Zero font size",
			env:  map[string]string{"DECKSYNC_FONT_SIZE": "0"},
			check: func(t *testing.T, c *AppConfig) {
				assert.Equal(t, defaultFontSize, c.GetFontSize())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			tt.check(t, NewAppConfig(zap.NewNop()))
		})
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("DECKSYNC_TEST_DIR", "/srv/data")

	assert.Equal(t, "/srv/data/favs.csv", expandPath("$DECKSYNC_TEST_DIR/favs.csv"))
	assert.Equal(t, "", expandPath("  "))

	home, err := os.UserHomeDir()
	if err == nil {
		assert.Equal(t, filepath.Join(home, "x.csv"), expandPath("~/x.csv"))
	}
}
