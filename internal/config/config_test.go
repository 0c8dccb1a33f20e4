package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadHarnessConfig_Defaults(t *testing.T) {
	cfg, err := LoadHarnessConfig(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, "https://www.saucedemo.com/", cfg.BaseURL)
	assert.Equal(t, []string{EngineChromium}, cfg.Browsers)
	assert.True(t, cfg.Headless)
	assert.False(t, cfg.Video)
	assert.Equal(t, 60*time.Second, cfg.NavigationTimeout)
	assert.Equal(t, 5*time.Second, cfg.ActionTimeout)
	assert.Equal(t, ScreenshotsAlways, cfg.Screenshots)
	assert.Equal(t, 1, cfg.Parallel)
	assert.Equal(t, 0, cfg.Retries)
}

func TestLoadHarnessConfig_Overrides(t *testing.T) {
	cfg, err := LoadHarnessConfig(envOf(map[string]string{
		"LOGINCHECK_BASE_URL": "http://127.0.0.1:8080",
		"BROWSERS":            "Chromium, firefox,,webkit",
		"HEADLESS":            "false",
		"VIDEO":               "true",
		"VIDEO_DIR":           "out/videos",
		"SLOW_MO_MS":          "500",
		"NAV_TIMEOUT_MS":      "1000",
		"ACTION_TIMEOUT_MS":   "250",
		"SCREENSHOT_DIR":      "out/shots",
		"SCREENSHOTS":         "on-failure",
		"PARALLEL":            "4",
		"RETRIES":             "2",
	}))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8080/", cfg.BaseURL, "base URL gets a trailing slash")
	assert.Equal(t, []string{"chromium", "firefox", "webkit"}, cfg.Browsers)
	assert.False(t, cfg.Headless)
	assert.True(t, cfg.Video)
	assert.Equal(t, "out/videos", cfg.VideoDir)
	assert.Equal(t, 500*time.Millisecond, cfg.SlowMo)
	assert.Equal(t, time.Second, cfg.NavigationTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.ActionTimeout)
	assert.Equal(t, "out/shots", cfg.ScreenshotDir)
	assert.Equal(t, ScreenshotsOnFailure, cfg.Screenshots)
	assert.Equal(t, 4, cfg.Parallel)
	assert.Equal(t, 2, cfg.Retries)
}

func TestLoadHarnessConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"relative base url", map[string]string{"LOGINCHECK_BASE_URL": "saucedemo.com"}, "LOGINCHECK_BASE_URL"},
		{"ftp base url", map[string]string{"LOGINCHECK_BASE_URL": "ftp://example.com/"}, "LOGINCHECK_BASE_URL"},
		{"unknown engine", map[string]string{"BROWSERS": "chromium,edge"}, "BROWSERS"},
		{"empty engine list", map[string]string{"BROWSERS": " , "}, "BROWSERS"},
		{"bad headless", map[string]string{"HEADLESS": "maybe"}, "HEADLESS"},
		{"bad video", map[string]string{"VIDEO": "sometimes"}, "VIDEO"},
		{"bad slow mo", map[string]string{"SLOW_MO_MS": "slow"}, "SLOW_MO_MS"},
		{"negative slow mo", map[string]string{"SLOW_MO_MS": "-1"}, "SLOW_MO_MS"},
		{"zero nav timeout", map[string]string{"NAV_TIMEOUT_MS": "0"}, "NAV_TIMEOUT_MS"},
		{"zero action timeout", map[string]string{"ACTION_TIMEOUT_MS": "0"}, "ACTION_TIMEOUT_MS"},
		{"bad screenshots", map[string]string{"SCREENSHOTS": "sometimes"}, "SCREENSHOTS"},
		{"zero parallel", map[string]string{"PARALLEL": "0"}, "PARALLEL"},
		{"bad parallel", map[string]string{"PARALLEL": "many"}, "PARALLEL"},
		{"negative retries", map[string]string{"RETRIES": "-1"}, "RETRIES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadHarnessConfig(envOf(tt.env))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScreenshotPolicy_ShouldCapture(t *testing.T) {
	assert.True(t, ScreenshotsAlways.ShouldCapture(false))
	assert.True(t, ScreenshotsAlways.ShouldCapture(true))
	assert.False(t, ScreenshotsOnFailure.ShouldCapture(false))
	assert.True(t, ScreenshotsOnFailure.ShouldCapture(true))
	assert.False(t, ScreenshotsOff.ShouldCapture(true))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" A ,b, "))
	assert.Nil(t, SplitList(""))
}

func TestLoadServerConfig(t *testing.T) {
	assert.Equal(t, "8080", LoadServerConfig(envOf(nil)).Port)
	assert.Equal(t, "9000", LoadServerConfig(envOf(map[string]string{"PORT": "9000"})).Port)
}
