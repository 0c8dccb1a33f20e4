package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public demo site under test
const DefaultBaseURL = "https://www.saucedemo.com/"

// Supported browser engines
const (
	EngineChromium = "chromium"
	EngineFirefox  = "firefox"
	EngineWebKit   = "webkit"
)

// Engines lists every engine the harness can drive
var Engines = []string{EngineChromium, EngineFirefox, EngineWebKit}

// ScreenshotPolicy controls when a scenario leaves a screenshot behind
type ScreenshotPolicy string

// Screenshot policies
const (
	ScreenshotsAlways    ScreenshotPolicy = "always"
	ScreenshotsOnFailure ScreenshotPolicy = "on-failure"
	ScreenshotsOff       ScreenshotPolicy = "off"
)

// ShouldCapture reports whether a scenario with the given result gets a screenshot
func (p ScreenshotPolicy) ShouldCapture(failed bool) bool {
	switch p {
	case ScreenshotsAlways:
		return true
	case ScreenshotsOnFailure:
		return failed
	default:
		return false
	}
}

// HarnessConfig holds the browser run configuration
type HarnessConfig struct {
	BaseURL           string
	Browsers          []string
	Headless          bool
	Video             bool
	VideoDir          string
	SlowMo            time.Duration
	NavigationTimeout time.Duration
	ActionTimeout     time.Duration
	ScreenshotDir     string
	Screenshots       ScreenshotPolicy
	Parallel          int
	Retries           int
}

// DefaultHarnessConfig returns the configuration used when nothing is set
func DefaultHarnessConfig() HarnessConfig {
	return HarnessConfig{
		BaseURL:           DefaultBaseURL,
		Browsers:          []string{EngineChromium},
		Headless:          true,
		Video:             false,
		VideoDir:          "videos",
		SlowMo:            0,
		NavigationTimeout: 60 * time.Second,
		ActionTimeout:     5 * time.Second,
		ScreenshotDir:     "screenshots",
		Screenshots:       ScreenshotsAlways,
		Parallel:          1,
		Retries:           0,
	}
}

// LoadHarnessConfig loads harness configuration from environment variables
func LoadHarnessConfig(getenv func(string) string) (*HarnessConfig, error) {
	config := DefaultHarnessConfig()

	if v := getenv("LOGINCHECK_BASE_URL"); v != "" {
		config.BaseURL = v
	}
	if v := getenv("BROWSERS"); v != "" {
		config.Browsers = SplitList(v)
	}
	if v := getenv("VIDEO_DIR"); v != "" {
		config.VideoDir = v
	}
	if v := getenv("SCREENSHOT_DIR"); v != "" {
		config.ScreenshotDir = v
	}
	if v := getenv("SCREENSHOTS"); v != "" {
		config.Screenshots = ScreenshotPolicy(v)
	}

	var err error
	if config.Headless, err = parseBool(getenv, "HEADLESS", config.Headless); err != nil {
		return nil, err
	}
	if config.Video, err = parseBool(getenv, "VIDEO", config.Video); err != nil {
		return nil, err
	}
	if config.SlowMo, err = parseMillis(getenv, "SLOW_MO_MS", config.SlowMo); err != nil {
		return nil, err
	}
	if config.NavigationTimeout, err = parseMillis(getenv, "NAV_TIMEOUT_MS", config.NavigationTimeout); err != nil {
		return nil, err
	}
	if config.ActionTimeout, err = parseMillis(getenv, "ACTION_TIMEOUT_MS", config.ActionTimeout); err != nil {
		return nil, err
	}
	if config.Parallel, err = parseInt(getenv, "PARALLEL", config.Parallel); err != nil {
		return nil, err
	}
	if config.Retries, err = parseInt(getenv, "RETRIES", config.Retries); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the configuration and normalizes the base URL to end in "/"
func (c *HarnessConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("LOGINCHECK_BASE_URL must be an absolute http(s) URL, got %q", c.BaseURL)
	}
	if !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}

	if len(c.Browsers) == 0 {
		return fmt.Errorf("BROWSERS must name at least one engine")
	}
	for _, b := range c.Browsers {
		if !isEngine(b) {
			return fmt.Errorf("BROWSERS: unknown engine %q (want one of %s)", b, strings.Join(Engines, ", "))
		}
	}

	switch c.Screenshots {
	case ScreenshotsAlways, ScreenshotsOnFailure, ScreenshotsOff:
	default:
		return fmt.Errorf("SCREENSHOTS must be always, on-failure or off, got %q", c.Screenshots)
	}

	if c.SlowMo < 0 {
		return fmt.Errorf("SLOW_MO_MS cannot be negative")
	}
	if c.NavigationTimeout <= 0 {
		return fmt.Errorf("NAV_TIMEOUT_MS must be positive")
	}
	if c.ActionTimeout <= 0 {
		return fmt.Errorf("ACTION_TIMEOUT_MS must be positive")
	}
	if c.Parallel < 1 {
		return fmt.Errorf("PARALLEL must be at least 1, got %d", c.Parallel)
	}
	if c.Retries < 0 {
		return fmt.Errorf("RETRIES cannot be negative, got %d", c.Retries)
	}
	return nil
}

// SplitList splits a comma separated list, dropping blanks
func SplitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(strings.ToLower(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isEngine(name string) bool {
	for _, e := range Engines {
		if e == name {
			return true
		}
	}
	return false
}

func parseBool(getenv func(string) string, key string, def bool) (bool, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}

func parseInt(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func parseMillis(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number of milliseconds, got %q", key, v)
	}
	return time.Duration(n) * time.Millisecond, nil
}
