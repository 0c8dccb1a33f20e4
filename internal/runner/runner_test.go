package runner

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sauceqa/logincheck/internal/config"
	"github.com/sauceqa/logincheck/internal/scenarios"
)

func TestAttempt(t *testing.T) {
	errFlaky := errors.New("flaky")

	tests := []struct {
		name         string
		retries      int
		failures     int
		wantAttempts int
		wantErr      bool
	}{
		{"passes first time", 0, 0, 1, false},
		{"no retries", 0, 1, 1, true},
		{"passes on retry", 2, 1, 2, false},
		{"passes on last retry", 2, 2, 3, false},
		{"retries exhausted", 2, 5, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen []int
			attempts, err := attempt(context.Background(), tt.retries, func(n int) error {
				seen = append(seen, n)
				if n <= tt.failures {
					return errFlaky
				}
				return nil
			})

			assert.Equal(t, tt.wantAttempts, attempts)
			assert.Len(t, seen, tt.wantAttempts)
			if tt.wantErr {
				assert.ErrorIs(t, err, errFlaky)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAttempt_StopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts, err := attempt(ctx, 5, func(int) error {
		cancel()
		return errors.New("boom")
	})

	assert.Equal(t, 1, attempts)
	assert.Error(t, err)
}

func TestBrowserTypeFor(t *testing.T) {
	pw := &playwright.Playwright{}

	for _, engine := range config.Engines {
		_, err := browserTypeFor(pw, engine)
		assert.NoError(t, err, engine)
	}

	_, err := browserTypeFor(pw, "netscape")
	assert.ErrorIs(t, err, ErrUnknownEngine)
}

func TestRun_UnknownEngine(t *testing.T) {
	cfg := config.DefaultHarnessConfig()
	cfg.Browsers = []string{config.EngineChromium, "edge"}

	rep, err := New(cfg, log.New(io.Discard)).Run(context.Background(), scenarios.All())

	require.ErrorIs(t, err, ErrUnknownEngine)
	assert.Nil(t, rep)
}

func TestNew_ClampsParallel(t *testing.T) {
	cfg := config.DefaultHarnessConfig()
	cfg.Parallel = 0

	r := New(cfg, nil)

	assert.Equal(t, 1, r.cfg.Parallel)
	assert.NotNil(t, r.logger)
}

func TestRun_DuplicateTitles(t *testing.T) {
	list := append(scenarios.All(), scenarios.Scenario{
		Group: []string{scenarios.GroupLogin, scenarios.GroupCases},
		Title: "Password field is masked",
		Run:   func(*scenarios.Env) error { return nil },
	})

	rep, err := New(config.DefaultHarnessConfig(), log.New(io.Discard)).Run(context.Background(), list)

	require.ErrorIs(t, err, scenarios.ErrDuplicateTitle)
	assert.Nil(t, rep)
}
