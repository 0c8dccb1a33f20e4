// Package runner executes scenarios against real browsers and collects a report.
package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/playwright-community/playwright-go"
	"golang.org/x/sync/errgroup"

	"github.com/sauceqa/logincheck/internal/config"
	"github.com/sauceqa/logincheck/internal/loginflow"
	"github.com/sauceqa/logincheck/internal/report"
	"github.com/sauceqa/logincheck/internal/scenarios"
)

var ErrUnknownEngine = errors.New("unknown browser engine")

// Runner owns the Playwright driver for the duration of a run.
type Runner struct {
	cfg    config.HarnessConfig
	logger *log.Logger
}

// New creates a Runner. cfg is expected to be validated.
func New(cfg config.HarnessConfig, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Parallel < 1 {
		cfg.Parallel = 1
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Run executes every scenario on every configured engine. Scenario failures
// are recorded in the report; the returned error is for failures of the run
// itself (driver, browser launch, cancellation).
func (r *Runner) Run(ctx context.Context, list []scenarios.Scenario) (*report.Report, error) {
	for _, engine := range r.cfg.Browsers {
		if !slices.Contains(config.Engines, engine) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
		}
	}
	if err := scenarios.CheckTitles(list); err != nil {
		return nil, err
	}

	rep := report.New(r.cfg.BaseURL)
	defer rep.Finish()

	pw, err := playwright.Run()
	if err != nil {
		return rep, fmt.Errorf("failed to start playwright: %w", err)
	}
	defer func() {
		if err := pw.Stop(); err != nil {
			r.logger.Warn("Failed to stop playwright", "error", err)
		}
	}()

	for _, engine := range r.cfg.Browsers {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if err := r.runEngine(ctx, pw, engine, list, rep); err != nil {
			return rep, err
		}
	}
	return rep, ctx.Err()
}

func (r *Runner) runEngine(ctx context.Context, pw *playwright.Playwright, engine string, list []scenarios.Scenario, rep *report.Report) error {
	logger := r.logger.With("engine", engine)

	browserType, err := browserTypeFor(pw, engine)
	if err != nil {
		return err
	}
	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(r.cfg.Headless),
		SlowMo:   playwright.Float(millis(r.cfg.SlowMo)),
	})
	if err != nil {
		return fmt.Errorf("failed to launch %s: %w", engine, err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			logger.Warn("Failed to close browser", "error", err)
		}
	}()
	logger.Info("Browser launched", "version", browser.Version(), "headless", r.cfg.Headless)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Parallel)
	for _, s := range list {
		if s.Skipped() {
			logger.Debug("Skipping scenario", "scenario", s.Path(), "reason", s.Skip)
			rep.Add(report.Result{Engine: engine, Path: s.Path(), Status: report.StatusSkipped, SkipReason: s.Skip})
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				rep.Add(report.Result{Engine: engine, Path: s.Path(), Status: report.StatusSkipped, SkipReason: err.Error()})
				return nil
			}
			res := r.runScenario(gctx, browser, engine, s)
			if res.Status == report.StatusFailed {
				logger.Error("Scenario failed", "scenario", res.Path, "attempts", res.Attempts, "error", res.Error)
			} else {
				logger.Info("Scenario passed", "scenario", res.Path, "duration", res.Duration.Round(time.Millisecond))
			}
			rep.Add(res)
			return nil
		})
	}
	return g.Wait()
}

func (r *Runner) runScenario(ctx context.Context, browser playwright.Browser, engine string, s scenarios.Scenario) report.Result {
	res := report.Result{Engine: engine, Path: s.Path()}
	start := time.Now()

	attempts, err := attempt(ctx, r.cfg.Retries, func(n int) error {
		if n > 1 {
			r.logger.Warn("Retrying scenario", "engine", engine, "scenario", s.Path(), "attempt", n)
		}
		shot, err := r.runOnce(ctx, browser, engine, s)
		res.Screenshot = shot
		return err
	})

	res.Attempts = attempts
	res.Duration = time.Since(start)
	res.Status = report.StatusPassed
	if err != nil {
		res.Status = report.StatusFailed
		res.Error = err.Error()
	}
	return res
}

// attempt calls fn until it succeeds, it has been retried retries times or
// ctx is done. It returns the number of calls made and the last error.
func attempt(ctx context.Context, retries int, fn func(n int) error) (int, error) {
	for n := 1; ; n++ {
		err := fn(n)
		if err == nil || n > retries || ctx.Err() != nil {
			return n, err
		}
	}
}

// runOnce runs s in a fresh browser context and returns the screenshot path,
// if one was taken.
func (r *Runner) runOnce(ctx context.Context, browser playwright.Browser, engine string, s scenarios.Scenario) (string, error) {
	opts := playwright.BrowserNewContextOptions{}
	if r.cfg.Video {
		opts.RecordVideo = &playwright.RecordVideo{Dir: filepath.Join(r.cfg.VideoDir, engine)}
	}
	bctx, err := browser.NewContext(opts)
	if err != nil {
		return "", fmt.Errorf("failed to create browser context: %w", err)
	}
	defer func() {
		if err := bctx.Close(); err != nil {
			r.logger.Warn("Failed to close browser context", "engine", engine, "error", err)
		}
	}()
	bctx.SetDefaultTimeout(millis(r.cfg.ActionTimeout))
	bctx.SetDefaultNavigationTimeout(millis(r.cfg.NavigationTimeout))

	page, err := bctx.NewPage()
	if err != nil {
		return "", fmt.Errorf("failed to create page: %w", err)
	}

	verifier := loginflow.New(page, loginflow.Options{
		BaseURL:           r.cfg.BaseURL,
		NavigationTimeout: r.cfg.NavigationTimeout,
		ActionTimeout:     r.cfg.ActionTimeout,
	})
	env := &scenarios.Env{
		Context:  ctx,
		Page:     page,
		Verifier: verifier,
		Expect:   loginflow.NewExpect(r.cfg.ActionTimeout),
		Capture:  loginflow.NewCapture(filepath.Join(r.cfg.ScreenshotDir, engine)),
	}

	runErr := verifier.Open()
	if runErr == nil {
		runErr = s.Run(env)
	}

	var shot string
	if r.cfg.Screenshots.ShouldCapture(runErr != nil) {
		path, err := env.Capture.Screenshot(page, loginflow.ScreenshotName(s.Title))
		if err != nil {
			r.logger.Warn("Failed to capture screenshot", "engine", engine, "scenario", s.Path(), "error", err)
		} else {
			shot = path
		}
	}
	return shot, runErr
}

func browserTypeFor(pw *playwright.Playwright, engine string) (playwright.BrowserType, error) {
	switch engine {
	case config.EngineChromium:
		return pw.Chromium, nil
	case config.EngineFirefox:
		return pw.Firefox, nil
	case config.EngineWebKit:
		return pw.WebKit, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}
}

func millis(d time.Duration) float64 {
	return float64(d.Milliseconds())
}
