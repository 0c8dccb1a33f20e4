// Package loginflow drives the demo site's login page through a Playwright page.
//
// A Verifier performs state-changing actions (navigate, fill, click) and hands
// out locators; it never asserts. Assertions live in Expect so the same login
// helper serves both success and failure scenarios.
package loginflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

const (
	usernamePlaceholder = "Username"
	passwordPlaceholder = "Password"
	loginButtonName     = "Login"

	errorBannerSelector   = `[data-test="error"]`
	dismissButtonSelector = ".error-button"

	successPath = "inventory.html"
)

// observeInterval is how often Observe polls the page.
var observeInterval = 100 * time.Millisecond

// Options configures a Verifier. Zero timeouts fall back to the defaults.
type Options struct {
	// BaseURL is the login page URL and must end in "/".
	BaseURL           string
	NavigationTimeout time.Duration
	ActionTimeout     time.Duration
}

// Default timeouts
const (
	DefaultNavigationTimeout = 60 * time.Second
	DefaultActionTimeout     = 5 * time.Second
)

// Verifier is bound to one page for the lifetime of one scenario.
type Verifier struct {
	page playwright.Page
	opts Options
}

// New binds a Verifier to page.
func New(page playwright.Page, opts Options) *Verifier {
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = DefaultNavigationTimeout
	}
	if opts.ActionTimeout <= 0 {
		opts.ActionTimeout = DefaultActionTimeout
	}
	if !strings.HasSuffix(opts.BaseURL, "/") {
		opts.BaseURL += "/"
	}
	return &Verifier{page: page, opts: opts}
}

// Page returns the bound page.
func (v *Verifier) Page() playwright.Page {
	return v.page
}

// BaseURL returns the login page URL.
func (v *Verifier) BaseURL() string {
	return v.opts.BaseURL
}

// SuccessURL is the destination of a successful login.
func (v *Verifier) SuccessURL() string {
	return v.opts.BaseURL + successPath
}

// Open navigates to the login page and waits for the DOM to be ready.
func (v *Verifier) Open() error {
	_, err := v.page.Goto(v.opts.BaseURL, playwright.PageGotoOptions{
		Timeout:   playwright.Float(millis(v.opts.NavigationTimeout)),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return navigationError(v.opts.BaseURL, err)
	}

	err = v.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: playwright.Float(millis(v.opts.NavigationTimeout)),
	})
	if err != nil {
		return navigationError(v.opts.BaseURL, err)
	}
	return nil
}

// UsernameField finds the input with placeholder "Username".
func (v *Verifier) UsernameField() (playwright.Locator, error) {
	return v.locate("username field", v.page.GetByPlaceholder(usernamePlaceholder, playwright.PageGetByPlaceholderOptions{
		Exact: playwright.Bool(true),
	}))
}

// PasswordField finds the input with placeholder "Password".
func (v *Verifier) PasswordField() (playwright.Locator, error) {
	return v.locate("password field", v.page.GetByPlaceholder(passwordPlaceholder, playwright.PageGetByPlaceholderOptions{
		Exact: playwright.Bool(true),
	}))
}

// LoginButton finds the control with role button and name "Login".
func (v *Verifier) LoginButton() (playwright.Locator, error) {
	return v.locate("login button", v.page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{
		Name:  loginButtonName,
		Exact: playwright.Bool(true),
	}))
}

// ErrorBanner finds the element whose text is exactly message. message must
// be one of the fixed banner messages.
func (v *Verifier) ErrorBanner(message string) (playwright.Locator, error) {
	if !IsKnownMessage(message) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, message)
	}
	return v.locate("error banner", v.page.GetByText(message, playwright.PageGetByTextOptions{
		Exact: playwright.Bool(true),
	}))
}

// ErrorDismissControl finds the control that closes the error banner.
func (v *Verifier) ErrorDismissControl() (playwright.Locator, error) {
	return v.locate("error dismiss control", v.page.Locator(dismissButtonSelector))
}

// AttemptLogin fills both fields and activates the login control. Empty values
// are filled as empty. It does not wait for or check the outcome.
func (v *Verifier) AttemptLogin(creds Credentials) error {
	username, err := v.UsernameField()
	if err != nil {
		return err
	}
	if err := username.Fill(creds.Username); err != nil {
		return fmt.Errorf("failed to fill username: %w", actionError(err))
	}

	password, err := v.PasswordField()
	if err != nil {
		return err
	}
	if err := password.Fill(creds.Password); err != nil {
		return fmt.Errorf("failed to fill password: %w", actionError(err))
	}

	button, err := v.LoginButton()
	if err != nil {
		return err
	}
	if err := button.Click(); err != nil {
		return fmt.Errorf("failed to click login: %w", actionError(err))
	}
	return nil
}

// DismissError activates the error dismiss control.
func (v *Verifier) DismissError() error {
	control, err := v.ErrorDismissControl()
	if err != nil {
		return err
	}
	if err := control.Click(); err != nil {
		return fmt.Errorf("failed to dismiss error: %w", actionError(err))
	}
	return nil
}

// CurrentState reports the state the page is in right now, without waiting.
func (v *Verifier) CurrentState() (State, error) {
	if v.page.URL() == v.SuccessURL() {
		return StateAuthenticated, nil
	}
	visible, err := v.page.Locator(errorBannerSelector).IsVisible()
	if err != nil {
		return "", fmt.Errorf("failed to inspect error banner: %w", err)
	}
	if visible {
		return StateErrorShown, nil
	}
	return StateUnauthenticated, nil
}

// Observe waits until a login outcome is observable and reports it. A banner
// still showing from an earlier attempt counts as the outcome. The wait ends
// early when ctx is done.
func (v *Verifier) Observe(ctx context.Context) (Outcome, error) {
	deadline := time.NewTimer(v.opts.NavigationTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(observeInterval)
	defer ticker.Stop()

	for {
		state, err := v.CurrentState()
		if err != nil {
			return Outcome{}, err
		}

		switch state {
		case StateAuthenticated:
			return Success(v.page.URL()), nil
		case StateErrorShown:
			text, err := v.page.Locator(errorBannerSelector).TextContent(playwright.LocatorTextContentOptions{
				Timeout: playwright.Float(millis(v.opts.ActionTimeout)),
			})
			if err != nil {
				return Outcome{}, fmt.Errorf("failed to read error banner: %w", actionError(err))
			}
			return Failure(strings.TrimSpace(text)), nil
		}

		select {
		case <-ctx.Done():
			return Outcome{}, fmt.Errorf("waiting for login outcome: %w", ctx.Err())
		case <-deadline.C:
			return Outcome{}, fmt.Errorf("%w: no login outcome within %s", ErrNavigationTimeout, v.opts.NavigationTimeout)
		case <-ticker.C:
		}
	}
}

func (v *Verifier) locate(what string, loc playwright.Locator) (playwright.Locator, error) {
	err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(millis(v.opts.ActionTimeout)),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return nil, fmt.Errorf("%s: %w: %w", what, ErrElementNotFound, err)
		}
		return nil, fmt.Errorf("failed to locate %s: %w", what, err)
	}
	return loc, nil
}

func navigationError(url string, err error) error {
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%s: %w: %w", url, ErrNavigationTimeout, err)
	}
	return fmt.Errorf("failed to open %s: %w", url, err)
}

func actionError(err error) error {
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %w", ErrElementNotFound, err)
	}
	return err
}

func millis(d time.Duration) float64 {
	return float64(d.Milliseconds())
}
