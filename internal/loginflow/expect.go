package loginflow

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Expect wraps Playwright's auto-retrying assertions and reports failures as
// *AssertionError.
type Expect struct {
	assertions playwright.PlaywrightAssertions
}

// NewExpect creates assertions that retry for up to timeout.
func NewExpect(timeout time.Duration) *Expect {
	if timeout <= 0 {
		timeout = DefaultActionTimeout
	}
	return &Expect{assertions: playwright.NewPlaywrightAssertions(millis(timeout))}
}

// NewExpectWith uses the given assertions implementation.
func NewExpectWith(assertions playwright.PlaywrightAssertions) *Expect {
	return &Expect{assertions: assertions}
}

// Visible expects loc to be visible.
func (e *Expect) Visible(what string, loc playwright.Locator) error {
	return wrap(what+" to be visible", e.assertions.Locator(loc).ToBeVisible())
}

// NotVisible expects loc to be hidden or detached.
func (e *Expect) NotVisible(what string, loc playwright.Locator) error {
	return wrap(what+" not to be visible", e.assertions.Locator(loc).Not().ToBeVisible())
}

// Attribute expects loc to carry attribute name with exactly value.
func (e *Expect) Attribute(what string, loc playwright.Locator, name, value string) error {
	return wrap(fmt.Sprintf("%s to have %s=%q", what, name, value), e.assertions.Locator(loc).ToHaveAttribute(name, value))
}

// URL expects the page to be at url.
func (e *Expect) URL(page playwright.Page, url string) error {
	return wrap("page URL "+url, e.assertions.Page(page).ToHaveURL(url))
}

// Outcome expects got to equal want.
func (e *Expect) Outcome(got, want Outcome) error {
	if got != want {
		return &AssertionError{
			Expectation: fmt.Sprintf("outcome %s", want),
			Err:         fmt.Errorf("got %s", got),
		}
	}
	return nil
}

// State expects the verifier's page to be in state want right now.
func (e *Expect) State(v *Verifier, want State) error {
	got, err := v.CurrentState()
	if err != nil {
		return err
	}
	if got != want {
		return &AssertionError{
			Expectation: fmt.Sprintf("state %s", want),
			Err:         fmt.Errorf("got %s", got),
		}
	}
	return nil
}

func wrap(expectation string, err error) error {
	if err == nil {
		return nil
	}
	return &AssertionError{Expectation: expectation, Err: err}
}
