package loginflow

import (
	"fmt"
	"os"

	"github.com/playwright-community/playwright-go"
)

// fakePage implements the handful of playwright.Page methods the verifier
// uses. Any other call panics through the nil embedded interface.
type fakePage struct {
	playwright.Page

	url      string
	gotoErr  error
	loadErr  error
	locators map[string]*fakeLocator
	actions  []string
}

func newFakePage() *fakePage {
	return &fakePage{locators: make(map[string]*fakeLocator)}
}

// withLoginForm registers the three controls of the login form.
func (p *fakePage) withLoginForm() *fakePage {
	p.add("placeholder:Username", &fakeLocator{visible: true})
	p.add("placeholder:Password", &fakeLocator{visible: true})
	p.add("role:button:Login", &fakeLocator{visible: true})
	return p
}

// showError puts a visible banner with msg on the page.
func (p *fakePage) showError(msg string) {
	p.add(`css:[data-test="error"]`, &fakeLocator{visible: true, text: msg})
	p.add("text:"+msg, &fakeLocator{visible: true, text: msg})
	p.add("css:.error-button", &fakeLocator{visible: true, onClick: p.clearError})
}

func (p *fakePage) clearError() {
	for key := range p.locators {
		if key == `css:[data-test="error"]` || key == "css:.error-button" || len(key) > 5 && key[:5] == "text:" {
			delete(p.locators, key)
		}
	}
}

func (p *fakePage) add(key string, l *fakeLocator) *fakeLocator {
	l.key = key
	l.page = p
	p.locators[key] = l
	return l
}

func (p *fakePage) locator(key string) playwright.Locator {
	if l, ok := p.locators[key]; ok {
		return l
	}
	return &fakeLocator{key: key, page: p, waitErr: playwright.ErrTimeout}
}

func (p *fakePage) Goto(url string, _ ...playwright.PageGotoOptions) (playwright.Response, error) {
	p.actions = append(p.actions, "goto "+url)
	if p.gotoErr != nil {
		return nil, p.gotoErr
	}
	p.url = url
	return nil, nil
}

func (p *fakePage) WaitForLoadState(_ ...playwright.PageWaitForLoadStateOptions) error {
	return p.loadErr
}

func (p *fakePage) URL() string {
	return p.url
}

func (p *fakePage) GetByPlaceholder(text interface{}, _ ...playwright.PageGetByPlaceholderOptions) playwright.Locator {
	return p.locator(fmt.Sprintf("placeholder:%v", text))
}

func (p *fakePage) GetByRole(role playwright.AriaRole, options ...playwright.PageGetByRoleOptions) playwright.Locator {
	name := ""
	if len(options) > 0 && options[0].Name != nil {
		name = fmt.Sprintf("%v", options[0].Name)
	}
	return p.locator(fmt.Sprintf("role:%s:%s", role, name))
}

func (p *fakePage) GetByText(text interface{}, _ ...playwright.PageGetByTextOptions) playwright.Locator {
	return p.locator(fmt.Sprintf("text:%v", text))
}

func (p *fakePage) Locator(selector string, _ ...playwright.PageLocatorOptions) playwright.Locator {
	return p.locator("css:" + selector)
}

func (p *fakePage) Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error) {
	data := []byte("png")
	if len(options) > 0 && options[0].Path != nil {
		if err := os.WriteFile(*options[0].Path, data, 0o644); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// pwLocator names the embedded interface so it does not shadow its own
// Locator method.
type pwLocator = playwright.Locator

// fakeLocator records fills and clicks on its page.
type fakeLocator struct {
	pwLocator

	key      string
	page     *fakePage
	waitErr  error
	fillErr  error
	clickErr error
	visible  bool
	text     string
	onClick  func()
}

func (l *fakeLocator) WaitFor(_ ...playwright.LocatorWaitForOptions) error {
	return l.waitErr
}

func (l *fakeLocator) Fill(value string, _ ...playwright.LocatorFillOptions) error {
	l.page.actions = append(l.page.actions, fmt.Sprintf("fill %s=%q", l.key, value))
	return l.fillErr
}

func (l *fakeLocator) Click(_ ...playwright.LocatorClickOptions) error {
	l.page.actions = append(l.page.actions, "click "+l.key)
	if l.clickErr != nil {
		return l.clickErr
	}
	if l.onClick != nil {
		l.onClick()
	}
	return nil
}

func (l *fakeLocator) IsVisible(_ ...playwright.LocatorIsVisibleOptions) (bool, error) {
	if _, ok := l.page.locators[l.key]; !ok {
		return false, nil
	}
	return l.visible, nil
}

func (l *fakeLocator) TextContent(_ ...playwright.LocatorTextContentOptions) (string, error) {
	return l.text, nil
}

// fakeAssertions answers every expectation with err.
type fakeAssertions struct {
	playwright.PlaywrightAssertions

	err   error
	calls []string
}

func (a *fakeAssertions) Locator(_ playwright.Locator) playwright.LocatorAssertions {
	return &fakeLocatorAssertions{a: a}
}

func (a *fakeAssertions) Page(_ playwright.Page) playwright.PageAssertions {
	return &fakePageAssertions{a: a}
}

type fakeLocatorAssertions struct {
	playwright.LocatorAssertions

	a       *fakeAssertions
	negated bool
}

func (f *fakeLocatorAssertions) Not() playwright.LocatorAssertions {
	return &fakeLocatorAssertions{a: f.a, negated: !f.negated}
}

func (f *fakeLocatorAssertions) ToBeVisible(_ ...playwright.LocatorAssertionsToBeVisibleOptions) error {
	if f.negated {
		f.a.calls = append(f.a.calls, "not visible")
	} else {
		f.a.calls = append(f.a.calls, "visible")
	}
	return f.a.err
}

func (f *fakeLocatorAssertions) ToHaveAttribute(name string, value interface{}, _ ...playwright.LocatorAssertionsToHaveAttributeOptions) error {
	f.a.calls = append(f.a.calls, fmt.Sprintf("attribute %s=%v", name, value))
	return f.a.err
}

type fakePageAssertions struct {
	playwright.PageAssertions

	a *fakeAssertions
}

func (f *fakePageAssertions) ToHaveURL(url interface{}, _ ...playwright.PageAssertionsToHaveURLOptions) error {
	f.a.calls = append(f.a.calls, fmt.Sprintf("url %v", url))
	return f.a.err
}
