package loginflow

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/playwright-community/playwright-go"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ScreenshotName derives the after-scenario screenshot file name from a scenario title.
func ScreenshotName(title string) string {
	return "after-" + whitespaceRun.ReplaceAllString(title, "_") + ".png"
}

// Capture writes screenshots under a directory.
type Capture struct {
	dir string
}

// NewCapture creates a Capture rooted at dir.
func NewCapture(dir string) *Capture {
	return &Capture{dir: dir}
}

// Dir returns the screenshot directory.
func (c *Capture) Dir() string {
	return c.dir
}

// Screenshot saves the page's viewport as name and returns the written path.
func (c *Capture) Screenshot(page playwright.Page, name string) (string, error) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	path := filepath.Join(c.dir, name)
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(path),
	}); err != nil {
		return "", fmt.Errorf("failed to capture %s: %w", name, err)
	}
	return path, nil
}
