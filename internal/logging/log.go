// Package logging builds the structured loggers used by the CLI, the runner and the fixture site.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Options configures a logger.
type Options struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string
	// Output defaults to os.Stderr
	Output io.Writer
	// Prefix is the component name prefix
	Prefix          string
	ReportTimestamp bool
}

// DefaultOptions reads LOGINCHECK_LOG_LEVEL from getenv.
func DefaultOptions(getenv func(string) string) Options {
	level := getenv("LOGINCHECK_LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	return Options{
		Level:           level,
		Output:          os.Stderr,
		ReportTimestamp: true,
	}
}

// ParseLevel converts a string level to log.Level, falling back to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// New creates a logger with the given options.
func New(opts Options) *log.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	return log.NewWithOptions(out, log.Options{
		Level:           ParseLevel(opts.Level),
		Prefix:          opts.Prefix,
		TimeFormat:      time.TimeOnly,
		ReportTimestamp: opts.ReportTimestamp,
	})
}

// Install makes logger the package-level default so handlers logging through
// the charmbracelet/log top-level functions share its level and output.
func Install(logger *log.Logger) {
	log.SetDefault(logger)
}
