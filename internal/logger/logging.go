// Package logger configures charmbracelet/log for xwgrid. Every logger writes
// to stderr; stdout belongs to the msgpack stream in server mode.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Setup sets the global level. Debug mode also stamps each line with a time.
func Setup(debug bool) {
	log.SetOutput(os.Stderr)
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		return
	}
	log.SetLevel(log.WarnLevel)
	log.SetReportTimestamp(false)
}

// New creates a prefixed logger for a long-lived component. It copies the
// global level at creation time.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportTimestamp: log.GetLevel() <= log.DebugLevel,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// Plain creates an info level logger without timestamps, for banners and
// startup summaries that should show regardless of the global level.
func Plain(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:    prefix,
		Level:     log.InfoLevel,
		Formatter: log.TextFormatter,
	})
}
