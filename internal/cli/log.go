// Package cli implements the timeruler command-line interface.
//
// Commands generate activity timelines, compute and render the magnified
// ruler, browse it interactively in the terminal, and serve it over HTTP.
// The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - generate: Produce a synthetic day-by-day timeline
//   - layout: Compute bar heights, offsets and year markers as JSON
//   - render: Draw the ruler as SVG, JSON or text
//   - years: Print the year markers and their fading
//   - browse: Explore the ruler in an interactive terminal view
//   - serve: Serve the ruler and interactive sessions over HTTP
//   - config, cache: Manage the config file and the render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Generated timeline (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
