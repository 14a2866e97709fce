// Package cli implements the pcoview command-line interface.
//
// # Commands
//
//   - render: draw a .pco file as SVG, PNG, PDF, JSON or a topology diagram
//   - inspect: list decoded codes and the connection graph
//   - view: open the interactive terminal viewer
//   - serve: run the HTTP API
//   - cache: manage the artifact cache
//   - exports: show the export history
//
// # Configuration
//
// Every command reads the TOML config (see package config) before applying
// its flags. --config selects a file explicitly.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// traces pipeline stages and cache lookups.
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

// progress tracks the start time of an operation and logs completion with
// elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered site.pco (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
