// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// New builds the diagnostic logger. Records are rendered by pterm's slog handler
// so they share styling with the rest of the CLI output.
func New(level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	pl := pterm.DefaultLogger.
		WithLevel(ParseLevel(level)).
		WithWriter(w)
	return slog.New(pterm.NewSlogHandler(pl))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a config level name to a pterm log level. Unknown names fall back to info.
func ParseLevel(level string) pterm.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return pterm.LogLevelTrace
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	default:
		return pterm.LogLevelInfo
	}
}
