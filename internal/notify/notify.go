// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package notify shows short user-facing messages, the terminal counterpart of a toast.
package notify

import (
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// Notifier surfaces one-line success or error messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Console prints notifications with pterm prefix printers.
type Console struct {
	success pterm.PrefixPrinter
	failure pterm.PrefixPrinter
}

var _ Notifier = (*Console)(nil)

// NewConsole returns a Console writing to w, or to stderr when w is nil.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stderr
	}
	return &Console{
		success: *pterm.Success.WithWriter(w),
		failure: *pterm.Error.WithWriter(w),
	}
}

func (c *Console) Success(msg string) {
	c.success.Println(strings.TrimSpace(msg))
}

func (c *Console) Error(msg string) {
	c.failure.Println(strings.TrimSpace(msg))
}

// Recorder keeps notifications in memory. Useful for tests and for commands that
// render messages themselves.
type Recorder struct {
	Successes []string
	Errors    []string
}

var _ Notifier = (*Recorder)(nil)

func (r *Recorder) Success(msg string) { r.Successes = append(r.Successes, msg) }
func (r *Recorder) Error(msg string)   { r.Errors = append(r.Errors, msg) }
