// Package cliio renders command output in either human or structured
// JSON form. Commands never print directly; everything user-visible
// funnels through a Formatter so --json and --quiet behave uniformly.
package cliio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Formatter writes command output. In JSON mode every message becomes a
// one-line structured object and decorative text is suppressed.
type Formatter struct {
	// JSON switches to structured output
	JSON bool
	// Quiet suppresses informational output
	Quiet bool

	out     io.Writer
	errOut  io.Writer
	success *color.Color
	info    *color.Color
	warning *color.Color
	errc    *color.Color
	colored bool
}

// New creates a Formatter writing to stdout/stderr
func New(jsonOut, colorEnabled, quiet bool) *Formatter {
	return NewWithWriters(os.Stdout, os.Stderr, jsonOut, colorEnabled, quiet)
}

// NewWithWriters creates a Formatter with explicit writers (tests)
func NewWithWriters(out, errOut io.Writer, jsonOut, colorEnabled, quiet bool) *Formatter {
	return &Formatter{
		JSON:    jsonOut,
		Quiet:   quiet,
		out:     out,
		errOut:  errOut,
		success: color.New(color.FgGreen, color.Bold),
		info:    color.New(color.FgBlue, color.Bold),
		warning: color.New(color.FgYellow, color.Bold),
		errc:    color.New(color.FgRed, color.Bold),
		colored: colorEnabled,
	}
}

type statusLine struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (f *Formatter) line(w io.Writer, c *color.Color, status, prefix, msg string) {
	if f.Quiet {
		return
	}
	if f.JSON {
		enc, _ := json.Marshal(statusLine{Status: status, Message: msg})
		fmt.Fprintln(w, string(enc))
		return
	}
	if f.colored {
		fmt.Fprintf(w, "%s %s\n", c.Sprint(prefix), msg)
	} else {
		fmt.Fprintf(w, "%s %s\n", prefix, msg)
	}
}

// Success reports a completed operation
func (f *Formatter) Success(msg string) {
	f.line(f.out, f.success, "success", "SUCCESS:", msg)
}

// Info reports progress or context
func (f *Formatter) Info(msg string) {
	f.line(f.out, f.info, "info", "INFO:", msg)
}

// Warning reports a non-fatal problem
func (f *Formatter) Warning(msg string) {
	f.line(f.out, f.warning, "warning", "WARNING:", msg)
}

// Error reports a failure. Not silenced by Quiet; errors always surface.
func (f *Formatter) Error(msg string) {
	if f.JSON {
		enc, _ := json.Marshal(statusLine{Status: "error", Message: msg})
		fmt.Fprintln(f.errOut, string(enc))
		return
	}
	if f.colored {
		fmt.Fprintf(f.errOut, "%s %s\n", f.errc.Sprint("ERROR:"), msg)
	} else {
		fmt.Fprintf(f.errOut, "ERROR: %s\n", msg)
	}
}

// ErrorObject emits a structured error with its taxonomy tag in JSON
// mode, or a plain one-line error in human mode.
func (f *Formatter) ErrorObject(kind, msg string) {
	if f.JSON {
		enc, _ := json.Marshal(struct {
			Status string `json:"status"`
			Error  struct {
				Kind    string `json:"kind"`
				Message string `json:"message"`
			} `json:"error"`
		}{
			Status: "error",
			Error: struct {
				Kind    string `json:"kind"`
				Message string `json:"message"`
			}{Kind: kind, Message: msg},
		})
		fmt.Fprintln(f.errOut, string(enc))
		return
	}
	f.Error(msg)
}

// Emit prints data as indented JSON regardless of mode. Used for
// payloads the user asked for (status objects, config listings).
func (f *Formatter) Emit(data any) error {
	if f.Quiet {
		return nil
	}
	enc, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(f.out, string(enc))
	return nil
}

// Plain prints an unadorned line in human mode (tables, listings) and
// nothing in JSON mode, where Emit carries the payload instead.
func (f *Formatter) Plain(msg string) {
	if f.Quiet || f.JSON {
		return
	}
	fmt.Fprintln(f.out, msg)
}
