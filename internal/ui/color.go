// Package ui provides terminal output helpers for rightscript_sync.
package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color functions for styled output.
var (
	Success = color.New(color.FgGreen).SprintFunc()
	Warning = color.New(color.FgYellow).SprintFunc()
	Error   = color.New(color.FgRed).SprintFunc()
	Dim     = color.New(color.Faint).SprintFunc()
)

// Status symbols.
const (
	SymbolSuccess = "✓"
	SymbolWarning = "⚠"
	SymbolError   = "✗"
	SymbolSkipped = "-"
)

// StatusSuccess returns a green checkmark followed by msg.
func StatusSuccess(msg string) string {
	return Success(SymbolSuccess) + " " + msg
}

// StatusWarning returns a yellow warning sign followed by msg.
func StatusWarning(msg string) string {
	return Warning(SymbolWarning) + " " + msg
}

// StatusError returns a red X followed by msg.
func StatusError(msg string) string {
	return Error(SymbolError) + " " + msg
}

// StatusSkipped returns a dimmed skip mark followed by msg.
func StatusSkipped(msg string) string {
	return Dim(SymbolSkipped) + " " + msg
}

// ConfigureColors turns color off when disabled is set or out is not a terminal.
func ConfigureColors(disabled bool, out *os.File) {
	if disabled || out == nil || !term.IsTerminal(int(out.Fd())) {
		color.NoColor = true
		return
	}
	color.NoColor = false
}
