// Package ui provides terminal UI helpers for snm: colored messages on
// stderr, confirmation prompts and a progress spinner.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	// Colors for different message types
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan)
	Muted   = color.New(color.FgHiBlack)

	// Colors for listings
	Version = color.New(color.FgWhite, color.Bold)
	Default = color.New(color.FgGreen, color.Bold)
	LTS     = color.New(color.FgCyan)
)

// Symbols for status indicators
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "!"
	SymbolArrow   = "→"
)

// Messages is where status messages go. stdout belongs to proxied tools.
var Messages io.Writer = os.Stderr

// Init disables colors when noColor is set or NO_COLOR is present.
func Init(noColor bool) {
	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
}

// SuccessMsg prints a success message.
func SuccessMsg(format string, args ...any) {
	_, _ = Success.Fprintf(Messages, SymbolSuccess+" "+format+"\n", args...)
}

// ErrorMsg prints an error message.
func ErrorMsg(format string, args ...any) {
	_, _ = Error.Fprintf(Messages, SymbolError+" "+format+"\n", args...)
}

// WarningMsg prints a warning message.
func WarningMsg(format string, args ...any) {
	_, _ = Warning.Fprintf(Messages, SymbolWarning+" "+format+"\n", args...)
}

// InfoMsg prints an info message.
func InfoMsg(format string, args ...any) {
	_, _ = Info.Fprintf(Messages, SymbolArrow+" "+format+"\n", args...)
}

// Println prints a plain line to w.
func Println(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}
