package app

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

//nolint:gochecknoglobals // Immutable palette shared by the console output.
var (
	colorInfo    = color.New(color.FgCyan)
	colorSuccess = color.New(color.FgGreen)
	colorWarning = color.New(color.FgYellow)
	colorError   = color.New(color.FgRed)
)

// isTerminal reports whether stdout is attached to a terminal.
func isTerminal() bool {
	fd := os.Stdout.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// initializeColors disables colors when the output is redirected.
func initializeColors() {
	color.NoColor = !isTerminal()
}
