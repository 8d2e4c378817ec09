package clilog

import (
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	infoColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	hintColor    = color.New(color.FgMagenta)
)

var (
	mu    sync.Mutex
	quiet bool
)

// InitColor enables or disables ANSI color output process-wide. Callers
// typically wire this to the --no-color flag or output.color config key.
func InitColor(enabled bool) {
	color.NoColor = !enabled
}

// SetQuiet suppresses Info, Success, Warning, and Hint output. Error
// output is never suppressed.
func SetQuiet(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

func isQuiet() bool {
	mu.Lock()
	defer mu.Unlock()
	return quiet
}

// PrintInfo writes an informational line to stdout.
func PrintInfo(format string, args ...interface{}) {
	if isQuiet() {
		return
	}
	_, _ = infoColor.Fprintf(os.Stdout, format, args...)
}

// PrintSuccess writes a success line to stdout.
func PrintSuccess(format string, args ...interface{}) {
	if isQuiet() {
		return
	}
	_, _ = successColor.Fprintf(os.Stdout, format, args...)
}

// PrintWarning writes a warning line to stderr.
func PrintWarning(format string, args ...interface{}) {
	if isQuiet() {
		return
	}
	_, _ = warningColor.Fprintf(os.Stderr, format, args...)
}

// PrintHint writes a suggestion line to stdout.
func PrintHint(format string, args ...interface{}) {
	if isQuiet() {
		return
	}
	_, _ = hintColor.Fprintf(os.Stdout, format, args...)
}

// PrintError writes an error line to stderr. Errors print even in quiet
// mode.
func PrintError(format string, args ...interface{}) {
	_, _ = errorColor.Fprintf(os.Stderr, format, args...)
}
