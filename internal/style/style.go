// Package style provides TTY-aware colored console output, the same
// roles the original tool's ag_color_printf/ag_error/ag_warn filled,
// built on fatih/color so color auto-disables when stdout/stderr isn't
// a terminal (piped output, CI logs, etc.) without this package having
// to probe isatty itself.
package style

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	bold   = color.New(color.Bold)
	red    = color.New(color.FgRed)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	dim    = color.New(color.Faint)
)

// Bold writes bold-styled text to w; no newline is added.
func Bold(w io.Writer, format string, args ...any) {
	bold.Fprintf(w, format, args...)
}

// Green writes green-styled text to w (used for additions); no newline
// is added.
func Green(w io.Writer, format string, args ...any) {
	green.Fprintf(w, format, args...)
}

// Red writes red-styled text to w (used for removals); no newline is
// added.
func Red(w io.Writer, format string, args ...any) {
	red.Fprintf(w, format, args...)
}

// Yellow writes yellow-styled text to w (used for modifications); no
// newline is added.
func Yellow(w io.Writer, format string, args ...any) {
	yellow.Fprintf(w, format, args...)
}

// Cyan writes cyan-styled text to w; no newline is added.
func Cyan(w io.Writer, format string, args ...any) {
	cyan.Fprintf(w, format, args...)
}

// Dim writes dimmed text to w; no newline is added.
func Dim(w io.Writer, format string, args ...any) {
	dim.Fprintf(w, format, args...)
}

// Errorf prints a "error: "-prefixed, red-when-tty message to stderr,
// terminated with a newline.
func Errorf(format string, args ...any) {
	red.Fprint(os.Stderr, "error: ")
	fmt.Fprintf(os.Stderr, format, args...)
	fmt.Fprintln(os.Stderr)
}

// Warnf prints a "warning: "-prefixed, yellow-when-tty message to
// stderr, terminated with a newline.
func Warnf(format string, args ...any) {
	yellow.Fprint(os.Stderr, "warning: ")
	fmt.Fprintf(os.Stderr, format, args...)
	fmt.Fprintln(os.Stderr)
}
