// Package render provides user-facing output: status lines and listings.
package render

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Emitter writes one-line status messages (info, success, warning, error).
type Emitter struct {
	out     io.Writer
	success *color.Color
	warning *color.Color
	failure *color.Color
}

// NewEmitter creates an Emitter that writes to out.
func NewEmitter(out io.Writer, noColor bool) *Emitter {
	e := &Emitter{
		out:     out,
		success: color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed, color.Bold),
	}
	if noColor {
		e.success.DisableColor()
		e.warning.DisableColor()
		e.failure.DisableColor()
	}
	return e
}

// Stdout returns an Emitter that writes to os.Stdout.
func Stdout(noColor bool) *Emitter {
	return NewEmitter(os.Stdout, noColor)
}

// Info writes a plain message.
func (e *Emitter) Info(format string, args ...any) {
	fmt.Fprintf(e.out, format+"\n", args...)
}

// Success writes a green message.
func (e *Emitter) Success(format string, args ...any) {
	fmt.Fprintln(e.out, e.success.Sprintf(format, args...))
}

// Warning writes a yellow message.
func (e *Emitter) Warning(format string, args ...any) {
	fmt.Fprintln(e.out, e.warning.Sprintf(format, args...))
}

// Error writes a red message.
func (e *Emitter) Error(format string, args ...any) {
	fmt.Fprintln(e.out, e.failure.Sprintf(format, args...))
}
