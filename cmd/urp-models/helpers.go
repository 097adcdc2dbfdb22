package main

import (
	"errors"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/joss/urp-models/internal/render"
)

// errNotSaved signals a cancelled flow. The flow has already told the
// user, so it maps to exit status 1 with no message.
var errNotSaved = errors.New("no model saved")

// exitCode maps a command error to a process exit status, printing it
// when the user has not already seen it.
func exitCode(emit *render.Emitter, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errNotSaved):
		return 1
	default:
		emit.Error("Error: %v", err)
		return 1
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
