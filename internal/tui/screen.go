package tui

import (
	"io"
	"sync"
	"sync/atomic"
)

const (
	enterAltScreen = "\x1b[?1049h\x1b[2J\x1b[H"
	exitAltScreen  = "\x1b[?1049l"
)

var awaitingInput atomic.Bool

// SetAwaitingInput records whether the terminal is currently owned by an
// interactive screen. Background printers check AwaitingInput before writing.
func SetAwaitingInput(v bool) {
	awaitingInput.Store(v)
}

// AwaitingInput reports whether an interactive screen is active.
func AwaitingInput() bool {
	return awaitingInput.Load()
}

// Screen is an active alternate-screen session. Release must be called on
// every exit path; it is safe to call more than once.
type Screen struct {
	out    io.Writer
	signal func(bool)
	once   sync.Once
}

// EnterAltScreen switches out to the alternate screen buffer, clears it and
// raises the awaiting-input signal. A nil signal uses SetAwaitingInput.
func EnterAltScreen(out io.Writer, signal func(bool)) *Screen {
	if signal == nil {
		signal = SetAwaitingInput
	}
	s := &Screen{out: out, signal: signal}
	io.WriteString(out, enterAltScreen)
	signal(true)
	return s
}

// Release leaves the alternate screen and clears the awaiting-input signal.
func (s *Screen) Release() {
	s.once.Do(func() {
		io.WriteString(s.out, exitAltScreen)
		s.signal(false)
	})
}
