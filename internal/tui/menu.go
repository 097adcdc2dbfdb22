package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/joss/urp-models/internal/logging"
)

// Menu shows the provider menu on a terminal.
type Menu struct {
	in     io.Reader
	out    io.Writer
	signal func(bool)
}

// MenuOption configures a Menu.
type MenuOption func(*Menu)

// WithInput sets the reader keys are read from.
func WithInput(r io.Reader) MenuOption {
	return func(m *Menu) { m.in = r }
}

// WithOutput sets the writer the menu is drawn on.
func WithOutput(w io.Writer) MenuOption {
	return func(m *Menu) { m.out = w }
}

// WithInputSignal replaces the awaiting-input notifier.
func WithInputSignal(fn func(bool)) MenuOption {
	return func(m *Menu) { m.signal = fn }
}

// NewMenu creates a menu bound to stdin and stdout unless overridden.
func NewMenu(opts ...MenuOption) *Menu {
	m := &Menu{
		in:     os.Stdin,
		out:    os.Stdout,
		signal: SetAwaitingInput,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Show runs the menu until the user confirms or cancels. The alternate
// screen is always left before Show returns. An interrupt, a cancelled
// context or the end of a non-terminal input is reported as
// SelectionCancelled with a nil error.
func (m *Menu) Show(ctx context.Context) (Selection, error) {
	log := logging.FromContext(ctx, "menu")
	start := time.Now()

	screen := EnterAltScreen(m.out, m.signal)
	defer screen.Release()

	in := m.in
	var closed *eofReader
	if !isTerminal(in) {
		closed = &eofReader{r: in}
		in = closed
	}

	p := tea.NewProgram(NewModel(),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(m.out),
	)
	if closed != nil {
		closed.onEOF = func() { p.Send(inputClosedMsg{}) }
	}

	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrInterrupted) || ctx.Err() != nil {
			log.Info("menu_interrupted", nil)
			return SelectionCancelled, nil
		}
		log.Error("menu_failed", nil, err)
		return SelectionCancelled, fmt.Errorf("run menu: %w", err)
	}

	sel := SelectionCancelled
	if fm, ok := final.(Model); ok {
		sel = fm.Selection()
	}

	log.TimedEvent("menu_closed", start, map[string]interface{}{
		"selection": sel.String(),
	})
	return sel, nil
}

// inputClosedMsg reports that a non-terminal input reached EOF.
type inputClosedMsg struct{}

// eofReader calls onEOF once when the wrapped reader is exhausted.
type eofReader struct {
	r     io.Reader
	onEOF func()
	once  sync.Once
}

func (e *eofReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if errors.Is(err, io.EOF) && e.onEOF != nil {
		e.once.Do(e.onEOF)
	}
	return n, err
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
