// Package prompt reads single-line answers from a terminal.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrCancelled is returned when input ends or the context is cancelled
// before a line is read.
var ErrCancelled = errors.New("input cancelled")

type lineResult struct {
	line string
	err  error
}

// Prompter writes labels to out and reads answers from in.
// It is not safe for concurrent use.
type Prompter struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader

	// pending holds a read that outlived a cancelled Ask so the next
	// call picks up its line instead of racing a second reader.
	pending chan lineResult
}

// New creates a Prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:     in,
		out:    out,
		reader: bufio.NewReader(in),
	}
}

// Ask prints label and returns the next input line with surrounding
// whitespace removed.
func (p *Prompter) Ask(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", ErrCancelled
	}

	fmt.Fprint(p.out, label)

	line, err := p.readLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// AskSecret is Ask without echo when in is a terminal. Other readers fall
// back to a plain line read.
func (p *Prompter) AskSecret(ctx context.Context, label string) (string, error) {
	fd, ok := p.terminalFd()
	if !ok {
		return p.Ask(ctx, label)
	}
	if err := ctx.Err(); err != nil {
		return "", ErrCancelled
	}

	fmt.Fprint(p.out, label)

	state, err := term.GetState(fd)
	if err != nil {
		return "", fmt.Errorf("get terminal state: %w", err)
	}

	ch := make(chan lineResult, 1)
	go func() {
		b, err := term.ReadPassword(fd)
		ch <- lineResult{line: string(b), err: err}
	}()

	select {
	case <-ctx.Done():
		_ = term.Restore(fd, state)
		fmt.Fprintln(p.out)
		return "", ErrCancelled
	case res := <-ch:
		fmt.Fprintln(p.out)
		if res.err != nil {
			if errors.Is(res.err, io.EOF) {
				return "", ErrCancelled
			}
			return "", fmt.Errorf("read secret: %w", res.err)
		}
		return strings.TrimSpace(res.line), nil
	}
}

func (p *Prompter) terminalFd() (int, bool) {
	// buffered or in-flight input belongs to the line reader
	if p.pending != nil || p.reader.Buffered() > 0 {
		return 0, false
	}
	f, ok := p.in.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}

func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if p.pending == nil {
		ch := make(chan lineResult, 1)
		p.pending = ch
		go func() {
			line, err := p.reader.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}()
	}

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ErrCancelled
	case res := <-p.pending:
		p.pending = nil
		if res.err == nil {
			return res.line, nil
		}
		if errors.Is(res.err, io.EOF) {
			if res.line != "" {
				return res.line, nil
			}
			return "", ErrCancelled
		}
		return "", fmt.Errorf("read input: %w", res.err)
	}
}
